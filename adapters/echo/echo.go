// Package ajxecho provides Echo framework integration for ajx.
//
// Mount the dispatcher on an Echo instance:
//
//	e := echo.New()
//	ajxecho.Mount(e, app)
//
// and embed the bootstrap payload in a page template:
//
//	ajxecho.Script(app, c.Request(), true, true)
package ajxecho

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/ajxlib/ajx"
	"github.com/labstack/echo/v4"
)

// Option configures Mount.
type Option func(*options)

type options struct {
	path string
}

// WithPath sets the URL path the dispatcher answers on. Defaults to "/ajx".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// Mount wires the App's request dispatcher into an Echo instance. Requests
// no registered handler recognizes get a 404; handler errors surface
// through Echo's error handling.
func Mount(e *echo.Echo, app *ajx.App, opts ...Option) {
	o := options{path: "/ajx"}
	for _, opt := range opts {
		opt(&o)
	}
	e.Any(o.path, handler(app))
	e.Any(o.path+"/*", handler(app))
}

func handler(app *ajx.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		if !app.CanDispatch(r) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return app.Dispatch(c.Response(), r)
	}
}

// Script returns a templ component embedding the App's bootstrap payload,
// for composition into templ-based page layouts.
func Script(app *ajx.App, r *http.Request, includeJS, includeCSS bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		markup, err := app.Script(r, includeJS, includeCSS)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, markup)
		return err
	})
}
