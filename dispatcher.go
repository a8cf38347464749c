package ajx

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Dispatcher routes incoming AJAX calls to the first request handler, in
// priority order, whose Matches predicate recognizes the request. The
// designated upload handler never matches directly; its upload processing
// runs ahead of whichever handler does.
type Dispatcher struct {
	reg *Registry
	log *slog.Logger
}

// NewDispatcher creates a dispatcher over the registry's request handlers.
func NewDispatcher(reg *Registry, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{reg: reg, log: log}
}

// CanDispatch reports whether any request handler recognizes r. False
// signals an initial page load rather than an AJAX call; it is a probe,
// never an error.
func (d *Dispatcher) CanDispatch(r *http.Request) bool {
	return d.match(r) != nil
}

// Dispatch routes r to the matching handler, running the upload handler's
// ProcessUploads step first when one is registered. Calling Dispatch when
// CanDispatch would return false is a caller error and yields
// ErrNoMatchingHandler.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) error {
	h := d.match(r)
	if h == nil {
		return ErrNoMatchingHandler
	}

	if upload, ok := d.reg.UploadHandler(); ok {
		if err := upload.(UploadProcessor).ProcessUploads(r); err != nil {
			return fmt.Errorf("ajx: process uploads: %w", err)
		}
	}

	d.log.Debug("dispatching request", "handler", h.Name(), "path", r.URL.Path)
	return h.Handle(w, r)
}

func (d *Dispatcher) match(r *http.Request) RequestHandler {
	upload, _ := d.reg.UploadHandler()
	for _, h := range d.reg.RequestHandlers() {
		if h == upload {
			continue
		}
		if h.Matches(r) {
			return h
		}
	}
	return nil
}
