package ajx

import (
	"context"
	"net/http"
)

// Plugin is the minimal contract shared by everything the registry accepts.
// The name is the lookup key within the plugin's category (request handlers
// and response contributors are keyed independently).
type Plugin interface {
	Name() string
}

// RequestHandler is a plugin capable of recognizing and servicing an
// incoming AJAX call. Matches must be side-effect free; it is invoked for
// both the CanDispatch probe and the Dispatch scan.
type RequestHandler interface {
	Plugin
	Matches(r *http.Request) bool
	Handle(w http.ResponseWriter, r *http.Request) error
}

// UploadProcessor marks a RequestHandler as the designated file-upload
// handler. It is excluded from the dispatch match scan; instead its
// ProcessUploads step runs before every matched handler, so uploaded files
// are materialized before request parameters referencing them are read.
// At most one upload handler is active (last registered wins).
type UploadProcessor interface {
	ProcessUploads(r *http.Request) error
}

// ResponseContributor is a plugin that contributes fragments to the
// rendered page. Fragment accessors are invoked exactly once per process
// lifetime, during the single generation pass.
//
// Script is the persistent script (eligible for file export); ReadyScript
// runs after the page has loaded. ReadyInline routes the ready script into
// the page body instead of the exported bundle, gated by ReadyEnabled.
// Hash is a stable fragment folded into the export cache key; contributors
// with no exportable content may return "".
//
// Embed Contributor to pick up no-op defaults and override selectively.
type ResponseContributor interface {
	Plugin
	CSS() string
	JS() string
	Script() string
	ReadyScript() string
	ReadyInline() bool
	ReadyEnabled() bool
	Hash() string
}

// AlertProvider renders the client-side script for a message dialog.
// The registry keeps a single active provider; registering another
// replaces it.
type AlertProvider interface {
	Plugin
	Alert(message string) string
}

// ConfirmProvider renders the client-side script for a confirmation dialog
// that runs script when the user accepts. Single active provider, like
// AlertProvider.
type ConfirmProvider interface {
	Plugin
	Confirm(question, script string) string
}

// EventListener is an additional capability: plugins implementing it are
// subscribed to the App's event bus at registration. It does not count as
// a registerable capability on its own.
type EventListener interface {
	Plugin
	Topics() []string
	OnEvent(ctx context.Context, e Event) error
}

// Contributor is a ResponseContributor base with no-op defaults, meant to
// be embedded:
//
//	type Toolbar struct {
//	    ajx.Contributor
//	}
//
//	func (t *Toolbar) CSS() string { return toolbarCSS }
type Contributor struct {
	PluginName string
}

func (c Contributor) Name() string        { return c.PluginName }
func (c Contributor) CSS() string         { return "" }
func (c Contributor) JS() string          { return "" }
func (c Contributor) Script() string      { return "" }
func (c Contributor) ReadyScript() string { return "" }
func (c Contributor) ReadyInline() bool   { return false }
func (c Contributor) ReadyEnabled() bool  { return true }
func (c Contributor) Hash() string        { return "" }
