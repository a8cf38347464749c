// Package ajx provides the server-side plugin and code-generation core for
// building AJAX-driven web applications in Go.
//
// ajx keeps an ordered registry of plugins that either service incoming AJAX
// calls or contribute CSS/JavaScript to the rendered page, and assembles the
// bootstrap payload that wires the client-side library to the registered
// endpoints - inlined into the page or exported to a content-addressed file
// on disk.
//
// # Core Concepts
//
// Everything revolves around an App, an explicit context object owning one
// instance each of the option store, plugin registry, code generator, and
// export cache:
//
//	app := ajx.New(ajx.WithOptions(opts))
//	app.Register(myHandler)
//	app.Register(myWidget, 500)
//
// Plugins declare capabilities through interfaces rather than runtime type
// inspection. A plugin may implement any combination of:
//   - RequestHandler: recognizes and services an incoming AJAX call
//   - ResponseContributor: emits CSS/JS fragments for the rendered page
//   - AlertProvider / ConfirmProvider: render client-side dialogs
//   - EventListener: receives events published on the App's bus
//
// Registration fails with ErrInvalidPluginKind if a plugin implements none
// of the first four.
//
// # Priorities
//
// Every plugin is slotted into a priority list at registration. Priorities
// are ordering hints, not identity: when two plugins request the same
// priority the second is shifted forward to the next free slot, and
// iteration is always in ascending effective priority regardless of
// insertion order. There is no unregistration.
//
// # Dispatch
//
// For each incoming request, handlers are scanned in priority order:
//
//	if app.CanDispatch(r) {
//	    err := app.Dispatch(w, r)
//	    ...
//	}
//
// A miss from CanDispatch means "this is an initial page load, not an AJAX
// call". Calling Dispatch without a matching handler is a caller error and
// returns ErrNoMatchingHandler. When a file-upload handler is registered its
// upload processing runs before the matched handler, so uploaded files are
// materialized before request parameters referencing them are read.
//
// # Code Generation
//
// On the initial page load the generator collects fragments from every
// contributor exactly once (later calls are no-ops) and assembles the
// payload:
//
//	markup, err := app.Script(r, true, true)
//
// When export is configured and the target directory is writable, the
// persistent script is written to a file named by the content hash
// (md5 of the library version plus every contributor's hash) and included
// by URL; otherwise the full script is inlined. Old hash-named files are
// never deleted, so previously issued URLs stay valid. Minification and a
// fixed final filename are optional layers on top; both degrade gracefully.
//
// # Design Rationale
//
// The system favors explicitness over magic:
//   - Explicit App context (no package-level singletons)
//   - Explicit capability interfaces (no reflection on plugin types)
//   - Explicit collaborators (TemplateRenderer, Minifier, URIDetector are
//     small interfaces with overridable defaults)
//   - Capability probes (CanDispatch, CanExport) return booleans and never
//     fail; genuine misconfiguration surfaces as typed errors
package ajx
