package ajx

import "errors"

// Sentinel errors for registration, dispatch, and export operations.
var (
	ErrInvalidPluginKind = errors.New("ajx: plugin implements no registerable capability")
	ErrNoMatchingHandler = errors.New("ajx: no request handler matches the current request")
	ErrOptionRequired    = errors.New("ajx: required option missing")
	ErrExportUnavailable = errors.New("ajx: export capability unavailable")
	ErrUnknownTemplate   = errors.New("ajx: unknown template")
)

// IsInvalidPluginKind checks if err reports a plugin with no usable capability.
func IsInvalidPluginKind(err error) bool {
	return errors.Is(err, ErrInvalidPluginKind)
}

// IsNoMatchingHandler checks if err reports a dispatch without a matching
// handler. Callers hitting this have skipped the CanDispatch probe.
func IsNoMatchingHandler(err error) bool {
	return errors.Is(err, ErrNoMatchingHandler)
}
