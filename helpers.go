package ajx

import "net/http"

// IsAJAX returns true if the request originated from the client library
// (or any XMLHttpRequest-based caller).
//
// Use this inside RequestHandler.Matches implementations to cheaply rule
// out plain page loads before inspecting parameters:
//
//	func (h *CallHandler) Matches(r *http.Request) bool {
//	    return ajx.IsAJAX(r) && r.PostFormValue("ajxcall") != ""
//	}
func IsAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// detectURI is the default URIDetector: scheme, host, and request path of
// the incoming request, query string included.
func detectURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
