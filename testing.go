package ajx

import "net/http"

// StubContributor is a canned ResponseContributor for tests. Each fragment
// accessor records its invocation count, so tests can assert the generator's
// single-pass guarantee.
type StubContributor struct {
	PluginName string
	CSSCode    string
	JSCode     string
	ScriptCode string
	ReadyCode  string
	HashCode   string
	Inline     bool
	ReadyOff   bool

	Calls map[string]int
}

func (s *StubContributor) count(accessor string) {
	if s.Calls == nil {
		s.Calls = make(map[string]int)
	}
	s.Calls[accessor]++
}

func (s *StubContributor) Name() string { return s.PluginName }

func (s *StubContributor) CSS() string {
	s.count("css")
	return s.CSSCode
}

func (s *StubContributor) JS() string {
	s.count("js")
	return s.JSCode
}

func (s *StubContributor) Script() string {
	s.count("script")
	return s.ScriptCode
}

func (s *StubContributor) ReadyScript() string {
	s.count("ready")
	return s.ReadyCode
}

func (s *StubContributor) ReadyInline() bool { return s.Inline }

func (s *StubContributor) ReadyEnabled() bool { return !s.ReadyOff }

func (s *StubContributor) Hash() string {
	s.count("hash")
	return s.HashCode
}

// StubHandler is a canned RequestHandler for dispatcher tests. Match
// decides recognition (nil never matches); Handled records every request
// routed to it, in order.
type StubHandler struct {
	PluginName string
	Match      func(r *http.Request) bool
	HandleFunc func(w http.ResponseWriter, r *http.Request) error

	Handled []*http.Request
}

func (s *StubHandler) Name() string { return s.PluginName }

func (s *StubHandler) Matches(r *http.Request) bool {
	return s.Match != nil && s.Match(r)
}

func (s *StubHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	s.Handled = append(s.Handled, r)
	if s.HandleFunc != nil {
		return s.HandleFunc(w, r)
	}
	return nil
}

// StubUploadHandler is a StubHandler that also acts as the designated
// file-upload pre-processor. Uploads records each ProcessUploads call;
// UploadFunc, when set, runs after recording and its result wins over
// UploadErr.
type StubUploadHandler struct {
	StubHandler
	UploadErr  error
	UploadFunc func(r *http.Request) error
	Uploads    []*http.Request
}

func (s *StubUploadHandler) ProcessUploads(r *http.Request) error {
	s.Uploads = append(s.Uploads, r)
	if s.UploadFunc != nil {
		return s.UploadFunc(r)
	}
	return s.UploadErr
}
