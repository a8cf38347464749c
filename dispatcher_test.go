package ajx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func matchPath(path string) func(*http.Request) bool {
	return func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, path) }
}

func TestCanDispatchWithNoHandlers(t *testing.T) {
	d := NewDispatcher(NewRegistry(nil), nil)
	r := httptest.NewRequest(http.MethodPost, "/anything", nil)

	if d.CanDispatch(r) {
		t.Error("CanDispatch() = true with zero registered handlers")
	}
}

func TestCanDispatchFirstMatchInPriorityOrder(t *testing.T) {
	reg := NewRegistry(nil)
	a := &StubHandler{PluginName: "a", Match: matchPath("/call")}
	b := &StubHandler{PluginName: "b", Match: matchPath("/call")}
	if err := reg.Register(a, 200); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(b, 100); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(reg, nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/call", nil)

	if !d.CanDispatch(r) {
		t.Fatal("CanDispatch() = false, want true")
	}
	if err := d.Dispatch(w, r); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(b.Handled) != 1 {
		t.Errorf("lower-priority handler b handled %d requests, want 1", len(b.Handled))
	}
	if len(a.Handled) != 0 {
		t.Errorf("higher-priority handler a handled %d requests, want 0", len(a.Handled))
	}
}

func TestDispatchWithoutMatchFailsLoudly(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Register(&StubHandler{PluginName: "never"}); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(reg, nil)
	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if !IsNoMatchingHandler(err) {
		t.Errorf("Dispatch() error = %v, want ErrNoMatchingHandler", err)
	}
}

func TestDispatchRunsUploadProcessingFirst(t *testing.T) {
	reg := NewRegistry(nil)

	var order []string
	up := &StubUploadHandler{
		StubHandler: StubHandler{PluginName: "upload"},
		UploadFunc: func(*http.Request) error {
			order = append(order, "upload")
			return nil
		},
	}
	target := &StubHandler{
		PluginName: "target",
		Match:      matchPath("/call"),
		HandleFunc: func(w http.ResponseWriter, r *http.Request) error {
			order = append(order, "handle")
			return nil
		},
	}
	if err := reg.Register(up, 10); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(target, 20); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(reg, nil)
	r := httptest.NewRequest(http.MethodPost, "/call", nil)
	if err := d.Dispatch(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(order) != 2 || order[0] != "upload" || order[1] != "handle" {
		t.Fatalf("execution order = %v, want [upload handle]", order)
	}
}

func TestDispatchUploadHandlerExcludedFromMatching(t *testing.T) {
	reg := NewRegistry(nil)

	// The upload handler matches everything but must never be the dispatch
	// target itself.
	up := &StubUploadHandler{StubHandler: StubHandler{
		PluginName: "upload",
		Match:      func(*http.Request) bool { return true },
	}}
	if err := reg.Register(up, 1); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(reg, nil)
	r := httptest.NewRequest(http.MethodPost, "/call", nil)

	if d.CanDispatch(r) {
		t.Error("CanDispatch() matched the upload handler")
	}
	if err := d.Dispatch(httptest.NewRecorder(), r); !IsNoMatchingHandler(err) {
		t.Errorf("Dispatch() error = %v, want ErrNoMatchingHandler", err)
	}
	if len(up.Handled) != 0 {
		t.Errorf("upload handler serviced %d requests directly", len(up.Handled))
	}
}

func TestDispatchUploadFailureStopsTargetHandler(t *testing.T) {
	reg := NewRegistry(nil)

	uploadErr := errors.New("disk full")
	up := &StubUploadHandler{
		StubHandler: StubHandler{PluginName: "upload"},
		UploadErr:   uploadErr,
	}
	target := &StubHandler{PluginName: "target", Match: matchPath("/call")}
	if err := reg.Register(up); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(target); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(reg, nil)
	err := d.Dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/call", nil))
	if !errors.Is(err, uploadErr) {
		t.Fatalf("Dispatch() error = %v, want wrapped %v", err, uploadErr)
	}
	if len(target.Handled) != 0 {
		t.Error("target handler ran despite upload failure")
	}
}
