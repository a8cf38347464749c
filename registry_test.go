package ajx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// nameOnly implements Plugin but no registerable capability.
type nameOnly struct{ name string }

func (p nameOnly) Name() string { return p.name }

// listenerOnly is an EventListener with no other capability.
type listenerOnly struct {
	name   string
	topics []string
	events []Event
}

func (l *listenerOnly) Name() string     { return l.name }
func (l *listenerOnly) Topics() []string { return l.topics }
func (l *listenerOnly) OnEvent(ctx context.Context, e Event) error {
	l.events = append(l.events, e)
	return nil
}

// listeningContributor is a contributor that also listens for events.
type listeningContributor struct {
	Contributor
	listenerOnly
}

func (c *listeningContributor) Name() string { return c.Contributor.PluginName }

// customAlert and customConfirm override the built-in dialog providers.
type customAlert struct{ nameOnly }

func (customAlert) Alert(message string) string { return "myAlert(" + message + ")" }

type customConfirm struct{ nameOnly }

func (customConfirm) Confirm(question, script string) string {
	return "myConfirm(" + question + "," + script + ")"
}

func TestRegisterRejectsCapabilityLessPlugin(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(nameOnly{name: "bare"})
	if !IsInvalidPluginKind(err) {
		t.Fatalf("Register(bare plugin) error = %v, want ErrInvalidPluginKind", err)
	}
	if !strings.Contains(err.Error(), "bare") {
		t.Errorf("error %q should name the offending plugin", err)
	}
	if got := reg.RequestHandlers(); len(got) != 0 {
		t.Errorf("rejected plugin leaked into priority order: %d handlers", len(got))
	}
}

func TestRegisterEventListenerAloneIsRejected(t *testing.T) {
	bus := NewBus()
	reg := NewRegistry(bus)

	err := reg.Register(&listenerOnly{name: "ears", topics: []string{"x"}})
	if !IsInvalidPluginKind(err) {
		t.Fatalf("Register(listener-only) error = %v, want ErrInvalidPluginKind", err)
	}
}

func TestRegisterRequestHandlerLastWriteWins(t *testing.T) {
	reg := NewRegistry(nil)

	first := &StubHandler{PluginName: "calls"}
	second := &StubHandler{PluginName: "calls"}

	if err := reg.Register(first); err != nil {
		t.Fatalf("Register(first) error = %v", err)
	}
	if err := reg.Register(second); err != nil {
		t.Fatalf("Register(second) error = %v", err)
	}

	got, ok := reg.RequestHandler("calls")
	if !ok {
		t.Fatal("RequestHandler(calls) not found")
	}
	if got != RequestHandler(second) {
		t.Error("RequestHandler(calls) is not the last registered plugin")
	}
}

func TestLookupMissIsNotAnError(t *testing.T) {
	reg := NewRegistry(nil)

	if _, ok := reg.RequestHandler("ghost"); ok {
		t.Error("RequestHandler(ghost) = ok on empty registry")
	}
	if _, ok := reg.ResponseContributor("ghost"); ok {
		t.Error("ResponseContributor(ghost) = ok on empty registry")
	}
}

func TestAlertConfirmDefaultsAndOverride(t *testing.T) {
	reg := NewRegistry(nil)

	if got := reg.Alert().Alert("hi"); !strings.Contains(got, `alert("hi")`) {
		t.Errorf("default Alert() = %q, want plain alert()", got)
	}
	if got := reg.Confirm().Confirm("sure?", "go();"); !strings.Contains(got, `confirm("sure?")`) || !strings.Contains(got, "go();") {
		t.Errorf("default Confirm() = %q", got)
	}

	if err := reg.Register(customAlert{nameOnly{"myalert"}}); err != nil {
		t.Fatalf("Register(customAlert) error = %v", err)
	}
	if err := reg.Register(customConfirm{nameOnly{"myconfirm"}}); err != nil {
		t.Fatalf("Register(customConfirm) error = %v", err)
	}

	if got := reg.Alert().Alert("hi"); !strings.HasPrefix(got, "myAlert(") {
		t.Errorf("Alert() after override = %q", got)
	}
	if got := reg.Confirm().Confirm("q", "s"); !strings.HasPrefix(got, "myConfirm(") {
		t.Errorf("Confirm() after override = %q", got)
	}
}

func TestRegisterOrderingIsOrthogonalToNamedLookup(t *testing.T) {
	reg := NewRegistry(nil)

	late := &StubHandler{PluginName: "late"}
	early := &StubHandler{PluginName: "early"}
	if err := reg.Register(late, 2000); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(early, 10); err != nil {
		t.Fatal(err)
	}

	handlers := reg.RequestHandlers()
	if len(handlers) != 2 {
		t.Fatalf("RequestHandlers() len = %d, want 2", len(handlers))
	}
	if handlers[0].Name() != "early" || handlers[1].Name() != "late" {
		t.Errorf("priority order = [%s %s], want [early late]", handlers[0].Name(), handlers[1].Name())
	}

	// Named lookup unaffected by priorities.
	if h, ok := reg.RequestHandler("late"); !ok || h.Name() != "late" {
		t.Error("named lookup for low-priority plugin failed")
	}
}

func TestRegisterSubscribesEventListeners(t *testing.T) {
	bus := NewBus()
	reg := NewRegistry(bus)

	c := &listeningContributor{}
	c.Contributor.PluginName = "widget"
	c.listenerOnly.topics = []string{"page:rendered"}

	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := bus.Publish(context.Background(), Event{Topic: "page:rendered", Data: 1}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(c.events) != 1 || c.events[0].Topic != "page:rendered" {
		t.Errorf("listener received %v, want one page:rendered event", c.events)
	}
}

func TestUploadHandlerDesignation(t *testing.T) {
	reg := NewRegistry(nil)

	if _, ok := reg.UploadHandler(); ok {
		t.Error("UploadHandler() = ok on empty registry")
	}

	up := &StubUploadHandler{StubHandler: StubHandler{PluginName: "upload"}}
	if err := reg.Register(up); err != nil {
		t.Fatalf("Register(upload) error = %v", err)
	}

	got, ok := reg.UploadHandler()
	if !ok || got.Name() != "upload" {
		t.Errorf("UploadHandler() = %v, %v", got, ok)
	}
}

func TestRegisterPartialFailureDoesNotRegister(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Register(nameOnly{name: "nope"}, 50); err == nil {
		t.Fatal("expected error")
	}
	if reg.RequestHandlers() != nil {
		t.Error("rejected plugin must not be partially registered")
	}
	if !errors.Is(reg.Register(nameOnly{"x"}), ErrInvalidPluginKind) {
		t.Error("repeat rejection should still report ErrInvalidPluginKind")
	}
}
