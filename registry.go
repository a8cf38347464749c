package ajx

import (
	"fmt"
	"sync"
)

// Registry classifies plugins by capability and keeps them in priority
// order. Request handlers and response contributors occupy named slots in
// their own category (re-registering a name overwrites silently); alert and
// confirm providers are single active slots with built-in defaults. Every
// accepted plugin is also inserted into the priority list, so ordering and
// named lookup are orthogonal indices into the same set of objects.
type Registry struct {
	mu       sync.RWMutex
	order    *PriorityList[Plugin]
	request  map[string]RequestHandler
	response map[string]ResponseContributor
	alert    AlertProvider
	confirm  ConfirmProvider
	upload   RequestHandler
	bus      *Bus
}

// NewRegistry creates an empty registry. Event-listener plugins are
// subscribed to bus at registration; a nil bus disables that.
func NewRegistry(bus *Bus) *Registry {
	return &Registry{
		order:    NewPriorityList[Plugin](),
		request:  make(map[string]RequestHandler),
		response: make(map[string]ResponseContributor),
		bus:      bus,
	}
}

// Register adds a plugin at the given priority (DefaultPriority when
// omitted). The plugin must implement at least one of RequestHandler,
// ResponseContributor, AlertProvider, or ConfirmProvider; otherwise
// ErrInvalidPluginKind is returned and nothing is registered.
func (reg *Registry) Register(p Plugin, priority ...int) error {
	prio := DefaultPriority
	if len(priority) > 0 {
		prio = priority[0]
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	registerable := false
	if h, ok := p.(RequestHandler); ok {
		registerable = true
		reg.request[h.Name()] = h
		if _, ok := p.(UploadProcessor); ok {
			reg.upload = h
		}
	}
	if c, ok := p.(ResponseContributor); ok {
		registerable = true
		reg.response[c.Name()] = c
	}
	if a, ok := p.(AlertProvider); ok {
		registerable = true
		reg.alert = a
	}
	if c, ok := p.(ConfirmProvider); ok {
		registerable = true
		reg.confirm = c
	}
	if !registerable {
		return fmt.Errorf("%w: %q", ErrInvalidPluginKind, p.Name())
	}

	if l, ok := p.(EventListener); ok && reg.bus != nil {
		reg.bus.Subscribe(l)
	}

	reg.order.Insert(p, prio)
	return nil
}

// RequestHandler returns the handler registered under name. Absence is a
// normal outcome, reported through the second return, never an error.
func (reg *Registry) RequestHandler(name string) (RequestHandler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	h, ok := reg.request[name]
	return h, ok
}

// ResponseContributor returns the contributor registered under name.
func (reg *Registry) ResponseContributor(name string) (ResponseContributor, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.response[name]
	return c, ok
}

// Alert returns the active alert provider, falling back to the built-in
// default when none was registered.
func (reg *Registry) Alert() AlertProvider {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if reg.alert != nil {
		return reg.alert
	}
	return defaultAlert{}
}

// Confirm returns the active confirm provider, falling back to the
// built-in default when none was registered.
func (reg *Registry) Confirm() ConfirmProvider {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if reg.confirm != nil {
		return reg.confirm
	}
	return defaultConfirm{}
}

// UploadHandler returns the designated file-upload handler, if any.
func (reg *Registry) UploadHandler() (RequestHandler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.upload, reg.upload != nil
}

// RequestHandlers returns a snapshot of the registered request handlers in
// ascending priority order, including the upload handler.
func (reg *Registry) RequestHandlers() []RequestHandler {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	var handlers []RequestHandler
	for p := range reg.order.All() {
		if h, ok := p.(RequestHandler); ok {
			handlers = append(handlers, h)
		}
	}
	return handlers
}
