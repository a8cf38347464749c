package ajx

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Event is a message published on the App's bus.
type Event struct {
	Topic string
	Data  any
}

// Bus is a synchronous topic bus. Listeners run in the publisher's
// goroutine, in subscription order; a panicking listener is recovered and
// reported as an error rather than taking down the request.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]EventListener
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]EventListener)}
}

// Subscribe registers a listener for every topic it declares.
func (b *Bus) Subscribe(l EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range l.Topics() {
		b.subs[topic] = append(b.subs[topic], l)
	}
}

// Publish delivers the event to every listener on its topic and returns
// the joined listener errors, if any.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	listeners := b.subs[e.Topic]
	b.mu.RUnlock()

	var errs []error
	for _, l := range listeners {
		if err := deliver(ctx, l, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, l EventListener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ajx: listener %q panicked on %q: %v", l.Name(), e.Topic, r)
		}
	}()
	return l.OnEvent(ctx, e)
}
