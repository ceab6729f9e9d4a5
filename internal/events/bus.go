package events

import (
	"context"
	"sync"

	"github.com/pantrywise/catalog-backend/internal/logger"
)

// Bus is a fire-and-forget publish/subscribe channel. Publish returns once the
// event is handed off; listener outcomes are never observed by the publisher.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(name string, h Handler)
	Close() error
}

type registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func (r *registry) add(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = map[string][]Handler{}
	}
	r.handlers[name] = append(r.handlers[name], h)
}

func (r *registry) get(name string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[name]
}

// dispatch runs every handler for the event on its own goroutine, recovering
// panics so a broken listener cannot touch the publisher's committed state.
func (r *registry) dispatch(log *logger.Logger, evt Event, wg *sync.WaitGroup) {
	for _, h := range r.get(evt.Name) {
		handler := h
		if wg != nil {
			wg.Add(1)
		}
		go func() {
			if wg != nil {
				defer wg.Done()
			}
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("event listener panicked", "event", evt.Name, "panic", rec)
				}
			}()
			handler(evt)
		}()
	}
}

type memoryBus struct {
	log *logger.Logger
	reg registry
	wg  sync.WaitGroup
}

func NewMemoryBus(log *logger.Logger) Bus {
	return &memoryBus{log: log.With("service", "EventBus")}
}

func (b *memoryBus) Publish(ctx context.Context, evt Event) error {
	b.reg.dispatch(b.log, evt, &b.wg)
	return nil
}

func (b *memoryBus) Subscribe(name string, h Handler) {
	b.reg.add(name, h)
}

// Close waits for in-flight listeners. Used on shutdown and in tests.
func (b *memoryBus) Close() error {
	b.wg.Wait()
	return nil
}
