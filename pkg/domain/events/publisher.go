package events

import (
	"log/slog"
	"sync"
)

// Handler receives published events. Returned errors are logged, never propagated.
type Handler func(e *BoardEvent) error

// Publisher fans board events out to in-process subscribers.
type Publisher struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	next     int
	logger   *slog.Logger
}

// NewPublisher creates an empty publisher.
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		handlers: make(map[int]Handler),
		logger:   logger,
	}
}

// Publish delivers the event to every subscriber.
func (p *Publisher) Publish(e *BoardEvent) {
	p.mu.RLock()
	handlers := make([]Handler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := h(e); err != nil {
			p.logger.Warn("event handler failed", "type", e.Type, "error", err)
		}
	}
}

// Subscribe registers a handler and returns the func that removes it.
func (p *Publisher) Subscribe(h Handler) (unsubscribe func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.handlers[id] = h
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// Subscribers returns the number of registered handlers.
func (p *Publisher) Subscribers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}
