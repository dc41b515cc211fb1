package event

import (
	"slices"
	"sync"

	"github.com/lababil/pos/internal/domain/shared"
)

// subscriptions maps event types to the handlers listening for them.
// Handlers registered without a type see every event.
type subscriptions struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
	all    []shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(eventTypes) == 0 {
		s.all = append(s.all, handler)
		return
	}
	for _, eventType := range eventTypes {
		if slices.Contains(s.byType[eventType], handler) {
			continue
		}
		s.byType[eventType] = append(s.byType[eventType], handler)
	}
}

func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	isTarget := func(h shared.EventHandler) bool { return h == handler }
	s.all = slices.DeleteFunc(s.all, isTarget)
	for eventType, handlers := range s.byType {
		handlers = slices.DeleteFunc(handlers, isTarget)
		if len(handlers) == 0 {
			delete(s.byType, eventType)
			continue
		}
		s.byType[eventType] = handlers
	}
}

// forType returns a snapshot of the handlers for eventType, typed handlers
// first. The caller may use it after the lock is released.
func (s *subscriptions) forType(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typed := s.byType[eventType]
	if len(typed) == 0 && len(s.all) == 0 {
		return nil
	}
	out := make([]shared.EventHandler, 0, len(typed)+len(s.all))
	out = append(out, typed...)
	return append(out, s.all...)
}
