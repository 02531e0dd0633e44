// Package pubsub provides the synchronous observer registry used by rooms,
// the room directory and games to push state changes to interested parties.
package pubsub

import "sync"

// Subscribers is a synchronous fan-out registry. The zero value is ready to
// use.
//
// Owning entities notify after a change has been committed and never while
// holding their state lock, so a callback may call back into the entity.
// Unsubscribing is safe at any time; a notification already in flight to
// other subscribers is unaffected.
type Subscribers[T any] struct {
	mu   sync.Mutex
	fns  map[int]func(T)
	next int
}

// Add registers fn and returns a function that removes the subscription
func (s *Subscribers[T]) Add(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// Notify calls every registered subscriber with v, in unspecified order
func (s *Subscribers[T]) Notify(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Clear detaches all subscribers
func (s *Subscribers[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = nil
}
