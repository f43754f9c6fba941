package services

import (
	"sync"
	"sync/atomic"
)

// IndexSignal is an explicit invalidation signal for read-side caches built
// over the chunk index (retrieval chains, cached query plans). The
// index-mutating path bumps the version after a cycle that changed the
// index; readers either poll Version or subscribe for notifications.
type IndexSignal struct {
	version atomic.Uint64

	mu   sync.Mutex
	subs []chan uint64
}

// NewIndexSignal creates a signal starting at version 0.
func NewIndexSignal() *IndexSignal {
	return &IndexSignal{}
}

// Version returns the current index version.
func (s *IndexSignal) Version() uint64 {
	return s.version.Load()
}

// Bump increments the version and notifies subscribers. Notification is
// best-effort: a subscriber with a full buffer misses the intermediate
// value but will observe the latest on its next receive or Version call.
func (s *IndexSignal) Bump() uint64 {
	v := s.version.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
		}
	}
	return v
}

// Subscribe returns a channel receiving version numbers after each bump.
// The channel is buffered; slow consumers never block the sync path.
func (s *IndexSignal) Subscribe() <-chan uint64 {
	ch := make(chan uint64, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
