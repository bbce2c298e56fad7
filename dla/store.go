package dla

import (
	"sync"
	"sync/atomic"
)

// store is the mutable aggregate structure shared by the 2D and 3D
// engines: a membership map carrying insertion indices, the extremum heap,
// and the append-only hand-off buffer.
//
// Locking model: one producer (the generation loop) and at most one
// consumer. The mutex guards the heap and buffer; the membership map is
// touched only by the producer, so the hot collision test reads it without
// locking. size, misses and span are atomics for lock-free status polling.
type store[P comparable] struct {
	mu       sync.Mutex
	members  map[P]uint64
	extremum pointHeap[P]
	buffer   []P

	size   atomic.Uint64
	misses atomic.Uint64
	span   atomic.Int64
}

func newStore[P comparable](key func(P) int64) *store[P] {
	s := &store[P]{members: make(map[P]uint64)}
	s.extremum.key = key
	return s
}

// contains reports membership of the aggregate proper (not the attractor
// set). Producer-only; see the locking model above.
func (s *store[P]) contains(p P) bool {
	_, ok := s.members[p]
	return ok
}

// push inserts p with the given insertion index, updating the extremum and
// appending to the hand-off buffer. Reports false without mutating anything
// if p is already a member, which keeps the buffer and the membership map
// in exact agreement.
func (s *store[P]) push(p P, idx uint64) bool {
	if s.contains(p) {
		return false
	}
	s.mu.Lock()
	s.members[p] = idx
	s.extremum.push(p)
	s.buffer = append(s.buffer, p)
	if top, ok := s.extremum.top(); ok {
		s.span.Store(s.extremum.key(top))
	}
	s.size.Store(uint64(len(s.members)))
	s.mu.Unlock()
	return true
}

// top returns the member maximising the current metric.
func (s *store[P]) top() (P, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extremum.top()
}

// consume returns a copy of buffer[cursor:]. The slices handed out across
// successive calls concatenate to the exact insertion sequence.
func (s *store[P]) consume(cursor int) []P {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(s.buffer) {
		return nil
	}
	out := make([]P, len(s.buffer)-cursor)
	copy(out, s.buffer[cursor:])
	return out
}

// snapshot copies the whole buffer.
func (s *store[P]) snapshot() []P {
	return s.consume(0)
}

// reserve pre-sizes the heap and buffer for an expected particle count.
func (s *store[P]) reserve(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.members) == 0 {
		s.members = make(map[P]uint64, n)
	}
	s.extremum.reserve(int(n))
	if uint64(cap(s.buffer)) < n {
		buf := make([]P, len(s.buffer), n)
		copy(buf, s.buffer)
		s.buffer = buf
	}
}

// rekey swaps the extremum metric, reheapifies, and refreshes span.
func (s *store[P]) rekey(key func(P) int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extremum.rekey(key)
	if top, ok := s.extremum.top(); ok {
		s.span.Store(key(top))
	} else {
		s.span.Store(0)
	}
}

// reset empties all aggregate state, keeping the extremum key.
func (s *store[P]) reset() {
	s.mu.Lock()
	s.members = make(map[P]uint64)
	s.extremum.clear()
	s.buffer = nil
	s.mu.Unlock()
	s.size.Store(0)
	s.misses.Store(0)
	s.span.Store(0)
}

// clone deep-copies the store. Callers must ensure no generation is in
// progress on the source aggregate.
func (s *store[P]) clone() *store[P] {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := newStore[P](s.extremum.key)
	c.members = make(map[P]uint64, len(s.members))
	for p, idx := range s.members {
		c.members[p] = idx
	}
	c.extremum.items = append([]P(nil), s.extremum.items...)
	c.buffer = append([]P(nil), s.buffer...)
	c.size.Store(s.size.Load())
	c.misses.Store(s.misses.Load())
	c.span.Store(s.span.Load())
	return c
}
