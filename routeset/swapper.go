package routeset

import (
	"sync/atomic"

	"pathmatch"
)

// Swapper is an atomic publication point for a built router. Lookups load
// the current router without locking; rebuilds replace it wholesale, which
// is the prescribed way to change routes while lookups are in flight.
type Swapper struct {
	ptr atomic.Pointer[pathmatch.Router[string]]
}

// NewSwapper returns a Swapper publishing r, which may be nil.
func NewSwapper(r *pathmatch.Router[string]) *Swapper {
	s := &Swapper{}
	if r != nil {
		s.ptr.Store(r)
	}
	return s
}

// Publish replaces the current router. In-flight lookups keep using the
// router they loaded; new lookups see r.
func (s *Swapper) Publish(r *pathmatch.Router[string]) {
	s.ptr.Store(r)
}

// Router returns the currently published router, or nil if none has been
// published yet.
func (s *Swapper) Router() *pathmatch.Router[string] {
	return s.ptr.Load()
}

// Match resolves path against the currently published router. Before the
// first publication every lookup misses with pathmatch.ErrNotFound.
func (s *Swapper) Match(path string) (pathmatch.Match[string], error) {
	r := s.ptr.Load()
	if r == nil {
		return pathmatch.Match[string]{}, pathmatch.ErrNotFound
	}
	return r.Match(path)
}
