// Package pathmatch provides a zero-copy radix trie router: route patterns
// with named and catch-all parameters are registered once, then matched
// against request paths without allocating copies of the captured values.
package pathmatch

// Router maps route patterns to values of type V. The zero value is an empty
// router ready for use.
//
// Patterns mix literal text with parameters: "/users/{id}" captures one path
// segment, "/files/{*path}" captures everything to the end of the path, and
// "{{" / "}}" escape literal braces. Static text always wins over a parameter
// and a parameter wins over a catch-all when several routes overlap.
//
// Insert and Remove must not be called concurrently, neither with each other
// nor with Match. Once registration is done the trie is immutable and any
// number of Match calls may run in parallel without synchronization. To
// change routes at runtime, build a new Router and swap the reference.
type Router[V any] struct {
	root      node[V]
	maxParams int
	size      int
}

// New returns an empty router.
func New[V any]() *Router[V] {
	return &Router[V]{}
}

// Insert registers pattern with the given value. The value is opaque to the
// router and is returned as-is by Match.
//
// Insert fails with a pattern error if the pattern is malformed and with a
// conflict error if it collides with an already registered route; either way
// the routes registered so far keep matching exactly as before. Registering
// the identical pattern twice fails with ErrDuplicateRoute.
func (r *Router[V]) Insert(pattern string, value V) error {
	segs, err := parsePattern(pattern)
	if err != nil {
		return err
	}
	if err := r.root.insert(pattern, segs, value); err != nil {
		return err
	}
	if n := countParams(segs); n > r.maxParams {
		r.maxParams = n
	}
	r.size++
	return nil
}

// Match is a successful lookup result.
//
// Params values are substrings of the path passed to Router.Match and stay
// valid only while the caller retains that path string.
type Match[V any] struct {
	Value  V
	Params Params
}

// Match finds the registered route matching path and returns its value
// together with the captured parameters, in pattern order. If no route
// matches, the error is ErrNotFound; a miss is a normal outcome, never a
// panic, whatever bytes the path contains.
func (r *Router[V]) Match(path string) (Match[V], error) {
	var ps Params
	if r.maxParams > 0 {
		ps = make(Params, 0, r.maxParams)
	}
	n := r.root.search(path, &ps)
	if n == nil {
		return Match[V]{}, ErrNotFound
	}
	return Match[V]{Value: n.value, Params: ps}, nil
}

// Remove unregisters the exact pattern and returns its stored value. It
// reports false if the pattern is malformed or was never registered. Like
// Insert, Remove must not run concurrently with lookups.
func (r *Router[V]) Remove(pattern string) (V, bool) {
	var zero V
	segs, err := parsePattern(pattern)
	if err != nil {
		return zero, false
	}
	v, ok := r.root.remove("", segs)
	if !ok {
		return zero, false
	}
	r.root.priority--
	r.root.mergeSingleChild()
	if r.root.isEmpty() {
		// Reset the root so the next insertion starts from a clean tree.
		r.root.prefix = ""
		r.root.indices = ""
	}
	r.size--
	return v, true
}

// Len returns the number of registered routes.
func (r *Router[V]) Len() int {
	return r.size
}
