package pathmatch

// Param is a single matched route parameter, consisting of a key and a value.
//
// Value is a substring of the path given to Match. It shares the path's
// backing memory rather than holding a copy, so it is only valid for as long
// as the caller retains that path string.
type Param struct {
	Key   string
	Value string
}

// Params is a Param slice, as returned by the router.
// The slice is ordered, the first captured parameter is also the first slice
// value. It is therefore safe to read values by the index.
type Params []Param

// Get returns the value of the first Param whose key matches the given name
// and a boolean reporting whether it was found.
func (ps Params) Get(name string) (string, bool) {
	for _, entry := range ps {
		if entry.Key == name {
			return entry.Value, true
		}
	}
	return "", false
}

// ByName returns the value of the first Param whose key matches the given
// name. If no matching Param is found, an empty string is returned.
func (ps Params) ByName(name string) (va string) {
	va, _ = ps.Get(name)
	return
}

// Copy returns a copy of ps. The copied values still reference the original
// path string.
func (ps Params) Copy() Params {
	if ps == nil {
		return nil
	}
	c := make(Params, len(ps))
	copy(c, ps)
	return c
}
