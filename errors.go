package pathmatch

import "errors"

// Pattern errors are returned by Insert when the route pattern itself is
// malformed. The trie is never touched when parsing fails.
var (
	// ErrUnbalancedBrace reports a '{' without a closing '}' or a stray '}'
	// that is not part of a '}}' escape.
	ErrUnbalancedBrace = errors.New("unbalanced brace")

	// ErrEmptyParamName reports a parameter with no name, such as {} or {*}.
	ErrEmptyParamName = errors.New("empty parameter name")

	// ErrInvalidParamName reports a parameter name containing '/' or '*'.
	ErrInvalidParamName = errors.New("invalid parameter name")

	// ErrCatchAllNotAtEnd reports a catch-all parameter that is not the last
	// token of the pattern.
	ErrCatchAllNotAtEnd = errors.New("catch-all must end the pattern")

	// ErrParamBoundary reports a named parameter that is not immediately
	// followed by '/' or the end of the pattern.
	ErrParamBoundary = errors.New("parameter must be followed by '/' or end of pattern")

	// ErrMisplacedWildcard reports a '{' opened inside a parameter body or a
	// catch-all that does not directly follow a '/'.
	ErrMisplacedWildcard = errors.New("misplaced wildcard")
)

// Conflict errors are returned by Insert when the pattern is well formed but
// structurally incompatible with an already registered route. A failed
// insertion never changes routing behavior.
var (
	// ErrParamNameConflict reports a parameter inserted at a trie position
	// that already holds a dynamic child with a different name or kind.
	ErrParamNameConflict = errors.New("conflicting parameter")

	// ErrCatchAllConflict reports a catch-all inserted at a trie position
	// that already holds a different dynamic child.
	ErrCatchAllConflict = errors.New("conflicting catch-all")

	// ErrDuplicateRoute reports a pattern that is already registered.
	ErrDuplicateRoute = errors.New("route already registered")
)

// ErrNotFound is returned by Match when no registered pattern matches the
// path. A miss is an ordinary result, not a failure of the router.
var ErrNotFound = errors.New("no matching route")
