package pathmatch

import (
	"fmt"
	"strings"

	"pathmatch/internal/bytesconv"
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

// segment is one parsed unit of a route pattern: literal bytes, a named
// parameter, or a trailing catch-all.
type segment struct {
	kind    segmentKind
	literal string // unescaped static bytes, segStatic only
	name    string // parameter name, segParam and segCatchAll only
}

// parsePattern splits a route pattern into segments. The '{{' and '}}'
// escapes are resolved into the static literals here, so the tree below only
// ever compares raw bytes.
//
// Syntax: '{name}' captures one path segment and must be followed by '/' or
// the end of the pattern; '{*name}' captures the rest of the path, must
// directly follow a '/' and must end the pattern.
func parsePattern(pattern string) ([]segment, error) {
	var segs []segment
	var lit []byte

	flush := func() {
		if len(lit) > 0 {
			segs = append(segs, segment{kind: segStatic, literal: bytesconv.BytesToString(lit)})
			lit = nil
		}
	}

	i := 0
	for i < len(pattern) {
		switch c := pattern[i]; c {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				lit = append(lit, '{')
				i += 2
				continue
			}

			start := i + 1
			end := start
			for end < len(pattern) && pattern[end] != '}' {
				if pattern[end] == '{' {
					return nil, fmt.Errorf("%w: '{' inside parameter in %q", ErrMisplacedWildcard, pattern)
				}
				end++
			}
			if end == len(pattern) {
				return nil, fmt.Errorf("%w: missing '}' in %q", ErrUnbalancedBrace, pattern)
			}

			name := pattern[start:end]
			catchAll := strings.HasPrefix(name, "*")
			if catchAll {
				name = name[1:]
			}
			if name == "" {
				return nil, fmt.Errorf("%w in %q", ErrEmptyParamName, pattern)
			}
			if strings.ContainsAny(name, "/*") {
				return nil, fmt.Errorf("%w: %q in %q", ErrInvalidParamName, name, pattern)
			}

			if catchAll {
				if end+1 != len(pattern) {
					return nil, fmt.Errorf("%w: {*%s} in %q", ErrCatchAllNotAtEnd, name, pattern)
				}
				if len(lit) == 0 || lit[len(lit)-1] != '/' {
					return nil, fmt.Errorf("%w: catch-all must follow '/' in %q", ErrMisplacedWildcard, pattern)
				}
				flush()
				segs = append(segs, segment{kind: segCatchAll, name: name})
				return segs, nil
			}

			if rest := pattern[end+1:]; rest != "" && rest[0] != '/' {
				return nil, fmt.Errorf("%w: {%s} in %q", ErrParamBoundary, name, pattern)
			}
			flush()
			segs = append(segs, segment{kind: segParam, name: name})
			i = end + 1

		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				lit = append(lit, '}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: unexpected '}' in %q", ErrUnbalancedBrace, pattern)

		default:
			lit = append(lit, c)
			i++
		}
	}

	flush()
	return segs, nil
}

// countParams returns the number of dynamic segments in a parsed pattern.
func countParams(segs []segment) int {
	n := 0
	for _, seg := range segs {
		if seg.kind != segStatic {
			n++
		}
	}
	return n
}
