// Copyright 2013 Julien Schmidt. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/julienschmidt/httprouter/blob/master/LICENSE

package pathmatch

import (
	"fmt"

	"pathmatch/internal/bytesconv"
)

type nodeKind uint8

const (
	staticNode nodeKind = iota
	paramNode
	catchAllNode
)

// node is one radix trie vertex.
//
// prefix holds the literal bytes shared by every route below the node; it is
// the longest common prefix of the static alternatives beneath it and may
// shrink when a later insertion forces a split. indices holds the first byte
// of each static child, in children order, so lookups probe a string instead
// of chasing pointers. Dynamic continuations live in dedicated slots: at most
// one parameter child and at most one catch-all child per node position; a
// catch-all child is always a leaf.
type node[V any] struct {
	prefix        string
	indices       string
	children      []*node[V]
	paramChild    *node[V]
	catchAllChild *node[V]
	name          string // parameter name, paramNode and catchAllNode only
	kind          nodeKind
	priority      uint32
	value         V
	hasValue      bool
}

func longestCommonPrefix(a, b string) int {
	i := 0
	m := min(len(a), len(b))
	for i < m && a[i] == b[i] {
		i++
	}
	return i
}

// incrementChildPrio increments the priority of the child at pos and bubbles
// it left while it outranks its neighbor, so children stay ordered by
// descending priority and, among equals, by ascending first byte. Returns the
// child's new position.
func (n *node[V]) incrementChildPrio(pos int) int {
	cs := n.children
	cs[pos].priority++
	prio := cs[pos].priority
	b := n.indices[pos]

	newPos := pos
	for ; newPos > 0 && (cs[newPos-1].priority < prio ||
		(cs[newPos-1].priority == prio && n.indices[newPos-1] > b)); newPos-- {
		// Swap node positions
		cs[newPos-1], cs[newPos] = cs[newPos], cs[newPos-1]
	}

	// Build new index char string
	if newPos != pos {
		n.indices = n.indices[:newPos] + // Unchanged prefix, might be empty
			n.indices[pos:pos+1] + // The index char we move
			n.indices[newPos:pos] + n.indices[pos+1:] // Rest without char at 'pos'
	}

	return newPos
}

// decrementChildPrio is the removal counterpart of incrementChildPrio: it
// lowers the priority of the child at pos and bubbles it right until sibling
// order is restored. Returns the child's new position.
func (n *node[V]) decrementChildPrio(pos int) int {
	cs := n.children
	cs[pos].priority--
	prio := cs[pos].priority
	b := n.indices[pos]

	newPos := pos
	for ; newPos < len(cs)-1 && (cs[newPos+1].priority > prio ||
		(cs[newPos+1].priority == prio && n.indices[newPos+1] < b)); newPos++ {
		cs[newPos+1], cs[newPos] = cs[newPos], cs[newPos+1]
	}

	if newPos != pos {
		n.indices = n.indices[:pos] +
			n.indices[pos+1:newPos+1] +
			n.indices[pos:pos+1] + n.indices[newPos+1:]
	}

	return newPos
}

// insert merges a parsed pattern into the subtree rooted at n, which must be
// the tree root. Conflicts are detected before any structural change that
// could alter routing behavior, so a failed insertion leaves previously
// registered routes intact.
func (n *node[V]) insert(pattern string, segs []segment, value V) error {
	n.priority++

	// Empty tree
	if n.prefix == "" && n.indices == "" && n.paramChild == nil &&
		n.catchAllChild == nil && !n.hasValue {
		return n.buildChain(pattern, segs, value)
	}

walk:
	for {
		if len(segs) == 0 {
			return n.attach(pattern, value)
		}

		switch seg := segs[0]; seg.kind {
		case segStatic:
			lit := seg.literal

			// Find the longest common prefix.
			// This also implies that the common prefix contains no '{'
			// since escapes were already resolved by the parser and raw
			// braces can't reach the tree.
			i := longestCommonPrefix(lit, n.prefix)

			// Split edge
			if i < len(n.prefix) {
				child := &node[V]{
					prefix:        n.prefix[i:],
					indices:       n.indices,
					children:      n.children,
					paramChild:    n.paramChild,
					catchAllChild: n.catchAllChild,
					kind:          staticNode,
					priority:      n.priority - 1,
					value:         n.value,
					hasValue:      n.hasValue,
				}

				var zero V
				n.prefix = n.prefix[:i]
				n.indices = bytesconv.BytesToString([]byte{child.prefix[0]})
				n.children = []*node[V]{child}
				n.paramChild = nil
				n.catchAllChild = nil
				n.value = zero
				n.hasValue = false
			}

			// Static bytes remain past this node's prefix.
			if i < len(lit) {
				lit = lit[i:]
				segs[0].literal = lit

				c := lit[0]
				for j := 0; j < len(n.indices); j++ {
					if n.indices[j] == c {
						j = n.incrementChildPrio(j)
						n = n.children[j]
						continue walk
					}
				}

				// No child shares the first byte; everything left is new.
				child := &node[V]{kind: staticNode}
				n.indices += bytesconv.BytesToString([]byte{c})
				n.children = append(n.children, child)
				n.incrementChildPrio(len(n.children) - 1)
				return child.buildChain(pattern, segs, value)
			}

			// Literal fully consumed at this node.
			segs = segs[1:]
			continue walk

		case segParam:
			if n.catchAllChild != nil {
				return fmt.Errorf("%w: {%s} in %q collides with {*%s}",
					ErrParamNameConflict, seg.name, pattern, n.catchAllChild.name)
			}
			if pc := n.paramChild; pc != nil {
				if pc.name != seg.name {
					return fmt.Errorf("%w: {%s} in %q, position already binds {%s}",
						ErrParamNameConflict, seg.name, pattern, pc.name)
				}
				pc.priority++
				n = pc
				segs = segs[1:]
				continue walk
			}

			child := &node[V]{kind: paramNode, name: seg.name, priority: 1}
			n.paramChild = child
			return child.buildChain(pattern, segs[1:], value)

		case segCatchAll:
			if n.paramChild != nil {
				return fmt.Errorf("%w: {*%s} in %q collides with {%s}",
					ErrCatchAllConflict, seg.name, pattern, n.paramChild.name)
			}
			if ca := n.catchAllChild; ca != nil {
				if ca.name != seg.name {
					return fmt.Errorf("%w: {*%s} in %q, position already binds {*%s}",
						ErrCatchAllConflict, seg.name, pattern, ca.name)
				}
				// Same name at the same position is the same full pattern.
				return fmt.Errorf("%w: %q", ErrDuplicateRoute, pattern)
			}

			n.catchAllChild = &node[V]{
				kind:     catchAllNode,
				name:     seg.name,
				priority: 1,
				value:    value,
				hasValue: true,
			}
			return nil
		}
	}
}

// buildChain writes the remaining segments as a fresh chain below n. The
// receiver must hold no static content of its own yet; its priority is
// already accounted for by the caller.
func (n *node[V]) buildChain(pattern string, segs []segment, value V) error {
	for _, seg := range segs {
		switch seg.kind {
		case segStatic:
			if n.kind == staticNode && n.prefix == "" && n.indices == "" {
				n.prefix = seg.literal
				continue
			}
			child := &node[V]{kind: staticNode, prefix: seg.literal, priority: 1}
			n.indices = bytesconv.BytesToString([]byte{seg.literal[0]})
			n.children = []*node[V]{child}
			n = child

		case segParam:
			child := &node[V]{kind: paramNode, name: seg.name, priority: 1}
			n.paramChild = child
			n = child

		case segCatchAll:
			n.catchAllChild = &node[V]{
				kind:     catchAllNode,
				name:     seg.name,
				priority: 1,
				value:    value,
				hasValue: true,
			}
			return nil
		}
	}
	return n.attach(pattern, value)
}

// attach stores the value on the terminal node of an insertion.
func (n *node[V]) attach(pattern string, value V) error {
	if n.hasValue {
		return fmt.Errorf("%w: %q", ErrDuplicateRoute, pattern)
	}
	n.value = value
	n.hasValue = true
	return nil
}

// search walks the subtree looking for the terminal node matching path,
// appending parameter captures to ps as it descends. Backtracking is plain
// call-stack unwinding: a failed branch returns nil and the caller tries the
// next alternative, truncating ps back to the captures made above the failed
// branch. Captured values are substrings of path, never copies.
//
// Branches are tried in fixed order: the static child sharing the next byte,
// then the parameter child, then the catch-all child. A parameter must
// capture at least one byte and a catch-all never matches an empty remainder.
func (n *node[V]) search(path string, ps *Params) *node[V] {
	if len(path) < len(n.prefix) || path[:len(n.prefix)] != n.prefix {
		return nil
	}
	path = path[len(n.prefix):]

	if path == "" {
		if n.hasValue {
			return n
		}
		return nil
	}

	// Static children first: at most one shares the next byte.
	c := path[0]
	for i := 0; i < len(n.indices); i++ {
		if n.indices[i] == c {
			if m := n.children[i].search(path, ps); m != nil {
				return m
			}
			break
		}
	}

	if pc := n.paramChild; pc != nil {
		// Find param end (either '/' or path end)
		end := 0
		for end < len(path) && path[end] != '/' {
			end++
		}
		if end > 0 {
			if end == len(path) {
				if pc.hasValue {
					*ps = append(*ps, Param{Key: pc.name, Value: path})
					return pc
				}
			} else {
				mark := len(*ps)
				*ps = append(*ps, Param{Key: pc.name, Value: path[:end]})
				if m := pc.search(path[end:], ps); m != nil {
					return m
				}
				*ps = (*ps)[:mark]
			}
		}
	}

	if ca := n.catchAllChild; ca != nil {
		*ps = append(*ps, Param{Key: ca.name, Value: path})
		return ca
	}

	return nil
}

// remove unlinks the terminal node of the exact parsed pattern below n.
// lit carries static bytes still to be consumed before segs resume; the
// caller passes "" at the root. On success every node along the walked path
// has its priority decremented and emptied or pass-through children are
// pruned and merged, so repeated insert/remove cycles do not leak nodes.
func (n *node[V]) remove(lit string, segs []segment) (V, bool) {
	var zero V

	if lit == "" && len(segs) > 0 && segs[0].kind == segStatic {
		lit = segs[0].literal
		segs = segs[1:]
	}

	// Consume this node's own prefix.
	if len(lit) < len(n.prefix) || lit[:len(n.prefix)] != n.prefix {
		return zero, false
	}
	lit = lit[len(n.prefix):]

	if lit == "" {
		if len(segs) == 0 {
			if !n.hasValue {
				return zero, false
			}
			v := n.value
			n.value = zero
			n.hasValue = false
			return v, true
		}

		switch seg := segs[0]; seg.kind {
		case segParam:
			pc := n.paramChild
			if pc == nil || pc.name != seg.name {
				return zero, false
			}
			v, ok := pc.remove("", segs[1:])
			if !ok {
				return zero, false
			}
			pc.priority--
			if pc.isEmpty() {
				n.paramChild = nil
			}
			return v, true

		case segCatchAll:
			ca := n.catchAllChild
			if ca == nil || ca.name != seg.name {
				return zero, false
			}
			n.catchAllChild = nil
			return ca.value, true
		}
	}

	// Static descent.
	for i := 0; i < len(n.indices); i++ {
		if n.indices[i] != lit[0] {
			continue
		}
		child := n.children[i]
		v, ok := child.remove(lit, segs)
		if !ok {
			return zero, false
		}
		i = n.decrementChildPrio(i)
		if child.isEmpty() {
			n.children = append(n.children[:i], n.children[i+1:]...)
			n.indices = n.indices[:i] + n.indices[i+1:]
		} else {
			child.mergeSingleChild()
		}
		return v, true
	}

	return zero, false
}

// isEmpty reports whether nothing is registered at or below n.
func (n *node[V]) isEmpty() bool {
	return !n.hasValue && len(n.children) == 0 &&
		n.paramChild == nil && n.catchAllChild == nil
}

// mergeSingleChild folds a valueless static node holding exactly one static
// child back into a single node, undoing an insertion-time split.
func (n *node[V]) mergeSingleChild() {
	if n.kind != staticNode || n.hasValue || len(n.children) != 1 ||
		n.paramChild != nil || n.catchAllChild != nil {
		return
	}
	child := n.children[0]
	n.prefix += child.prefix
	n.indices = child.indices
	n.children = child.children
	n.paramChild = child.paramChild
	n.catchAllChild = child.catchAllChild
	n.value = child.value
	n.hasValue = child.hasValue
}
