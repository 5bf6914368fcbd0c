// Copyright 2013 Julien Schmidt. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/julienschmidt/httprouter/blob/master/LICENSE

package pathmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPriorities verifies that every node's priority equals the number of
// values registered at or below it, and returns that count.
func checkPriorities[V any](t *testing.T, n *node[V]) uint32 {
	t.Helper()

	var prio uint32
	if n.hasValue {
		prio++
	}
	for _, child := range n.children {
		prio += checkPriorities(t, child)
	}
	if n.paramChild != nil {
		prio += checkPriorities(t, n.paramChild)
	}
	if n.catchAllChild != nil {
		prio += checkPriorities(t, n.catchAllChild)
	}

	assert.Equal(t, prio, n.priority, "priority mismatch at node %q", n.prefix)
	return prio
}

func buildRouter(t *testing.T, patterns []string) *Router[string] {
	t.Helper()

	r := New[string]()
	for _, pattern := range patterns {
		require.NoError(t, r.Insert(pattern, pattern), "insert %q", pattern)
	}
	return r
}

type matchTest struct {
	path    string
	pattern string // expected matching pattern, "" for a miss
	params  Params
}

func runMatchTests(t *testing.T, r *Router[string], tests []matchTest) {
	t.Helper()

	for _, tt := range tests {
		m, err := r.Match(tt.path)
		if tt.pattern == "" {
			assert.ErrorIs(t, err, ErrNotFound, "path %q", tt.path)
			continue
		}
		require.NoError(t, err, "path %q", tt.path)
		assert.Equal(t, tt.pattern, m.Value, "path %q", tt.path)
		if len(tt.params) == 0 {
			assert.Empty(t, m.Params, "path %q", tt.path)
		} else {
			assert.Equal(t, tt.params, m.Params, "path %q", tt.path)
		}
	}
}

func TestTreeStatic(t *testing.T) {
	patterns := []string{
		"/hi",
		"/contact",
		"/co",
		"/c",
		"/a",
		"/ab",
		"/doc/",
		"/doc/go_faq.html",
		"/doc/go1.html",
		"/α",
		"/β",
	}
	r := buildRouter(t, patterns)

	runMatchTests(t, r, []matchTest{
		{path: "/hi", pattern: "/hi"},
		{path: "/contact", pattern: "/contact"},
		{path: "/co", pattern: "/co"},
		{path: "/c", pattern: "/c"},
		{path: "/a", pattern: "/a"},
		{path: "/ab", pattern: "/ab"},
		{path: "/doc/", pattern: "/doc/"},
		{path: "/doc/go_faq.html", pattern: "/doc/go_faq.html"},
		{path: "/doc/go1.html", pattern: "/doc/go1.html"},
		{path: "/α", pattern: "/α"},
		{path: "/β", pattern: "/β"},
		{path: "/con"},
		{path: "/cona"},
		{path: "/no"},
		{path: "/doc/go2.html"},
		{path: ""},
		{path: "hi"},
	})

	checkPriorities(t, &r.root)
}

func TestTreeWildcards(t *testing.T) {
	patterns := []string{
		"/",
		"/cmd/{tool}/{sub}",
		"/cmd/{tool}/",
		"/src/{*filepath}",
		"/search/",
		"/search/{query}",
		"/user_{name}",
		"/user_{name}/about",
		"/files/{dir}/{*filepath}",
		"/info/{user}/public",
		"/info/{user}/project/{project}",
	}
	r := buildRouter(t, patterns)

	runMatchTests(t, r, []matchTest{
		{path: "/", pattern: "/"},
		{path: "/cmd/test/", pattern: "/cmd/{tool}/", params: Params{{"tool", "test"}}},
		{path: "/cmd/test/3", pattern: "/cmd/{tool}/{sub}", params: Params{{"tool", "test"}, {"sub", "3"}}},
		{path: "/cmd/test"},
		{path: "/src/some/file.png", pattern: "/src/{*filepath}", params: Params{{"filepath", "some/file.png"}}},
		{path: "/src/"},
		{path: "/search/", pattern: "/search/"},
		{path: "/search/someth!ng+in+ünìcodé", pattern: "/search/{query}", params: Params{{"query", "someth!ng+in+ünìcodé"}}},
		{path: "/user_gopher", pattern: "/user_{name}", params: Params{{"name", "gopher"}}},
		{path: "/user_gopher/about", pattern: "/user_{name}/about", params: Params{{"name", "gopher"}}},
		{path: "/user_"},
		{path: "/files/js/inc/framework.js", pattern: "/files/{dir}/{*filepath}", params: Params{{"dir", "js"}, {"filepath", "inc/framework.js"}}},
		{path: "/files/js/"},
		{path: "/info/gordon/public", pattern: "/info/{user}/public", params: Params{{"user", "gordon"}}},
		{path: "/info/gordon/project/go", pattern: "/info/{user}/project/{project}", params: Params{{"user", "gordon"}, {"project", "go"}}},
		{path: "/info/gordon"},
	})

	checkPriorities(t, &r.root)
}

func TestTreeBacktracking(t *testing.T) {
	patterns := []string{
		"/{p1}/{p2}/c3",
		"/a/b/c2",
		"/users/new",
		"/users/{id}",
		"/users/{id}/edit",
	}
	r := buildRouter(t, patterns)

	runMatchTests(t, r, []matchTest{
		// The static branch /a/b/c2 dead-ends at the last byte and the
		// search must unwind all the way back to the root parameter.
		{path: "/a/b/c3", pattern: "/{p1}/{p2}/c3", params: Params{{"p1", "a"}, {"p2", "b"}}},
		{path: "/a/b/c2", pattern: "/a/b/c2"},
		{path: "/users/new", pattern: "/users/new"},
		// "ne" is a strict prefix of the static sibling "new".
		{path: "/users/ne", pattern: "/users/{id}", params: Params{{"id", "ne"}}},
		{path: "/users/new/edit", pattern: "/users/{id}/edit", params: Params{{"id", "new"}}},
		{path: "/users/newer/edit", pattern: "/users/{id}/edit", params: Params{{"id", "newer"}}},
		{path: "/users/new/save"},
	})
}

func TestTreeChildOrdering(t *testing.T) {
	r := buildRouter(t, []string{"/c", "/a", "/b"})
	// Equal priorities fall back to ascending first byte.
	assert.Equal(t, "abc", r.root.indices)

	r = buildRouter(t, []string{"/a", "/bb/x", "/bb/y", "/c"})
	// The /bb subtree holds two routes and is probed first.
	assert.Equal(t, "bac", r.root.indices)

	checkPriorities(t, &r.root)
}

func TestTreeConflicts(t *testing.T) {
	t.Run("param name", func(t *testing.T) {
		r := buildRouter(t, []string{"/users/{id}"})
		err := r.Insert("/users/{name}", "x")
		assert.ErrorIs(t, err, ErrParamNameConflict)
	})

	t.Run("param vs catch-all", func(t *testing.T) {
		r := buildRouter(t, []string{"/x/{*rest}"})
		err := r.Insert("/x/{p}", "x")
		assert.ErrorIs(t, err, ErrParamNameConflict)
	})

	t.Run("catch-all vs param", func(t *testing.T) {
		r := buildRouter(t, []string{"/x/{p}"})
		err := r.Insert("/x/{*rest}", "x")
		assert.ErrorIs(t, err, ErrCatchAllConflict)
	})

	t.Run("catch-all name", func(t *testing.T) {
		r := buildRouter(t, []string{"/x/{*a}"})
		err := r.Insert("/x/{*b}", "x")
		assert.ErrorIs(t, err, ErrCatchAllConflict)
	})

	t.Run("duplicate catch-all", func(t *testing.T) {
		r := buildRouter(t, []string{"/x/{*a}"})
		err := r.Insert("/x/{*a}", "x")
		assert.ErrorIs(t, err, ErrDuplicateRoute)
	})

	t.Run("duplicate static", func(t *testing.T) {
		r := buildRouter(t, []string{"/home"})
		err := r.Insert("/home", "x")
		assert.ErrorIs(t, err, ErrDuplicateRoute)
	})

	t.Run("duplicate param", func(t *testing.T) {
		r := buildRouter(t, []string{"/users/{id}"})
		err := r.Insert("/users/{id}", "x")
		assert.ErrorIs(t, err, ErrDuplicateRoute)
	})
}

func TestTreeConflictLeavesRoutesIntact(t *testing.T) {
	r := buildRouter(t, []string{"/users/{id}", "/users/new"})

	require.ErrorIs(t, r.Insert("/users/{name}", "x"), ErrParamNameConflict)
	require.ErrorIs(t, r.Insert("/users/new", "x"), ErrDuplicateRoute)
	assert.Equal(t, 2, r.Len())

	runMatchTests(t, r, []matchTest{
		{path: "/users/new", pattern: "/users/new"},
		{path: "/users/7", pattern: "/users/{id}", params: Params{{"id", "7"}}},
	})
}

func TestTreeSplitNode(t *testing.T) {
	// Inserting a strict prefix of an existing route splits the node; the
	// split must preserve the existing terminal and its subtree.
	r := buildRouter(t, []string{"/contact", "/co"})

	runMatchTests(t, r, []matchTest{
		{path: "/contact", pattern: "/contact"},
		{path: "/co", pattern: "/co"},
		{path: "/con"},
	})

	checkPriorities(t, &r.root)
}

func TestTreeRemove(t *testing.T) {
	r := buildRouter(t, []string{"/users/{id}", "/users/new", "/co", "/contact", "/files/{*path}"})

	v, ok := r.Remove("/users/{id}")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}", v)
	assert.Equal(t, 4, r.Len())

	runMatchTests(t, r, []matchTest{
		{path: "/users/7"},
		{path: "/users/new", pattern: "/users/new"},
	})

	// The freed position accepts a differently named parameter again.
	require.NoError(t, r.Insert("/users/{name}", "renamed"))
	m, err := r.Match("/users/7")
	require.NoError(t, err)
	assert.Equal(t, "renamed", m.Value)
	assert.Equal(t, Params{{"name", "7"}}, m.Params)

	checkPriorities(t, &r.root)

	_, ok = r.Remove("/users/{name}")
	require.True(t, ok)

	// Removing a split terminal merges the pass-through node back.
	_, ok = r.Remove("/co")
	require.True(t, ok)
	runMatchTests(t, r, []matchTest{
		{path: "/co"},
		{path: "/contact", pattern: "/contact"},
	})

	_, ok = r.Remove("/files/{*path}")
	require.True(t, ok)
	runMatchTests(t, r, []matchTest{
		{path: "/files/a/b"},
	})

	// Not registered or malformed.
	_, ok = r.Remove("/nope")
	assert.False(t, ok)
	_, ok = r.Remove("/users/{id")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
	checkPriorities(t, &r.root)
}

func TestTreeRemoveAllThenReinsert(t *testing.T) {
	r := buildRouter(t, []string{"/a"})

	_, ok := r.Remove("/a")
	require.True(t, ok)
	assert.Equal(t, 0, r.Len())

	require.NoError(t, r.Insert("/b", "/b"))
	m, err := r.Match("/b")
	require.NoError(t, err)
	assert.Equal(t, "/b", m.Value)

	_, err = r.Match("/a")
	assert.ErrorIs(t, err, ErrNotFound)

	checkPriorities(t, &r.root)
}

func BenchmarkMatchStatic(b *testing.B) {
	r := New[string]()
	for _, pattern := range []string{"/", "/index.html", "/doc/", "/doc/go1.html", "/search/"} {
		if err := r.Insert(pattern, pattern); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.Match("/doc/go1.html"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMatchParam(b *testing.B) {
	r := New[string]()
	if err := r.Insert("/user/{name}/posts/{id}", "posts"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.Match("/user/gopher/posts/42"); err != nil {
			b.Fatal(err)
		}
	}
}
