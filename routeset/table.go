// Package routeset loads route tables from YAML files and publishes the
// routers built from them atomically, so serving code can hot-swap its
// routing without locking lookups.
package routeset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pathmatch"
)

// Route binds one route pattern to a symbolic target name.
type Route struct {
	Pattern string `yaml:"pattern"`
	Target  string `yaml:"target"`
}

// Table is the on-disk route table document:
//
//	routes:
//	  - pattern: /users/{id}
//	    target: users-service
type Table struct {
	Routes []Route `yaml:"routes"`
}

// Parse decodes and validates a YAML route table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("routeset: decode: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.Routes) == 0 {
		return fmt.Errorf("routeset: no routes defined")
	}
	for i, rt := range t.Routes {
		if rt.Pattern == "" {
			return fmt.Errorf("routeset: route %d: empty pattern", i)
		}
		if rt.Target == "" {
			return fmt.Errorf("routeset: route %q: empty target", rt.Pattern)
		}
	}
	return nil
}

// Build constructs a router from the table. Routes are inserted in file
// order, so syntax and conflict errors name the offending entry.
func (t *Table) Build() (*pathmatch.Router[string], error) {
	r := pathmatch.New[string]()
	for _, rt := range t.Routes {
		if err := r.Insert(rt.Pattern, rt.Target); err != nil {
			return nil, fmt.Errorf("routeset: route %q: %w", rt.Pattern, err)
		}
	}
	return r, nil
}

// Load reads, parses and builds a route table file.
func Load(path string) (*pathmatch.Router[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routeset: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return t.Build()
}
