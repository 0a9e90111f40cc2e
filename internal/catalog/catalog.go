// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Reader is the read-only view of a catalog used by the instantiator and the
// graph.
type Reader interface {
	// Lookup returns the template registered under name.
	Lookup(name string) (*Template, bool)
	// ForBlock returns the templates selectable on a block type, sorted by
	// name.
	ForBlock(block string) []*Template
}

// Module is implemented by packages that contribute compiled-in templates.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds every known template for a single application instance.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{templates: make(map[string]*Template)}
}

// Register adds a template. Registering the same name twice is a
// programmer error and panics.
func (c *Catalog) Register(t *Template) {
	if err := c.add(t); err != nil {
		panic(err.Error())
	}
}

func (c *Catalog) add(t *Template) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("template must have a name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.templates[t.Name]; exists {
		if existing.Source != "" {
			return fmt.Errorf("template with name '%s' already registered (from %s)", t.Name, existing.Source)
		}
		return fmt.Errorf("template with name '%s' already registered", t.Name)
	}
	c.templates[t.Name] = t
	return nil
}

// Lookup returns the template registered under name.
func (c *Catalog) Lookup(name string) (*Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.templates[name]
	return t, ok
}

// ForBlock returns the templates whose Block equals block, sorted by name.
func (c *Catalog) ForBlock(block string) []*Template {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Template
	for _, t := range c.templates {
		if t.Block == block {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all template names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Blocks returns the distinct block types that own at least one template.
func (c *Catalog) Blocks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range c.templates {
		if t.Block != "" {
			seen[t.Block] = struct{}{}
		}
	}
	blocks := make([]string, 0, len(seen))
	for b := range seen {
		blocks = append(blocks, b)
	}
	sort.Strings(blocks)
	return blocks
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Builtin is the Module that contributes the embedded manifests.
type Builtin struct{}

// Register loads the embedded manifests into c. They are compiled in, so a
// failure is a programmer error and panics.
func (Builtin) Register(c *Catalog) {
	if err := c.LoadBuiltin(context.Background()); err != nil {
		panic(fmt.Errorf("built-in catalog: %w", err))
	}
}
