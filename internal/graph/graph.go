// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/blockgrid/internal/blocks"
	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/validate"
)

var (
	// ErrNodeNotFound is returned by operations that require an existing
	// node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrDuplicateNode is returned by Load when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Graph is the owned, mutable block graph.
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]*model.Node
	nodeOrder []string
	edges     map[string]model.Edge
	edgeOrder []string

	catalog catalog.Reader
	blocks  *blocks.Registry
	logger  *slog.Logger
	newID   func() string

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithCatalog sets the template catalog used for parameter instantiation.
func WithCatalog(c catalog.Reader) Option {
	return func(g *Graph) { g.catalog = c }
}

// WithBlocks sets the block defaults registry. Without it a registry over
// the configured catalog is created.
func WithBlocks(r *blocks.Registry) Option {
	return func(g *Graph) { g.blocks = r }
}

// WithIDGenerator replaces the UUID node id generator.
func WithIDGenerator(f func() string) Option {
	return func(g *Graph) { g.newID = f }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:     make(map[string]*model.Node),
		edges:     make(map[string]model.Edge),
		logger:    slog.Default(),
		newID:     uuid.NewString,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.blocks == nil {
		g.blocks = blocks.NewRegistry(g.catalog)
	}
	return g
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (model.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return model.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []model.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (model.Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.edges[id]
	return e, ok
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []model.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgesLocked(func(model.Edge) bool { return true })
}

// EdgesFrom returns the edges leaving nodeID in insertion order.
func (g *Graph) EdgesFrom(nodeID string) []model.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgesLocked(func(e model.Edge) bool { return e.Source == nodeID })
}

// EdgesInto returns the edges entering nodeID in insertion order.
func (g *Graph) EdgesInto(nodeID string) []model.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgesLocked(func(e model.Edge) bool { return e.Target == nodeID })
}

// Len returns the number of nodes and edges.
func (g *Graph) Len() (nodes, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes), len(g.edges)
}

// Validate re-checks every stored edge. See validate.Graph.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return validate.Graph(lockedView{g})
}

// Snapshot returns an immutable copy of the graph for readers that need a
// consistent view across several calls.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &Snapshot{
		nodes: make(map[string]model.Node, len(g.nodes)),
		order: append([]string(nil), g.nodeOrder...),
		edges: g.edgesLocked(func(model.Edge) bool { return true }),
	}
	for id, n := range g.nodes {
		s.nodes[id] = n.Clone()
	}
	return s
}

// IsChoiceSlot reports whether slot is picked from a fixed list in the
// editor: the block's selector, or a parameter of the selected template
// that declares choices.
func (g *Graph) IsChoiceSlot(nodeID, slot string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[nodeID]
	if !ok {
		return false
	}
	spec := g.blocks.Spec(n.BlockType)
	if spec.Selector == "" {
		return false
	}
	if slot == spec.Selector {
		return true
	}
	if g.catalog == nil {
		return false
	}
	t, ok := g.catalog.Lookup(selectorValue(n.Inputs[spec.Selector].Value))
	if !ok {
		return false
	}
	p, ok := t.Parameter(slot)
	return ok && len(p.Choices) > 0
}

// Blocks returns the block defaults registry in use.
func (g *Graph) Blocks() *blocks.Registry {
	return g.blocks
}

func (g *Graph) edgesLocked(match func(model.Edge) bool) []model.Edge {
	out := make([]model.Edge, 0)
	for _, id := range g.edgeOrder {
		if e := g.edges[id]; match(e) {
			out = append(out, e)
		}
	}
	return out
}

// lockedView reads the live tables. The caller holds g.mu.
type lockedView struct{ g *Graph }

func (v lockedView) Node(id string) (model.Node, bool) {
	n, ok := v.g.nodes[id]
	if !ok {
		return model.Node{}, false
	}
	return *n, true
}

func (v lockedView) Edges() []model.Edge {
	return v.g.edgesLocked(func(model.Edge) bool { return true })
}

// Snapshot is a read-only copy of a graph.
type Snapshot struct {
	nodes map[string]model.Node
	order []string
	edges []model.Edge
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (model.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (s *Snapshot) Nodes() []model.Node {
	out := make([]model.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Edges returns the edges in insertion order.
func (s *Snapshot) Edges() []model.Edge {
	return s.edges
}
