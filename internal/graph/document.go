// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"fmt"

	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/validate"
	"go.uber.org/multierr"
)

// LoadReport summarises what Load kept and dropped.
type LoadReport struct {
	Nodes int
	Edges int
	// Rejected holds the edges the validator refused.
	Rejected []*validate.Rejection
	// Replaced holds ids of edges superseded by a later edge into the same
	// target handle.
	Replaced []string
}

// Err combines the rejections into a single error, or returns nil.
func (r LoadReport) Err() error {
	var err error
	for _, rej := range r.Rejected {
		err = multierr.Append(err, rej)
	}
	return err
}

// Load replaces the graph's contents with doc. Edges are validated one by
// one in document order; rejected edges are reported, not fatal. Malformed
// nodes fail the whole load and leave the graph untouched.
func (g *Graph) Load(doc model.Document) (LoadReport, error) {
	tmp := &Graph{
		nodes:  make(map[string]*model.Node, len(doc.Nodes)),
		edges:  make(map[string]model.Edge, len(doc.Edges)),
		logger: g.logger,
	}

	for i, n := range doc.Nodes {
		if n.ID == "" {
			return LoadReport{}, fmt.Errorf("node #%d: missing id", i)
		}
		if _, dup := tmp.nodes[n.ID]; dup {
			return LoadReport{}, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNode)
		}
		c := normaliseNode(n)
		tmp.nodes[c.ID] = &c
		tmp.nodeOrder = append(tmp.nodeOrder, c.ID)
	}

	var report LoadReport
	for _, e := range doc.Edges {
		e = e.WithDefaultID()
		if err := validate.Check(e, lockedView{tmp}); err != nil {
			var rej *validate.Rejection
			if errors.As(err, &rej) {
				report.Rejected = append(report.Rejected, rej)
			}
			continue
		}
		for _, ch := range tmp.insertEdgeLocked(e) {
			if ch.Kind == EdgeRemoved {
				report.Replaced = append(report.Replaced, ch.EdgeID)
			}
		}
	}
	report.Nodes = len(tmp.nodes)
	report.Edges = len(tmp.edges)

	g.mu.Lock()
	g.nodes, g.nodeOrder = tmp.nodes, tmp.nodeOrder
	g.edges, g.edgeOrder = tmp.edges, tmp.edgeOrder
	g.mu.Unlock()

	g.logger.Debug("Graph loaded.", "nodes", report.Nodes, "edges", report.Edges, "rejected", len(report.Rejected))
	g.emit(Changelist{{Kind: GraphLoaded}})
	return report, nil
}

// Document returns the graph in its persistence format.
func (g *Graph) Document() model.Document {
	g.mu.RLock()
	defer g.mu.RUnlock()

	doc := model.Document{
		Nodes: make([]model.Node, 0, len(g.nodeOrder)),
		Edges: g.edgesLocked(func(model.Edge) bool { return true }),
	}
	for _, id := range g.nodeOrder {
		doc.Nodes = append(doc.Nodes, g.nodes[id].Clone())
	}
	return doc
}

func normaliseNode(n model.Node) model.Node {
	c := n.Clone()
	for slot, in := range c.Inputs {
		if in.HandleID == "" {
			in.HandleID = handleid.Input(slot)
			c.Inputs[slot] = in
		}
	}
	if c.Output != nil && c.Output.HandleID == "" {
		c.Output.HandleID = handleid.Output
	}
	return c
}
