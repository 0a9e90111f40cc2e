// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"

	"github.com/vk/blockgrid/internal/blocks"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/params"
	"github.com/vk/blockgrid/internal/validate"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

// AddNode creates a node of blockType with the block's default slots.
func (g *Graph) AddNode(blockType string) model.Node {
	spec := g.blocks.Spec(blockType)
	n := &model.Node{
		ID:        g.newID(),
		BlockType: blockType,
		Inputs:    make(map[string]model.Input, len(spec.Inputs)),
	}
	for _, s := range spec.Inputs {
		n.Inputs[s.Name] = model.Input{HandleID: handleid.Input(s.Name), Kind: s.Kind, Value: s.Value}
	}
	if spec.HasOutput {
		n.Output = model.NewOutput(spec.OutputKind, valuekind.Zero(spec.OutputKind))
	}

	g.mu.Lock()
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	out := n.Clone()
	g.mu.Unlock()

	g.logger.Debug("Node added.", "node", n.ID, "block", blockType)
	g.emit(Changelist{{Kind: NodeAdded, NodeID: n.ID}})
	return out
}

// SetInput upserts an input slot. Unknown nodes are ignored. Passing
// valuekind.Unchanged or model.Unchanged keeps the stored kind or value.
// Changing the node's selector slot re-instantiates its parameters.
func (g *Graph) SetInput(nodeID, slot string, kind valuekind.Kind, value cty.Value) Changelist {
	g.mu.Lock()
	n, ok := g.nodes[nodeID]
	if !ok {
		g.mu.Unlock()
		g.logger.Debug("Ignoring input update for unknown node.", "node", nodeID, "slot", slot)
		return nil
	}

	prev, exists := n.Inputs[slot]
	next := prev
	if !exists {
		next.HandleID = handleid.Input(slot)
	}
	switch {
	case kind != valuekind.Unchanged:
		next.Kind = kind
	case !exists && !model.IsUnchanged(value):
		next.Kind = valuekind.Of(value)
	case !exists:
		next.Kind = valuekind.Any
	}
	switch {
	case !model.IsUnchanged(value):
		next.Value = value
	case !exists:
		next.Value = valuekind.Zero(next.Kind)
	}
	n.Inputs[slot] = next
	changes := Changelist{{Kind: NodeUpdated, NodeID: nodeID, Slot: slot}}

	spec := g.blocks.Spec(n.BlockType)
	changed := !exists || model.IsUnchanged(prev.Value) || !prev.Value.RawEquals(next.Value)
	if spec.Selector != "" && spec.Selector == slot && changed {
		changes = append(changes, g.instantiateLocked(n, spec)...)
	}
	g.mu.Unlock()

	g.emit(changes)
	return changes
}

// SetOutput updates the node's output record, creating it when absent.
func (g *Graph) SetOutput(nodeID string, kind valuekind.Kind, value cty.Value) Changelist {
	g.mu.Lock()
	n, ok := g.nodes[nodeID]
	if !ok {
		g.mu.Unlock()
		g.logger.Debug("Ignoring output update for unknown node.", "node", nodeID)
		return nil
	}

	if n.Output == nil {
		n.Output = model.NewOutput(valuekind.Any, cty.NullVal(cty.DynamicPseudoType))
	}
	if kind != valuekind.Unchanged {
		n.Output.Kind = kind
	}
	if !model.IsUnchanged(value) {
		n.Output.Value = value
	}
	g.mu.Unlock()

	changes := Changelist{{Kind: NodeUpdated, NodeID: nodeID}}
	g.emit(changes)
	return changes
}

// Reinstantiate re-runs parameter instantiation for the node's current
// selector. It is idempotent.
func (g *Graph) Reinstantiate(nodeID string) (Changelist, error) {
	g.mu.Lock()
	n, ok := g.nodes[nodeID]
	if !ok {
		g.mu.Unlock()
		return nil, fmt.Errorf("reinstantiate %s: %w", nodeID, ErrNodeNotFound)
	}
	spec := g.blocks.Spec(n.BlockType)
	var changes Changelist
	if spec.Selector != "" {
		changes = g.instantiateLocked(n, spec)
	}
	g.mu.Unlock()

	g.emit(changes)
	return changes, nil
}

// RemoveNode deletes the node and every edge touching it.
func (g *Graph) RemoveNode(nodeID string) Changelist {
	g.mu.Lock()
	if _, ok := g.nodes[nodeID]; !ok {
		g.mu.Unlock()
		return nil
	}

	var changes Changelist
	for _, e := range g.edgesLocked(func(e model.Edge) bool { return e.Touches(nodeID) }) {
		g.deleteEdgeLocked(e.ID)
		changes = append(changes, Change{Kind: EdgeRemoved, EdgeID: e.ID})
	}
	delete(g.nodes, nodeID)
	g.nodeOrder = removeID(g.nodeOrder, nodeID)
	changes = append(changes, Change{Kind: NodeRemoved, NodeID: nodeID})
	g.mu.Unlock()

	g.logger.Debug("Node removed.", "node", nodeID, "changes", len(changes))
	g.emit(changes)
	return changes
}

// AddEdge stores e if the validator accepts it. Any edge already entering
// the same target handle is replaced. An empty e.ID is derived from the
// endpoints.
func (g *Graph) AddEdge(e model.Edge) (bool, Changelist) {
	changes, err := g.Connect(e)
	return err == nil, changes
}

// Connect is AddEdge returning the *validate.Rejection on failure.
func (g *Graph) Connect(e model.Edge) (Changelist, error) {
	e = e.WithDefaultID()

	g.mu.Lock()
	if err := validate.Check(e, lockedView{g}); err != nil {
		g.mu.Unlock()
		g.logger.Debug("Edge rejected.", "edge", e.ID, "error", err)
		return nil, err
	}
	changes := g.insertEdgeLocked(e)
	g.mu.Unlock()

	g.emit(changes)
	return changes, nil
}

// RemoveEdge deletes the edge with the given id, if present.
func (g *Graph) RemoveEdge(edgeID string) Changelist {
	g.mu.Lock()
	if _, ok := g.edges[edgeID]; !ok {
		g.mu.Unlock()
		return nil
	}
	g.deleteEdgeLocked(edgeID)
	g.mu.Unlock()

	changes := Changelist{{Kind: EdgeRemoved, EdgeID: edgeID}}
	g.emit(changes)
	return changes
}

func (g *Graph) insertEdgeLocked(e model.Edge) Changelist {
	var changes Changelist
	for _, old := range g.edgesLocked(func(old model.Edge) bool {
		return old.ID == e.ID || (old.Target == e.Target && old.TargetHandle == e.TargetHandle)
	}) {
		g.deleteEdgeLocked(old.ID)
		changes = append(changes, Change{Kind: EdgeRemoved, EdgeID: old.ID})
		g.logger.Debug("Edge replaced.", "old", old.ID, "new", e.ID)
	}
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	return append(changes, Change{Kind: EdgeAdded, EdgeID: e.ID})
}

func (g *Graph) deleteEdgeLocked(id string) {
	delete(g.edges, id)
	g.edgeOrder = removeID(g.edgeOrder, id)
}

// instantiateLocked rebuilds n's parameter slots from its selector. Edges
// into slots that disappeared are pruned, and edges touching a slot or
// output whose kind changed are pruned when they no longer validate.
func (g *Graph) instantiateLocked(n *model.Node, spec blocks.Spec) Changelist {
	selector := selectorValue(n.Inputs[spec.Selector].Value)
	res := params.Instantiate(g.catalog, selector)
	if !res.Known && selector != "" {
		g.logger.Debug("Unknown template selected; clearing parameters.", "node", n.ID, "selector", selector)
	}

	prev := n.Inputs
	next, removed := params.Merge(prev, res, spec.IsContextSlot)
	n.Inputs = next

	outputChanged := false
	switch {
	case n.Output == nil:
		n.Output = model.NewOutput(res.OutputKind, valuekind.Zero(res.OutputKind))
	case n.Output.Kind != res.OutputKind:
		n.Output.Kind = res.OutputKind
		n.Output.Value = valuekind.Zero(res.OutputKind)
		outputChanged = true
	}
	changes := Changelist{{Kind: NodeUpdated, NodeID: n.ID}}

	gone := make(map[string]struct{}, len(removed))
	for _, h := range removed {
		gone[h] = struct{}{}
	}
	rekinded := make(map[string]struct{})
	for name, in := range next {
		if old, ok := prev[name]; ok && old.Kind != in.Kind {
			rekinded[in.HandleID] = struct{}{}
		}
	}

	for _, e := range g.edgesLocked(func(e model.Edge) bool {
		return e.Target == n.ID || (e.Source == n.ID && e.SourceHandle == handleid.Output)
	}) {
		if e.Target == n.ID {
			if _, dangling := gone[e.TargetHandle]; dangling {
				g.deleteEdgeLocked(e.ID)
				changes = append(changes, Change{Kind: EdgeRemoved, EdgeID: e.ID})
				g.logger.Debug("Pruned dangling edge.", "edge", e.ID, "node", n.ID)
				continue
			}
		}
		_, inChanged := rekinded[e.TargetHandle]
		recheck := (e.Target == n.ID && inChanged) || (e.Source == n.ID && outputChanged)
		if !recheck {
			continue
		}
		if err := validate.Check(e, lockedView{g}); err != nil {
			g.deleteEdgeLocked(e.ID)
			changes = append(changes, Change{Kind: EdgeRemoved, EdgeID: e.ID})
			g.logger.Debug("Pruned edge invalidated by a kind change.", "edge", e.ID, "node", n.ID, "error", err)
		}
	}
	return changes
}

func selectorValue(v cty.Value) string {
	if model.IsUnchanged(v) || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return ""
	}
	return v.AsString()
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
