// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
)

// ErrUnknownStart is returned when the start node does not exist.
var ErrUnknownStart = errors.New("unknown start node")

// View is the read access the resolver needs. Both *graph.Graph and
// *graph.Snapshot satisfy it.
type View interface {
	Node(id string) (model.Node, bool)
	Nodes() []model.Node
	Edges() []model.Edge
}

// Step is one node of an execution path.
type Step struct {
	NodeID string `json:"nodeId"`
	// Branch is the source handle of the edge that led here. It is empty
	// for the start node.
	Branch string `json:"branch,omitempty"`
	Parent string `json:"parent,omitempty"`
	// Depth counts enclosing branch bodies.
	Depth int `json:"depth"`
}

// WarningKind classifies structural warnings.
type WarningKind string

const (
	// WarningCycle marks a control edge back to a node still being walked.
	WarningCycle WarningKind = "cycle"
	// WarningDuplicateSuccessor marks an edge ignored because an earlier
	// edge leaves the same source handle.
	WarningDuplicateSuccessor WarningKind = "duplicate_successor"
)

// Warning is a structural problem found while walking.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	NodeID string      `json:"nodeId"`
	EdgeID string      `json:"edgeId"`
	Target string      `json:"target"`
}

// Path is an ordered, duplicate-free execution order.
type Path struct {
	Start    string    `json:"start"`
	Steps    []Step    `json:"steps"`
	Warnings []Warning `json:"warnings,omitempty"`
	// Issues are node-level problems of nodes on the path.
	Issues []Issue `json:"issues,omitempty"`
}

// IDs returns the node ids in execution order.
func (p *Path) IDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.NodeID
	}
	return ids
}

// OK reports whether the path has neither warnings nor issues.
func (p *Path) OK() bool {
	return len(p.Warnings) == 0 && len(p.Issues) == 0
}

type successor struct {
	edge  model.Edge
	extra []model.Edge
}

// controlIndex maps node id to source handle to the edges leaving it, in
// insertion order.
type controlIndex map[string]map[string][]model.Edge

func indexControl(edges []model.Edge) controlIndex {
	idx := make(controlIndex)
	for _, e := range edges {
		if !e.IsControl() || e.TargetHandle != handleid.FlowTop {
			continue
		}
		if idx[e.Source] == nil {
			idx[e.Source] = make(map[string][]model.Edge)
		}
		idx[e.Source][e.SourceHandle] = append(idx[e.Source][e.SourceHandle], e)
	}
	return idx
}

func (idx controlIndex) successors(nodeID string) []successor {
	var out []successor
	for _, h := range handleid.ControlSources() {
		edges := idx[nodeID][h]
		if len(edges) == 0 {
			continue
		}
		out = append(out, successor{edge: edges[0], extra: edges[1:]})
	}
	return out
}

type frame struct {
	id    string
	depth int
	succ  []successor
	next  int
}

// Resolve walks the control edges reachable from startID.
func Resolve(view View, startID string) (*Path, error) {
	if _, ok := view.Node(startID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStart, startID)
	}
	idx := indexControl(view.Edges())

	p := &Path{Start: startID}
	visited := map[string]bool{startID: true}
	onStack := map[string]bool{startID: true}
	p.Steps = append(p.Steps, Step{NodeID: startID})

	stack := []*frame{p.enter(idx, startID, 0)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.succ) {
			onStack[top.id] = false
			stack = stack[:len(stack)-1]
			continue
		}
		s := top.succ[top.next]
		top.next++

		target := s.edge.Target
		if _, ok := view.Node(target); !ok {
			continue
		}
		if onStack[target] {
			p.Warnings = append(p.Warnings, Warning{Kind: WarningCycle, NodeID: top.id, EdgeID: s.edge.ID, Target: target})
			continue
		}
		if visited[target] {
			continue
		}

		depth := top.depth
		if handleid.IsBranch(s.edge.SourceHandle) {
			depth++
		}
		visited[target] = true
		onStack[target] = true
		p.Steps = append(p.Steps, Step{NodeID: target, Branch: s.edge.SourceHandle, Parent: top.id, Depth: depth})
		stack = append(stack, p.enter(idx, target, depth))
	}

	for _, id := range p.IDs() {
		p.Issues = append(p.Issues, CheckNode(view, id)...)
	}
	return p, nil
}

// enter builds the frame of a freshly visited node and records warnings for
// ignored duplicate successors.
func (p *Path) enter(idx controlIndex, id string, depth int) *frame {
	succ := idx.successors(id)
	for _, s := range succ {
		for _, e := range s.extra {
			p.Warnings = append(p.Warnings, Warning{Kind: WarningDuplicateSuccessor, NodeID: id, EdgeID: e.ID, Target: e.Target})
		}
	}
	return &frame{id: id, depth: depth, succ: succ}
}

// ResolveAll resolves a path from every root, in node id order. A root is a
// node without incoming control edges that is either a START block or has
// outgoing control edges; pure data nodes are skipped.
func ResolveAll(view View) []*Path {
	edges := view.Edges()
	hasIncoming := make(map[string]bool)
	hasOutgoing := make(map[string]bool)
	for _, e := range edges {
		if e.IsControl() && e.TargetHandle == handleid.FlowTop {
			hasIncoming[e.Target] = true
			hasOutgoing[e.Source] = true
		}
	}

	var roots []string
	for _, n := range view.Nodes() {
		if hasIncoming[n.ID] {
			continue
		}
		if n.BlockType == "START" || hasOutgoing[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	sort.Strings(roots)

	paths := make([]*Path, 0, len(roots))
	for _, id := range roots {
		p, err := Resolve(view, id)
		if err != nil {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
