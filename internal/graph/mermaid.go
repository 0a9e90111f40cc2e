// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"strings"

	"github.com/vk/blockgrid/internal/blocks"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
)

// Exporter renders a graph in diagram formats.
type Exporter struct {
	graph *Graph
}

// NewExporter creates an exporter for g.
func NewExporter(g *Graph) *Exporter {
	return &Exporter{graph: g}
}

// MermaidOptions configures Mermaid output.
type MermaidOptions struct {
	// Direction of the flowchart, "TD" when empty.
	Direction string
	// HideData omits data edges.
	HideData bool
}

// DrawMermaid renders the graph as a top-down Mermaid flowchart.
func (x *Exporter) DrawMermaid() string {
	return x.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions renders the graph with custom options. Control edges
// are solid and labelled with their branch, data edges are dotted and
// labelled with the target slot. IF and REPEAT nodes are rhombi.
func (x *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	snap := x.graph.Snapshot()

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	for _, n := range snap.Nodes() {
		// Blocks with branch handles are drawn as decisions.
		if len(x.graph.blocks.Spec(n.BlockType).Branches) > 0 {
			sb.WriteString(fmt.Sprintf("    %s{\"%s\"}\n", mermaidID(n.ID), nodeLabel(n)))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", mermaidID(n.ID), nodeLabel(n)))
	}

	for _, e := range snap.Edges() {
		src, dst := mermaidID(e.Source), mermaidID(e.Target)
		switch {
		case e.IsControl() && handleid.IsBranch(e.SourceHandle):
			branch := strings.TrimPrefix(e.SourceHandle, "flow-")
			sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", src, branch, dst))
		case e.IsControl():
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", src, dst))
		case !opts.HideData:
			slot := strings.TrimPrefix(e.TargetHandle, "input-")
			sb.WriteString(fmt.Sprintf("    %s -.->|%s| %s\n", src, slot, dst))
		}
	}
	return sb.String()
}

func nodeLabel(n model.Node) string {
	label := n.BlockType
	if in, ok := n.Inputs[blocks.SelectorSlot]; ok {
		if sel := selectorValue(in.Value); sel != "" {
			label += ": " + sel
		}
	}
	return strings.ReplaceAll(label, `"`, "'")
}

// mermaidID maps arbitrary ids onto Mermaid-safe identifiers.
func mermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
