// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/blockgrid/internal/graph"
	"github.com/vk/blockgrid/internal/resolver"
	"github.com/vk/blockgrid/internal/validate"
)

// Result is what a run hands to an external executor.
type Result struct {
	Paths    []*resolver.Path `json:"paths"`
	Rejected []RejectedEdge   `json:"rejected,omitempty"`
}

// RejectedEdge is the output form of a validate.Rejection.
type RejectedEdge struct {
	EdgeID string          `json:"edgeId"`
	Reason validate.Reason `json:"reason"`
	Detail string          `json:"detail,omitempty"`
}

func newResult(paths []*resolver.Path, report graph.LoadReport) Result {
	res := Result{Paths: paths}
	if res.Paths == nil {
		res.Paths = []*resolver.Path{}
	}
	for _, rej := range report.Rejected {
		res.Rejected = append(res.Rejected, RejectedEdge{EdgeID: rej.Edge.ID, Reason: rej.Reason, Detail: rej.Detail})
	}
	return res
}

// OK reports whether nothing was rejected and no path has issues.
func (r Result) OK() bool {
	return len(r.Rejected) == 0 && r.issueCount() == 0
}

func (r Result) issueCount() int {
	n := 0
	for _, p := range r.Paths {
		n += len(p.Issues)
	}
	return n
}

func (a *App) write(format string, snap *graph.Snapshot, res Result) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case OutputMermaid:
		_, err := fmt.Fprint(a.outW, graph.NewExporter(a.graph).DrawMermaid())
		return err
	default:
		_, err := fmt.Fprint(a.outW, renderText(snap, res))
		return err
	}
}

func renderText(snap *graph.Snapshot, res Result) string {
	var sb strings.Builder
	for i, p := range res.Paths {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Path from %s (%d steps)\n", p.Start, len(p.Steps))
		for _, s := range p.Steps {
			blockType := "?"
			if n, ok := snap.Node(s.NodeID); ok {
				blockType = n.BlockType
			}
			indent := strings.Repeat("  ", s.Depth+1)
			if s.Branch == "" {
				fmt.Fprintf(&sb, "%s%s %s\n", indent, blockType, s.NodeID)
			} else {
				fmt.Fprintf(&sb, "%s%s %s via %s\n", indent, blockType, s.NodeID, s.Branch)
			}
		}
		for _, w := range p.Warnings {
			fmt.Fprintf(&sb, "  warning: %s on edge %s (%s -> %s)\n", w.Kind, w.EdgeID, w.NodeID, w.Target)
		}
		for _, is := range p.Issues {
			fmt.Fprintf(&sb, "  issue: node %s: %s\n", is.NodeID, is.Message)
		}
	}
	for _, r := range res.Rejected {
		fmt.Fprintf(&sb, "rejected edge %s: %s\n", r.EdgeID, r.Reason)
	}
	if len(res.Paths) == 0 {
		sb.WriteString("No execution paths.\n")
	}
	return sb.String()
}
