// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"fmt"

	"github.com/vk/blockgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// IssueKind classifies node issues.
type IssueKind string

// IssueMissingRequired marks a required slot with neither a value nor an
// incoming data edge.
const IssueMissingRequired IssueKind = "missing_required"

// Issue is a problem with a single node. It fails the node, not the path.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	NodeID  string    `json:"nodeId"`
	Slot    string    `json:"slot"`
	Message string    `json:"message"`
}

// CheckNode reports the issues of one node. Unknown nodes have none.
func CheckNode(view View, nodeID string) []Issue {
	n, ok := view.Node(nodeID)
	if !ok {
		return nil
	}

	connected := make(map[string]bool)
	for _, e := range view.Edges() {
		if e.Target == nodeID && !e.IsControl() {
			connected[e.TargetHandle] = true
		}
	}

	var issues []Issue
	for _, slot := range n.SlotNames() {
		in := n.Inputs[slot]
		if !in.Required || connected[in.HandleID] || hasValue(in.Value) {
			continue
		}
		issues = append(issues, Issue{
			Kind:    IssueMissingRequired,
			NodeID:  nodeID,
			Slot:    slot,
			Message: fmt.Sprintf("required parameter %q has no value or connection", slot),
		})
	}
	return issues
}

// hasValue treats null, unknown and empty-string values as absent.
func hasValue(v cty.Value) bool {
	if model.IsUnchanged(v) || v.IsNull() || !v.IsKnown() {
		return false
	}
	if v.Type().Equals(cty.String) && v.AsString() == "" {
		return false
	}
	return true
}
