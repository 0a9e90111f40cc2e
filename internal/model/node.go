// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"sort"

	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

// Unchanged is passed as a value to update operations to keep the stored
// value.
var Unchanged = cty.NilVal

// IsUnchanged reports whether v is the Unchanged placeholder.
func IsUnchanged(v cty.Value) bool {
	return v.Type() == cty.NilType
}

// Input is one input slot of a node.
type Input struct {
	HandleID string
	Kind     valuekind.Kind
	Value    cty.Value
	// Required is copied from the template parameter the slot was
	// instantiated from.
	Required bool
}

// Output is the single output record of a node.
type Output struct {
	HandleID string
	Kind     valuekind.Kind
	Value    cty.Value
}

// NewOutput builds an output record on the synthetic output handle.
func NewOutput(kind valuekind.Kind, value cty.Value) *Output {
	return &Output{HandleID: handleid.Output, Kind: kind, Value: value}
}

// Node is a block placed on the graph.
type Node struct {
	ID        string
	BlockType string
	Inputs    map[string]Input
	// Output is nil for blocks that produce no value.
	Output *Output
}

// Clone returns a deep copy of the node's tables.
func (n Node) Clone() Node {
	out := n
	out.Inputs = make(map[string]Input, len(n.Inputs))
	for k, v := range n.Inputs {
		out.Inputs[k] = v
	}
	if n.Output != nil {
		o := *n.Output
		out.Output = &o
	}
	return out
}

// SlotNames returns the input slot names in sorted order.
func (n Node) SlotNames() []string {
	names := make([]string, 0, len(n.Inputs))
	for name := range n.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputByHandle finds the slot whose handle id equals handle.
func (n Node) InputByHandle(handle string) (string, Input, bool) {
	for _, name := range n.SlotNames() {
		in := n.Inputs[name]
		if in.HandleID == handle {
			return name, in, true
		}
	}
	return "", Input{}, false
}
