// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package blocks

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

const (
	// SelectorSlot is the input slot that picks a catalog template on
	// provider blocks.
	SelectorSlot = "function"
	// NetworkSlot is the implicit context slot kept across instantiation.
	NetworkSlot = "network"
	// DefaultNetwork is the initial value of NetworkSlot.
	DefaultNetwork = "mainnet"
)

// Slot is the default content of one input slot.
type Slot struct {
	Name  string
	Kind  valuekind.Kind
	Value cty.Value
}

// Spec describes the defaults of a block type.
type Spec struct {
	Type   string
	Inputs []Slot
	// HasOutput is false for blocks that produce no value.
	HasOutput  bool
	OutputKind valuekind.Kind
	// Selector names the slot whose value selects a template, or "".
	Selector string
	// Context lists slots that survive parameter instantiation.
	Context []string
	// Branches lists branch source handles (flow-then, flow-else,
	// flow-loop) exposed in addition to flow-bottom.
	Branches []string
}

// Registry resolves a block type to its Spec.
type Registry struct {
	mu      sync.RWMutex
	specs   map[string]Spec
	catalog catalog.Reader
}

// NewRegistry creates a registry pre-populated with the built-in blocks.
// cat may be nil, in which case no provider blocks are recognised.
func NewRegistry(cat catalog.Reader) *Registry {
	r := &Registry{
		specs:   make(map[string]Spec),
		catalog: cat,
	}
	for _, s := range builtins() {
		r.Register(s)
	}
	return r
}

// Register adds a block spec. Registering the same type twice panics.
func (r *Registry) Register(s Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[s.Type]; exists {
		panic(fmt.Sprintf("block type '%s' already registered", s.Type))
	}
	slog.Debug("Registering block type.", "type", s.Type)
	r.specs[s.Type] = s
}

// Spec returns the defaults for blockType. Unknown types that own catalog
// templates are provider blocks; any other unknown type gets a bare spec
// with an `any` output.
func (r *Registry) Spec(blockType string) Spec {
	r.mu.RLock()
	s, ok := r.specs[blockType]
	r.mu.RUnlock()
	if ok {
		return s
	}

	if r.catalog != nil && len(r.catalog.ForBlock(blockType)) > 0 {
		return providerSpec(blockType)
	}
	return Spec{Type: blockType, HasOutput: true, OutputKind: valuekind.Any}
}

// Types returns the registered built-in block types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.specs))
	for t := range r.specs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// IsContextSlot reports whether slot survives instantiation on blockType.
func (s Spec) IsContextSlot(slot string) bool {
	if slot == s.Selector && slot != "" {
		return true
	}
	for _, c := range s.Context {
		if c == slot {
			return true
		}
	}
	return false
}

func providerSpec(blockType string) Spec {
	return Spec{
		Type: blockType,
		Inputs: []Slot{
			{Name: SelectorSlot, Kind: valuekind.String, Value: cty.StringVal("")},
			{Name: NetworkSlot, Kind: valuekind.String, Value: cty.StringVal(DefaultNetwork)},
		},
		HasOutput:  true,
		OutputKind: valuekind.Object,
		Selector:   SelectorSlot,
		Context:    []string{NetworkSlot},
	}
}

func builtins() []Spec {
	return []Spec{
		{
			Type: "START",
		},
		{
			Type:       "CONST",
			HasOutput:  true,
			OutputKind: valuekind.Any,
		},
		{
			Type: "GET",
			Inputs: []Slot{
				{Name: "name", Kind: valuekind.String, Value: cty.StringVal("")},
			},
			HasOutput:  true,
			OutputKind: valuekind.Any,
		},
		{
			Type: "SET",
			Inputs: []Slot{
				{Name: "name", Kind: valuekind.String, Value: cty.StringVal("")},
				{Name: "value", Kind: valuekind.Any, Value: cty.NullVal(cty.DynamicPseudoType)},
			},
		},
		{
			Type: "IF",
			Inputs: []Slot{
				{Name: "condition", Kind: valuekind.Boolean, Value: cty.False},
			},
			Branches: []string{handleid.FlowThen, handleid.FlowElse},
		},
		{
			Type: "REPEAT",
			Inputs: []Slot{
				{Name: "count", Kind: valuekind.Number, Value: cty.NumberIntVal(1)},
			},
			HasOutput:  true,
			OutputKind: valuekind.Number,
			Branches:   []string{handleid.FlowLoop},
		},
		{
			Type: "PRINT",
			Inputs: []Slot{
				{Name: "message", Kind: valuekind.Any, Value: cty.NullVal(cty.DynamicPseudoType)},
			},
		},
	}
}
