// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package params turns a selected catalog template into the input slots of a
// node. Instantiate is pure: the same selector against the same catalog
// always yields the same slot set.
package params

import (
	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/valuekind"
)

// reserved parameters are supplied out-of-band and never become slots.
var reserved = map[string]struct{}{
	"apiKey":     {},
	"network":    {},
	"connection": {},
}

// Result is the outcome of instantiating a selector.
type Result struct {
	// Slots maps slot name to its fresh input record.
	Slots      map[string]model.Input
	OutputKind valuekind.Kind
	// Template is nil when Known is false.
	Template *catalog.Template
	Known    bool
}

// IsReserved reports whether a parameter is hidden from the graph, either
// globally or as one of t's declared credentials.
func IsReserved(name string, t *catalog.Template) bool {
	if _, ok := reserved[name]; ok {
		return true
	}
	return t != nil && t.IsCredential(name)
}

// Instantiate builds the slot set for selector. An unknown selector yields an
// empty set and an object output.
func Instantiate(reader catalog.Reader, selector string) Result {
	res := Result{
		Slots:      map[string]model.Input{},
		OutputKind: valuekind.Object,
	}
	if reader == nil || selector == "" {
		return res
	}
	t, ok := reader.Lookup(selector)
	if !ok {
		return res
	}

	res.Template = t
	res.Known = true
	res.OutputKind = t.EffectiveOutputKind()
	for _, p := range t.Parameters {
		if IsReserved(p.Name, t) {
			continue
		}
		res.Slots[p.Name] = model.Input{
			HandleID: handleid.Input(p.Name),
			Kind:     p.Kind,
			Value:    p.InitialValue(),
			Required: p.Required,
		}
	}
	return res
}

// Merge computes a node's next input table from its current one. Slots for
// which keep returns true are carried over untouched. A parameter slot that
// already exists with the same kind keeps its current value. Removed lists
// the handle ids of current slots that did not survive.
func Merge(current map[string]model.Input, res Result, keep func(slot string) bool) (next map[string]model.Input, removed []string) {
	next = make(map[string]model.Input, len(res.Slots)+2)
	for name, in := range current {
		if keep != nil && keep(name) {
			next[name] = in
		}
	}
	for name, fresh := range res.Slots {
		if _, taken := next[name]; taken {
			continue
		}
		if prev, ok := current[name]; ok && prev.Kind == fresh.Kind {
			fresh.Value = prev.Value
		}
		next[name] = fresh
	}
	for _, name := range sortedNames(current) {
		if _, ok := next[name]; !ok {
			removed = append(removed, current[name].HandleID)
		}
	}
	return next, removed
}

func sortedNames(m map[string]model.Input) []string {
	n := model.Node{Inputs: m}
	return n.SlotNames()
}
