// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

// Parameter is a single declared input of a template.
type Parameter struct {
	Name string
	// Kind is the connection-level category of the parameter.
	Kind valuekind.Kind
	// Type is the exact declared type. It is cty.DynamicPseudoType for
	// `any` and `null`.
	Type        cty.Type
	Description string
	// Choices enumerates the allowed values. Empty means unrestricted.
	Choices []cty.Value
	// Default is used to initialise a fresh slot. Nil means the slot starts
	// at the kind's zero value.
	Default  *cty.Value
	Required bool
}

// InitialValue is the value a freshly instantiated slot starts with.
func (p Parameter) InitialValue() cty.Value {
	if p.Default != nil {
		return *p.Default
	}
	return valuekind.Zero(p.Kind)
}

// Template is the declared schema of one selectable block function.
type Template struct {
	Name        string
	Block       string
	Description string
	// Parameters are kept in declaration order.
	Parameters []Parameter
	// OutputKind is valuekind.Unchanged when the template declares no
	// output; consumers default it to object.
	OutputKind valuekind.Kind
	// Credentials are passed through opaquely to the executor.
	Credentials []string
	// Source is the manifest file the template was read from, if any.
	Source string
}

// Parameter returns the declared parameter with the given name.
func (t *Template) Parameter(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// EffectiveOutputKind returns the output kind, defaulting to object.
func (t *Template) EffectiveOutputKind() valuekind.Kind {
	if t.OutputKind == valuekind.Unchanged {
		return valuekind.Object
	}
	return t.OutputKind
}

// IsCredential reports whether name is one of the template's credentials.
func (t *Template) IsCredential(name string) bool {
	for _, c := range t.Credentials {
		if c == name {
			return true
		}
	}
	return false
}
