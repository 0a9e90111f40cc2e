// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package valuekind

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Kind is the value category of a data handle.
type Kind string

const (
	// Unchanged is the zero Kind. Update operations treat it as "keep the
	// kind that is already stored".
	Unchanged Kind = ""

	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Object  Kind = "object"
	Array   Kind = "array"
	Any     Kind = "any"
	Null    Kind = "null"
)

// All returns every valid kind in a stable order.
func All() []Kind {
	return []Kind{String, Number, Boolean, Object, Array, Any, Null}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case String, Number, Boolean, Object, Array, Any, Null:
		return true
	}
	return false
}

func (k Kind) String() string {
	if k == Unchanged {
		return "unchanged"
	}
	return string(k)
}

// Coalesced reports whether interactive edits of this kind are typed
// keystroke by keystroke and should be buffered before they are committed.
func (k Kind) Coalesced() bool {
	return k == String || k == Number
}

// Parse converts a keyword into a Kind. "bool" is accepted as an alias of
// "boolean" so that HCL manifests can use their native keyword.
func Parse(s string) (Kind, error) {
	if s == "bool" {
		return Boolean, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return Unchanged, fmt.Errorf("unknown value kind %q", s)
	}
	return k, nil
}

// UnmarshalText rejects unknown kinds when decoding documents.
func (k *Kind) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = Unchanged
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FromCtyType maps a cty type onto its kind.
func FromCtyType(t cty.Type) Kind {
	switch {
	case t == cty.NilType:
		return Null
	case t.Equals(cty.DynamicPseudoType):
		return Any
	case t.Equals(cty.String):
		return String
	case t.Equals(cty.Number):
		return Number
	case t.Equals(cty.Bool):
		return Boolean
	case t.IsObjectType(), t.IsMapType():
		return Object
	case t.IsListType(), t.IsSetType(), t.IsTupleType():
		return Array
	default:
		return Any
	}
}

// Of returns the kind implied by a concrete value. A null value is Null
// whatever its type.
func Of(v cty.Value) Kind {
	if v.Type() == cty.NilType || v.IsNull() {
		return Null
	}
	return FromCtyType(v.Type())
}

// Zero returns the value a freshly created slot of kind k starts with.
func Zero(k Kind) cty.Value {
	switch k {
	case String:
		return cty.StringVal("")
	case Number:
		return cty.Zero
	case Boolean:
		return cty.False
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}
