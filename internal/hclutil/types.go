// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

// TypeExprToKind converts an HCL type expression into a cty type and the
// value kind it collapses to.
//
// Besides the standard HCL type constraints (string, number, bool, any,
// list(...), set(...), map(...), object({...}), tuple([...])) the bare
// keywords `object`, `array`, `boolean` and `null` are accepted, since block
// schemas are usually written in terms of kinds rather than exact types.
func TypeExprToKind(expr hcl.Expression) (cty.Type, valuekind.Kind, hcl.Diagnostics) {
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(traversal) == 1 {
		switch traversal.RootName() {
		case "null":
			return cty.DynamicPseudoType, valuekind.Null, nil
		case "object":
			return cty.Map(cty.DynamicPseudoType), valuekind.Object, nil
		case "array":
			return cty.List(cty.DynamicPseudoType), valuekind.Array, nil
		case "boolean":
			return cty.Bool, valuekind.Boolean, nil
		}
	}

	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, valuekind.Unchanged, diags
	}
	return ty, valuekind.FromCtyType(ty), diags
}
