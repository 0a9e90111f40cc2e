// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes `template` blocks from HCL manifests.
//
// Why keep manifests in HCL?
//
// Provider wrappers are written and reviewed by people who never touch the
// graph core. Declaring their schema next to them in a small HCL file keeps
// the contract readable, lets the loader report precise source ranges for
// mistakes, and lets us check defaults and choices against the declared type
// before any user ever drags the block onto a canvas.
package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/blockgrid/internal/hclutil"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// manifestRootSchema expects one or more 'template' blocks.
type manifestRootSchema struct {
	Templates []*hclTemplate `hcl:"template,block"`
}

// hclTemplate is a single 'template' block for decoding purposes.
type hclTemplate struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var templateBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "block"},
		{Name: "description"},
		{Name: "credentials"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "parameter", LabelNames: []string{"name"}},
		{Type: "output"},
	},
}

var parameterBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for it manually for a better message.
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
		{Name: "choices"},
		{Name: "required"},
	},
}

var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "description"},
	},
}

// parseManifest decodes every template declared in an HCL file.
func parseManifest(file *hcl.File, filePath string) ([]*Template, hcl.Diagnostics) {
	var allDiags hcl.Diagnostics
	if file == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	root := &manifestRootSchema{}
	diags := gohcl.DecodeBody(file.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	templates := make([]*Template, 0, len(root.Templates))
	for _, parsed := range root.Templates {
		content, contentDiags := parsed.Body.Content(templateBodySchema)
		allDiags = append(allDiags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		tmpl := &Template{
			Name:   parsed.Name,
			Source: filePath,
		}

		if attr, ok := content.Attributes["block"]; ok {
			allDiags = append(allDiags, gohcl.DecodeExpression(attr.Expr, nil, &tmpl.Block)...)
		}
		if attr, ok := content.Attributes["description"]; ok {
			allDiags = append(allDiags, gohcl.DecodeExpression(attr.Expr, nil, &tmpl.Description)...)
		}
		if attr, ok := content.Attributes["credentials"]; ok {
			allDiags = append(allDiags, gohcl.DecodeExpression(attr.Expr, nil, &tmpl.Credentials)...)
		}

		var paramDiags hcl.Diagnostics
		tmpl.Parameters, paramDiags = parseParameters(content.Blocks)
		allDiags = append(allDiags, paramDiags...)

		outputBlock, outDiags := hclutil.FindUniqueBlock(content.Blocks, "output")
		allDiags = append(allDiags, outDiags...)
		if outputBlock != nil {
			var kindDiags hcl.Diagnostics
			tmpl.OutputKind, kindDiags = parseOutput(outputBlock)
			allDiags = append(allDiags, kindDiags...)
		}

		templates = append(templates, tmpl)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}
	return templates, allDiags
}

// parseParameters decodes all 'parameter' blocks, preserving their order.
func parseParameters(blocks hcl.Blocks) ([]Parameter, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var params []Parameter
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("parameter") {
		name := block.Labels[0]
		if _, exists := seen[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter definition",
				Detail:   fmt.Sprintf("A parameter named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = struct{}{}

		content, contentDiags := block.Body.Content(parameterBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		typeAttr, ok := content.Attributes["type"]
		if !ok {
			missing := block.Body.MissingItemRange()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'type' attribute",
				Detail:   "The 'type' attribute is required for all parameter blocks.",
				Subject:  &missing,
			})
			continue
		}

		ty, kind, typeDiags := hclutil.TypeExprToKind(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			continue
		}

		param := Parameter{Name: name, Kind: kind, Type: ty}

		if attr, ok := content.Attributes["description"]; ok {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &param.Description)...)
		}
		if attr, ok := content.Attributes["required"]; ok {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &param.Required)...)
		}

		if attr, ok := content.Attributes["choices"]; ok {
			choices, choiceDiags := decodeChoices(attr, param)
			diags = append(diags, choiceDiags...)
			if choiceDiags.HasErrors() {
				continue
			}
			param.Choices = choices
		}

		if attr, ok := content.Attributes["default"]; ok {
			val, valDiags := decodeLiteral(attr, param, "default value")
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			if param.Required {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Required parameter with default",
					Detail:   fmt.Sprintf("The parameter '%s' is required and therefore cannot declare a default value.", name),
					Subject:  attr.Expr.Range().Ptr(),
				})
				continue
			}
			if len(param.Choices) > 0 && !containsValue(param.Choices, val) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Default value not among choices",
					Detail:   fmt.Sprintf("The default value for '%s' must be one of its declared choices.", name),
					Subject:  attr.Expr.Range().Ptr(),
				})
				continue
			}
			param.Default = &val
		}

		params = append(params, param)
	}

	return params, diags
}

// parseOutput decodes the type of the single 'output' block.
func parseOutput(block *hcl.Block) (valuekind.Kind, hcl.Diagnostics) {
	content, diags := block.Body.Content(outputBodySchema)
	if diags.HasErrors() {
		return valuekind.Unchanged, diags
	}
	_, kind, typeDiags := hclutil.TypeExprToKind(content.Attributes["type"].Expr)
	diags = append(diags, typeDiags...)
	return kind, diags
}

// decodeLiteral evaluates a literal attribute and converts it to the
// parameter's declared type. A nil eval context is used because schema
// values must be literals.
func decodeLiteral(attr *hcl.Attribute, param Parameter, what string) (cty.Value, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	converted, err := conformValue(val, param)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + what + " type",
			Detail:   fmt.Sprintf("The %s for '%s' is not compatible with its type, '%s': %s.", what, param.Name, param.Kind, err),
			Subject:  attr.Expr.Range().Ptr(),
		})
		return cty.NilVal, diags
	}
	return converted, diags
}

// decodeChoices evaluates a `choices = [...]` attribute.
func decodeChoices(attr *hcl.Attribute, param Parameter) ([]cty.Value, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.CanIterateElements() || val.IsNull() || val.Type().IsMapType() || val.Type().IsObjectType() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid choices",
			Detail:   fmt.Sprintf("The choices for '%s' must be a list of values.", param.Name),
			Subject:  attr.Expr.Range().Ptr(),
		})
		return nil, diags
	}

	var choices []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		converted, err := conformValue(elem, param)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid choice",
				Detail:   fmt.Sprintf("A choice for '%s' is not compatible with its type, '%s': %s.", param.Name, param.Kind, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			return nil, diags
		}
		choices = append(choices, converted)
	}
	return choices, diags
}

// conformValue converts val to the parameter's declared type.
func conformValue(val cty.Value, param Parameter) (cty.Value, error) {
	if param.Kind == valuekind.Null {
		if !val.IsNull() {
			return cty.NilVal, fmt.Errorf("only null is allowed")
		}
		return val, nil
	}
	return convert.Convert(val, param.Type)
}

func containsValue(values []cty.Value, v cty.Value) bool {
	for _, candidate := range values {
		if candidate.RawEquals(v) {
			return true
		}
	}
	return false
}
