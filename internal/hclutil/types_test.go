package hclutil

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestTypeExprToKind(t *testing.T) {
	testCases := []struct {
		src      string
		wantType cty.Type
		wantKind valuekind.Kind
	}{
		{src: "string", wantType: cty.String, wantKind: valuekind.String},
		{src: "number", wantType: cty.Number, wantKind: valuekind.Number},
		{src: "bool", wantType: cty.Bool, wantKind: valuekind.Boolean},
		{src: "boolean", wantType: cty.Bool, wantKind: valuekind.Boolean},
		{src: "any", wantType: cty.DynamicPseudoType, wantKind: valuekind.Any},
		{src: "null", wantType: cty.DynamicPseudoType, wantKind: valuekind.Null},
		{src: "array", wantType: cty.List(cty.DynamicPseudoType), wantKind: valuekind.Array},
		{src: "object", wantType: cty.Map(cty.DynamicPseudoType), wantKind: valuekind.Object},
		{src: "list(string)", wantType: cty.List(cty.String), wantKind: valuekind.Array},
		{src: "map(number)", wantType: cty.Map(cty.Number), wantKind: valuekind.Object},
		{src: "object({ id = string })", wantType: cty.Object(map[string]cty.Type{"id": cty.String}), wantKind: valuekind.Object},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			ty, kind, diags := TypeExprToKind(parseExpr(t, tc.src))
			require.False(t, diags.HasErrors(), diags.Error())
			assert.True(t, tc.wantType.Equals(ty), "got %s", ty.FriendlyName())
			assert.Equal(t, tc.wantKind, kind)
		})
	}
}

func TestTypeExprToKind_Invalid(t *testing.T) {
	_, _, diags := TypeExprToKind(parseExpr(t, "date"))
	assert.True(t, diags.HasErrors())
}

func TestFindUniqueBlock(t *testing.T) {
	src := `
output { type = string }
output { type = number }
`
	file, diags := hclsyntax.ParseConfig([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors())
	content, diags := file.Body.Content(&hcl.BodySchema{Blocks: []hcl.BlockHeaderSchema{{Type: "output"}}})
	require.False(t, diags.HasErrors())

	block, diags := FindUniqueBlock(content.Blocks, "output")
	require.NotNil(t, block)
	assert.True(t, diags.HasErrors())
	assert.Contains(t, diags.Error(), "Duplicate \"output\" block")

	block, diags = FindUniqueBlock(content.Blocks, "input")
	assert.Nil(t, block)
	assert.False(t, diags.HasErrors())
}
