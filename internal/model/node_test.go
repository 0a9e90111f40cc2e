package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

func TestNode_CloneIsIndependent(t *testing.T) {
	n := Node{
		ID:     "a",
		Inputs: map[string]Input{"x": {HandleID: "input-x", Kind: valuekind.String, Value: cty.StringVal("1")}},
		Output: NewOutput(valuekind.Any, cty.NullVal(cty.DynamicPseudoType)),
	}

	c := n.Clone()
	c.Inputs["y"] = Input{HandleID: "input-y"}
	c.Output.Kind = valuekind.Number

	assert.Len(t, n.Inputs, 1)
	assert.Equal(t, valuekind.Any, n.Output.Kind)
}

func TestNode_InputByHandle(t *testing.T) {
	n := Node{Inputs: map[string]Input{
		"amount": {HandleID: handleid.Input("amount"), Kind: valuekind.Number},
	}}

	name, in, ok := n.InputByHandle("input-amount")
	assert.True(t, ok)
	assert.Equal(t, "amount", name)
	assert.Equal(t, valuekind.Number, in.Kind)

	_, _, ok = n.InputByHandle("input-missing")
	assert.False(t, ok)
}

func TestIsUnchanged(t *testing.T) {
	assert.True(t, IsUnchanged(Unchanged))
	assert.True(t, IsUnchanged(cty.Value{}))
	assert.False(t, IsUnchanged(cty.NullVal(cty.DynamicPseudoType)))
	assert.False(t, IsUnchanged(cty.StringVal("")))
}

func TestEdge_Defaults(t *testing.T) {
	e := Edge{Source: "a", SourceHandle: handleid.FlowBottom, Target: "b", TargetHandle: handleid.FlowTop}.WithDefaultID()

	assert.Equal(t, "a:flow-bottom->b:flow-top", e.ID)
	assert.True(t, e.IsControl())
	assert.True(t, e.Touches("a"))
	assert.True(t, e.Touches("b"))
	assert.False(t, e.Touches("c"))

	kept := Edge{ID: "custom", Source: "a"}.WithDefaultID()
	assert.Equal(t, "custom", kept.ID)
}
