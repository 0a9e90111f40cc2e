package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/graph"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

func transferDoc(amount, recipient cty.Value) model.Document {
	return model.Document{
		Nodes: []model.Node{
			{ID: "start", BlockType: "START"},
			{ID: "c", BlockType: "CONST", Output: model.NewOutput(valuekind.Number, cty.NumberIntVal(5))},
			{ID: "t", BlockType: "SOLANA", Inputs: map[string]model.Input{
				"amount":    {Kind: valuekind.Number, Value: amount, Required: true},
				"recipient": {Kind: valuekind.String, Value: recipient, Required: true},
				"mint":      {Kind: valuekind.String, Value: cty.StringVal("")},
			}},
		},
		Edges: []model.Edge{
			{ID: "flow", Source: "start", SourceHandle: handleid.FlowBottom, Target: "t", TargetHandle: handleid.FlowTop},
		},
	}
}

func TestCheckNode(t *testing.T) {
	testCases := []struct {
		name      string
		amount    cty.Value
		recipient cty.Value
		connect   bool
		want      []string
	}{
		{
			name:      "all present",
			amount:    cty.NumberIntVal(1),
			recipient: cty.StringVal("alice"),
			want:      nil,
		},
		{
			name:      "empty string and null",
			amount:    cty.NullVal(cty.Number),
			recipient: cty.StringVal(""),
			want:      []string{"amount", "recipient"},
		},
		{
			name:      "connection satisfies",
			amount:    cty.NullVal(cty.Number),
			recipient: cty.StringVal("alice"),
			connect:   true,
			want:      nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := transferDoc(tc.amount, tc.recipient)
			if tc.connect {
				doc.Edges = append(doc.Edges, model.Edge{ID: "d", Source: "c", SourceHandle: handleid.Output, Target: "t", TargetHandle: handleid.Input("amount")})
			}
			g := graph.New(graph.WithLogger(ctxlog.Discard()))
			_, err := g.Load(doc)
			require.NoError(t, err)

			var slots []string
			for _, issue := range CheckNode(g, "t") {
				assert.Equal(t, IssueMissingRequired, issue.Kind)
				assert.Equal(t, "t", issue.NodeID)
				slots = append(slots, issue.Slot)
			}
			assert.Equal(t, tc.want, slots)
		})
	}
}

func TestResolve_AttachesIssuesWithoutFailing(t *testing.T) {
	g := graph.New(graph.WithLogger(ctxlog.Discard()))
	_, err := g.Load(transferDoc(cty.NumberIntVal(1), cty.StringVal("")))
	require.NoError(t, err)

	p, err := Resolve(g, "start")

	require.NoError(t, err)
	assert.Equal(t, []string{"start", "t"}, p.IDs())
	require.Len(t, p.Issues, 1)
	assert.Equal(t, "recipient", p.Issues[0].Slot)
	assert.False(t, p.OK())
	assert.Nil(t, CheckNode(g, "ghost"))
}
