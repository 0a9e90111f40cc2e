package resolver

import (
	"errors"
	"sort"
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

func link(id, source, sourceHandle, target string) model.Edge {
	return model.Edge{ID: id, Source: source, SourceHandle: sourceHandle, Target: target, TargetHandle: handleid.FlowTop}
}

// load builds a graph from plain nodes of the given block types.
func load(t *testing.T, blockTypes map[string]string, edges ...model.Edge) *graph.Graph {
	t.Helper()
	doc := model.Document{Edges: edges}
	for _, id := range sortedKeys(blockTypes) {
		doc.Nodes = append(doc.Nodes, model.Node{ID: id, BlockType: blockTypes[id]})
	}
	g := graph.New(graph.WithLogger(ctxlog.Discard()))
	report, err := g.Load(doc)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	return g
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestResolve_CycleTerminates(t *testing.T) {
	g := load(t, map[string]string{"A": "PRINT", "B": "PRINT"},
		link("ab", "A", handleid.FlowBottom, "B"),
		link("ba", "B", handleid.FlowBottom, "A"),
	)

	p, err := Resolve(g, "A")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.IDs())
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, Warning{Kind: WarningCycle, NodeID: "B", EdgeID: "ba", Target: "A"}, p.Warnings[0])
}

func TestResolve_SingleNode(t *testing.T) {
	g := load(t, map[string]string{"A": "START", "B": "PRINT"})

	p, err := Resolve(g, "A")

	require.NoError(t, err)
	assert.Equal(t, []Step{{NodeID: "A"}}, p.Steps)
	assert.True(t, p.OK())
}

func TestResolve_UnknownStart(t *testing.T) {
	g := load(t, map[string]string{"A": "START"})

	_, err := Resolve(g, "nope")

	assert.True(t, errors.Is(err, ErrUnknownStart))
}

func TestResolve_BranchAnnotations(t *testing.T) {
	// --- Arrange ---
	g := load(t, map[string]string{
		"start": "START", "if": "IF", "then1": "PRINT", "then2": "PRINT",
		"else1": "PRINT", "after": "PRINT",
	},
		link("e1", "start", handleid.FlowBottom, "if"),
		link("e2", "if", handleid.FlowBottom, "after"),
		link("e3", "if", handleid.FlowElse, "else1"),
		link("e4", "if", handleid.FlowThen, "then1"),
		link("e5", "then1", handleid.FlowBottom, "then2"),
	)

	// --- Act ---
	p, err := Resolve(g, "start")

	// --- Assert ---
	require.NoError(t, err)
	want := []Step{
		{NodeID: "start"},
		{NodeID: "if", Branch: handleid.FlowBottom, Parent: "start", Depth: 0},
		{NodeID: "then1", Branch: handleid.FlowThen, Parent: "if", Depth: 1},
		{NodeID: "then2", Branch: handleid.FlowBottom, Parent: "then1", Depth: 1},
		{NodeID: "else1", Branch: handleid.FlowElse, Parent: "if", Depth: 1},
		{NodeID: "after", Branch: handleid.FlowBottom, Parent: "if", Depth: 0},
	}
	assert.Equal(t, want, p.Steps)
	assert.Empty(t, p.Warnings)
}

func TestResolve_LoopBodyIsDistinguishable(t *testing.T) {
	g := load(t, map[string]string{"loop": "REPEAT", "body": "PRINT", "next": "PRINT"},
		link("l1", "loop", handleid.FlowBottom, "next"),
		link("l2", "loop", handleid.FlowLoop, "body"),
		link("l3", "body", handleid.FlowBottom, "loop"),
	)

	p, err := Resolve(g, "loop")

	require.NoError(t, err)
	assert.Equal(t, []string{"loop", "body", "next"}, p.IDs())
	assert.Equal(t, handleid.FlowLoop, p.Steps[1].Branch)
	assert.Equal(t, 1, p.Steps[1].Depth)
	assert.Equal(t, handleid.FlowBottom, p.Steps[2].Branch)
	assert.Equal(t, 0, p.Steps[2].Depth)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, WarningCycle, p.Warnings[0].Kind)
}

func TestResolve_DuplicateSuccessorFirstWins(t *testing.T) {
	g := load(t, map[string]string{"A": "START", "B": "PRINT", "C": "PRINT"},
		link("first", "A", handleid.FlowBottom, "B"),
		link("second", "A", handleid.FlowBottom, "C"),
	)

	p, err := Resolve(g, "A")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.IDs())
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, WarningDuplicateSuccessor, p.Warnings[0].Kind)
	assert.Equal(t, "second", p.Warnings[0].EdgeID)
}

func TestResolve_IgnoresDataEdges(t *testing.T) {
	g := graph.New(graph.WithLogger(ctxlog.Discard()))
	_, err := g.Load(model.Document{
		Nodes: []model.Node{
			{ID: "c", BlockType: "CONST", Output: model.NewOutput(valuekind.Any, cty.NullVal(cty.DynamicPseudoType))},
			{ID: "p", BlockType: "PRINT", Inputs: map[string]model.Input{"message": {Kind: valuekind.Any}}},
		},
		Edges: []model.Edge{{ID: "d", Source: "c", SourceHandle: handleid.Output, Target: "p", TargetHandle: handleid.Input("message")}},
	})
	require.NoError(t, err)
	require.Len(t, g.Edges(), 1)

	p, err := Resolve(g, "c")

	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, p.IDs())
}

func TestResolveAll(t *testing.T) {
	g := load(t, map[string]string{
		"s1": "START", "a": "PRINT", "s2": "START", "lonely": "CONST", "x": "PRINT", "y": "PRINT",
	},
		link("1", "s1", handleid.FlowBottom, "a"),
		link("2", "x", handleid.FlowBottom, "y"),
	)

	paths := ResolveAll(g.Snapshot())

	require.Len(t, paths, 3)
	assert.Equal(t, []string{"s1", "a"}, paths[0].IDs())
	assert.Equal(t, []string{"s2"}, paths[1].IDs())
	assert.Equal(t, []string{"x", "y"}, paths[2].IDs())
}
