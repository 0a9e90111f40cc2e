package editbuffer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/graph"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

type call struct {
	node  string
	slot  string
	kind  valuekind.Kind
	value cty.Value
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) SetInput(nodeID, slot string, kind valuekind.Kind, value cty.Value) graph.Changelist {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{nodeID, slot, kind, value})
	return graph.Changelist{{Kind: graph.NodeUpdated, NodeID: nodeID, Slot: slot}}
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// dropdowns is a recorder that also reports choice slots.
type dropdowns struct {
	recorder
	slots map[string]bool
}

func (d *dropdowns) IsChoiceSlot(_, slot string) bool { return d.slots[slot] }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }

func newBuffer(r *recorder, c *fakeClock) *Buffer {
	return New(r, WithClock(c.now), WithLogger(ctxlog.Discard()))
}

func TestStage_CoalescesTextEdits(t *testing.T) {
	// --- Arrange ---
	rec := &recorder{}
	clock := newClock()
	b := newBuffer(rec, clock)

	// --- Act ---
	for _, s := range []string{"a", "ab", "abc"} {
		assert.False(t, b.Stage("n1", "name", valuekind.String, cty.StringVal(s)))
		clock.advance(100 * time.Millisecond)
	}

	// --- Assert ---
	assert.Equal(t, 0, b.Flush(clock.now()), "last edit is only 100ms old")
	clock.advance(400 * time.Millisecond)
	assert.Equal(t, 1, b.Flush(clock.now()))

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].value.RawEquals(cty.StringVal("abc")))
	assert.Equal(t, 0, b.Pending())
}

func TestStage_NonTextCommitsImmediately(t *testing.T) {
	rec := &recorder{}
	clock := newClock()
	b := newBuffer(rec, clock)

	b.Stage("n1", "condition", valuekind.Unchanged, cty.StringVal("draft"))
	committed := b.Stage("n1", "condition", valuekind.Boolean, cty.True)

	assert.True(t, committed)
	assert.Equal(t, 0, b.Pending(), "the pending text edit is dropped")
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, valuekind.Boolean, calls[0].kind)
}

func TestStage_NumbersAreBuffered(t *testing.T) {
	rec := &recorder{}
	b := newBuffer(rec, newClock())

	assert.False(t, b.Stage("n1", "amount", valuekind.Unchanged, cty.NumberIntVal(4)))
	assert.Equal(t, 1, b.Pending())
	assert.Empty(t, rec.snapshot())
}

func TestFlush_OrdersByAge(t *testing.T) {
	rec := &recorder{}
	clock := newClock()
	b := newBuffer(rec, clock)

	b.Stage("n2", "b", valuekind.String, cty.StringVal("first"))
	clock.advance(time.Millisecond)
	b.Stage("n1", "a", valuekind.String, cty.StringVal("second"))

	assert.Equal(t, 2, b.FlushAll())

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "n2", calls[0].node)
	assert.Equal(t, "n1", calls[1].node)
}

func TestFlush_CommitsIntoGraph(t *testing.T) {
	g := graph.New(graph.WithLogger(ctxlog.Discard()))
	n := g.AddNode("GET")
	clock := newClock()
	b := New(g, WithClock(clock.now), WithWindow(time.Second), WithLogger(ctxlog.Discard()))

	b.Stage(n.ID, "name", valuekind.String, cty.StringVal("bal"))
	clock.advance(999 * time.Millisecond)
	b.Flush(clock.now())
	got, _ := g.Node(n.ID)
	assert.True(t, got.Inputs["name"].Value.RawEquals(cty.StringVal("")))

	clock.advance(time.Millisecond)
	b.Flush(clock.now())
	got, _ = g.Node(n.ID)
	assert.True(t, got.Inputs["name"].Value.RawEquals(cty.StringVal("bal")))
}

func TestRun_FlushesOnShutdown(t *testing.T) {
	rec := &recorder{}
	b := New(rec, WithWindow(time.Hour), WithLogger(ctxlog.Discard()))
	b.Stage("n1", "name", valuekind.String, cty.StringVal("x"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, rec.snapshot(), 1)
}

func TestStage_ChoiceSlotsCommitImmediately(t *testing.T) {
	// --- Arrange ---
	d := &dropdowns{slots: map[string]bool{"function": true, "interval": true}}
	b := New(d, WithClock(newClock().now), WithLogger(ctxlog.Discard()))

	// --- Act ---
	selector := b.Stage("n1", "function", valuekind.String, cty.StringVal("getOHLCV"))
	choice := b.Stage("n1", "interval", valuekind.Unchanged, cty.StringVal("1H"))
	typed := b.Stage("n1", "address", valuekind.String, cty.StringVal("So1"))

	// --- Assert ---
	assert.True(t, selector)
	assert.True(t, choice)
	assert.False(t, typed)
	assert.Equal(t, 1, b.Pending())
	calls := d.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "function", calls[0].slot)
	assert.Equal(t, "interval", calls[1].slot)
}

func TestStage_SelectorReachesGraphAtOnce(t *testing.T) {
	// --- Arrange ---
	cat := catalog.New()
	cat.Register(&catalog.Template{
		Name:  "candles",
		Block: "MARKET",
		Parameters: []catalog.Parameter{
			{Name: "amount", Kind: valuekind.Number, Type: cty.Number, Required: true},
			{Name: "interval", Kind: valuekind.String, Type: cty.String,
				Choices: []cty.Value{cty.StringVal("1m"), cty.StringVal("1H")}},
		},
	})
	g := graph.New(graph.WithCatalog(cat), graph.WithLogger(ctxlog.Discard()))
	n := g.AddNode("MARKET")
	c := g.AddNode("CONST")
	g.SetOutput(c.ID, valuekind.Number, cty.NumberIntVal(5))
	b := New(g, WithClock(newClock().now), WithLogger(ctxlog.Discard()))

	// --- Act ---
	assert.True(t, b.Stage(n.ID, "function", valuekind.String, cty.StringVal("candles")))
	_, err := g.Connect(model.Edge{Source: c.ID, SourceHandle: handleid.Output, Target: n.ID, TargetHandle: handleid.Input("amount")})

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, b.Stage(n.ID, "interval", valuekind.String, cty.StringVal("1H")))
	assert.False(t, b.Stage(n.ID, "amount", valuekind.Number, cty.NumberIntVal(7)))
	got, _ := g.Node(n.ID)
	assert.True(t, got.Inputs["interval"].Value.RawEquals(cty.StringVal("1H")))
	assert.Equal(t, 1, b.Pending())
}

func TestRun_NonPositiveTickUsesWindow(t *testing.T) {
	rec := &recorder{}
	b := New(rec, WithWindow(time.Millisecond), WithLogger(ctxlog.Discard()))
	b.Stage("n1", "name", valuekind.String, cty.StringVal("x"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Run(ctx, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, rec.snapshot(), 1)
}
