package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/valuekind"
)

func TestSpec_Builtins(t *testing.T) {
	r := NewRegistry(nil)

	ifSpec := r.Spec("IF")
	require.Len(t, ifSpec.Inputs, 1)
	assert.Equal(t, "condition", ifSpec.Inputs[0].Name)
	assert.Equal(t, []string{handleid.FlowThen, handleid.FlowElse}, ifSpec.Branches)
	assert.False(t, ifSpec.HasOutput)

	repeat := r.Spec("REPEAT")
	assert.Equal(t, []string{handleid.FlowLoop}, repeat.Branches)
	assert.Equal(t, valuekind.Number, repeat.OutputKind)

	assert.Contains(t, r.Types(), "CONST")
}

func TestSpec_ProviderFromCatalog(t *testing.T) {
	cat := catalog.New()
	cat.Register(&catalog.Template{Name: "getBalance", Block: "HELIUS"})
	r := NewRegistry(cat)

	s := r.Spec("HELIUS")
	assert.Equal(t, SelectorSlot, s.Selector)
	assert.True(t, s.IsContextSlot(SelectorSlot))
	assert.True(t, s.IsContextSlot(NetworkSlot))
	assert.False(t, s.IsContextSlot("address"))
	assert.Equal(t, valuekind.Object, s.OutputKind)
}

func TestSpec_UnknownBlock(t *testing.T) {
	r := NewRegistry(catalog.New())

	s := r.Spec("MYSTERY")
	assert.Equal(t, "MYSTERY", s.Type)
	assert.Empty(t, s.Inputs)
	assert.True(t, s.HasOutput)
	assert.Equal(t, valuekind.Any, s.OutputKind)
	assert.Empty(t, s.Selector)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := NewRegistry(nil)
	assert.Panics(t, func() {
		r.Register(Spec{Type: "IF"})
	})
}
