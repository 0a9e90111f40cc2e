package fsutil

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog/helius.hcl":       {Data: []byte("")},
		"catalog/nested/jup.hcl":   {Data: []byte("")},
		"catalog/readme.md":        {Data: []byte("")},
		"catalog/.cache/stale.hcl": {Data: []byte("")},
	}

	files, err := FindFilesByExtension(fsys, "catalog", ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog/helius.hcl", "catalog/nested/jup.hcl"}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(fstest.MapFS{}, "nope", ".hcl")
	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(fstest.MapFS{}, ".", "")
	})
}
