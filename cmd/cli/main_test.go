package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/cli"
)

const cycleDoc = `{
  "nodes": [
    {"id": "a", "blockType": "START"},
    {"id": "b", "blockType": "PRINT", "inputs": {"message": {"valueKind": "any", "value": null}}}
  ],
  "edges": [
    {"id": "ab", "source": "a", "sourceHandle": "flow-bottom", "target": "b", "targetHandle": "flow-top"},
    {"id": "ba", "source": "b", "sourceHandle": "flow-bottom", "target": "a", "targetHandle": "flow-top"}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_ResolvesGraph(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeFile(t, "graph.json", cycleDoc)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{"-start", "a", path})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Path from a (2 steps)")
	require.Contains(t, out.String(), "warning: cycle on edge ba (b -> a)")
}

func TestRun_StrictMapsToExitCode(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	doc := `{"nodes": [{"id": "a", "blockType": "CONST"}, {"id": "b", "blockType": "START"}],
	         "edges": [{"id": "x", "source": "a", "sourceHandle": "output", "target": "b", "targetHandle": "input-none"}]}`
	path := writeFile(t, "graph.json", doc)

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-strict", path})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 3, exitErr.Code)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MissingGraphFile(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "nope.json")})

	require.ErrorContains(t, err, "failed to read graph document")
}
