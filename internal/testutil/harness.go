// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds the shared harness for end-to-end tests of the
// blockgrid application.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/blockgrid/internal/app"
)

// GraphFile is the file name RunIntegrationTest reads the graph from.
const GraphFile = "graph.json"

// CatalogDir holds extra .hcl manifests; it is only wired when a file is
// written under it.
const CatalogDir = "catalog"

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg)
}

// RunIntegrationTestWithContext writes files into a temporary root, points
// cfg at them and runs the application once.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all files, creating subdirectories as needed.
	hasCatalog := false
	for name, content := range files {
		filePath := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
		if filepath.Dir(filepath.FromSlash(name)) == CatalogDir {
			hasCatalog = true
		}
	}

	// 3. Point the config at the written files.
	cfg.GraphPath = filepath.Join(tmpDir, GraphFile)
	if hasCatalog {
		cfg.CatalogPath = filepath.Join(tmpDir, CatalogDir)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	// 4. Run the app.
	a, out, logs := app.SetupAppTest(t, appConfig)
	runErr := a.Run(ctx, appConfig)

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       a,
	}
}
