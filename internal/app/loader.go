// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/model"
)

// Loader reads a graph document from a path.
type Loader interface {
	Load(ctx context.Context, path string) (model.Document, error)
}

// FileLoader reads JSON documents from the local filesystem.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(ctx context.Context, path string) (model.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading graph document.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read graph document %s: %w", path, err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to parse graph document %s: %w", path, err)
	}
	logger.Debug("Graph document parsed.", "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}
