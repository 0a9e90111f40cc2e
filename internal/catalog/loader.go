// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/fsutil"
)

//go:embed builtin/*.hcl
var builtinManifests embed.FS

// LoadFS reads every .hcl manifest below root in fsys and registers the
// templates they declare.
func (c *Catalog) LoadFS(ctx context.Context, fsys fs.FS, root string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog loading manifests...", "root", root)

	filePaths, err := fsutil.FindFilesByExtension(fsys, root, ".hcl")
	if err != nil {
		logger.Error("Failed to walk catalog directory", "root", root, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found", "root", root)
		return nil
	}
	logger.Debug("Found manifest files to load", "files", filePaths)

	parser := hclparse.NewParser()
	loaded := 0
	for _, filePath := range filePaths {
		src, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("failed to read manifest %s: %w", filePath, err)
		}

		file, diags := parser.ParseHCL(src, filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		templates, diags := parseManifest(file, filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to process template definitions in %s: %w", filePath, diags)
		}

		for _, t := range templates {
			if err := c.add(t); err != nil {
				return fmt.Errorf("%s: %w", filePath, err)
			}
		}
		loaded += len(templates)
		logger.Debug("Loaded templates from manifest", "file", filePath, "count", len(templates))
	}

	logger.Info("Catalog loaded successfully.", "templates_loaded", loaded)
	return nil
}

// LoadDir loads manifests from a directory on disk.
func (c *Catalog) LoadDir(ctx context.Context, dir string) error {
	return c.LoadFS(ctx, os.DirFS(dir), ".")
}

// LoadBuiltin loads the manifests compiled into the binary.
func (c *Catalog) LoadBuiltin(ctx context.Context) error {
	return c.LoadFS(ctx, builtinManifests, "builtin")
}
