// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/blockgrid/internal/broadcast"
	"github.com/vk/blockgrid/internal/catalog"
	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/graph"
	"github.com/vk/blockgrid/internal/resolver"
)

// ErrInvalidGraph is returned by a strict run that found rejected edges or
// node issues.
var ErrInvalidGraph = errors.New("graph has rejected edges or node issues")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *catalog.Catalog
	graph   *graph.Graph
	loader  Loader
	dial    func(ctx context.Context, cfg broadcast.Config) (*broadcast.Broadcaster, error)
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Without modules the built-in templates are used.
func NewApp(outW, logW io.Writer, appConfig *Config, loader Loader, modules ...catalog.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat := catalog.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	logger.Debug("All catalog modules registered.", "count", len(modules))

	if appConfig.CatalogPath != "" {
		if err := cat.LoadDir(ctx, appConfig.CatalogPath); err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	logger.Debug("Catalog ready.", "templates", cat.Len(), "blocks", cat.Blocks())

	if loader == nil {
		loader = FileLoader{}
	}

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: cat,
		graph:   graph.New(graph.WithCatalog(cat), graph.WithLogger(logger)),
		loader:  loader,
		dial:    broadcast.Dial,
	}, nil
}

// Catalog returns the application's catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Graph returns the application's graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Run loads the graph document, validates it, resolves execution paths and
// writes them to the output in the configured format.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.BroadcastURL != "" {
		b, err := a.dial(ctx, broadcast.Config{URL: appConfig.BroadcastURL, Namespace: appConfig.BroadcastNamespace})
		if err != nil {
			return fmt.Errorf("failed to start broadcaster: %w", err)
		}
		defer b.Close()
		cancel := a.graph.Subscribe(b)
		defer cancel()
	}

	doc, err := a.loader.Load(ctx, appConfig.GraphPath)
	if err != nil {
		return err
	}
	report, err := a.graph.Load(doc)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	for _, rej := range report.Rejected {
		a.logger.Warn("Edge rejected.", "edge", rej.Edge.ID, "reason", rej.Reason, "detail", rej.Detail)
	}
	a.logger.Info("Graph loaded.", "nodes", report.Nodes, "edges", report.Edges, "rejected", len(report.Rejected))

	snap := a.graph.Snapshot()
	var paths []*resolver.Path
	if appConfig.Start != "" {
		p, err := resolver.Resolve(snap, appConfig.Start)
		if err != nil {
			return fmt.Errorf("failed to resolve execution path: %w", err)
		}
		paths = []*resolver.Path{p}
	} else {
		paths = resolver.ResolveAll(snap)
	}
	a.logger.Debug("Execution paths resolved.", "count", len(paths))

	res := newResult(paths, report)
	if err := a.write(appConfig.Output, snap, res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if appConfig.Strict && !res.OK() {
		return fmt.Errorf("%w: %d rejected edge(s), %d issue(s)", ErrInvalidGraph, len(res.Rejected), res.issueCount())
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
