// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
)

// Output formats understood by Run.
const (
	OutputText    = "text"
	OutputJSON    = "json"
	OutputMermaid = "mermaid"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath   string // JSON graph document
	CatalogPath string // extra .hcl template manifests

	// Start resolves a single path from this node; empty resolves every
	// root.
	Start  string
	Output string
	// Strict turns rejected edges and node issues into a failing run.
	Strict bool

	LogFormat string
	LogLevel  string

	BroadcastURL       string
	BroadcastNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}

	switch cfg.Output {
	case "":
		cfg.Output = OutputText
	case OutputText, OutputJSON, OutputMermaid:
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Output)
	}

	if cfg.BroadcastNamespace == "" {
		cfg.BroadcastNamespace = "/"
	}
	return &cfg, nil
}
