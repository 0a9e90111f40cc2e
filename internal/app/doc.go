// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app contains the core application logic. It wires the template
// catalog, the graph and the optional change broadcaster together, and runs
// one load-validate-resolve pass over a graph document, decoupled from any
// specific entrypoint like a CLI or server.
package app
