// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package catalog provides the Template Catalog: a read-only registry that
// maps a template name (the value a block's function selector can take) to
// its declared schema.
//
// A Template is analogous to a function signature. It declares which named
// parameters a block needs, what kind of value it produces and which
// external credentials its implementation expects. The graph core never
// executes a template; it only reads the schema to build a node's input
// slots and to type-check connections.
//
// Templates come from two places:
//
//  1. Go code, via Register (used by tests and compiled-in providers).
//  2. HCL manifests, via LoadFS/LoadDir/LoadBuiltin:
//
//	template "getBalance" {
//	  block       = "HELIUS"
//	  credentials = ["HELIUS_API_KEY"]
//	  parameter "address" {
//	    type     = string
//	    required = true
//	  }
//	  output { type = number }
//	}
//
// After loading, the catalog is treated as immutable data.
package catalog
