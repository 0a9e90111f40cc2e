// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import "github.com/vk/blockgrid/internal/catalog"

// coreModules is the definitive list of template sources compiled into the
// blockgrid binary.
var coreModules = []catalog.Module{
	catalog.Builtin{},
}
