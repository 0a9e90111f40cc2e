// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package integrationtests exercises the application end to end: graph
// documents and manifests on disk, and editing sessions that combine the
// graph, the edit buffer, the broadcaster and the resolver.
package integrationtests
