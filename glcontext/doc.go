// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glcontext is the GPU context surface consumed by the node graph:
// a table of OpenGL entry points, a capability bitmask and, on platforms
// that have one, a texture cache wrapping decoder pixel buffers as
// samplable textures.
//
// Backends register themselves by name and are opened through Open or
// OpenBest:
//
//	import _ "github.com/gogpu/nodegl/glcontext/softgl"
//
//	ctx, err := glcontext.Open("soft")
//
// A Context is bound to the thread that made it current. None of its
// methods lock.
package glcontext
