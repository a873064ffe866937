// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gles provides the hardware OpenGL backend. On Linux it creates a
// headless EGL context and drives it through the goffi-based bindings of
// github.com/gogpu/wgpu/hal/gles/gl. Importing the package registers the
// "gles" backend with glcontext.
//
// The wgpu bindings do not load glRenderbufferStorageMultisample or
// glGetInternalformativ, so contexts opened here lack the framebuffer
// object and internal format query features; render-to-texture nodes
// render single-sampled on this backend.
package gles

import "github.com/gogpu/nodegl/glcontext"

// BackendName is the registry name of the hardware backend.
const BackendName = "gles"

func init() {
	glcontext.Register(BackendName, glcontext.BackendFunc(Open))
}
