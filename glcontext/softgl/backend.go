// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softgl

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/nodegl/glcontext"
)

// BackendName is the registry name of the software backend.
const BackendName = "soft"

func init() {
	glcontext.Register(BackendName, glcontext.BackendFunc(Open))
}

// Open creates a context over a fresh software GL.
func Open(opts ...glcontext.Option) (*glcontext.Context, error) {
	g := New()
	base := []glcontext.Option{
		glcontext.WithAdapterInfo(gpucontext.AdapterInfo{
			Name: "nodegl software GL",
			Type: gpucontext.AdapterTypeSoftware,
		}),
		glcontext.WithFeatures(glcontext.FeatureVertexArrayObject | glcontext.FeatureTextureStorage),
	}
	return glcontext.New(g, append(base, opts...)...), nil
}
