// Package nodegl renders scene graphs of reference counted nodes with
// OpenGL.
//
// # Overview
//
// A scene is a DAG of nodes: geometry, programs, textures, media sources,
// transforms, render-to-texture passes and renders. A Context owns the GL
// context and drives every node of its scene through the same lifecycle on
// each draw:
//
//	uninitialized -> initialized -> prefetched -> updated -> drawn
//
// Nodes are initialized when attached to a context, prefetched (GPU
// resources allocated) when they become active for a draw time, updated at
// most once per draw pass and released when they stop being active.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/nodegl"
//		_ "github.com/gogpu/nodegl/glcontext/softgl"
//	)
//
//	ctx, err := nodegl.New(nodegl.WithBackend("soft"), nodegl.WithViewport(640, 360))
//	if err != nil {
//		return err
//	}
//	defer ctx.Close()
//
//	quad := nodegl.NewQuad(nodegl.DefaultQuadParams())
//	defer quad.Unref()
//	scene := nodegl.NewRender(nodegl.RenderParams{Geometry: quad})
//	defer scene.Unref()
//
//	if err := ctx.SetScene(scene); err != nil {
//		return err
//	}
//	for i := 0; i < 60; i++ {
//		if err := ctx.Draw(float64(i) / 60); err != nil {
//			return err
//		}
//	}
//
// # Ownership
//
// Constructors return a node holding one reference. Parents take their own
// reference on every child, so callers usually Unref a child right after
// handing it to its parent.
//
// # Textures and media
//
// A Texture2D fed by a Media node uploads each new decoded frame. CPU
// frames are copied; Android MediaCodec and Apple VideoToolbox frames are
// mapped and, when needed, converted to RGBA on the GPU through an
// internal render-to-texture pass.
//
// # Coordinate System
//
// Normalized device coordinates: origin at the viewport center, X right,
// Y up. Texture coordinates have their origin at the bottom-left corner and
// ReadPixels returns rows bottom first.
package nodegl
