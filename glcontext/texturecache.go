// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import "github.com/gogpu/nodegl/frame"

// TextureCache wraps platform pixel buffers as samplable GL textures
// without a CPU copy (CVOpenGLESTextureCache on iOS).
type TextureCache interface {
	// CreateTexture wraps one plane of buf. A non-zero status is the
	// platform error code; the returned texture is then nil.
	CreateTexture(buf frame.PixelBuffer, desc CacheTextureDesc) (CacheTexture, int)
}

// CacheTextureDesc describes the texture requested from a TextureCache.
type CacheTextureDesc struct {
	Target         uint32
	InternalFormat int32
	Width          int
	Height         int
	Format         uint32
	Type           uint32
	Plane          int
}

// CacheTexture is a texture owned by a TextureCache. It stays valid until
// Release.
type CacheTexture interface {
	Name() uint32
	Target() uint32
	Release()
}
