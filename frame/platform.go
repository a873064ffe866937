// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

// BufferFormat is the pixel layout reported by a platform pixel buffer.
type BufferFormat uint32

// Pixel buffer layouts with a mapped upload path.
const (
	BufferUnknown BufferFormat = iota
	BufferBGRA
	BufferRGBA
	// BufferNV12 is bi-planar 4:2:0: a full size luma plane and an
	// interleaved half size chroma plane.
	BufferNV12
)

// String returns the layout name.
func (f BufferFormat) String() string {
	switch f {
	case BufferBGRA:
		return "bgra"
	case BufferRGBA:
		return "rgba"
	case BufferNV12:
		return "nv12"
	default:
		return "unknown"
	}
}

// PixelBuffer is a platform owned picture (a CoreVideo pixel buffer).
// Its own dimensions and stride are authoritative and may differ from the
// nominal values of the Frame that carries it.
type PixelBuffer interface {
	Width() int
	Height() int
	BytesPerRow() int
	Format() BufferFormat
	// Lock maps the buffer for CPU reads. It may block.
	Lock() error
	Unlock() error
	// Data returns the base address of the first plane while locked.
	Data() []byte
}

// MediaCodecBuffer is one opaque decoder output buffer.
type MediaCodecBuffer interface {
	// Release hands the buffer back to the decoder, rendering it to the
	// decoder's output surface when render is true.
	Release(render bool) error
}

// MediaCodecSurface is the consumer side of a decoder output: an external
// GPU texture the decoder renders into. It is owned by the media source.
type MediaCodecSurface interface {
	TextureID() uint32
	TextureTarget() uint32
	// RenderBuffer releases buf to the surface, waits for the picture to
	// be latched and returns its column-major texture transform. It
	// blocks until the picture is available.
	RenderBuffer(buf MediaCodecBuffer) ([16]float32, error)
}
