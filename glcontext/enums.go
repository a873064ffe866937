// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import "github.com/gogpu/wgpu/hal/gles/gl"

// OpenGL enums used by the engine. Most are shared with the wgpu GLES HAL;
// the remainder are GLES 2 / extension values the HAL does not carry.
//
//nolint:revive,stylecheck // OpenGL constants use ALL_CAPS by convention.
const (
	NO_ERROR                      = gl.NO_ERROR
	INVALID_ENUM                  = gl.INVALID_ENUM
	INVALID_VALUE                 = gl.INVALID_VALUE
	INVALID_OPERATION             = gl.INVALID_OPERATION
	INVALID_FRAMEBUFFER_OPERATION = gl.INVALID_FRAMEBUFFER_OPERATION
	OUT_OF_MEMORY                 = gl.OUT_OF_MEMORY

	BLEND      = gl.BLEND
	DEPTH_TEST = gl.DEPTH_TEST

	UNSIGNED_BYTE  = gl.UNSIGNED_BYTE
	UNSIGNED_SHORT = gl.UNSIGNED_SHORT
	UNSIGNED_INT   = gl.UNSIGNED_INT
	FLOAT          = gl.FLOAT
	HALF_FLOAT     = gl.HALF_FLOAT

	TEXTURE0               = gl.TEXTURE0
	TEXTURE_2D             = gl.TEXTURE_2D
	TEXTURE_MIN_FILTER     = gl.TEXTURE_MIN_FILTER
	TEXTURE_MAG_FILTER     = gl.TEXTURE_MAG_FILTER
	TEXTURE_WRAP_S         = gl.TEXTURE_WRAP_S
	TEXTURE_WRAP_T         = gl.TEXTURE_WRAP_T
	NEAREST                = gl.NEAREST
	LINEAR                 = gl.LINEAR
	NEAREST_MIPMAP_NEAREST = gl.NEAREST_MIPMAP_NEAREST
	LINEAR_MIPMAP_NEAREST  = gl.LINEAR_MIPMAP_NEAREST
	NEAREST_MIPMAP_LINEAR  = gl.NEAREST_MIPMAP_LINEAR
	LINEAR_MIPMAP_LINEAR   = gl.LINEAR_MIPMAP_LINEAR
	REPEAT                 = gl.REPEAT
	CLAMP_TO_EDGE          = gl.CLAMP_TO_EDGE
	MIRRORED_REPEAT        = gl.MIRRORED_REPEAT
	MAX_TEXTURE_SIZE       = gl.MAX_TEXTURE_SIZE

	RED               = gl.RED
	RG                = gl.RG
	RGB               = gl.RGB
	RGBA              = gl.RGBA
	BGRA              = gl.BGRA
	R8                = gl.R8
	RG8               = gl.RG8
	R16F              = gl.R16F
	R32F              = gl.R32F
	RGBA8             = gl.RGBA8
	RGBA16F           = gl.RGBA16F
	RGBA32F           = gl.RGBA32F
	DEPTH_COMPONENT   = gl.DEPTH_COMPONENT
	DEPTH_COMPONENT16 = gl.DEPTH_COMPONENT16
	DEPTH_COMPONENT24 = gl.DEPTH_COMPONENT24
	DEPTH_COMPONENT32 = gl.DEPTH_COMPONENT32
	DEPTH24_STENCIL8  = gl.DEPTH24_STENCIL8

	VERTEX_SHADER   = gl.VERTEX_SHADER
	FRAGMENT_SHADER = gl.FRAGMENT_SHADER
	COMPILE_STATUS  = gl.COMPILE_STATUS
	LINK_STATUS     = gl.LINK_STATUS

	TRIANGLES      = gl.TRIANGLES
	TRIANGLE_STRIP = gl.TRIANGLE_STRIP

	ARRAY_BUFFER   = gl.ARRAY_BUFFER
	UNIFORM_BUFFER = gl.UNIFORM_BUFFER
	STATIC_DRAW    = gl.STATIC_DRAW
	DYNAMIC_DRAW   = gl.DYNAMIC_DRAW

	FRAMEBUFFER          = gl.FRAMEBUFFER
	FRAMEBUFFER_BINDING  = gl.FRAMEBUFFER_BINDING
	READ_FRAMEBUFFER     = gl.READ_FRAMEBUFFER
	DRAW_FRAMEBUFFER     = gl.DRAW_FRAMEBUFFER
	RENDERBUFFER         = gl.RENDERBUFFER
	COLOR_ATTACHMENT0    = gl.COLOR_ATTACHMENT0
	DEPTH_ATTACHMENT     = gl.DEPTH_ATTACHMENT
	FRAMEBUFFER_COMPLETE = gl.FRAMEBUFFER_COMPLETE
	COLOR_BUFFER_BIT     = gl.COLOR_BUFFER_BIT
	DEPTH_BUFFER_BIT     = gl.DEPTH_BUFFER_BIT
	MAX_SAMPLES          = gl.MAX_SAMPLES

	ZERO                = gl.ZERO
	ONE                 = gl.ONE
	SRC_COLOR           = gl.SRC_COLOR
	ONE_MINUS_SRC_COLOR = gl.ONE_MINUS_SRC_COLOR
	SRC_ALPHA           = gl.SRC_ALPHA
	ONE_MINUS_SRC_ALPHA = gl.ONE_MINUS_SRC_ALPHA
	DST_ALPHA           = gl.DST_ALPHA
	ONE_MINUS_DST_ALPHA = gl.ONE_MINUS_DST_ALPHA
	DST_COLOR           = gl.DST_COLOR
	ONE_MINUS_DST_COLOR = gl.ONE_MINUS_DST_COLOR

	FUNC_ADD              = gl.FUNC_ADD
	FUNC_SUBTRACT         = gl.FUNC_SUBTRACT
	FUNC_REVERSE_SUBTRACT = gl.FUNC_REVERSE_SUBTRACT
	MIN                   = gl.MIN
	MAX                   = gl.MAX

	NEVER    = gl.NEVER
	LESS     = gl.LESS
	EQUAL    = gl.EQUAL
	LEQUAL   = gl.LEQUAL
	GREATER  = gl.GREATER
	NOTEQUAL = gl.NOTEQUAL
	GEQUAL   = gl.GEQUAL
	ALWAYS   = gl.ALWAYS
)

//nolint:revive,stylecheck // OpenGL constants use ALL_CAPS by convention.
const (
	VIEWPORT                          = 0x0BA2
	LUMINANCE                         = 0x1909
	LUMINANCE_ALPHA                   = 0x190A
	SAMPLES                           = 0x80A9
	DEPTH_COMPONENT32F                = 0x8CAC
	TEXTURE_EXTERNAL_OES              = 0x8D65
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT = 0x8CD6
	FRAMEBUFFER_UNSUPPORTED           = 0x8CDD
	INVALID_INDEX                     = 0xFFFFFFFF
	SRC_ALPHA_SATURATE                = 0x0308
	CONSTANT_COLOR                    = 0x8001
	ONE_MINUS_CONSTANT_COLOR          = 0x8002
)

// IsMipmapFilter reports whether a minification filter samples mip levels.
func IsMipmapFilter(filter int32) bool {
	switch filter {
	case NEAREST_MIPMAP_NEAREST, NEAREST_MIPMAP_LINEAR,
		LINEAR_MIPMAP_NEAREST, LINEAR_MIPMAP_LINEAR:
		return true
	}
	return false
}
