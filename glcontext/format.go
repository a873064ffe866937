// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Triple is the OpenGL description of a pixel format: the client data
// format, the sized internal format and the component type.
type Triple struct {
	Format         uint32
	InternalFormat int32
	Type           uint32
}

// TextureFormat maps a gputypes texture format onto its OpenGL triple.
// ES contexts without RED/RG support fall back to luminance formats for
// one and two component textures.
func (c *Context) TextureFormat(f gputypes.TextureFormat) (Triple, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return Triple{RGBA, RGBA8, UNSIGNED_BYTE}, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return Triple{BGRA, RGBA8, UNSIGNED_BYTE}, nil
	case gputypes.TextureFormatR8Unorm:
		if c.Gl1Comp == LUMINANCE {
			return Triple{LUMINANCE, LUMINANCE, UNSIGNED_BYTE}, nil
		}
		return Triple{RED, R8, UNSIGNED_BYTE}, nil
	case gputypes.TextureFormatRG8Unorm:
		if c.Gl2Comp == LUMINANCE_ALPHA {
			return Triple{LUMINANCE_ALPHA, LUMINANCE_ALPHA, UNSIGNED_BYTE}, nil
		}
		return Triple{RG, RG8, UNSIGNED_BYTE}, nil
	case gputypes.TextureFormatR32Float:
		return Triple{c.Gl1Comp, R32F, FLOAT}, nil
	case gputypes.TextureFormatRGBA16Float:
		return Triple{RGBA, RGBA16F, HALF_FLOAT}, nil
	case gputypes.TextureFormatRGBA32Float:
		return Triple{RGBA, RGBA32F, FLOAT}, nil
	case gputypes.TextureFormatDepth16Unorm:
		return Triple{DEPTH_COMPONENT, DEPTH_COMPONENT16, UNSIGNED_SHORT}, nil
	case gputypes.TextureFormatDepth24Plus:
		return Triple{DEPTH_COMPONENT, DEPTH_COMPONENT24, UNSIGNED_INT}, nil
	case gputypes.TextureFormatDepth32Float:
		return Triple{DEPTH_COMPONENT, DEPTH_COMPONENT32F, FLOAT}, nil
	}
	return Triple{}, fmt.Errorf("%w: texture format %s", ErrUnsupportedFormat, f)
}

// SizedFormat returns the sized internal format for a client format and
// component type, as required by glTexImage2D on GLES 3 and core profiles.
func (c *Context) SizedFormat(format, typ uint32) int32 {
	if typ == FLOAT {
		switch format {
		case RED:
			return R32F
		case RGBA:
			return RGBA32F
		}
	}
	switch format {
	case RED:
		return R8
	case RG:
		return RG8
	case RGBA, BGRA:
		return RGBA8
	}
	return int32(format)
}

// MinFilter maps sampler filters onto an OpenGL minification filter.
func MinFilter(f gputypes.FilterMode, mip gputypes.MipmapFilterMode) int32 {
	linear := f == gputypes.FilterModeLinear
	switch mip {
	case gputypes.MipmapFilterModeNearest:
		if linear {
			return LINEAR_MIPMAP_NEAREST
		}
		return NEAREST_MIPMAP_NEAREST
	case gputypes.MipmapFilterModeLinear:
		if linear {
			return LINEAR_MIPMAP_LINEAR
		}
		return NEAREST_MIPMAP_LINEAR
	}
	if linear {
		return LINEAR
	}
	return NEAREST
}

// MagFilter maps a sampler filter onto an OpenGL magnification filter.
func MagFilter(f gputypes.FilterMode) int32 {
	if f == gputypes.FilterModeLinear {
		return LINEAR
	}
	return NEAREST
}

// Wrap maps an address mode onto an OpenGL wrap mode. Undefined maps to
// CLAMP_TO_EDGE.
func Wrap(m gputypes.AddressMode) int32 {
	switch m {
	case gputypes.AddressModeRepeat:
		return REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return MIRRORED_REPEAT
	}
	return CLAMP_TO_EDGE
}

// BlendFactor maps a blend factor onto OpenGL. Undefined maps to ONE.
func BlendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return ZERO
	case gputypes.BlendFactorSrc:
		return SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return ONE_MINUS_CONSTANT_COLOR
	}
	return ONE
}

// BlendEquation maps a blend operation onto OpenGL. Undefined maps to
// FUNC_ADD.
func BlendEquation(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return MIN
	case gputypes.BlendOperationMax:
		return MAX
	}
	return FUNC_ADD
}

// CompareFunc maps a depth comparison onto OpenGL. Undefined maps to LESS.
func CompareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return NEVER
	case gputypes.CompareFunctionEqual:
		return EQUAL
	case gputypes.CompareFunctionLessEqual:
		return LEQUAL
	case gputypes.CompareFunctionGreater:
		return GREATER
	case gputypes.CompareFunctionNotEqual:
		return NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return GEQUAL
	case gputypes.CompareFunctionAlways:
		return ALWAYS
	}
	return LESS
}
