// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/glcontext/softgl"
)

func TestFeatureProbing(t *testing.T) {
	full := glcontext.New(softgl.New())
	if !full.Features.Has(glcontext.FeatureFramebufferObject) {
		t.Error("full GL should have framebuffer object feature")
	}
	if _, ok := full.Multisample(); !ok {
		t.Error("Multisample() not available on full GL")
	}

	basic := glcontext.New(softgl.Basic(softgl.New()),
		glcontext.WithFeatures(glcontext.FeatureFramebufferObject|glcontext.FeatureTexture3D))
	if basic.Features.Has(glcontext.FeatureFramebufferObject) {
		t.Error("framebuffer object feature must come from the function table")
	}
	if !basic.Features.Has(glcontext.FeatureTexture3D) {
		t.Error("backend-reported feature dropped")
	}
	if _, ok := basic.InternalformatQuerier(); ok {
		t.Error("InternalformatQuerier() available on basic GL")
	}
}

func TestFeaturesString(t *testing.T) {
	if got := glcontext.Features(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	f := glcontext.FeatureFramebufferObject | glcontext.FeatureInternalformatQuery
	if got := f.String(); got != "framebuffer_object|internalformat_query" {
		t.Errorf("String() = %q", got)
	}
}

func TestTextureFormat(t *testing.T) {
	ctx := glcontext.New(softgl.New())
	tests := []struct {
		in   gputypes.TextureFormat
		want glcontext.Triple
	}{
		{gputypes.TextureFormatRGBA8Unorm, glcontext.Triple{Format: glcontext.RGBA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}},
		{gputypes.TextureFormatBGRA8Unorm, glcontext.Triple{Format: glcontext.BGRA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}},
		{gputypes.TextureFormatR8Unorm, glcontext.Triple{Format: glcontext.RED, InternalFormat: glcontext.R8, Type: glcontext.UNSIGNED_BYTE}},
		{gputypes.TextureFormatR32Float, glcontext.Triple{Format: glcontext.RED, InternalFormat: glcontext.R32F, Type: glcontext.FLOAT}},
		{gputypes.TextureFormatDepth16Unorm, glcontext.Triple{Format: glcontext.DEPTH_COMPONENT, InternalFormat: glcontext.DEPTH_COMPONENT16, Type: glcontext.UNSIGNED_SHORT}},
	}
	for _, tt := range tests {
		got, err := ctx.TextureFormat(tt.in)
		if err != nil {
			t.Errorf("%v: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%v = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ctx.TextureFormat(gputypes.TextureFormatUndefined); !errors.Is(err, glcontext.ErrUnsupportedFormat) {
		t.Errorf("undefined format err = %v", err)
	}

	lum := glcontext.New(softgl.New(), glcontext.WithLuminance())
	got, _ := lum.TextureFormat(gputypes.TextureFormatRG8Unorm)
	if got.Format != glcontext.LUMINANCE_ALPHA {
		t.Errorf("RG8 on luminance context = 0x%x, want LUMINANCE_ALPHA", got.Format)
	}
}

func TestFilters(t *testing.T) {
	tests := []struct {
		f    gputypes.FilterMode
		mip  gputypes.MipmapFilterMode
		want int32
	}{
		{gputypes.FilterModeNearest, gputypes.MipmapFilterModeUndefined, glcontext.NEAREST},
		{gputypes.FilterModeLinear, gputypes.MipmapFilterModeUndefined, glcontext.LINEAR},
		{gputypes.FilterModeLinear, gputypes.MipmapFilterModeLinear, glcontext.LINEAR_MIPMAP_LINEAR},
		{gputypes.FilterModeNearest, gputypes.MipmapFilterModeLinear, glcontext.NEAREST_MIPMAP_LINEAR},
	}
	for _, tt := range tests {
		got := glcontext.MinFilter(tt.f, tt.mip)
		if got != tt.want {
			t.Errorf("MinFilter(%v, %v) = 0x%x, want 0x%x", tt.f, tt.mip, got, tt.want)
		}
		if glcontext.IsMipmapFilter(got) != (tt.mip != gputypes.MipmapFilterModeUndefined) {
			t.Errorf("IsMipmapFilter(0x%x) mismatch", got)
		}
	}
	if glcontext.Wrap(gputypes.AddressModeUndefined) != glcontext.CLAMP_TO_EDGE {
		t.Error("undefined wrap should clamp")
	}
}

func TestBlendAndDepthMapping(t *testing.T) {
	alpha := gputypes.BlendStateAlpha()
	if got := glcontext.BlendFactor(alpha.Color.SrcFactor); got != glcontext.SRC_ALPHA {
		t.Errorf("src factor = 0x%x, want SRC_ALPHA", got)
	}
	if got := glcontext.BlendFactor(alpha.Color.DstFactor); got != glcontext.ONE_MINUS_SRC_ALPHA {
		t.Errorf("dst factor = 0x%x, want ONE_MINUS_SRC_ALPHA", got)
	}
	if got := glcontext.BlendFactor(gputypes.BlendFactorUndefined); got != glcontext.ONE {
		t.Errorf("undefined factor = 0x%x, want ONE", got)
	}
	if got := glcontext.BlendEquation(gputypes.BlendOperationReverseSubtract); got != glcontext.FUNC_REVERSE_SUBTRACT {
		t.Errorf("equation = 0x%x", got)
	}
	if got := glcontext.BlendEquation(gputypes.BlendOperationUndefined); got != glcontext.FUNC_ADD {
		t.Errorf("undefined equation = 0x%x", got)
	}
	if got := glcontext.CompareFunc(gputypes.CompareFunctionLessEqual); got != glcontext.LEQUAL {
		t.Errorf("compare = 0x%x", got)
	}
	if got := glcontext.CompareFunc(gputypes.CompareFunctionUndefined); got != glcontext.LESS {
		t.Errorf("undefined compare = 0x%x", got)
	}
}

func TestPlatformError(t *testing.T) {
	err := error(&glcontext.PlatformError{Op: "CreateTexture", Code: -6661})
	if !errors.Is(err, glcontext.ErrPlatform) {
		t.Error("PlatformError does not unwrap to ErrPlatform")
	}
	var pe *glcontext.PlatformError
	if !errors.As(err, &pe) || pe.Code != -6661 {
		t.Errorf("errors.As = %v", pe)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := glcontext.Open("does-not-exist"); err == nil {
		t.Fatal("Open of unknown backend succeeded")
	} else {
		var nf *glcontext.BackendNotFoundError
		if !errors.As(err, &nf) || nf.Name != "does-not-exist" {
			t.Errorf("err = %v, want BackendNotFoundError", err)
		}
	}

	failing := errors.New("no display")
	glcontext.Register("zz-broken", glcontext.BackendFunc(func(...glcontext.Option) (*glcontext.Context, error) {
		return nil, failing
	}))
	defer glcontext.Unregister("zz-broken")

	names := glcontext.Backends()
	if len(names) < 2 || names[len(names)-1] != "zz-broken" {
		t.Errorf("Backends() = %v, want unprioritized backend last", names)
	}

	ctx, name, err := glcontext.OpenBest()
	if err != nil {
		t.Fatalf("OpenBest: %v", err)
	}
	if name == "zz-broken" || ctx == nil {
		t.Errorf("OpenBest picked %q", name)
	}
}

func TestCloseRunsOnce(t *testing.T) {
	n := 0
	ctx := glcontext.New(softgl.New(), glcontext.WithCloser(func() error { n++; return nil }))
	_ = ctx.Close()
	_ = ctx.Close()
	if n != 1 {
		t.Errorf("closer ran %d times, want 1", n)
	}
}
