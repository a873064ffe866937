// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softgl

import (
	"testing"

	"github.com/gogpu/nodegl/glcontext"
)

func TestFramebufferLifecycle(t *testing.T) {
	g := New()

	tex := g.GenTextures(1)
	g.BindTexture(glcontext.TEXTURE_2D, tex)
	g.TexImage2D(glcontext.TEXTURE_2D, 0, glcontext.RGBA8, 4, 2, glcontext.RGBA, glcontext.UNSIGNED_BYTE, nil)

	fb := g.GenFramebuffers(1)
	g.BindFramebuffer(glcontext.FRAMEBUFFER, fb)
	if got := g.CheckFramebufferStatus(glcontext.FRAMEBUFFER); got == glcontext.FRAMEBUFFER_COMPLETE {
		t.Fatal("framebuffer without attachment reported complete")
	}
	g.FramebufferTexture2D(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, glcontext.TEXTURE_2D, tex, 0)
	if got := g.CheckFramebufferStatus(glcontext.FRAMEBUFFER); got != glcontext.FRAMEBUFFER_COMPLETE {
		t.Fatalf("status = 0x%x, want complete", got)
	}

	rb := g.GenRenderbuffers(1)
	g.BindRenderbuffer(glcontext.RENDERBUFFER, rb)
	g.RenderbufferStorage(glcontext.RENDERBUFFER, glcontext.DEPTH_COMPONENT16, 2, 2)
	g.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, rb)
	if got := g.CheckFramebufferStatus(glcontext.FRAMEBUFFER); got == glcontext.FRAMEBUFFER_COMPLETE {
		t.Error("mismatched depth size reported complete")
	}

	g.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, 0)
	g.DeleteRenderbuffers(rb)
	g.DeleteFramebuffers(fb)

	var binding [1]int32
	g.GetIntegerv(glcontext.FRAMEBUFFER_BINDING, binding[:])
	if binding[0] != 0 {
		t.Errorf("binding after delete = %d, want 0", binding[0])
	}
	if e := g.GetError(); e != glcontext.NO_ERROR {
		t.Errorf("GetError = %v", glcontext.GLError(e))
	}
	if live := g.Live(); live.Framebuffers != 0 || live.Renderbuffers != 0 || live.Textures != 1 {
		t.Errorf("Live = %+v", live)
	}
}

func TestClearAndReadPixels(t *testing.T) {
	g := New()
	g.Viewport(0, 0, 2, 2)
	g.ClearColor(1, 0, 0, 1)
	g.Clear(glcontext.COLOR_BUFFER_BIT)

	px := make([]byte, 2*2*4)
	g.ReadPixels(0, 0, 2, 2, glcontext.RGBA, glcontext.UNSIGNED_BYTE, px)
	for i := 0; i < len(px); i += 4 {
		if px[i] != 255 || px[i+1] != 0 || px[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want red", i/4, px[i:i+4])
		}
	}
}

func TestBlitScalesColor(t *testing.T) {
	g := New()
	mk := func(w, h int32) uint32 {
		rb := g.GenRenderbuffers(1)
		g.BindRenderbuffer(glcontext.RENDERBUFFER, rb)
		g.RenderbufferStorage(glcontext.RENDERBUFFER, glcontext.RGBA8, w, h)
		fb := g.GenFramebuffers(1)
		g.BindFramebuffer(glcontext.FRAMEBUFFER, fb)
		g.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, glcontext.RENDERBUFFER, rb)
		return fb
	}
	src := mk(1, 1)
	g.ClearColor(0, 1, 0, 1)
	g.Clear(glcontext.COLOR_BUFFER_BIT)
	dst := mk(4, 4)

	g.BindFramebuffer(glcontext.READ_FRAMEBUFFER, src)
	g.BindFramebuffer(glcontext.DRAW_FRAMEBUFFER, dst)
	g.BlitFramebuffer(0, 0, 1, 1, 0, 0, 4, 4, glcontext.COLOR_BUFFER_BIT, glcontext.NEAREST)

	g.BindFramebuffer(glcontext.FRAMEBUFFER, dst)
	px := make([]byte, 4*4*4)
	g.ReadPixels(0, 0, 4, 4, glcontext.RGBA, glcontext.UNSIGNED_BYTE, px)
	if px[len(px)-3] != 255 {
		t.Errorf("last pixel = %v, want green", px[len(px)-4:])
	}
}

func TestMultisampleLimit(t *testing.T) {
	g := New(WithMaxSamples(8), WithFormatSamples(glcontext.DEPTH_COMPONENT16, 4))

	var n [1]int32
	g.GetInternalformativ(glcontext.RENDERBUFFER, glcontext.RGBA8, glcontext.SAMPLES, n[:])
	if n[0] != 8 {
		t.Errorf("RGBA8 samples = %d, want 8", n[0])
	}
	g.GetInternalformativ(glcontext.RENDERBUFFER, glcontext.DEPTH_COMPONENT16, glcontext.SAMPLES, n[:])
	if n[0] != 4 {
		t.Errorf("DEPTH16 samples = %d, want 4", n[0])
	}

	rb := g.GenRenderbuffers(1)
	g.BindRenderbuffer(glcontext.RENDERBUFFER, rb)
	g.RenderbufferStorageMultisample(glcontext.RENDERBUFFER, 16, glcontext.RGBA8, 8, 8)
	if e := g.GetError(); e != glcontext.INVALID_OPERATION {
		t.Errorf("oversampled storage error = 0x%x, want INVALID_OPERATION", e)
	}
}

func TestTextureUploadFormats(t *testing.T) {
	g := New()
	tex := g.GenTextures(1)
	g.BindTexture(glcontext.TEXTURE_2D, tex)
	g.TexImage2D(glcontext.TEXTURE_2D, 0, glcontext.RGBA8, 1, 1, glcontext.BGRA, glcontext.UNSIGNED_BYTE, []byte{1, 2, 3, 4})

	img := g.TexturePixels(tex)
	if got := img.Pix[:4]; got[0] != 3 || got[2] != 1 {
		t.Errorf("BGRA swizzle = %v, want [3 2 1 4]", got)
	}
	info, _ := g.Texture(tex)
	if info.Uploads != 1 || info.Width != 1 {
		t.Errorf("info = %+v", info)
	}
}

func TestBasicHidesOptionalFunctions(t *testing.T) {
	f := Basic(New())
	if _, ok := f.(glcontext.MultisampleFunctions); ok {
		t.Error("Basic exposes multisample functions")
	}
	if _, ok := f.(glcontext.InternalformatQuerier); ok {
		t.Error("Basic exposes internal format query")
	}
}

func TestSoftBackendRegistered(t *testing.T) {
	ctx, err := glcontext.Open(BackendName)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !ctx.Features.Has(glcontext.FeatureFramebufferObject | glcontext.FeatureInternalformatQuery) {
		t.Errorf("features = %v", ctx.Features)
	}
}
