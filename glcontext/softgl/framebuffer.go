// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softgl

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/nodegl/glcontext"
)

// FramebufferInfo is a snapshot of a framebuffer object.
type FramebufferInfo struct {
	Color Attachment
	Depth Attachment
	Draws int
}

// RenderbufferInfo is a snapshot of a renderbuffer object.
type RenderbufferInfo struct {
	InternalFormat uint32
	Width, Height  int
	Samples        int32
}

// Stats counts live objects.
type Stats struct {
	Textures      int
	Framebuffers  int
	Renderbuffers int
	Buffers       int
	VertexArrays  int
	Programs      int
	Shaders       int
}

// Live returns the number of live objects of each kind.
func (g *GL) Live() Stats {
	return Stats{
		Textures:      len(g.textures),
		Framebuffers:  len(g.framebuffers),
		Renderbuffers: len(g.renderbuffers),
		Buffers:       len(g.buffers),
		VertexArrays:  len(g.vertexArrays),
		Programs:      len(g.programs),
		Shaders:       len(g.shaders),
	}
}

// Framebuffer returns a snapshot of a live framebuffer.
func (g *GL) Framebuffer(name uint32) (FramebufferInfo, bool) {
	f, ok := g.framebuffers[name]
	if !ok {
		return FramebufferInfo{}, false
	}
	return FramebufferInfo{Color: f.color, Depth: f.depth, Draws: f.draws}, true
}

// Renderbuffer returns a snapshot of a live renderbuffer.
func (g *GL) Renderbuffer(name uint32) (RenderbufferInfo, bool) {
	r, ok := g.renderbuffers[name]
	if !ok {
		return RenderbufferInfo{}, false
	}
	return RenderbufferInfo{InternalFormat: r.internalFormat, Width: r.width, Height: r.height, Samples: r.samples}, true
}

// Screen returns the default framebuffer.
func (g *GL) Screen() *image.RGBA { return g.screen }

// GenFramebuffers allocates one framebuffer name.
func (g *GL) GenFramebuffers(n int32) uint32 {
	g.call("GenFramebuffers")
	name := g.gen()
	g.framebuffers[name] = &framebuffer{}
	return name
}

// DeleteFramebuffers frees framebuffers; bound ones revert to 0.
func (g *GL) DeleteFramebuffers(framebuffers ...uint32) {
	g.call("DeleteFramebuffers")
	for _, name := range framebuffers {
		if name == 0 {
			continue
		}
		delete(g.framebuffers, name)
		if g.drawFB == name {
			g.drawFB = 0
		}
		if g.readFB == name {
			g.readFB = 0
		}
	}
}

// BindFramebuffer binds a framebuffer to the draw, read or both targets.
func (g *GL) BindFramebuffer(target, name uint32) {
	g.call("BindFramebuffer")
	if _, ok := g.framebuffers[name]; name != 0 && !ok {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	switch target {
	case glcontext.FRAMEBUFFER:
		g.drawFB, g.readFB = name, name
	case glcontext.DRAW_FRAMEBUFFER:
		g.drawFB = name
	case glcontext.READ_FRAMEBUFFER:
		g.readFB = name
	default:
		g.setError(glcontext.INVALID_ENUM)
	}
}

func (g *GL) targetFramebuffer(target uint32) *framebuffer {
	name := g.drawFB
	if target == glcontext.READ_FRAMEBUFFER {
		name = g.readFB
	}
	if name == 0 {
		g.setError(glcontext.INVALID_OPERATION)
		return nil
	}
	return g.framebuffers[name]
}

func (g *GL) attach(f *framebuffer, attachment uint32, a Attachment) {
	switch attachment {
	case glcontext.COLOR_ATTACHMENT0:
		f.color = a
	case glcontext.DEPTH_ATTACHMENT:
		f.depth = a
	default:
		g.setError(glcontext.INVALID_ENUM)
	}
}

// FramebufferTexture2D attaches a texture; name 0 detaches.
func (g *GL) FramebufferTexture2D(target, attachment, texTarget, name uint32, level int32) {
	g.call("FramebufferTexture2D")
	f := g.targetFramebuffer(target)
	if f == nil {
		return
	}
	if name == 0 {
		g.attach(f, attachment, Attachment{})
		return
	}
	if _, ok := g.textures[name]; !ok {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.attach(f, attachment, Attachment{Kind: AttachTexture, Name: name})
}

// FramebufferRenderbuffer attaches a renderbuffer; name 0 detaches.
func (g *GL) FramebufferRenderbuffer(target, attachment, rbTarget, name uint32) {
	g.call("FramebufferRenderbuffer")
	f := g.targetFramebuffer(target)
	if f == nil {
		return
	}
	if name == 0 {
		g.attach(f, attachment, Attachment{})
		return
	}
	if _, ok := g.renderbuffers[name]; !ok {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.attach(f, attachment, Attachment{Kind: AttachRenderbuffer, Name: name})
}

func (g *GL) attachmentSize(a Attachment) (image.Point, int32, bool) {
	switch a.Kind {
	case AttachTexture:
		if t, ok := g.textures[a.Name]; ok && t.width > 0 && t.height > 0 {
			return image.Pt(t.width, t.height), 0, true
		}
	case AttachRenderbuffer:
		if r, ok := g.renderbuffers[a.Name]; ok && r.width > 0 && r.height > 0 {
			return image.Pt(r.width, r.height), r.samples, true
		}
	}
	return image.Point{}, 0, false
}

// CheckFramebufferStatus requires a sized color attachment and, when a
// depth attachment is present, matching size and sample count.
func (g *GL) CheckFramebufferStatus(target uint32) uint32 {
	g.call("CheckFramebufferStatus")
	name := g.drawFB
	if target == glcontext.READ_FRAMEBUFFER {
		name = g.readFB
	}
	if name == 0 {
		return glcontext.FRAMEBUFFER_COMPLETE
	}
	f := g.framebuffers[name]
	color, cs, ok := g.attachmentSize(f.color)
	if !ok {
		return glcontext.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}
	if f.depth.Kind != AttachNone {
		depth, ds, ok := g.attachmentSize(f.depth)
		if !ok || depth != color || ds != cs {
			return glcontext.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
		}
	}
	return glcontext.FRAMEBUFFER_COMPLETE
}

// GenRenderbuffers allocates one renderbuffer name.
func (g *GL) GenRenderbuffers(n int32) uint32 {
	g.call("GenRenderbuffers")
	name := g.gen()
	g.renderbuffers[name] = &renderbuffer{}
	return name
}

// DeleteRenderbuffers frees renderbuffers.
func (g *GL) DeleteRenderbuffers(renderbuffers ...uint32) {
	g.call("DeleteRenderbuffers")
	for _, name := range renderbuffers {
		if name == 0 {
			continue
		}
		delete(g.renderbuffers, name)
		if g.renderbuf == name {
			g.renderbuf = 0
		}
	}
}

// BindRenderbuffer binds a renderbuffer.
func (g *GL) BindRenderbuffer(target, name uint32) {
	g.call("BindRenderbuffer")
	if _, ok := g.renderbuffers[name]; name != 0 && !ok {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.renderbuf = name
}

// RenderbufferStorage allocates single-sample storage.
func (g *GL) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	g.call("RenderbufferStorage")
	g.storage(0, internalFormat, width, height)
}

// RenderbufferStorageMultisample allocates multisample storage. Sample
// counts above the format limit are rejected with INVALID_OPERATION.
func (g *GL) RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) {
	g.call("RenderbufferStorageMultisample")
	if samples > g.formatMaxSamples(internalFormat) {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.storage(samples, internalFormat, width, height)
}

func (g *GL) storage(samples int32, internalFormat uint32, width, height int32) {
	r, ok := g.renderbuffers[g.renderbuf]
	if !ok {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	r.internalFormat = internalFormat
	r.width, r.height = int(width), int(height)
	r.samples = samples
	r.img = nil
	if !isDepthFormat(internalFormat) {
		r.img = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	}
}

func isDepthFormat(f uint32) bool {
	switch f {
	case glcontext.DEPTH_COMPONENT, glcontext.DEPTH_COMPONENT16, glcontext.DEPTH_COMPONENT24,
		glcontext.DEPTH_COMPONENT32, glcontext.DEPTH_COMPONENT32F, glcontext.DEPTH24_STENCIL8:
		return true
	}
	return false
}

func (g *GL) formatMaxSamples(internalFormat uint32) int32 {
	if n, ok := g.formatSamples[internalFormat]; ok {
		return n
	}
	return g.maxSamples
}

// GetInternalformativ reports SAMPLES: the largest supported sample count
// for the format.
func (g *GL) GetInternalformativ(target, internalFormat, pname uint32, params []int32) {
	g.call("GetInternalformativ")
	if pname != glcontext.SAMPLES || len(params) == 0 {
		g.setError(glcontext.INVALID_ENUM)
		return
	}
	params[0] = g.formatMaxSamples(internalFormat)
}

// BlitFramebuffer copies the color attachment of the read framebuffer into
// the draw framebuffer, scaling with nearest filtering. Depth is accepted
// and ignored.
func (g *GL) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	g.call("BlitFramebuffer")
	if g.readFB == g.drawFB && g.readFB != 0 {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	if mask&glcontext.COLOR_BUFFER_BIT == 0 {
		return
	}
	src, dst := g.colorImage(g.readFB), g.colorImage(g.drawFB)
	if src == nil || dst == nil {
		g.setError(glcontext.INVALID_FRAMEBUFFER_OPERATION)
		return
	}
	sr := image.Rect(int(srcX0), int(srcY0), int(srcX1), int(srcY1))
	dr := image.Rect(int(dstX0), int(dstY0), int(dstX1), int(dstY1))
	draw.NearestNeighbor.Scale(dst, dr, src, sr, draw.Src, nil)
}
