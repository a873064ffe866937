// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package softgl is an in-memory implementation of the glcontext function
// table. It tracks object lifetimes, bindings and texture storage, clears
// and blits color attachments and reads pixels back, but does not run
// shaders: draw calls are recorded against the bound framebuffer.
//
// softgl backs the "soft" backend and is the GPU double used by the engine
// tests.
package softgl

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"

	"github.com/gogpu/nodegl/glcontext"
)

// Attachment kinds.
const (
	AttachNone = iota
	AttachTexture
	AttachRenderbuffer
)

// Attachment is a framebuffer attachment point.
type Attachment struct {
	Kind int
	Name uint32
}

type texture struct {
	target         uint32
	internalFormat int32
	format         uint32
	typ            uint32
	width, height  int
	img            *image.RGBA
	params         map[uint32]int32
	uploads        int
	lastUpload     image.Point
	mipmaps        int
}

type renderbuffer struct {
	internalFormat uint32
	width, height  int
	samples        int32
	img            *image.RGBA
}

type framebuffer struct {
	color Attachment
	depth Attachment
	draws int
}

type shader struct {
	typ      uint32
	source   string
	compiled bool
}

type program struct {
	shaders []uint32
	linked  bool
	blocks  map[uint32]uint32
}

// GL is a software OpenGL function table. It is not safe for concurrent
// use, matching the one-thread-per-context contract of real GL.
type GL struct {
	logger *slog.Logger

	err  uint32
	next uint32

	textures      map[uint32]*texture
	renderbuffers map[uint32]*renderbuffer
	framebuffers  map[uint32]*framebuffer
	buffers       map[uint32][]byte
	vertexArrays  map[uint32]bool
	shaders       map[uint32]*shader
	programs      map[uint32]*program

	activeUnit   uint32
	unitBindings map[[2]uint32]uint32
	drawFB       uint32
	readFB       uint32
	renderbuf    uint32
	arrayBuffer  uint32
	uniformBuf   uint32
	vertexArray  uint32
	program      uint32
	viewport     [4]int32
	clearColor   [4]float32
	caps         map[uint32]bool

	maxSamples    int32
	formatSamples map[uint32]int32

	// Default framebuffer, grown to cover the viewport.
	screen      *image.RGBA
	screenDraws int

	calls map[string]int
}

// Option configures a GL.
type Option func(*GL)

// WithMaxSamples sets the value reported for MAX_SAMPLES and the default
// per-format sample limit.
func WithMaxSamples(n int32) Option {
	return func(g *GL) { g.maxSamples = n }
}

// WithFormatSamples sets the sample limit reported for one internal format.
func WithFormatSamples(internalFormat uint32, n int32) Option {
	return func(g *GL) { g.formatSamples[internalFormat] = n }
}

// WithLogger sets a logger for GL errors.
func WithLogger(l *slog.Logger) Option {
	return func(g *GL) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an empty software GL.
func New(opts ...Option) *GL {
	g := &GL{
		logger:        slog.New(slog.DiscardHandler),
		textures:      make(map[uint32]*texture),
		renderbuffers: make(map[uint32]*renderbuffer),
		framebuffers:  make(map[uint32]*framebuffer),
		buffers:       make(map[uint32][]byte),
		vertexArrays:  make(map[uint32]bool),
		shaders:       make(map[uint32]*shader),
		programs:      make(map[uint32]*program),
		unitBindings:  make(map[[2]uint32]uint32),
		caps:          make(map[uint32]bool),
		maxSamples:    4,
		formatSamples: make(map[uint32]int32),
		screen:        image.NewRGBA(image.Rect(0, 0, 0, 0)),
		calls:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Basic returns a view of g without the optional multisample and format
// query entry points, as exposed by contexts lacking those features.
func Basic(g *GL) glcontext.Functions {
	return basic{g}
}

type basic struct {
	glcontext.Functions
}

func (g *GL) call(name string) { g.calls[name]++ }

func (g *GL) setError(code uint32) {
	if g.err == glcontext.NO_ERROR {
		g.err = code
		g.logger.Debug("softgl: error latched", "error", glcontext.GLError(code).Error())
	}
}

func (g *GL) gen() uint32 {
	g.next++
	return g.next
}

// Calls returns how many times the named entry point was called.
func (g *GL) Calls(name string) int { return g.calls[name] }

// ResetCalls clears the call counters.
func (g *GL) ResetCalls() { g.calls = make(map[string]int) }

// GetError returns and clears the latched error.
func (g *GL) GetError() uint32 {
	g.call("GetError")
	e := g.err
	g.err = glcontext.NO_ERROR
	return e
}

// GetIntegerv reports binding and limit state.
func (g *GL) GetIntegerv(pname uint32, data []int32) {
	g.call("GetIntegerv")
	if len(data) == 0 {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	switch pname {
	case glcontext.FRAMEBUFFER_BINDING:
		data[0] = int32(g.drawFB)
	case glcontext.VIEWPORT:
		copy(data, g.viewport[:])
	case glcontext.MAX_SAMPLES:
		data[0] = g.maxSamples
	case glcontext.MAX_TEXTURE_SIZE:
		data[0] = 16384
	default:
		g.setError(glcontext.INVALID_ENUM)
	}
}

// Enable sets a capability.
func (g *GL) Enable(capability uint32) {
	g.call("Enable")
	g.caps[capability] = true
}

// Disable clears a capability.
func (g *GL) Disable(capability uint32) {
	g.call("Disable")
	g.caps[capability] = false
}

// Enabled reports a capability set by Enable.
func (g *GL) Enabled(capability uint32) bool { return g.caps[capability] }

// Viewport sets the viewport. While the default framebuffer is bound it is
// grown to cover the viewport.
func (g *GL) Viewport(x, y, width, height int32) {
	g.call("Viewport")
	if width < 0 || height < 0 {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	g.viewport = [4]int32{x, y, width, height}
	if g.drawFB == 0 {
		b := g.screen.Bounds()
		w, h := max(b.Dx(), int(x+width)), max(b.Dy(), int(y+height))
		if w != b.Dx() || h != b.Dy() {
			grown := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.Draw(grown, b, g.screen, b.Min, draw.Src)
			g.screen = grown
		}
	}
}

// ClearColor sets the clear color.
func (g *GL) ClearColor(r, gr, b, a float32) {
	g.call("ClearColor")
	g.clearColor = [4]float32{r, gr, b, a}
}

// Clear fills the color attachment of the draw framebuffer.
func (g *GL) Clear(mask uint32) {
	g.call("Clear")
	if mask&glcontext.COLOR_BUFFER_BIT == 0 {
		return
	}
	img := g.colorImage(g.drawFB)
	if img == nil {
		return
	}
	c := color.RGBA{
		R: unorm8(g.clearColor[0]),
		G: unorm8(g.clearColor[1]),
		B: unorm8(g.clearColor[2]),
		A: unorm8(g.clearColor[3]),
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// BlendFuncSeparate records nothing beyond the call.
func (g *GL) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	g.call("BlendFuncSeparate")
}

// BlendEquationSeparate records nothing beyond the call.
func (g *GL) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	g.call("BlendEquationSeparate")
}

// DepthFunc records nothing beyond the call.
func (g *GL) DepthFunc(fn uint32) {
	g.call("DepthFunc")
}

// DrawArrays records a draw against the bound framebuffer.
func (g *GL) DrawArrays(mode uint32, first, count int32) {
	g.call("DrawArrays")
	if p, ok := g.programs[g.program]; !ok || !p.linked {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	if count < 0 {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	if g.drawFB == 0 {
		g.screenDraws++
		return
	}
	g.framebuffers[g.drawFB].draws++
}

// ReadPixels copies RGBA pixels from the read framebuffer.
func (g *GL) ReadPixels(x, y, width, height int32, format, typ uint32, pixels []byte) {
	g.call("ReadPixels")
	if format != glcontext.RGBA || typ != glcontext.UNSIGNED_BYTE {
		g.setError(glcontext.INVALID_ENUM)
		return
	}
	if len(pixels) < int(width*height*4) {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	img := g.colorImage(g.readFB)
	if img == nil {
		g.setError(glcontext.INVALID_FRAMEBUFFER_OPERATION)
		return
	}
	dst := &image.RGBA{Pix: pixels, Stride: int(width) * 4, Rect: image.Rect(0, 0, int(width), int(height))}
	draw.Draw(dst, dst.Rect, img, image.Pt(int(x), int(y)), draw.Src)
}

// ScreenDraws returns the number of draws issued to the default framebuffer.
func (g *GL) ScreenDraws() int { return g.screenDraws }

func (g *GL) colorImage(fb uint32) *image.RGBA {
	if fb == 0 {
		return g.screen
	}
	f, ok := g.framebuffers[fb]
	if !ok {
		return nil
	}
	switch f.color.Kind {
	case AttachTexture:
		if t, ok := g.textures[f.color.Name]; ok {
			return t.img
		}
	case AttachRenderbuffer:
		if r, ok := g.renderbuffers[f.color.Name]; ok {
			return r.img
		}
	}
	return nil
}

var _ glcontext.Functions = (*GL)(nil)
var _ glcontext.MultisampleFunctions = (*GL)(nil)
var _ glcontext.InternalformatQuerier = (*GL)(nil)
