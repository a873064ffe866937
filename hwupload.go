package nodegl

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/multierr"

	"github.com/gogpu/nodegl/frame"
	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/mat4"
)

// UploadFormat identifies the pipeline moving decoded frames into a
// Texture2D.
type UploadFormat int

// Upload pipelines.
const (
	UploadNone UploadFormat = iota
	// UploadCommon copies CPU pixels with glTexImage2D/glTexSubImage2D.
	UploadCommon
	// UploadMediaCodec converts the decoder's external texture into the
	// node texture through a render-to-texture pass.
	UploadMediaCodec
	// UploadMediaCodecDR samples the decoder's external texture directly.
	UploadMediaCodecDR
	UploadVideoToolboxBGRA
	UploadVideoToolboxRGBA
	// UploadVideoToolboxNV12 converts luma and chroma planes to RGBA.
	UploadVideoToolboxNV12
)

func (f UploadFormat) String() string {
	switch f {
	case UploadNone:
		return "none"
	case UploadCommon:
		return "common"
	case UploadMediaCodec:
		return "mediacodec"
	case UploadMediaCodecDR:
		return "mediacodec_dr"
	case UploadVideoToolboxBGRA:
		return "videotoolbox_bgra"
	case UploadVideoToolboxRGBA:
		return "videotoolbox_rgba"
	case UploadVideoToolboxNV12:
		return "videotoolbox_nv12"
	}
	return fmt.Sprintf("UploadFormat(%d)", int(f))
}

// uploadConfig is the classification of one frame.
type uploadConfig struct {
	format   UploadFormat
	width    int
	height   int
	linesize int
	triple   glcontext.Triple
}

// uploadState is the per texture pipeline state.
type uploadState struct {
	format   UploadFormat
	conv     *convGraph
	cacheTex glcontext.CacheTexture
}

type uploadStrategy struct {
	init   func(n *Node, t *Texture2D, cfg *uploadConfig) error
	upload func(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error
	uninit func(n *Node, t *Texture2D)
}

var uploadStrategies = map[UploadFormat]uploadStrategy{
	UploadCommon:           {init: initCommon, upload: uploadCommon},
	UploadMediaCodec:       {init: initMediaCodec, upload: uploadMediaCodec, uninit: uninitConv},
	UploadMediaCodecDR:     {init: initMediaCodecDR, upload: uploadMediaCodecDR},
	UploadVideoToolboxBGRA: {init: initCommon, upload: uploadVideoToolbox, uninit: uninitCacheTexture},
	UploadVideoToolboxRGBA: {init: initCommon, upload: uploadVideoToolbox, uninit: uninitCacheTexture},
	UploadVideoToolboxNV12: {init: initNV12, upload: uploadNV12, uninit: uninitConv},
}

// flipY maps decoder texture coordinates, whose origin is the top left
// corner, onto the bottom left uv origin.
var flipY = mat4.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 1,
}

// UploadFrame moves f into the Texture2D n, building or rebuilding the
// pipeline when the frame needs a different one than the last frame. A
// nil frame is a no-op. When classification or the pipeline build fails
// the pipeline is torn down and the next frame starts from scratch; a
// failed upload keeps the pipeline so the next frame retries it.
func UploadFrame(n *Node, f *frame.Frame) error {
	if f == nil {
		return nil
	}
	t, ok := TextureOf(n)
	if !ok {
		return configErrorf(n, "frames can only be uploaded to a Texture2D")
	}
	if !n.ready() {
		return &StateError{Node: n.String(), Op: "upload a frame", State: n.state}
	}

	cfg, err := classifyFrame(n, t, f)
	if err != nil {
		UninitUpload(n)
		return err
	}
	strategy := uploadStrategies[cfg.format]

	if cfg.format != t.upload.format {
		UninitUpload(n)
		n.logger().Debug("nodegl: upload pipeline selected", "node", n.String(), "format", cfg.format.String(),
			"size", [2]int{cfg.width, cfg.height})
		if err := strategy.init(n, t, &cfg); err != nil {
			UninitUpload(n)
			return err
		}
		t.upload.format = cfg.format
	}
	return strategy.upload(n, t, &cfg, f)
}

// UninitUpload tears down the upload pipeline of the Texture2D n. It is
// safe to call repeatedly.
func UninitUpload(n *Node) {
	t, ok := TextureOf(n)
	if !ok {
		return
	}
	if s := uploadStrategies[t.upload.format]; s.uninit != nil {
		s.uninit(n, t)
	}
	// Partial inits may leave either piece behind whatever the tag.
	uninitConv(n, t)
	uninitCacheTexture(n, t)
	t.upload.format = UploadNone
	t.id, t.target = t.localID, t.localTarget
}

func classifyFrame(n *Node, t *Texture2D, f *frame.Frame) (uploadConfig, error) {
	gl := n.gl()
	cfg := uploadConfig{width: f.Width, height: f.Height, linesize: f.Linesize}

	switch f.PixelFormat {
	case frame.PixelFormatRGBA:
		cfg.format = UploadCommon
		cfg.triple = glcontext.Triple{Format: glcontext.RGBA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
	case frame.PixelFormatBGRA:
		cfg.format = UploadCommon
		cfg.triple = glcontext.Triple{Format: glcontext.BGRA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
	case frame.PixelFormatFloat:
		cfg.format = UploadCommon
		cfg.triple = glcontext.Triple{
			Format:         gl.Gl1Comp,
			InternalFormat: gl.SizedFormat(gl.Gl1Comp, glcontext.FLOAT),
			Type:           glcontext.FLOAT,
		}
	case frame.PixelFormatMediaCodec:
		cfg.triple = glcontext.Triple{Format: glcontext.RGBA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
		direct := (t.minFilter == glcontext.NEAREST || t.minFilter == glcontext.LINEAR) &&
			t.wrapS == glcontext.CLAMP_TO_EDGE && t.wrapT == glcontext.CLAMP_TO_EDGE
		if direct {
			cfg.format = UploadMediaCodecDR
		} else {
			cfg.format = UploadMediaCodec
			if t.upload.format != UploadMediaCodec {
				n.logger().Warn("nodegl: external textures only support nearest or linear filtering and clamp to edge wrapping, disabling direct rendering",
					"node", n.String())
			}
		}
	case frame.PixelFormatVideoToolbox:
		pb, err := f.PixelBuffer()
		if err != nil {
			return cfg, fmt.Errorf("nodegl: %s: %w", n, err)
		}
		cfg.width, cfg.height, cfg.linesize = pb.Width(), pb.Height(), pb.BytesPerRow()
		switch pb.Format() {
		case frame.BufferBGRA:
			cfg.format = UploadVideoToolboxBGRA
			cfg.triple = glcontext.Triple{Format: glcontext.BGRA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
		case frame.BufferRGBA:
			cfg.format = UploadVideoToolboxRGBA
			cfg.triple = glcontext.Triple{Format: glcontext.RGBA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
		case frame.BufferNV12:
			if gl.TextureCache == nil {
				return cfg, fmt.Errorf("%w: nv12 pixel buffer: %w", ErrUnsupportedFormat, glcontext.ErrNoTextureCache)
			}
			cfg.format = UploadVideoToolboxNV12
			cfg.triple = glcontext.Triple{Format: glcontext.BGRA, InternalFormat: glcontext.RGBA8, Type: glcontext.UNSIGNED_BYTE}
		default:
			return cfg, fmt.Errorf("%w: pixel buffer format %s", ErrUnsupportedFormat, pb.Format())
		}
	default:
		return cfg, fmt.Errorf("%w: frame pixel format %s", ErrUnsupportedFormat, f.PixelFormat)
	}
	return cfg, nil
}

func initCommon(n *Node, t *Texture2D, cfg *uploadConfig) error {
	t.triple = cfg.triple
	t.coords = mat4.Identity()
	t.id, t.target = t.localID, t.localTarget
	return nil
}

func uploadCommon(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error {
	data, err := f.Bytes()
	if err != nil {
		return fmt.Errorf("nodegl: %s: %w", n, err)
	}
	return uploadPacked(n, t, cfg, data)
}

// uploadPacked uploads rows of cfg.linesize bytes. The texture is as wide
// as a row holds texels and the remap matrix crops the padding.
func uploadPacked(n *Node, t *Texture2D, cfg *uploadConfig, data []byte) error {
	t.triple = cfg.triple
	stride := cfg.linesize >> 2
	t.coords[0] = 1
	if stride != 0 {
		t.coords[0] = float32(cfg.width) / float32(stride)
	}
	if need := stride * cfg.height * 4; len(data) < need {
		return fmt.Errorf("%w: %s: frame holds %d bytes, %d rows of %d need %d",
			ErrConfig, n, len(data), cfg.height, cfg.linesize, need)
	}
	t.updateLocal(n, stride, cfg.height, data)
	t.id, t.target = t.localID, t.localTarget
	return nil
}

func mediaSurface(n *Node, t *Texture2D) (frame.MediaCodecSurface, error) {
	if t.p.Source != nil {
		if m, ok := t.p.Source.impl.(*Media); ok && m.Surface() != nil {
			return m.Surface(), nil
		}
	}
	return nil, configErrorf(n, "mediacodec frames need a Media source with a decoder surface")
}

func renderMediaCodec(n *Node, s frame.MediaCodecSurface, f *frame.Frame) (mat4.Mat4, error) {
	buf, err := f.MediaCodecBuffer()
	if err != nil {
		return mat4.Mat4{}, fmt.Errorf("nodegl: %s: %w", n, err)
	}
	m, err := s.RenderBuffer(buf)
	if err != nil {
		return mat4.Mat4{}, fmt.Errorf("nodegl: %s: render decoder buffer: %w", n, err)
	}
	return mat4.Mul(flipY, mat4.Mat4(m)), nil
}

func initMediaCodecDR(n *Node, t *Texture2D, cfg *uploadConfig) error {
	s, err := mediaSurface(n, t)
	if err != nil {
		return err
	}
	f := n.gl().Funcs
	t.id, t.target = s.TextureID(), s.TextureTarget()
	f.BindTexture(t.target, t.id)
	f.TexParameteri(t.target, glcontext.TEXTURE_MIN_FILTER, t.minFilter)
	f.TexParameteri(t.target, glcontext.TEXTURE_MAG_FILTER, t.magFilter)
	f.BindTexture(t.target, 0)
	return nil
}

func uploadMediaCodecDR(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error {
	s, err := mediaSurface(n, t)
	if err != nil {
		return err
	}
	t.width, t.height = cfg.width, cfg.height
	m, err := renderMediaCodec(n, s, f)
	if err != nil {
		return err
	}
	t.coords = m
	return nil
}

func initMediaCodec(n *Node, t *Texture2D, cfg *uploadConfig) error {
	s, err := mediaSurface(n, t)
	if err != nil {
		return err
	}
	t.triple = cfg.triple
	t.updateLocal(n, cfg.width, cfg.height, nil)

	oes := NewTexture2D(TextureParams{
		Width:          cfg.width,
		Height:         cfg.height,
		MinFilter:      t.p.MinFilter,
		MagFilter:      t.p.MagFilter,
		ExternalID:     s.TextureID(),
		ExternalTarget: s.TextureTarget(),
	})
	g, err := newConvGraph(n, t, OpaqueShader, []int{0}, oes)
	if err != nil {
		return err
	}
	t.upload.conv = g
	return nil
}

func uploadMediaCodec(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error {
	if t.updateLocal(n, cfg.width, cfg.height, nil) {
		uninitConv(n, t)
		if err := initMediaCodec(n, t, cfg); err != nil {
			return err
		}
	}
	s, err := mediaSurface(n, t)
	if err != nil {
		return err
	}
	m, err := renderMediaCodec(n, s, f)
	if err != nil {
		return err
	}
	g := t.upload.conv
	oes, _ := TextureOf(g.planes[0])
	oes.coords = m
	if err := g.drive(); err != nil {
		return err
	}
	t.coords = g.targetTexture().coords
	t.id, t.target = t.localID, t.localTarget
	return nil
}

func uploadVideoToolbox(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error {
	pb, err := f.PixelBuffer()
	if err != nil {
		return fmt.Errorf("nodegl: %s: %w", n, err)
	}
	tc := n.gl().TextureCache
	if tc == nil {
		if err := pb.Lock(); err != nil {
			return fmt.Errorf("nodegl: %s: lock pixel buffer: %w", n, err)
		}
		err := uploadPacked(n, t, cfg, pb.Data())
		return multierr.Append(err, pb.Unlock())
	}

	t.triple = cfg.triple
	t.width, t.height = cfg.width, cfg.height
	t.coords = mat4.Identity()

	ct, code := tc.CreateTexture(pb, glcontext.CacheTextureDesc{
		Target:         glcontext.TEXTURE_2D,
		InternalFormat: cfg.triple.InternalFormat,
		Width:          cfg.width,
		Height:         cfg.height,
		Format:         cfg.triple.Format,
		Type:           cfg.triple.Type,
	})
	if code != 0 {
		n.logger().Error("nodegl: could not create texture from pixel buffer", "node", n.String(), "code", code)
		t.id, t.target = t.localID, t.localTarget
		return &glcontext.PlatformError{Op: "CreateTexture", Code: code}
	}
	if t.upload.cacheTex != nil {
		t.upload.cacheTex.Release()
	}
	t.upload.cacheTex = ct

	gl := n.gl().Funcs
	t.id, t.target = ct.Name(), ct.Target()
	gl.BindTexture(t.target, t.id)
	t.applyParams(gl, t.target)
	if glcontext.IsMipmapFilter(t.minFilter) {
		gl.GenerateMipmap(t.target)
	}
	gl.BindTexture(t.target, 0)
	return nil
}

func initNV12(n *Node, t *Texture2D, cfg *uploadConfig) error {
	t.triple = cfg.triple
	t.updateLocal(n, cfg.width, cfg.height, nil)

	plane := func(format gputypes.TextureFormat) *Node {
		return NewTexture2D(TextureParams{
			Format:    format,
			MinFilter: gputypes.FilterModeLinear,
			MagFilter: gputypes.FilterModeLinear,
		})
	}
	g, err := newConvGraph(n, t, NV12Shader, nil,
		plane(gputypes.TextureFormatR8Unorm), plane(gputypes.TextureFormatRG8Unorm))
	if err != nil {
		return err
	}
	t.upload.conv = g
	return nil
}

func uploadNV12(n *Node, t *Texture2D, cfg *uploadConfig, f *frame.Frame) error {
	pb, err := f.PixelBuffer()
	if err != nil {
		return fmt.Errorf("nodegl: %s: %w", n, err)
	}
	if t.updateLocal(n, cfg.width, cfg.height, nil) {
		uninitConv(n, t)
		if err := initNV12(n, t, cfg); err != nil {
			return err
		}
	}

	tc := n.gl().TextureCache
	descs := [2]glcontext.CacheTextureDesc{{
		Target:         glcontext.TEXTURE_2D,
		InternalFormat: glcontext.LUMINANCE,
		Width:          cfg.width,
		Height:         cfg.height,
		Format:         glcontext.LUMINANCE,
		Type:           glcontext.UNSIGNED_BYTE,
		Plane:          0,
	}, {
		Target:         glcontext.TEXTURE_2D,
		InternalFormat: glcontext.LUMINANCE_ALPHA,
		Width:          (cfg.width + 1) >> 1,
		Height:         (cfg.height + 1) >> 1,
		Format:         glcontext.LUMINANCE_ALPHA,
		Type:           glcontext.UNSIGNED_BYTE,
		Plane:          1,
	}}

	var planes []glcontext.CacheTexture
	defer func() {
		for _, p := range planes {
			p.Release()
		}
	}()

	g := t.upload.conv
	gl := n.gl().Funcs
	for i, desc := range descs {
		ct, code := tc.CreateTexture(pb, desc)
		if code != 0 {
			n.logger().Error("nodegl: could not create texture from pixel buffer", "node", n.String(),
				"plane", i, "code", code)
			return &glcontext.PlatformError{Op: "CreateTexture", Code: code}
		}
		planes = append(planes, ct)

		pt, _ := TextureOf(g.planes[i])
		pt.id, pt.target = ct.Name(), ct.Target()
		pt.width, pt.height = desc.Width, desc.Height
		gl.BindTexture(pt.target, pt.id)
		pt.applyParams(gl, pt.target)
		gl.BindTexture(pt.target, 0)
	}

	if err := g.drive(); err != nil {
		return err
	}

	t.coords = g.targetTexture().coords
	t.id, t.target = t.localID, t.localTarget
	gl.BindTexture(t.target, t.id)
	t.applyParams(gl, t.target)
	if glcontext.IsMipmapFilter(t.minFilter) {
		gl.GenerateMipmap(t.target)
	}
	gl.BindTexture(t.target, 0)
	return nil
}

func uninitConv(n *Node, t *Texture2D) {
	if t.upload.conv == nil {
		return
	}
	t.upload.conv.teardown()
	t.upload.conv = nil
}

func uninitCacheTexture(n *Node, t *Texture2D) {
	if t.upload.cacheTex == nil {
		return
	}
	t.upload.cacheTex.Release()
	t.upload.cacheTex = nil
}

// convGraph is a private scene drawing planes into the texture of its
// owner with a conversion program: quad, program, plane textures, render
// and a render-to-texture targeting the owner's own GL texture.
type convGraph struct {
	quad    *Node
	program *Node
	planes  []*Node
	target  *Node
	render  *Node
	rtt     *Node
}

// newConvGraph takes ownership of planes. The graph is attached to the
// context of owner and prefetched so that plane handles set before a
// drive are not reset.
func newConvGraph(owner *Node, t *Texture2D, src string, external []int, planes ...*Node) (*convGraph, error) {
	g := &convGraph{planes: planes}
	g.quad = NewQuad(QuadParams{
		Corner: [3]float32{-1, -1, 0},
		Width:  [3]float32{2, 0, 0},
		Height: [3]float32{0, 2, 0},
	})
	g.program = NewProgram(ProgramParams{Source: src, External: external})
	g.target = NewTexture2D(TextureParams{
		Format:         t.p.Format,
		Width:          t.width,
		Height:         t.height,
		MinFilter:      t.p.MinFilter,
		MagFilter:      t.p.MagFilter,
		MipmapFilter:   t.p.MipmapFilter,
		WrapS:          t.p.WrapS,
		WrapT:          t.p.WrapT,
		ExternalID:     t.localID,
		ExternalTarget: t.localTarget,
	})
	g.render = NewRender(RenderParams{Geometry: g.quad, Program: g.program, Textures: planes})
	g.rtt = NewRenderToTexture(RenderToTextureParams{Child: g.render, Color: g.target})

	for _, nd := range g.nodes() {
		nd.SetLabel(owner.String() + "/conv")
	}

	if err := g.rtt.AttachContext(owner.ctx); err != nil {
		g.unref()
		return nil, fmt.Errorf("%w: %s: conversion graph: %w", ErrResource, owner, err)
	}
	err := g.rtt.Visit(true, 0)
	if err == nil {
		err = g.rtt.HonorReleasePrefetch()
	}
	if err != nil {
		g.teardown()
		return nil, fmt.Errorf("%w: %s: conversion graph: %w", ErrResource, owner, err)
	}
	owner.logger().Info("nodegl: conversion graph created", "node", owner.String(), "planes", len(planes),
		"size", [2]int{t.width, t.height})
	return g, nil
}

func (g *convGraph) nodes() []*Node {
	return append([]*Node{g.quad, g.program, g.target, g.render, g.rtt}, g.planes...)
}

func (g *convGraph) targetTexture() *Texture2D {
	t, _ := TextureOf(g.target)
	return t
}

// drive renders the graph once.
func (g *convGraph) drive() error {
	if err := g.rtt.Visit(true, 0); err != nil {
		return err
	}
	if err := g.rtt.HonorReleasePrefetch(); err != nil {
		return err
	}
	if err := g.rtt.Update(0); err != nil {
		return err
	}
	return g.rtt.Draw()
}

func (g *convGraph) teardown() {
	g.rtt.DetachContext()
	g.unref()
}

func (g *convGraph) unref() {
	for _, nd := range g.nodes() {
		nd.Unref()
	}
}
