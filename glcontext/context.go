// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

import (
	"log/slog"
	"strings"

	"github.com/gogpu/gpucontext"
)

// Features is the capability bitmask of a Context.
type Features uint32

// Context capabilities.
const (
	FeatureVertexArrayObject Features = 1 << iota
	FeatureTexture3D
	FeatureTextureStorage
	FeatureComputeShader
	FeatureProgramInterfaceQuery
	FeatureShaderImageLoadStore
	FeatureShaderStorageBufferObject
	// FeatureFramebufferObject covers multisample renderbuffers and
	// framebuffer blits.
	FeatureFramebufferObject
	// FeatureInternalformatQuery covers per-format sample count queries.
	FeatureInternalformatQuery
)

var featureNames = []string{
	"vertex_array_object",
	"texture_3d",
	"texture_storage",
	"compute_shader",
	"program_interface_query",
	"shader_image_load_store",
	"shader_storage_buffer_object",
	"framebuffer_object",
	"internalformat_query",
}

// Has reports whether every bit of x is set.
func (f Features) Has(x Features) bool { return f&x == x }

// String lists the set features separated by '|'.
func (f Features) String() string {
	var names []string
	for i, n := range featureNames {
		if f&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Context is an OpenGL context as seen by the node graph.
type Context struct {
	Funcs    Functions
	Features Features

	// ES is true for OpenGL ES contexts.
	ES bool

	// Gl1Comp and Gl2Comp are the client formats used for one and two
	// component textures: RED/RG, or LUMINANCE/LUMINANCE_ALPHA on
	// contexts without texture_rg.
	Gl1Comp uint32
	Gl2Comp uint32

	// TextureCache is nil on platforms without one.
	TextureCache TextureCache

	Adapter gpucontext.AdapterInfo

	logger  *slog.Logger
	onClose func() error
}

// Option configures a Context created by New.
type Option func(*Context)

// WithFeatures adds backend-reported capabilities. Framebuffer object and
// internal format query support are always derived from Funcs.
func WithFeatures(f Features) Option {
	return func(c *Context) {
		c.Features |= f &^ (FeatureFramebufferObject | FeatureInternalformatQuery)
	}
}

// WithES marks the context as OpenGL ES.
func WithES(es bool) Option {
	return func(c *Context) { c.ES = es }
}

// WithLuminance selects LUMINANCE/LUMINANCE_ALPHA for one and two
// component textures.
func WithLuminance() Option {
	return func(c *Context) {
		c.Gl1Comp = LUMINANCE
		c.Gl2Comp = LUMINANCE_ALPHA
	}
}

// WithTextureCache attaches a platform texture cache.
func WithTextureCache(tc TextureCache) Option {
	return func(c *Context) { c.TextureCache = tc }
}

// WithAdapterInfo records the adapter behind the context.
func WithAdapterInfo(info gpucontext.AdapterInfo) Option {
	return func(c *Context) { c.Adapter = info }
}

// WithLogger sets the logger used by the context and its backend.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCloser registers a function run by Close, typically destroying the
// native context.
func WithCloser(fn func() error) Option {
	return func(c *Context) { c.onClose = fn }
}

// New creates a Context over a function table. Optional capabilities are
// probed from the dynamic type of funcs.
func New(funcs Functions, opts ...Option) *Context {
	c := &Context{
		Funcs:   funcs,
		Gl1Comp: RED,
		Gl2Comp: RG,
		Adapter: gpucontext.AdapterInfo{Name: "unknown", Type: gpucontext.AdapterTypeUnknown},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := funcs.(MultisampleFunctions); ok {
		c.Features |= FeatureFramebufferObject
	}
	if _, ok := funcs.(InternalformatQuerier); ok {
		c.Features |= FeatureInternalformatQuery
	}
	c.logger.Debug("glcontext: created",
		"adapter", c.Adapter.Name,
		"type", c.Adapter.Type.String(),
		"es", c.ES,
		"features", c.Features.String())
	return c
}

// Multisample returns the multisample entry points when the context has
// FeatureFramebufferObject.
func (c *Context) Multisample() (MultisampleFunctions, bool) {
	if !c.Features.Has(FeatureFramebufferObject) {
		return nil, false
	}
	m, ok := c.Funcs.(MultisampleFunctions)
	return m, ok
}

// InternalformatQuerier returns the format query entry point when the
// context has FeatureInternalformatQuery.
func (c *Context) InternalformatQuerier() (InternalformatQuerier, bool) {
	if !c.Features.Has(FeatureInternalformatQuery) {
		return nil, false
	}
	q, ok := c.Funcs.(InternalformatQuerier)
	return q, ok
}

// Integer returns a single integer state value.
func (c *Context) Integer(pname uint32) int32 {
	var v [1]int32
	c.Funcs.GetIntegerv(pname, v[:])
	return v[0]
}

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Close releases the native context, if any.
func (c *Context) Close() error {
	if c.onClose == nil {
		return nil
	}
	fn := c.onClose
	c.onClose = nil
	return fn()
}
