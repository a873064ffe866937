// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package gles

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal/gles/egl"
	"github.com/gogpu/wgpu/hal/gles/gl"

	"github.com/gogpu/nodegl/glcontext"
)

// Open creates a surfaceless EGL context, makes it current on the calling
// thread and loads the GL entry points. The caller must keep using the
// context from that thread.
func Open(opts ...glcontext.Option) (*glcontext.Context, error) {
	runtime.LockOSThread()

	if err := egl.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gles: failed to initialize EGL: %w", err)
	}

	cfg := egl.DefaultContextConfig()
	cfg.Surfaceless = true
	ectx, err := egl.NewContext(cfg)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gles: failed to create EGL context: %w", err)
	}
	if err := ectx.MakeCurrent(); err != nil {
		ectx.Destroy()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gles: failed to make context current: %w", err)
	}

	g := &gl.Context{}
	if err := g.Load(egl.GetGLProcAddress); err != nil {
		ectx.Destroy()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gles: failed to load GL functions: %w", err)
	}

	renderer := g.GetString(gl.RENDERER)
	base := []glcontext.Option{
		glcontext.WithAdapterInfo(gpucontext.AdapterInfo{Name: renderer, Type: adapterType(renderer)}),
		glcontext.WithFeatures(glcontext.FeatureVertexArrayObject),
		glcontext.WithES(cfg.GLES),
		glcontext.WithCloser(func() error {
			ectx.Destroy()
			runtime.UnlockOSThread()
			return nil
		}),
	}
	return glcontext.New(&Functions{gl: g}, append(base, opts...)...), nil
}

func adapterType(renderer string) gpucontext.AdapterType {
	r := strings.ToLower(renderer)
	switch {
	case strings.Contains(r, "llvmpipe"), strings.Contains(r, "softpipe"), strings.Contains(r, "swiftshader"):
		return gpucontext.AdapterTypeSoftware
	case strings.Contains(r, "intel"), strings.Contains(r, "apu"):
		return gpucontext.AdapterTypeIntegrated
	case strings.Contains(r, "nvidia"), strings.Contains(r, "geforce"), strings.Contains(r, "radeon"):
		return gpucontext.AdapterTypeDiscrete
	}
	return gpucontext.AdapterTypeUnknown
}

// Functions adapts a loaded wgpu GL context to glcontext.Functions.
type Functions struct {
	gl *gl.Context
}

func ptr[T any](s []T) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}

func (f *Functions) GetError() uint32 { return f.gl.GetError() }

func (f *Functions) GetIntegerv(pname uint32, data []int32) {
	if len(data) == 0 {
		return
	}
	f.gl.GetIntegerv(pname, &data[0])
}

func (f *Functions) Enable(capability uint32)           { f.gl.Enable(capability) }
func (f *Functions) Disable(capability uint32)          { f.gl.Disable(capability) }
func (f *Functions) Viewport(x, y, width, height int32) { f.gl.Viewport(x, y, width, height) }
func (f *Functions) ClearColor(r, g, b, a float32)      { f.gl.ClearColor(r, g, b, a) }
func (f *Functions) Clear(mask uint32)                  { f.gl.Clear(mask) }
func (f *Functions) DepthFunc(fn uint32)                { f.gl.DepthFunc(fn) }

func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	f.gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (f *Functions) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	f.gl.BlendEquationSeparate(modeRGB, modeAlpha)
}

func (f *Functions) DrawArrays(mode uint32, first, count int32) { f.gl.DrawArrays(mode, first, count) }

func (f *Functions) ReadPixels(x, y, width, height int32, format, typ uint32, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	f.gl.ReadPixels(x, y, width, height, format, typ, unsafe.Pointer(&pixels[0]))
}

func (f *Functions) CreateShader(typ uint32) uint32           { return f.gl.CreateShader(typ) }
func (f *Functions) ShaderSource(shader uint32, source string) { f.gl.ShaderSource(shader, source) }
func (f *Functions) CompileShader(shader uint32)               { f.gl.CompileShader(shader) }
func (f *Functions) GetShaderInfoLog(shader uint32) string     { return f.gl.GetShaderInfoLog(shader) }
func (f *Functions) DeleteShader(shader uint32)                { f.gl.DeleteShader(shader) }
func (f *Functions) CreateProgram() uint32                     { return f.gl.CreateProgram() }
func (f *Functions) AttachShader(program, shader uint32)       { f.gl.AttachShader(program, shader) }
func (f *Functions) LinkProgram(program uint32)                { f.gl.LinkProgram(program) }
func (f *Functions) GetProgramInfoLog(program uint32) string   { return f.gl.GetProgramInfoLog(program) }
func (f *Functions) UseProgram(program uint32)                 { f.gl.UseProgram(program) }
func (f *Functions) DeleteProgram(program uint32)              { f.gl.DeleteProgram(program) }
func (f *Functions) Uniform1i(location, value int32)           { f.gl.Uniform1i(location, value) }

func (f *Functions) GetShaderiv(shader, pname uint32, params *int32) {
	f.gl.GetShaderiv(shader, pname, params)
}

func (f *Functions) GetProgramiv(program, pname uint32, params *int32) {
	f.gl.GetProgramiv(program, pname, params)
}

func (f *Functions) GetUniformLocation(program uint32, name string) int32 {
	return f.gl.GetUniformLocation(program, name)
}

func (f *Functions) GetUniformBlockIndex(program uint32, name string) uint32 {
	return f.gl.GetUniformBlockIndex(program, name)
}

func (f *Functions) UniformBlockBinding(program, blockIndex, blockBinding uint32) {
	f.gl.UniformBlockBinding(program, blockIndex, blockBinding)
}

func (f *Functions) GenBuffers(n int32) uint32                { return f.gl.GenBuffers(n) }
func (f *Functions) DeleteBuffers(buffers ...uint32)          { f.gl.DeleteBuffers(buffers...) }
func (f *Functions) BindBuffer(target, buffer uint32)         { f.gl.BindBuffer(target, buffer) }
func (f *Functions) BindBufferBase(target, index, buf uint32) { f.gl.BindBufferBase(target, index, buf) }

func (f *Functions) BufferData(target uint32, data []byte, usage uint32) {
	f.gl.BufferData(target, len(data), ptr(data), usage)
	runtime.KeepAlive(data)
}

func (f *Functions) GenVertexArrays(n int32) uint32        { return f.gl.GenVertexArrays(n) }
func (f *Functions) DeleteVertexArrays(arrays ...uint32)   { f.gl.DeleteVertexArrays(arrays...) }
func (f *Functions) BindVertexArray(array uint32)          { f.gl.BindVertexArray(array) }
func (f *Functions) EnableVertexAttribArray(index uint32)  { f.gl.EnableVertexAttribArray(index) }
func (f *Functions) GenTextures(n int32) uint32            { return f.gl.GenTextures(n) }
func (f *Functions) DeleteTextures(textures ...uint32)     { f.gl.DeleteTextures(textures...) }
func (f *Functions) ActiveTexture(unit uint32)             { f.gl.ActiveTexture(unit) }
func (f *Functions) BindTexture(target, texture uint32)    { f.gl.BindTexture(target, texture) }
func (f *Functions) GenerateMipmap(target uint32)          { f.gl.GenerateMipmap(target) }
func (f *Functions) GenFramebuffers(n int32) uint32        { return f.gl.GenFramebuffers(n) }
func (f *Functions) DeleteFramebuffers(fbs ...uint32)      { f.gl.DeleteFramebuffers(fbs...) }
func (f *Functions) BindFramebuffer(target, fb uint32)     { f.gl.BindFramebuffer(target, fb) }
func (f *Functions) CheckFramebufferStatus(t uint32) uint32 { return f.gl.CheckFramebufferStatus(t) }
func (f *Functions) GenRenderbuffers(n int32) uint32       { return f.gl.GenRenderbuffers(n) }
func (f *Functions) DeleteRenderbuffers(rbs ...uint32)     { f.gl.DeleteRenderbuffers(rbs...) }
func (f *Functions) BindRenderbuffer(target, rb uint32)    { f.gl.BindRenderbuffer(target, rb) }

func (f *Functions) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset int) {
	f.gl.VertexAttribPointer(index, size, typ, normalized, stride, uintptr(offset))
}

func (f *Functions) TexParameteri(target, pname uint32, param int32) {
	f.gl.TexParameteri(target, pname, param)
}

func (f *Functions) TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pixels []byte) {
	f.gl.TexImage2D(target, level, internalFormat, width, height, 0, format, typ, ptr(pixels))
	runtime.KeepAlive(pixels)
}

func (f *Functions) TexSubImage2D(target uint32, level, x, y, width, height int32, format, typ uint32, pixels []byte) {
	f.gl.TexSubImage2D(target, level, x, y, width, height, format, typ, ptr(pixels))
	runtime.KeepAlive(pixels)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget, texture uint32, level int32) {
	f.gl.FramebufferTexture2D(target, attachment, texTarget, texture, level)
}

func (f *Functions) FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer uint32) {
	f.gl.FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer)
}

func (f *Functions) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	f.gl.RenderbufferStorage(target, internalFormat, width, height)
}

func (f *Functions) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	f.gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

var _ glcontext.Functions = (*Functions)(nil)
