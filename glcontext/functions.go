// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glcontext

// Functions is the OpenGL entry point table used by the engine.
//
// Pixel and buffer data are passed as slices; a nil slice stands for a NULL
// pointer (allocation without upload).
type Functions interface {
	GetError() uint32
	GetIntegerv(pname uint32, data []int32)
	Enable(capability uint32)
	Disable(capability uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquationSeparate(modeRGB, modeAlpha uint32)
	DepthFunc(fn uint32)
	DrawArrays(mode uint32, first, count int32)
	ReadPixels(x, y, width, height int32, format, typ uint32, pixels []byte)

	CreateShader(typ uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	GetUniformBlockIndex(program uint32, name string) uint32
	UniformBlockBinding(program, blockIndex, blockBinding uint32)
	Uniform1i(location, value int32)

	GenBuffers(n int32) uint32
	DeleteBuffers(buffers ...uint32)
	BindBuffer(target, buffer uint32)
	BindBufferBase(target, index, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	GenVertexArrays(n int32) uint32
	DeleteVertexArrays(arrays ...uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset int)

	GenTextures(n int32) uint32
	DeleteTextures(textures ...uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pixels []byte)
	TexSubImage2D(target uint32, level, x, y, width, height int32, format, typ uint32, pixels []byte)
	GenerateMipmap(target uint32)

	GenFramebuffers(n int32) uint32
	DeleteFramebuffers(framebuffers ...uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, texTarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	GenRenderbuffers(n int32) uint32
	DeleteRenderbuffers(renderbuffers ...uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32)
}

// MultisampleFunctions is implemented by function tables that can allocate
// multisample renderbuffers. Its presence enables FeatureFramebufferObject.
type MultisampleFunctions interface {
	RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32)
}

// InternalformatQuerier is implemented by function tables that can report
// per-format limits such as the supported sample counts. Its presence
// enables FeatureInternalformatQuery.
type InternalformatQuerier interface {
	GetInternalformativ(target, internalFormat, pname uint32, params []int32)
}
