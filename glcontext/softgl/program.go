// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softgl

import (
	"strings"

	"github.com/gogpu/nodegl/glcontext"
)

// CreateShader allocates a shader object.
func (g *GL) CreateShader(typ uint32) uint32 {
	g.call("CreateShader")
	if typ != glcontext.VERTEX_SHADER && typ != glcontext.FRAGMENT_SHADER {
		g.setError(glcontext.INVALID_ENUM)
		return 0
	}
	name := g.gen()
	g.shaders[name] = &shader{typ: typ}
	return name
}

// ShaderSource stores the shader source.
func (g *GL) ShaderSource(name uint32, source string) {
	g.call("ShaderSource")
	s, ok := g.shaders[name]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	s.source = source
}

// CompileShader marks a shader compiled when it has a main function.
func (g *GL) CompileShader(name uint32) {
	g.call("CompileShader")
	s, ok := g.shaders[name]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	s.compiled = strings.Contains(s.source, "void main")
}

// GetShaderiv reports COMPILE_STATUS.
func (g *GL) GetShaderiv(name, pname uint32, params *int32) {
	g.call("GetShaderiv")
	s, ok := g.shaders[name]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	if pname != glcontext.COMPILE_STATUS {
		g.setError(glcontext.INVALID_ENUM)
		return
	}
	*params = boolInt(s.compiled)
}

// GetShaderInfoLog returns a log for shaders that failed to compile.
func (g *GL) GetShaderInfoLog(name uint32) string {
	g.call("GetShaderInfoLog")
	if s, ok := g.shaders[name]; ok && !s.compiled {
		return "softgl: missing main function"
	}
	return ""
}

// DeleteShader frees a shader.
func (g *GL) DeleteShader(name uint32) {
	g.call("DeleteShader")
	delete(g.shaders, name)
}

// CreateProgram allocates a program object.
func (g *GL) CreateProgram() uint32 {
	g.call("CreateProgram")
	name := g.gen()
	g.programs[name] = &program{blocks: make(map[uint32]uint32)}
	return name
}

// AttachShader attaches a shader to a program.
func (g *GL) AttachShader(prog, sh uint32) {
	g.call("AttachShader")
	p, ok := g.programs[prog]
	if _, sok := g.shaders[sh]; !ok || !sok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	p.shaders = append(p.shaders, sh)
}

// LinkProgram links when a compiled vertex and fragment shader are attached.
func (g *GL) LinkProgram(prog uint32) {
	g.call("LinkProgram")
	p, ok := g.programs[prog]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	var vs, fs bool
	for _, name := range p.shaders {
		s, ok := g.shaders[name]
		if !ok || !s.compiled {
			continue
		}
		vs = vs || s.typ == glcontext.VERTEX_SHADER
		fs = fs || s.typ == glcontext.FRAGMENT_SHADER
	}
	p.linked = vs && fs
}

// GetProgramiv reports LINK_STATUS.
func (g *GL) GetProgramiv(prog, pname uint32, params *int32) {
	g.call("GetProgramiv")
	p, ok := g.programs[prog]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	if pname != glcontext.LINK_STATUS {
		g.setError(glcontext.INVALID_ENUM)
		return
	}
	*params = boolInt(p.linked)
}

// GetProgramInfoLog returns a log for programs that failed to link.
func (g *GL) GetProgramInfoLog(prog uint32) string {
	g.call("GetProgramInfoLog")
	if p, ok := g.programs[prog]; ok && !p.linked {
		return "softgl: program needs a vertex and a fragment shader"
	}
	return ""
}

// UseProgram binds a program.
func (g *GL) UseProgram(prog uint32) {
	g.call("UseProgram")
	if _, ok := g.programs[prog]; prog != 0 && !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	g.program = prog
}

// DeleteProgram frees a program.
func (g *GL) DeleteProgram(prog uint32) {
	g.call("DeleteProgram")
	delete(g.programs, prog)
	if g.program == prog {
		g.program = 0
	}
}

// sourceIndex returns the position of name among the identifiers of the
// program's sources, or -1.
func (g *GL) sourceIndex(prog uint32, name string) int32 {
	p, ok := g.programs[prog]
	if !ok || !p.linked {
		return -1
	}
	for _, sh := range p.shaders {
		if s, ok := g.shaders[sh]; ok {
			if i := strings.Index(s.source, name); i >= 0 {
				return int32(i)
			}
		}
	}
	return -1
}

// GetUniformLocation returns a location for names present in the sources.
func (g *GL) GetUniformLocation(prog uint32, name string) int32 {
	g.call("GetUniformLocation")
	return g.sourceIndex(prog, name)
}

// GetUniformBlockIndex returns an index for block names present in the
// sources.
func (g *GL) GetUniformBlockIndex(prog uint32, name string) uint32 {
	g.call("GetUniformBlockIndex")
	i := g.sourceIndex(prog, name)
	if i < 0 {
		return glcontext.INVALID_INDEX
	}
	return uint32(i)
}

// UniformBlockBinding assigns a block to a binding point.
func (g *GL) UniformBlockBinding(prog, blockIndex, blockBinding uint32) {
	g.call("UniformBlockBinding")
	p, ok := g.programs[prog]
	if !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	p.blocks[blockIndex] = blockBinding
}

// Uniform1i sets a sampler unit.
func (g *GL) Uniform1i(location, value int32) {
	g.call("Uniform1i")
	if g.program == 0 {
		g.setError(glcontext.INVALID_OPERATION)
	}
}

// GenBuffers allocates one buffer name.
func (g *GL) GenBuffers(n int32) uint32 {
	g.call("GenBuffers")
	name := g.gen()
	g.buffers[name] = nil
	return name
}

// DeleteBuffers frees buffers.
func (g *GL) DeleteBuffers(buffers ...uint32) {
	g.call("DeleteBuffers")
	for _, b := range buffers {
		delete(g.buffers, b)
		if g.arrayBuffer == b {
			g.arrayBuffer = 0
		}
		if g.uniformBuf == b {
			g.uniformBuf = 0
		}
	}
}

// BindBuffer binds a buffer.
func (g *GL) BindBuffer(target, buffer uint32) {
	g.call("BindBuffer")
	if _, ok := g.buffers[buffer]; buffer != 0 && !ok {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	switch target {
	case glcontext.ARRAY_BUFFER:
		g.arrayBuffer = buffer
	case glcontext.UNIFORM_BUFFER:
		g.uniformBuf = buffer
	default:
		g.setError(glcontext.INVALID_ENUM)
	}
}

// BindBufferBase binds a buffer to an indexed target.
func (g *GL) BindBufferBase(target, index, buffer uint32) {
	g.call("BindBufferBase")
	g.BindBuffer(target, buffer)
}

// BufferData replaces the store of the bound buffer.
func (g *GL) BufferData(target uint32, data []byte, usage uint32) {
	g.call("BufferData")
	var name uint32
	switch target {
	case glcontext.ARRAY_BUFFER:
		name = g.arrayBuffer
	case glcontext.UNIFORM_BUFFER:
		name = g.uniformBuf
	}
	if name == 0 {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.buffers[name] = append([]byte(nil), data...)
}

// BufferContents returns a copy of a buffer's store.
func (g *GL) BufferContents(name uint32) []byte {
	return append([]byte(nil), g.buffers[name]...)
}

// GenVertexArrays allocates one vertex array name.
func (g *GL) GenVertexArrays(n int32) uint32 {
	g.call("GenVertexArrays")
	name := g.gen()
	g.vertexArrays[name] = true
	return name
}

// DeleteVertexArrays frees vertex arrays.
func (g *GL) DeleteVertexArrays(arrays ...uint32) {
	g.call("DeleteVertexArrays")
	for _, a := range arrays {
		delete(g.vertexArrays, a)
		if g.vertexArray == a {
			g.vertexArray = 0
		}
	}
}

// BindVertexArray binds a vertex array.
func (g *GL) BindVertexArray(array uint32) {
	g.call("BindVertexArray")
	if array != 0 && !g.vertexArrays[array] {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	g.vertexArray = array
}

// EnableVertexAttribArray records the call.
func (g *GL) EnableVertexAttribArray(index uint32) {
	g.call("EnableVertexAttribArray")
}

// VertexAttribPointer requires a bound array buffer.
func (g *GL) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset int) {
	g.call("VertexAttribPointer")
	if g.arrayBuffer == 0 {
		g.setError(glcontext.INVALID_OPERATION)
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
