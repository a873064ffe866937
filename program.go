package nodegl

import (
	"fmt"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/shader"
)

// Built-in WGSL programs for ProgramParams.Source.
var (
	ColorShader   = shader.Color
	TextureShader = shader.Texture
	NV12Shader    = shader.NV12
	OpaqueShader  = shader.Opaque
)

// ProgramParams configures a Program node.
type ProgramParams struct {
	// Source is a WGSL module with a vertex and a fragment entry point
	// reading the engine uniforms at @group(0) @binding(0) and texture i
	// at binding 1+2i (its sampler at 2+2i). Empty selects TextureShader.
	Source        string
	VertexEntry   string
	FragmentEntry string

	// External lists texture indexes bound to TEXTURE_EXTERNAL_OES.
	External []int
}

var programClass = registerClass(&Class{
	ID:   fourcc("Prgm"),
	Name: "Program",
	Params: []ParamSpec{
		{Name: "source", Kind: ParamString, Doc: "WGSL module; defaults to the texture program"},
		{Name: "vertex_entry", Kind: ParamString, Default: shader.VertexEntry},
		{Name: "fragment_entry", Kind: ParamString, Default: shader.FragmentEntry},
	},
})

type sampler struct {
	location int32
	index    int
}

type program struct {
	p ProgramParams

	glsl     *shader.Program
	id       uint32
	samplers []sampler
}

// NewProgram creates a shader program.
func NewProgram(p ProgramParams) *Node {
	if p.Source == "" {
		p.Source = TextureShader
	}
	return NewNode(&program{p: p})
}

func (p *program) Class() *Class { return programClass }

func (p *program) Init(n *Node) error {
	prog, err := shader.Translate(p.p.Source, shader.Options{
		ES:            n.gl().ES,
		VertexEntry:   p.p.VertexEntry,
		FragmentEntry: p.p.FragmentEntry,
		External:      p.p.External,
	})
	if err != nil {
		return &ConfigError{Node: n.String(), Reason: err.Error()}
	}
	p.glsl = prog
	return nil
}

func (p *program) Prefetch(n *Node) error {
	f := n.gl().Funcs

	vs, err := compileShader(f, glcontext.VERTEX_SHADER, p.glsl.Vertex)
	if err != nil {
		return err
	}
	defer f.DeleteShader(vs)
	fs, err := compileShader(f, glcontext.FRAGMENT_SHADER, p.glsl.Fragment)
	if err != nil {
		return err
	}
	defer f.DeleteShader(fs)

	p.id = f.CreateProgram()
	f.AttachShader(p.id, vs)
	f.AttachShader(p.id, fs)
	f.LinkProgram(p.id)
	var status int32
	f.GetProgramiv(p.id, glcontext.LINK_STATUS, &status)
	if status == 0 {
		log := f.GetProgramInfoLog(p.id)
		f.DeleteProgram(p.id)
		p.id = 0
		return fmt.Errorf("%w: link program: %s", ErrResource, log)
	}

	for _, name := range p.glsl.Blocks {
		if idx := f.GetUniformBlockIndex(p.id, name); idx != glcontext.INVALID_INDEX {
			f.UniformBlockBinding(p.id, idx, shader.UniformBinding)
		}
	}
	p.samplers = p.samplers[:0]
	for name, index := range p.glsl.Samplers {
		if loc := f.GetUniformLocation(p.id, name); loc >= 0 {
			p.samplers = append(p.samplers, sampler{location: loc, index: index})
		}
	}
	n.logger().Debug("nodegl: program linked", "node", n.String(), "id", p.id, "samplers", len(p.samplers))
	return nil
}

func compileShader(f glcontext.Functions, typ uint32, src string) (uint32, error) {
	sh := f.CreateShader(typ)
	f.ShaderSource(sh, src)
	f.CompileShader(sh)
	var status int32
	f.GetShaderiv(sh, glcontext.COMPILE_STATUS, &status)
	if status == 0 {
		log := f.GetShaderInfoLog(sh)
		f.DeleteShader(sh)
		return 0, fmt.Errorf("%w: compile shader 0x%x: %s", ErrResource, typ, log)
	}
	return sh, nil
}

func (p *program) Release(n *Node) {
	if p.id != 0 {
		n.gl().Funcs.DeleteProgram(p.id)
		p.id = 0
	}
	p.samplers = nil
}

func (p *program) Uninit(n *Node) { p.glsl = nil }
