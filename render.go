package nodegl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/mat4"
	"github.com/gogpu/nodegl/internal/shader"
)

// RenderParams configures a Render node.
type RenderParams struct {
	Geometry *Node
	// Program defaults to a texture program when Textures is set and a
	// color program otherwise.
	Program *Node
	// Textures[i] is bound as texture i of the program.
	Textures []*Node
	// Color multiplies the fragment output. Nil is opaque white.
	Color *gputypes.Color
}

var renderClass = registerClass(&Class{
	ID:   fourcc("Rndr"),
	Name: "Render",
	Params: []ParamSpec{
		{Name: "geometry", Kind: ParamNode, Constructor: true},
		{Name: "program", Kind: ParamNode},
		{Name: "textures", Kind: ParamNodeList},
		{Name: "color", Kind: ParamVec4, Default: [4]float32{1, 1, 1, 1}},
	},
})

type render struct {
	p RenderParams

	uniforms shader.Uniforms
	ubo      uint32
}

// NewRender draws a geometry with a program.
func NewRender(p RenderParams) *Node {
	if p.Program == nil {
		src := ColorShader
		if len(p.Textures) > 0 {
			src = TextureShader
		}
		p.Program = NewProgram(ProgramParams{Source: src})
		defer p.Program.Unref()
	}
	return NewNode(&render{p: p})
}

func (r *render) Class() *Class { return renderClass }

func (r *render) Children() []*Node {
	return append([]*Node{r.p.Geometry, r.p.Program}, r.p.Textures...)
}

func (r *render) Init(n *Node) error {
	if r.p.Geometry == nil {
		return configErrorf(n, "geometry is required")
	}
	if _, ok := r.p.Geometry.impl.(Geometry); !ok {
		return configErrorf(n, "%s is not a geometry", r.p.Geometry.Class().Name)
	}
	if _, ok := r.p.Program.impl.(*program); !ok {
		return configErrorf(n, "%s is not a program", r.p.Program.Class().Name)
	}
	for i, tex := range r.p.Textures {
		if _, ok := TextureOf(tex); !ok {
			return configErrorf(n, "texture %d is not a Texture2D", i)
		}
	}
	r.uniforms.Color = [4]float32{1, 1, 1, 1}
	if c := r.p.Color; c != nil {
		r.uniforms.Color = [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
	}
	return nil
}

func (r *render) Prefetch(n *Node) error {
	r.ubo = n.gl().Funcs.GenBuffers(1)
	return nil
}

func (r *render) Update(n *Node, t float64) error {
	for _, c := range n.children() {
		n.inherit(c)
		if err := c.Update(t); err != nil {
			return err
		}
	}
	r.uniforms.Modelview = n.Modelview
	r.uniforms.Projection = n.Projection
	r.uniforms.TexCoords = mat4.Identity()
	if len(r.p.Textures) > 0 {
		tex, _ := TextureOf(r.p.Textures[0])
		r.uniforms.TexCoords = tex.CoordinatesMatrix()
	}
	return nil
}

func (r *render) Draw(n *Node) error {
	f := n.gl().Funcs
	prog := r.p.Program.impl.(*program)

	f.UseProgram(prog.id)
	f.BindBufferBase(glcontext.UNIFORM_BUFFER, shader.UniformBinding, r.ubo)
	f.BufferData(glcontext.UNIFORM_BUFFER, r.uniforms.Bytes(), glcontext.DYNAMIC_DRAW)
	for _, s := range prog.samplers {
		if s.index >= len(r.p.Textures) {
			continue
		}
		tex, _ := TextureOf(r.p.Textures[s.index])
		f.ActiveTexture(glcontext.TEXTURE0 + uint32(s.index))
		f.BindTexture(tex.Target(), tex.ID())
		f.Uniform1i(s.location, int32(s.index))
	}

	r.p.Geometry.impl.(Geometry).draw(r.p.Geometry)

	for _, s := range prog.samplers {
		if s.index >= len(r.p.Textures) {
			continue
		}
		tex, _ := TextureOf(r.p.Textures[s.index])
		f.ActiveTexture(glcontext.TEXTURE0 + uint32(s.index))
		f.BindTexture(tex.Target(), 0)
	}
	f.ActiveTexture(glcontext.TEXTURE0)
	f.BindBufferBase(glcontext.UNIFORM_BUFFER, shader.UniformBinding, 0)
	f.UseProgram(0)
	return nil
}

func (r *render) Release(n *Node) {
	if r.ubo != 0 {
		n.gl().Funcs.DeleteBuffers(r.ubo)
		r.ubo = 0
	}
}
