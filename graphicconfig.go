package nodegl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
)

// graphicState is the fixed-function state GraphicConfig nodes change.
type graphicState struct {
	blend              bool
	srcRGB, dstRGB     uint32
	srcAlpha, dstAlpha uint32
	modeRGB, modeAlpha uint32
	depthTest          bool
	depthFunc          uint32
}

func defaultGraphicState() graphicState {
	return graphicState{
		srcRGB:    glcontext.ONE,
		dstRGB:    glcontext.ZERO,
		srcAlpha:  glcontext.ONE,
		dstAlpha:  glcontext.ZERO,
		modeRGB:   glcontext.FUNC_ADD,
		modeAlpha: glcontext.FUNC_ADD,
		depthFunc: glcontext.LESS,
	}
}

func (s graphicState) apply(f glcontext.Functions) {
	if s.blend {
		f.Enable(glcontext.BLEND)
	} else {
		f.Disable(glcontext.BLEND)
	}
	f.BlendFuncSeparate(s.srcRGB, s.dstRGB, s.srcAlpha, s.dstAlpha)
	f.BlendEquationSeparate(s.modeRGB, s.modeAlpha)
	if s.depthTest {
		f.Enable(glcontext.DEPTH_TEST)
	} else {
		f.Disable(glcontext.DEPTH_TEST)
	}
	f.DepthFunc(s.depthFunc)
}

// GraphicConfigParams configures a GraphicConfig node. Nil fields inherit
// the state of the enclosing subtree.
type GraphicConfigParams struct {
	Child *Node
	// Blend enables blending with the given factors. A pointer to a zero
	// BlendState disables blending.
	Blend     *gputypes.BlendState
	DepthTest *bool
	DepthFunc gputypes.CompareFunction
}

var graphicConfigClass = registerClass(&Class{
	ID:   fourcc("GCfg"),
	Name: "GraphicConfig",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true, Doc: "scene drawn with the state"},
		{Name: "blend", Kind: ParamString, Doc: "blend state; unset inherits"},
		{Name: "depth_test", Kind: ParamBool, Doc: "depth test; unset inherits"},
		{Name: "depth_func", Kind: ParamString, Default: "less"},
	},
})

type graphicConfig struct {
	p GraphicConfigParams
}

// NewGraphicConfig scopes blend and depth state to a subtree.
func NewGraphicConfig(p GraphicConfigParams) *Node {
	return NewNode(&graphicConfig{p: p})
}

func (g *graphicConfig) Class() *Class { return graphicConfigClass }

func (g *graphicConfig) Children() []*Node { return []*Node{g.p.Child} }

func (g *graphicConfig) Init(n *Node) error {
	if g.p.Child == nil {
		return configErrorf(n, "child is required")
	}
	return nil
}

func (g *graphicConfig) Update(n *Node, t float64) error {
	n.inherit(g.p.Child)
	return g.p.Child.Update(t)
}

func (g *graphicConfig) Draw(n *Node) error {
	ctx := n.ctx
	prev := ctx.graphics
	next := prev
	if b := g.p.Blend; b != nil {
		next.blend = *b != (gputypes.BlendState{})
		next.srcRGB = glcontext.BlendFactor(b.Color.SrcFactor)
		next.dstRGB = glcontext.BlendFactor(b.Color.DstFactor)
		next.srcAlpha = glcontext.BlendFactor(b.Alpha.SrcFactor)
		next.dstAlpha = glcontext.BlendFactor(b.Alpha.DstFactor)
		next.modeRGB = glcontext.BlendEquation(b.Color.Operation)
		next.modeAlpha = glcontext.BlendEquation(b.Alpha.Operation)
	}
	if g.p.DepthTest != nil {
		next.depthTest = *g.p.DepthTest
	}
	if g.p.DepthFunc != gputypes.CompareFunctionUndefined {
		next.depthFunc = glcontext.CompareFunc(g.p.DepthFunc)
	}

	f := n.gl().Funcs
	ctx.graphics = next
	next.apply(f)
	err := g.p.Child.Draw()
	ctx.graphics = prev
	prev.apply(f)
	return err
}
