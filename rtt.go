package nodegl

import (
	"fmt"

	"github.com/gogpu/nodegl/glcontext"
)

// RenderToTextureParams configures a RenderToTexture node.
type RenderToTextureParams struct {
	Child *Node
	// Color is the Texture2D rendered into. Its size is the render size.
	Color *Node
	// Depth is an optional depth Texture2D of the same size. Without it a
	// 16 bit depth renderbuffer is used.
	Depth *Node
	// Samples enables multisampling when positive.
	Samples int
}

var rttClass = registerClass(&Class{
	ID:   fourcc("RTT "),
	Name: "RenderToTexture",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true, Doc: "scene rasterized to color and optionally to depth"},
		{Name: "color_texture", Kind: ParamNode, Constructor: true, Doc: "destination color texture"},
		{Name: "depth_texture", Kind: ParamNode, Doc: "destination depth texture"},
		{Name: "samples", Kind: ParamInt, Default: 0, Doc: "MSAA sample count"},
	},
})

type rtt struct {
	p RenderToTextureParams

	width, height int32
	samples       int32

	framebuffer  uint32
	renderbuffer uint32

	framebufferMS uint32
	colorbufferMS uint32
	depthbufferMS uint32
}

// NewRenderToTexture renders a subtree into a texture.
func NewRenderToTexture(p RenderToTextureParams) *Node {
	return NewNode(&rtt{p: p})
}

func (r *rtt) Class() *Class { return rttClass }

func (r *rtt) Children() []*Node { return []*Node{r.p.Child, r.p.Color, r.p.Depth} }

func (r *rtt) Init(n *Node) error {
	if r.p.Child == nil {
		return configErrorf(n, "child is required")
	}
	if _, ok := TextureOf(r.p.Color); !ok {
		return configErrorf(n, "color texture must be a Texture2D")
	}
	if r.p.Depth != nil {
		if _, ok := TextureOf(r.p.Depth); !ok {
			return configErrorf(n, "depth texture must be a Texture2D")
		}
	}
	if r.p.Samples < 0 {
		return configErrorf(n, "invalid sample count %d", r.p.Samples)
	}
	return nil
}

// Samples returns the sample count in use after prefetch.
func (r *rtt) Samples() int { return int(r.samples) }

func (r *rtt) Prefetch(n *Node) error {
	gl := n.gl()
	f := gl.Funcs
	color, _ := TextureOf(r.p.Color)

	r.width, r.height = int32(color.Width()), int32(color.Height())
	r.samples = int32(r.p.Samples)

	ms, hasMS := gl.Multisample()
	if !hasMS && r.samples > 0 {
		n.logger().Warn("nodegl: context does not support the framebuffer object feature, multisample will be disabled",
			"node", n.String(), "samples", r.samples)
		r.samples = 0
	}

	var depth *Texture2D
	if r.p.Depth != nil {
		depth, _ = TextureOf(r.p.Depth)
		if depth.Width() != color.Width() || depth.Height() != color.Height() {
			return configErrorf(n, "color and depth texture dimensions do not match: %dx%d != %dx%d",
				color.Width(), color.Height(), depth.Width(), depth.Height())
		}
	}

	prev := uint32(gl.Integer(glcontext.FRAMEBUFFER_BINDING))
	defer f.BindFramebuffer(glcontext.FRAMEBUFFER, prev)

	r.framebuffer = f.GenFramebuffers(1)
	f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebuffer)
	n.logger().Debug("nodegl: init rtt", "node", n.String(), "texture", color.ID(), "framebuffer", r.framebuffer)
	f.FramebufferTexture2D(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, color.Target(), color.ID(), 0)

	var depthFormat uint32
	if depth != nil {
		depthFormat = uint32(depth.triple.InternalFormat)
		f.FramebufferTexture2D(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, depth.Target(), depth.ID(), 0)
	} else {
		depthFormat = glcontext.DEPTH_COMPONENT16
		r.renderbuffer = f.GenRenderbuffers(1)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, r.renderbuffer)
		f.RenderbufferStorage(glcontext.RENDERBUFFER, depthFormat, r.width, r.height)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, 0)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, r.renderbuffer)
	}

	if status := f.CheckFramebufferStatus(glcontext.FRAMEBUFFER); status != glcontext.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: framebuffer %d (status 0x%x)", ErrIncompleteFramebuffer, r.framebuffer, status)
	}

	if r.samples > 0 {
		if q, ok := gl.InternalformatQuerier(); ok {
			var colorMax, depthMax [1]int32
			q.GetInternalformativ(glcontext.RENDERBUFFER, uint32(color.triple.InternalFormat), glcontext.SAMPLES, colorMax[:])
			q.GetInternalformativ(glcontext.RENDERBUFFER, depthFormat, glcontext.SAMPLES, depthMax[:])
			if limit := min(colorMax[0], depthMax[0]); r.samples > limit {
				n.logger().Warn("nodegl: requested samples exceed renderbuffer's maximum supported value",
					"node", n.String(), "requested", r.samples, "max", limit)
				r.samples = limit
			}
		}
	}

	if r.samples > 0 {
		r.framebufferMS = f.GenFramebuffers(1)
		f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebufferMS)

		r.colorbufferMS = f.GenRenderbuffers(1)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, r.colorbufferMS)
		ms.RenderbufferStorageMultisample(glcontext.RENDERBUFFER, r.samples, uint32(color.triple.InternalFormat), r.width, r.height)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, 0)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, glcontext.RENDERBUFFER, r.colorbufferMS)

		r.depthbufferMS = f.GenRenderbuffers(1)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, r.depthbufferMS)
		ms.RenderbufferStorageMultisample(glcontext.RENDERBUFFER, r.samples, depthFormat, r.width, r.height)
		f.BindRenderbuffer(glcontext.RENDERBUFFER, 0)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, r.depthbufferMS)

		if status := f.CheckFramebufferStatus(glcontext.FRAMEBUFFER); status != glcontext.FRAMEBUFFER_COMPLETE {
			return fmt.Errorf("%w: multisampled framebuffer %d (status 0x%x)", ErrIncompleteFramebuffer, r.framebufferMS, status)
		}
	}

	r.flip()
	return nil
}

// flip remaps the color and depth textures vertically so their
// coordinates match the uv space.
func (r *rtt) flip() {
	for _, tn := range []*Node{r.p.Color, r.p.Depth} {
		if t, ok := TextureOf(tn); ok {
			t.coords[5] = -1
			t.coords[13] = 1
		}
	}
}

func (r *rtt) Update(n *Node, t float64) error {
	n.inherit(r.p.Child)
	if err := r.p.Child.Update(t); err != nil {
		return err
	}
	return r.p.Color.Update(t)
}

func (r *rtt) Draw(n *Node) error {
	gl := n.gl()
	f := gl.Funcs

	prev := uint32(gl.Integer(glcontext.FRAMEBUFFER_BINDING))
	if r.samples > 0 {
		f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebufferMS)
	} else {
		f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebuffer)
	}

	var viewport [4]int32
	f.GetIntegerv(glcontext.VIEWPORT, viewport[:])
	f.Viewport(0, 0, r.width, r.height)
	f.Clear(glcontext.COLOR_BUFFER_BIT | glcontext.DEPTH_BUFFER_BIT)

	err := r.p.Child.Draw()

	if status := f.CheckFramebufferStatus(glcontext.FRAMEBUFFER); status != glcontext.FRAMEBUFFER_COMPLETE {
		n.logger().Warn("nodegl: framebuffer is not complete", "node", n.String(), "framebuffer", r.framebuffer, "status", status)
		f.BindFramebuffer(glcontext.FRAMEBUFFER, prev)
		f.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
		return err
	}

	if r.samples > 0 {
		f.BindFramebuffer(glcontext.READ_FRAMEBUFFER, r.framebufferMS)
		f.BindFramebuffer(glcontext.DRAW_FRAMEBUFFER, r.framebuffer)
		f.BlitFramebuffer(0, 0, r.width, r.height, 0, 0, r.width, r.height,
			glcontext.COLOR_BUFFER_BIT|glcontext.DEPTH_BUFFER_BIT, glcontext.NEAREST)
	}

	f.BindFramebuffer(glcontext.FRAMEBUFFER, prev)
	f.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])

	color, _ := TextureOf(r.p.Color)
	if glcontext.IsMipmapFilter(color.minFilter) {
		f.BindTexture(color.Target(), color.ID())
		f.GenerateMipmap(color.Target())
		f.BindTexture(color.Target(), 0)
	}
	r.flip()
	return err
}

func (r *rtt) Release(n *Node) {
	gl := n.gl()
	f := gl.Funcs

	prev := uint32(gl.Integer(glcontext.FRAMEBUFFER_BINDING))
	if r.framebuffer != 0 {
		f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebuffer)
		f.FramebufferTexture2D(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, glcontext.TEXTURE_2D, 0, 0)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, 0)
	}
	if r.renderbuffer != 0 {
		f.DeleteRenderbuffers(r.renderbuffer)
	}
	if r.framebuffer != 0 {
		f.DeleteFramebuffers(r.framebuffer)
	}

	if r.framebufferMS != 0 {
		f.BindFramebuffer(glcontext.FRAMEBUFFER, r.framebufferMS)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.COLOR_ATTACHMENT0, glcontext.RENDERBUFFER, 0)
		f.FramebufferRenderbuffer(glcontext.FRAMEBUFFER, glcontext.DEPTH_ATTACHMENT, glcontext.RENDERBUFFER, 0)
		f.DeleteFramebuffers(r.framebufferMS)
	}
	if r.colorbufferMS != 0 {
		f.DeleteRenderbuffers(r.colorbufferMS)
	}
	if r.depthbufferMS != 0 {
		f.DeleteRenderbuffers(r.depthbufferMS)
	}

	if prev == r.framebuffer || prev == r.framebufferMS {
		prev = 0
	}
	f.BindFramebuffer(glcontext.FRAMEBUFFER, prev)

	r.framebuffer, r.renderbuffer = 0, 0
	r.framebufferMS, r.colorbufferMS, r.depthbufferMS = 0, 0, 0
	r.width, r.height = 0, 0
}
