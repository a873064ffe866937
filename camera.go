package nodegl

import (
	"fmt"
	"io"

	"github.com/gogpu/nodegl/internal/mat4"
)

// CameraParams configures a Camera node.
type CameraParams struct {
	Child  *Node
	Eye    [3]float32
	Center [3]float32
	// Up defaults to +Y.
	Up [3]float32
	// Perspective holds the vertical field of view in degrees, the aspect
	// ratio and the near and far planes. Zero keeps the parent projection.
	Perspective [4]float32
	// Pipe receives the RGBA content of the default framebuffer after each
	// draw, bottom row first.
	Pipe io.Writer
}

var cameraClass = registerClass(&Class{
	ID:   fourcc("Cmra"),
	Name: "Camera",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true},
		{Name: "eye", Kind: ParamVec3, Default: [3]float32{0, 0, 0}},
		{Name: "center", Kind: ParamVec3, Default: [3]float32{0, 0, -1}},
		{Name: "up", Kind: ParamVec3, Default: [3]float32{0, 1, 0}},
		{Name: "perspective", Kind: ParamVec4, Doc: "fov, aspect, near, far"},
		{Name: "pipe", Kind: ParamWriter, Doc: "sink for framebuffer read-backs"},
	},
})

type camera struct {
	p CameraParams

	view mat4.Mat4
	proj mat4.Mat4
	// perspective is false when the parent projection is kept.
	perspective bool
	frames      int
}

// NewCamera views a subtree from a point.
func NewCamera(p CameraParams) *Node {
	return NewNode(&camera{p: p})
}

func (c *camera) Class() *Class { return cameraClass }

func (c *camera) Children() []*Node { return []*Node{c.p.Child} }

func (c *camera) Init(n *Node) error {
	if c.p.Child == nil {
		return configErrorf(n, "child is required")
	}
	up := mat4.Vec3(c.p.Up)
	if up == (mat4.Vec3{}) {
		up = mat4.Vec3{0, 1, 0}
	}
	eye, center := mat4.Vec3(c.p.Eye), mat4.Vec3(c.p.Center)
	if eye == center {
		center = mat4.Sub(eye, mat4.Vec3{0, 0, 1})
	}
	if mat4.Length(mat4.Cross(mat4.Sub(center, eye), up)) == 0 {
		return configErrorf(n, "up vector %v is parallel to the view direction", c.p.Up)
	}
	c.view = mat4.LookAt(eye, center, up)

	if pr := c.p.Perspective; pr != ([4]float32{}) {
		if pr[1] <= 0 || pr[2] <= 0 || pr[3] <= pr[2] {
			return configErrorf(n, "invalid perspective %v", pr)
		}
		c.proj = mat4.Perspective(pr[0], pr[1], pr[2], pr[3])
		c.perspective = true
	}
	return nil
}

func (c *camera) Update(n *Node, t float64) error {
	child := c.p.Child
	child.Modelview = mat4.Mul(n.Modelview, c.view)
	child.Projection = n.Projection
	if c.perspective {
		child.Projection = mat4.Mul(n.Projection, c.proj)
	}
	return child.Update(t)
}

func (c *camera) Draw(n *Node) error {
	if err := c.p.Child.Draw(); err != nil {
		return err
	}
	if c.p.Pipe == nil {
		return nil
	}
	if _, err := c.p.Pipe.Write(n.ctx.ReadPixels()); err != nil {
		return fmt.Errorf("nodegl: %s: write frame %d: %w", n, c.frames, err)
	}
	c.frames++
	return nil
}
