package nodegl

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/shader"
)

// Geometry is implemented by node impls that can be drawn by a Render
// node.
type Geometry interface {
	Impl
	// draw issues the draw call. The program is already bound.
	draw(n *Node)
}

// QuadParams describes a parallelogram: the corner and two edge vectors,
// with the matching texture coordinates.
type QuadParams struct {
	Corner [3]float32
	Width  [3]float32
	Height [3]float32

	// UV edges default to the full texture when both are zero.
	UVCorner [2]float32
	UVWidth  [2]float32
	UVHeight [2]float32
}

// DefaultQuadParams returns a unit quad centered on the origin.
func DefaultQuadParams() QuadParams {
	return QuadParams{
		Corner: [3]float32{-0.5, -0.5, 0},
		Width:  [3]float32{1, 0, 0},
		Height: [3]float32{0, 1, 0},
	}
}

var quadClass = registerClass(&Class{
	ID:   fourcc("Quad"),
	Name: "Quad",
	Params: []ParamSpec{
		{Name: "corner", Kind: ParamVec3, Default: [3]float32{-0.5, -0.5, 0}},
		{Name: "width", Kind: ParamVec3, Default: [3]float32{1, 0, 0}},
		{Name: "height", Kind: ParamVec3, Default: [3]float32{0, 1, 0}},
		{Name: "uv_corner", Kind: ParamVec2, Default: [2]float32{0, 0}},
		{Name: "uv_width", Kind: ParamVec2, Default: [2]float32{1, 0}},
		{Name: "uv_height", Kind: ParamVec2, Default: [2]float32{0, 1}},
	},
})

type quad struct {
	p QuadParams

	vertices []byte
	vao      uint32
	vbo      uint32
}

// NewQuad creates a quad geometry.
func NewQuad(p QuadParams) *Node {
	if p.UVWidth == ([2]float32{}) && p.UVHeight == ([2]float32{}) {
		p.UVWidth = [2]float32{1, 0}
		p.UVHeight = [2]float32{0, 1}
	}
	return NewNode(&quad{p: p})
}

func (q *quad) Class() *Class { return quadClass }

const quadStride = (3 + 2) * 4

func (q *quad) Init(n *Node) error {
	p := q.p
	buf := make([]byte, 0, 4*quadStride)
	put := func(v float32) { buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v)) }
	// Triangle strip: corner, +width, +height, +width+height.
	for _, k := range [4][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		for i := 0; i < 3; i++ {
			put(p.Corner[i] + k[0]*p.Width[i] + k[1]*p.Height[i])
		}
		for i := 0; i < 2; i++ {
			put(p.UVCorner[i] + k[0]*p.UVWidth[i] + k[1]*p.UVHeight[i])
		}
	}
	q.vertices = buf
	return nil
}

func (q *quad) Prefetch(n *Node) error {
	f := n.gl().Funcs
	q.vao = f.GenVertexArrays(1)
	q.vbo = f.GenBuffers(1)
	f.BindVertexArray(q.vao)
	f.BindBuffer(glcontext.ARRAY_BUFFER, q.vbo)
	f.BufferData(glcontext.ARRAY_BUFFER, q.vertices, glcontext.STATIC_DRAW)
	f.EnableVertexAttribArray(shader.PositionLocation)
	f.VertexAttribPointer(shader.PositionLocation, 3, glcontext.FLOAT, false, quadStride, 0)
	f.EnableVertexAttribArray(shader.UVLocation)
	f.VertexAttribPointer(shader.UVLocation, 2, glcontext.FLOAT, false, quadStride, 3*4)
	f.BindVertexArray(0)
	f.BindBuffer(glcontext.ARRAY_BUFFER, 0)
	return nil
}

func (q *quad) draw(n *Node) {
	f := n.gl().Funcs
	f.BindVertexArray(q.vao)
	f.DrawArrays(glcontext.TRIANGLE_STRIP, 0, 4)
	f.BindVertexArray(0)
}

func (q *quad) Release(n *Node) {
	f := n.gl().Funcs
	if q.vao != 0 {
		f.DeleteVertexArrays(q.vao)
		q.vao = 0
	}
	if q.vbo != 0 {
		f.DeleteBuffers(q.vbo)
		q.vbo = 0
	}
}

func (q *quad) Uninit(n *Node) { q.vertices = nil }
