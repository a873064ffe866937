package nodegl

import (
	"github.com/gogpu/nodegl/internal/mat4"
)

type group struct {
	children []*Node
}

var groupClass = registerClass(&Class{
	ID:   fourcc("Grup"),
	Name: "Group",
	Params: []ParamSpec{
		{Name: "children", Kind: ParamNodeList, Constructor: true},
	},
})

// NewGroup creates a node drawing children in order.
func NewGroup(children ...*Node) *Node {
	return NewNode(&group{children: children})
}

func (g *group) Class() *Class { return groupClass }

func (g *group) Children() []*Node { return g.children }

func (g *group) Update(n *Node, t float64) error {
	for _, c := range n.children() {
		n.inherit(c)
		if err := c.Update(t); err != nil {
			return err
		}
	}
	return nil
}

func (g *group) Draw(n *Node) error {
	for _, c := range n.children() {
		if err := c.Draw(); err != nil {
			return err
		}
	}
	return nil
}

type identity struct{}

var identityClass = registerClass(&Class{ID: fourcc("Idty"), Name: "Identity"})

// NewIdentity creates a leaf that does nothing.
func NewIdentity() *Node { return NewNode(identity{}) }

func (identity) Class() *Class { return identityClass }

// transform is the part shared by Rotate, Translate and Scale: a child
// whose modelview is the parent's times a local matrix.
type transform struct {
	child *Node
	local mat4.Mat4
}

func (tr *transform) init(n *Node) error {
	if tr.child == nil {
		return configErrorf(n, "child is required")
	}
	return nil
}

func (tr *transform) updateChild(n *Node, t float64) error {
	tr.child.Modelview = mat4.Mul(n.Modelview, tr.local)
	tr.child.Projection = n.Projection
	return tr.child.Update(t)
}

func (tr *transform) Draw(n *Node) error { return tr.child.Draw() }

// anchored returns T(anchor) * m * T(-anchor).
func anchored(m mat4.Mat4, anchor [3]float32) mat4.Mat4 {
	if anchor == ([3]float32{}) {
		return m
	}
	a := mat4.Vec3(anchor)
	return mat4.Mul(mat4.Mul(mat4.Translate(a), m), mat4.Translate(mat4.Neg(a)))
}

// RotateParams configures a Rotate node.
type RotateParams struct {
	Child *Node
	// Angle is in degrees. Anim, an AnimatedFloat, overrides it.
	Angle float64
	// Axis defaults to +Z when nil.
	Axis   *[3]float32
	Anchor [3]float32
	Anim   *Node
}

type rotate struct {
	transform
	p    RotateParams
	axis mat4.Vec3
}

var rotateClass = registerClass(&Class{
	ID:   fourcc("Rota"),
	Name: "Rotate",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true},
		{Name: "angle", Kind: ParamFloat, Default: 0.0, Doc: "degrees"},
		{Name: "axis", Kind: ParamVec3, Default: [3]float32{0, 0, 1}},
		{Name: "anchor", Kind: ParamVec3, Default: [3]float32{}},
		{Name: "anim", Kind: ParamNode, Doc: "AnimatedFloat overriding angle"},
	},
})

// NewRotate rotates a subtree around an axis.
func NewRotate(p RotateParams) *Node {
	return NewNode(&rotate{transform: transform{child: p.Child}, p: p})
}

func (r *rotate) Class() *Class { return rotateClass }

func (r *rotate) Children() []*Node { return []*Node{r.p.Child, r.p.Anim} }

func (r *rotate) Init(n *Node) error {
	if err := r.init(n); err != nil {
		return err
	}
	axis := mat4.Vec3{0, 0, 1}
	if r.p.Axis != nil {
		axis = *r.p.Axis
	}
	if mat4.Length(axis) == 0 {
		return configErrorf(n, "rotation axis (0, 0, 0) is invalid")
	}
	if r.p.Anim != nil {
		if _, ok := r.p.Anim.impl.(*AnimatedFloat); !ok {
			return configErrorf(n, "anim must be an AnimatedFloat, got %s", r.p.Anim.Class().Name)
		}
	}
	r.axis = mat4.Normalize(axis)
	return nil
}

func (r *rotate) Update(n *Node, t float64) error {
	angle := r.p.Angle
	if r.p.Anim != nil {
		v, err := animatedFloat(n, r.p.Anim, t)
		if err != nil {
			return err
		}
		angle = v
	}
	r.local = anchored(mat4.Rotate(mat4.Radians(float32(angle)), r.axis), r.p.Anchor)
	return r.updateChild(n, t)
}

// TranslateParams configures a Translate node.
type TranslateParams struct {
	Child  *Node
	Vector [3]float32
	// Anim, an AnimatedVec3, overrides Vector.
	Anim *Node
}

type translate struct {
	transform
	p TranslateParams
}

var translateClass = registerClass(&Class{
	ID:   fourcc("Trsl"),
	Name: "Translate",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true},
		{Name: "vector", Kind: ParamVec3, Default: [3]float32{}},
		{Name: "anim", Kind: ParamNode, Doc: "AnimatedVec3 overriding vector"},
	},
})

// NewTranslate moves a subtree.
func NewTranslate(p TranslateParams) *Node {
	return NewNode(&translate{transform: transform{child: p.Child}, p: p})
}

func (tr *translate) Class() *Class { return translateClass }

func (tr *translate) Children() []*Node { return []*Node{tr.p.Child, tr.p.Anim} }

func (tr *translate) Init(n *Node) error {
	if err := tr.init(n); err != nil {
		return err
	}
	if tr.p.Anim != nil {
		if _, ok := tr.p.Anim.impl.(*AnimatedVec3); !ok {
			return configErrorf(n, "anim must be an AnimatedVec3, got %s", tr.p.Anim.Class().Name)
		}
	}
	return nil
}

func (tr *translate) Update(n *Node, t float64) error {
	v := tr.p.Vector
	if tr.p.Anim != nil {
		var err error
		if v, err = animatedVec3(n, tr.p.Anim, t); err != nil {
			return err
		}
	}
	tr.local = mat4.Translate(v)
	return tr.updateChild(n, t)
}

// ScaleParams configures a Scale node.
type ScaleParams struct {
	Child *Node
	// Factors default to (1, 1, 1) when zero.
	Factors [3]float32
	Anchor  [3]float32
	// Anim, an AnimatedVec3, overrides Factors.
	Anim *Node
}

type scale struct {
	transform
	p ScaleParams
}

var scaleClass = registerClass(&Class{
	ID:   fourcc("Scal"),
	Name: "Scale",
	Params: []ParamSpec{
		{Name: "child", Kind: ParamNode, Constructor: true},
		{Name: "factors", Kind: ParamVec3, Default: [3]float32{1, 1, 1}},
		{Name: "anchor", Kind: ParamVec3, Default: [3]float32{}},
		{Name: "anim", Kind: ParamNode, Doc: "AnimatedVec3 overriding factors"},
	},
})

// NewScale scales a subtree.
func NewScale(p ScaleParams) *Node {
	if p.Factors == ([3]float32{}) {
		p.Factors = [3]float32{1, 1, 1}
	}
	return NewNode(&scale{transform: transform{child: p.Child}, p: p})
}

func (s *scale) Class() *Class { return scaleClass }

func (s *scale) Children() []*Node { return []*Node{s.p.Child, s.p.Anim} }

func (s *scale) Init(n *Node) error {
	if err := s.init(n); err != nil {
		return err
	}
	if s.p.Anim != nil {
		if _, ok := s.p.Anim.impl.(*AnimatedVec3); !ok {
			return configErrorf(n, "anim must be an AnimatedVec3, got %s", s.p.Anim.Class().Name)
		}
	}
	return nil
}

func (s *scale) Update(n *Node, t float64) error {
	f := s.p.Factors
	if s.p.Anim != nil {
		var err error
		if f, err = animatedVec3(n, s.p.Anim, t); err != nil {
			return err
		}
	}
	s.local = anchored(mat4.Scale(f), s.p.Anchor)
	return s.updateChild(n, t)
}
