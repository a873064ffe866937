package nodegl

import (
	"errors"
	"testing"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/glcontext/softgl"
)

// newTestContext returns an engine over a fresh software GL.
func newTestContext(t *testing.T, opts ...Option) (*Context, *softgl.GL) {
	t.Helper()
	g := softgl.New(softgl.WithMaxSamples(8))
	return newTestContextWith(t, g, g, opts...), g
}

// newTestContextWith runs the engine over funcs, which may be a restricted
// view of g.
func newTestContextWith(t *testing.T, g *softgl.GL, funcs glcontext.Functions, opts ...Option) *Context {
	t.Helper()
	ctx, err := New(append([]Option{WithFunctions(funcs), WithViewport(64, 48)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil && !errors.Is(err, ErrClosed) {
			t.Errorf("Close: %v", err)
		}
	})
	return ctx
}

// probe is a node impl counting lifecycle calls. It updates and draws its
// children in order.
type probe struct {
	children []*Node

	initErr     error
	prefetchErr error

	inits, prefetches, updates, draws, releases, uninits int
	lastT                                                 float64
	// order is appended to on prefetch, shared by a test's probes.
	order *[]string
	name  string
	// onDraw runs before the children are drawn.
	onDraw func(n *Node)
}

var probeClass = registerClass(&Class{ID: fourcc("Prob"), Name: "Probe"})

func newProbe(children ...*Node) (*Node, *probe) {
	p := &probe{children: children}
	return NewNode(p), p
}

func (p *probe) Class() *Class { return probeClass }

func (p *probe) Children() []*Node { return p.children }

func (p *probe) Init(n *Node) error {
	p.inits++
	return p.initErr
}

func (p *probe) Prefetch(n *Node) error {
	p.prefetches++
	if p.order != nil {
		*p.order = append(*p.order, p.name)
	}
	return p.prefetchErr
}

func (p *probe) Update(n *Node, t float64) error {
	p.updates++
	p.lastT = t
	for _, c := range n.children() {
		if err := c.Update(t); err != nil {
			return err
		}
	}
	return nil
}

func (p *probe) Draw(n *Node) error {
	p.draws++
	if p.onDraw != nil {
		p.onDraw(n)
	}
	for _, c := range n.children() {
		if err := c.Draw(); err != nil {
			return err
		}
	}
	return nil
}

func (p *probe) Release(n *Node) { p.releases++ }

func (p *probe) Uninit(n *Node) { p.uninits++ }
