package nodegl

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
)

func TestGraphicConfigScopesState(t *testing.T) {
	ctx, g := newTestContext(t)

	type seen struct{ blend, depth bool }
	var inner, outer []seen
	leaf, lp := newProbe()
	lp.onDraw = func(*Node) {
		inner = append(inner, seen{g.Enabled(glcontext.BLEND), g.Enabled(glcontext.DEPTH_TEST)})
	}
	sibling, sp := newProbe()
	sp.onDraw = func(*Node) {
		outer = append(outer, seen{g.Enabled(glcontext.BLEND), g.Enabled(glcontext.DEPTH_TEST)})
	}

	blend := gputypes.BlendStateAlpha()
	depth := true
	cfg := NewGraphicConfig(GraphicConfigParams{
		Child:     leaf,
		Blend:     &blend,
		DepthTest: &depth,
		DepthFunc: gputypes.CompareFunctionLessEqual,
	})
	root := NewGroup(cfg, sibling)
	leaf.Unref()
	cfg.Unref()
	sibling.Unref()
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}
	if len(inner) != 1 || !inner[0].blend || !inner[0].depth {
		t.Errorf("state inside = %+v, want blend and depth test enabled", inner)
	}
	if len(outer) != 1 || outer[0].blend || outer[0].depth {
		t.Errorf("state after = %+v, want defaults restored", outer)
	}
	if ctx.graphics != defaultGraphicState() {
		t.Errorf("context state = %+v, want default", ctx.graphics)
	}
}

func TestGraphicConfigDisablesBlend(t *testing.T) {
	ctx, g := newTestContext(t)
	var blended []bool
	leaf, lp := newProbe()
	lp.onDraw = func(*Node) { blended = append(blended, g.Enabled(glcontext.BLEND)) }

	on := gputypes.BlendStateAlpha()
	off := gputypes.BlendState{}
	inner := NewGraphicConfig(GraphicConfigParams{Child: leaf, Blend: &off})
	root := NewGraphicConfig(GraphicConfigParams{Child: inner, Blend: &on})
	leaf.Unref()
	inner.Unref()
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}
	if len(blended) != 1 || blended[0] {
		t.Errorf("blend inside the zero state = %v, want disabled", blended)
	}
	if g.Enabled(glcontext.BLEND) {
		t.Error("blend left enabled after draw")
	}
}
