package nodegl

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestLifecycleChildrenPrefetchedFirst(t *testing.T) {
	ctx, _ := newTestContext(t)

	var order []string
	child, cp := newProbe()
	cp.order, cp.name = &order, "child"
	root, rp := newProbe(child)
	rp.order, rp.name = &order, "root"
	child.Unref()
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatalf("SetScene: %v", err)
	}
	if root.State() != StateInitialized || child.State() != StateInitialized {
		t.Fatalf("states after attach = %s, %s", root.State(), child.State())
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if want := []string{"child", "root"}; !slices.Equal(order, want) {
		t.Errorf("prefetch order = %v, want %v", order, want)
	}
	for name, p := range map[string]*probe{"root": rp, "child": cp} {
		if p.inits != 1 || p.prefetches != 1 || p.updates != 1 || p.draws != 1 {
			t.Errorf("%s: inits=%d prefetches=%d updates=%d draws=%d, want 1 each",
				name, p.inits, p.prefetches, p.updates, p.draws)
		}
	}
	if root.State() != StateDrawn {
		t.Errorf("root state = %s, want drawn", root.State())
	}
}

func TestReleaseUninitSafeInAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, ctx *Context, n *Node)
		// releases expected after Release, Release, Uninit, Uninit.
		releases int
		uninits  int
	}{
		{
			name:  "detached",
			setup: func(t *testing.T, ctx *Context, n *Node) {},
		},
		{
			name: "initialized",
			setup: func(t *testing.T, ctx *Context, n *Node) {
				if err := ctx.SetScene(n); err != nil {
					t.Fatal(err)
				}
			},
			uninits: 1,
		},
		{
			name: "drawn",
			setup: func(t *testing.T, ctx *Context, n *Node) {
				if err := ctx.SetScene(n); err != nil {
					t.Fatal(err)
				}
				if err := ctx.Draw(0); err != nil {
					t.Fatal(err)
				}
			},
			releases: 1,
			uninits:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t)
			n, p := newProbe()
			defer n.Unref()
			tt.setup(t, ctx, n)

			n.Release()
			n.Release()
			n.Uninit()
			n.Uninit()

			if p.releases != tt.releases {
				t.Errorf("releases = %d, want %d", p.releases, tt.releases)
			}
			if p.uninits != tt.uninits {
				t.Errorf("uninits = %d, want %d", p.uninits, tt.uninits)
			}
			if n.State() != StateUninitialized {
				t.Errorf("state = %s, want uninitialized", n.State())
			}
		})
	}
}

func TestReleaseMarksReleased(t *testing.T) {
	ctx, _ := newTestContext(t)
	n, p := newProbe()
	defer n.Unref()
	if err := ctx.SetScene(n); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}
	n.Release()
	if n.State() != StateReleased {
		t.Errorf("state = %s, want released", n.State())
	}
	if err := ctx.Draw(1); err != nil {
		t.Fatal(err)
	}
	if p.prefetches != 2 {
		t.Errorf("prefetches = %d, want 2 after release and redraw", p.prefetches)
	}
}

func TestSharedNodePrefetchedAndReleasedOnce(t *testing.T) {
	ctx, _ := newTestContext(t)

	shared, sp := newProbe()
	a, _ := newProbe(shared)
	b, _ := newProbe(shared)
	shared.Unref()
	root := NewGroup(a, b)
	a.Unref()
	b.Unref()
	defer root.Unref()

	if shared.Refs() != 2 {
		t.Errorf("shared refs = %d, want 2", shared.Refs())
	}
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if sp.inits != 1 {
		t.Errorf("inits = %d, want 1", sp.inits)
	}
	for i := range 3 {
		if err := ctx.Draw(float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	if sp.prefetches != 1 {
		t.Errorf("prefetches = %d, want 1", sp.prefetches)
	}
	if sp.updates != 3 {
		t.Errorf("updates = %d, want one per frame", sp.updates)
	}
	if sp.draws != 6 {
		t.Errorf("draws = %d, want one per parent per frame", sp.draws)
	}

	if err := ctx.SetScene(nil); err != nil {
		t.Fatal(err)
	}
	if sp.releases != 1 || sp.uninits != 1 {
		t.Errorf("releases=%d uninits=%d, want 1 each", sp.releases, sp.uninits)
	}
	if shared.Context() != nil {
		t.Error("shared node still attached")
	}
	if root.Refs() != 1 {
		t.Errorf("root refs = %d, want 1", root.Refs())
	}
}

func TestRefCounting(t *testing.T) {
	child, _ := newProbe()
	parent, _ := newProbe(child)
	if child.Refs() != 2 {
		t.Fatalf("child refs = %d, want 2", child.Refs())
	}
	parent.Ref()
	parent.Unref()
	if child.Refs() != 2 {
		t.Errorf("child refs = %d after parent ref/unref, want 2", child.Refs())
	}
	parent.Unref()
	if child.Refs() != 1 {
		t.Errorf("child refs = %d after parent freed, want 1", child.Refs())
	}
	parent.Unref()
	if child.Refs() != 1 {
		t.Errorf("extra unref of a freed parent changed child refs to %d", child.Refs())
	}
	child.Unref()
	if child.Refs() != 0 {
		t.Errorf("child refs = %d, want 0", child.Refs())
	}
}

func TestUnrefDetachesAttachedNode(t *testing.T) {
	ctx, _ := newTestContext(t)
	n, p := newProbe()
	if err := n.AttachContext(ctx); err != nil {
		t.Fatal(err)
	}
	n.Unref()
	if n.Context() != nil || p.uninits != 1 {
		t.Errorf("after last unref: ctx=%v uninits=%d", n.Context(), p.uninits)
	}
}

func TestVisitActivePathWins(t *testing.T) {
	ctx, _ := newTestContext(t)
	a, ap := newProbe()
	root := NewGroup(a)
	a.Unref()
	defer root.Unref()
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}

	ctx.visits++
	pass := ctx.visits
	root.visit(pass, true, 0)
	a.visit(pass, false, 0)
	if !a.active {
		t.Fatal("inactive path overrode an active one")
	}
	if err := root.HonorReleasePrefetch(); err != nil {
		t.Fatal(err)
	}
	if ap.releases != 0 {
		t.Errorf("releases = %d, want 0", ap.releases)
	}
}

func TestInactiveNodeReleasedThenPrefetchedAgain(t *testing.T) {
	ctx, _ := newTestContext(t)
	a, ap := newProbe()
	root := NewGroup(a)
	a.Unref()
	defer root.Unref()
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}

	if err := a.Visit(false, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := a.HonorReleasePrefetch(); err != nil {
		t.Fatal(err)
	}
	if ap.releases != 1 || a.State() != StateReleased {
		t.Fatalf("releases=%d state=%s, want 1 and released", ap.releases, a.State())
	}
	// A second honor of the same pass is a no-op.
	if err := a.HonorReleasePrefetch(); err != nil {
		t.Fatal(err)
	}
	if ap.releases != 1 {
		t.Errorf("releases = %d after repeated honor, want 1", ap.releases)
	}

	if err := ctx.Draw(1); err != nil {
		t.Fatal(err)
	}
	if ap.prefetches != 2 || a.State() != StateDrawn {
		t.Errorf("prefetches=%d state=%s, want 2 and drawn", ap.prefetches, a.State())
	}
}

func TestUpdateIdempotentPerTime(t *testing.T) {
	ctx, _ := newTestContext(t)
	n, p := newProbe()
	defer n.Unref()
	if err := ctx.SetScene(n); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(1); err != nil {
		t.Fatal(err)
	}
	if err := n.Update(1); err != nil {
		t.Fatal(err)
	}
	if p.updates != 1 {
		t.Errorf("updates = %d, want 1 for a repeated time", p.updates)
	}
	if err := n.Update(2); err != nil {
		t.Fatal(err)
	}
	if p.updates != 2 || p.lastT != 2 {
		t.Errorf("updates=%d lastT=%v, want 2 and 2", p.updates, p.lastT)
	}
}

func TestInitErrorAbortsSubtree(t *testing.T) {
	ctx, _ := newTestContext(t)

	good, gp := newProbe()
	bad, bp := newProbe()
	bp.initErr = &ConfigError{Node: "Probe", Reason: "bad parameter"}
	root := NewGroup(good, bad)
	good.Unref()
	bad.Unref()
	defer root.Unref()

	err := ctx.SetScene(root)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("SetScene err = %v, want ErrConfig", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Reason != "bad parameter" {
		t.Errorf("err = %#v, want the ConfigError of the failing node", err)
	}
	if ctx.Scene() != nil {
		t.Error("scene set despite init failure")
	}
	for _, n := range []*Node{root, good, bad} {
		if n.Context() != nil || n.State() != StateUninitialized {
			t.Errorf("%s: ctx=%v state=%s, want detached and uninitialized", n, n.Context(), n.State())
		}
	}
	if gp.inits != 1 || gp.uninits != 1 {
		t.Errorf("sibling inits=%d uninits=%d, want 1 each", gp.inits, gp.uninits)
	}

	if err := ctx.SetScene(good); err != nil {
		t.Fatalf("SetScene(good): %v", err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestPrefetchErrorReleasesPartialState(t *testing.T) {
	ctx, _ := newTestContext(t)
	n, p := newProbe()
	defer n.Unref()
	p.prefetchErr = fmt.Errorf("%w: out of buffers", ErrResource)
	if err := ctx.SetScene(n); err != nil {
		t.Fatal(err)
	}

	if err := ctx.Draw(0); !errors.Is(err, ErrResource) {
		t.Fatalf("Draw err = %v, want ErrResource", err)
	}
	if p.releases != 1 {
		t.Errorf("releases = %d, want 1", p.releases)
	}
	if n.State() != StateInitialized {
		t.Errorf("state = %s, want initialized", n.State())
	}

	p.prefetchErr = nil
	if err := ctx.Draw(1); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if p.prefetches != 2 {
		t.Errorf("prefetches = %d, want 2", p.prefetches)
	}
}

func TestStateErrors(t *testing.T) {
	ctx, _ := newTestContext(t)
	n, _ := newProbe()
	defer n.Unref()

	if err := n.Visit(true, 0); !errors.Is(err, ErrState) {
		t.Errorf("Visit detached err = %v, want ErrState", err)
	}
	if err := ctx.SetScene(n); err != nil {
		t.Fatal(err)
	}
	err := n.Update(0)
	var se *StateError
	if !errors.As(err, &se) || se.Op != "update" || se.State != StateInitialized {
		t.Errorf("Update err = %v, want update StateError in initialized state", err)
	}
	if err := n.Draw(); !errors.Is(err, ErrState) {
		t.Errorf("Draw err = %v, want ErrState", err)
	}

	other, _ := newTestContext(t)
	if err := n.AttachContext(other); !errors.Is(err, ErrState) {
		t.Errorf("attach to second context err = %v, want ErrState", err)
	}
}

func TestClosedContext(t *testing.T) {
	ctx, _ := newTestContext(t)
	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw err = %v, want ErrClosed", err)
	}
	if err := ctx.SetScene(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("SetScene err = %v, want ErrClosed", err)
	}
}

func TestClasses(t *testing.T) {
	var names []string
	for _, c := range Classes() {
		names = append(names, c.Name)
	}
	if !slices.IsSorted(names) {
		t.Errorf("Classes not sorted: %v", names)
	}
	for _, want := range []string{"Camera", "GraphicConfig", "Media", "Quad", "Render", "RenderToTexture", "Texture2D"} {
		if !slices.Contains(names, want) {
			t.Errorf("class %s not registered", want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration did not panic")
		}
	}()
	registerClass(&Class{Name: "Quad"})
}

func TestNodeString(t *testing.T) {
	n, _ := newProbe()
	defer n.Unref()
	if n.String() != "Probe" {
		t.Errorf("String() = %q", n.String())
	}
	n.SetLabel("luma")
	if n.String() != "Probe(luma)" {
		t.Errorf("labelled String() = %q", n.String())
	}
	if StateDrawn.String() != "drawn" || State(99).String() != "State(99)" {
		t.Error("State.String mismatch")
	}
	if ParamKeyFrames.String() != "keyframes" {
		t.Errorf("ParamKeyFrames = %q", ParamKeyFrames.String())
	}
}
