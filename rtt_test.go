package nodegl

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/glcontext/softgl"
)

// newRTTScene renders a probe into a color texture, with an optional depth
// texture.
func newRTTScene(w, h, dw, dh, samples int) (root, color *Node, child *probe) {
	leaf, lp := newProbe()
	color = NewTexture2D(TextureParams{Width: w, Height: h})
	var depth *Node
	if dw > 0 {
		depth = NewTexture2D(TextureParams{Format: gputypes.TextureFormatDepth16Unorm, Width: dw, Height: dh})
		defer depth.Unref()
	}
	root = NewRenderToTexture(RenderToTextureParams{Child: leaf, Color: color, Depth: depth, Samples: samples})
	leaf.Unref()
	color.Unref()
	return root, color, lp
}

func TestRTTDepthSizeMismatch(t *testing.T) {
	ctx, g := newTestContext(t)
	root, _, _ := newRTTScene(256, 144, 128, 72, 0)
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatalf("SetScene: %v", err)
	}
	err := ctx.Draw(0)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Draw err = %v, want ErrConfig", err)
	}
	if !strings.Contains(err.Error(), "256x144 != 128x72") {
		t.Errorf("err = %q, want both sizes", err)
	}
	if n := g.Live().Framebuffers; n != 0 {
		t.Errorf("%d framebuffers left after failed prefetch", n)
	}
}

func TestRTTDepthSizeMismatchReportedOnce(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, _ := newTestContext(t, WithLogger(logger))
	root, _, _ := newRTTScene(256, 144, 128, 72, 0)
	defer root.Unref()

	const reported = `level=ERROR msg="nodegl: prefetch failed"`
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	for ts := 0; ts < 3; ts++ {
		if err := ctx.Draw(float64(ts)); !errors.Is(err, ErrConfig) {
			t.Fatalf("Draw(%d) err = %v, want ErrConfig", ts, err)
		}
	}
	if n := strings.Count(logs.String(), reported); n != 1 {
		t.Errorf("prefetch failure logged %d times at error level, want 1:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), "prefetch failed again") {
		t.Error("repeated failure not logged at debug level")
	}

	// A fresh attachment reports the failure again.
	if err := ctx.SetScene(nil); err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(3); !errors.Is(err, ErrConfig) {
		t.Fatalf("Draw err = %v, want ErrConfig", err)
	}
	if n := strings.Count(logs.String(), reported); n != 2 {
		t.Errorf("prefetch failure logged %d times at error level after reattach, want 2", n)
	}
}

func TestRTTDepthTexture(t *testing.T) {
	ctx, g := newTestContext(t)
	root, _, _ := newRTTScene(256, 144, 256, 144, 0)
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	r := root.Impl().(*rtt)
	fb, ok := g.Framebuffer(r.framebuffer)
	if !ok {
		t.Fatal("framebuffer missing")
	}
	if fb.Depth.Kind != softgl.AttachTexture {
		t.Errorf("depth attachment kind = %d, want texture", fb.Depth.Kind)
	}
	if r.renderbuffer != 0 {
		t.Error("depth renderbuffer allocated next to a depth texture")
	}
}

func TestRTTSamplesClampedToFormatLimit(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, g := newTestContext(t, WithLogger(logger))

	root, _, _ := newRTTScene(64, 32, 0, 0, 64)
	defer root.Unref()
	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	r := root.Impl().(*rtt)
	if r.Samples() != 8 {
		t.Errorf("samples = %d, want 8", r.Samples())
	}
	for _, name := range []uint32{r.colorbufferMS, r.depthbufferMS} {
		rb, ok := g.Renderbuffer(name)
		if !ok || rb.Samples != 8 {
			t.Errorf("renderbuffer %d = %+v, want 8 samples", name, rb)
		}
	}
	if !strings.Contains(logs.String(), "requested samples exceed") {
		t.Errorf("no clamp warning logged:\n%s", logs.String())
	}
	if g.Calls("BlitFramebuffer") != 1 {
		t.Errorf("blits = %d, want 1", g.Calls("BlitFramebuffer"))
	}
	if strings.Contains(logs.String(), "GL error") {
		t.Errorf("GL error raised:\n%s", logs.String())
	}
}

func TestRTTWithoutFramebufferObject(t *testing.T) {
	g := softgl.New()
	ctx := newTestContextWith(t, g, softgl.Basic(g))
	root, _, _ := newRTTScene(32, 32, 0, 0, 4)
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	r := root.Impl().(*rtt)
	if r.Samples() != 0 || r.framebufferMS != 0 {
		t.Errorf("samples=%d msfb=%d, want multisampling disabled", r.Samples(), r.framebufferMS)
	}
	if g.Live().Framebuffers != 1 {
		t.Errorf("framebuffers = %d, want 1", g.Live().Framebuffers)
	}
}

func TestRTTDrawRestoresState(t *testing.T) {
	ctx, g := newTestContext(t, WithClearColor(gputypes.Color{R: 1, A: 1}))
	root, color, child := newRTTScene(16, 8, 0, 0, 2)
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if child.draws != 1 {
		t.Errorf("child draws = %d, want 1", child.draws)
	}
	if fb := ctx.GL().Integer(glcontext.FRAMEBUFFER_BINDING); fb != 0 {
		t.Errorf("framebuffer binding = %d after draw, want 0", fb)
	}
	var vp [4]int32
	g.GetIntegerv(glcontext.VIEWPORT, vp[:])
	if vp != [4]int32{0, 0, 64, 48} {
		t.Errorf("viewport = %v, want the context viewport", vp)
	}

	tex, _ := TextureOf(color)
	m := tex.CoordinatesMatrix()
	if m[5] != -1 || m[13] != 1 {
		t.Errorf("coordinates matrix = %v, want a vertical flip", m)
	}
	img := g.TexturePixels(tex.ID())
	if img == nil {
		t.Fatal("color texture has no storage")
	}
	if c := img.RGBAAt(3, 3); c.R != 255 || c.A != 255 {
		t.Errorf("texel = %v, want the resolved clear color", c)
	}
}

func TestRTTReleaseDetachesAndDeletes(t *testing.T) {
	ctx, g := newTestContext(t)
	root, _, _ := newRTTScene(16, 16, 0, 0, 4)
	defer root.Unref()

	if err := ctx.SetScene(root); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Draw(0); err != nil {
		t.Fatal(err)
	}
	if live := g.Live(); live.Framebuffers != 2 || live.Renderbuffers != 3 {
		t.Fatalf("live = %+v, want 2 framebuffers and 3 renderbuffers", live)
	}

	root.Release()
	live := g.Live()
	if live.Framebuffers != 0 || live.Renderbuffers != 0 {
		t.Errorf("live after release = %+v", live)
	}
	r := root.Impl().(*rtt)
	if r.framebuffer != 0 || r.framebufferMS != 0 || r.renderbuffer != 0 {
		t.Error("handles not cleared after release")
	}
	root.Release()

	if err := ctx.SetScene(nil); err != nil {
		t.Fatal(err)
	}
	if live := g.Live(); live.Textures != 0 {
		t.Errorf("%d textures left after detach", live.Textures)
	}
}

func TestRTTInitErrors(t *testing.T) {
	ctx, _ := newTestContext(t)
	leaf, _ := newProbe()
	defer leaf.Unref()
	tests := []struct {
		name string
		p    RenderToTextureParams
	}{
		{"no child", RenderToTextureParams{}},
		{"color is not a texture", RenderToTextureParams{Child: leaf, Color: leaf}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewRenderToTexture(tt.p)
			defer n.Unref()
			if err := ctx.SetScene(n); !errors.Is(err, ErrConfig) {
				t.Errorf("SetScene err = %v, want ErrConfig", err)
			}
		})
	}
}
