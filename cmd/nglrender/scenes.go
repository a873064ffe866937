package main

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl"
	"github.com/gogpu/nodegl/frame"
)

type sceneFunc func(width, height int) (*nodegl.Node, error)

var scenes = map[string]sceneFunc{
	"rtt-quad":        rttQuad,
	"animated-square": animatedSquare,
	"rotate-media":    rotateMedia,
	"nv12":            nv12Scene,
}

func sceneList() string {
	return strings.Join(slices.Sorted(maps.Keys(scenes)), ", ")
}

func fullscreenQuad() *nodegl.Node {
	return nodegl.NewQuad(nodegl.QuadParams{
		Corner: [3]float32{-1, -1, 0},
		Width:  [3]float32{2, 0, 0},
		Height: [3]float32{0, 2, 0},
	})
}

// texturedQuad draws tex on a fullscreen quad.
func texturedQuad(tex *nodegl.Node) *nodegl.Node {
	geom := fullscreenQuad()
	defer geom.Unref()
	return nodegl.NewRender(nodegl.RenderParams{Geometry: geom, Textures: []*nodegl.Node{tex}})
}

// rttQuad renders a colored quad into a multisampled half size texture
// and shows the texture fullscreen.
func rttQuad(width, height int) (*nodegl.Node, error) {
	geom := nodegl.NewQuad(nodegl.DefaultQuadParams())
	defer geom.Unref()
	tint := gputypes.Color{R: 1, G: 0.3, B: 0.2, A: 1}
	inner := nodegl.NewRender(nodegl.RenderParams{Geometry: geom, Color: &tint})
	defer inner.Unref()

	color := nodegl.NewTexture2D(nodegl.TextureParams{
		Width:     max(width/2, 1),
		Height:    max(height/2, 1),
		MinFilter: gputypes.FilterModeLinear,
		MagFilter: gputypes.FilterModeLinear,
	})
	defer color.Unref()
	rtt := nodegl.NewRenderToTexture(nodegl.RenderToTextureParams{Child: inner, Color: color, Samples: 4})
	defer rtt.Unref()

	show := texturedQuad(color)
	defer show.Unref()
	return nodegl.NewGroup(rtt, show), nil
}

// animatedSquare moves and spins a translucent square.
func animatedSquare(width, height int) (*nodegl.Node, error) {
	geom := nodegl.NewQuad(nodegl.QuadParams{
		Corner: [3]float32{-0.25, -0.25, 0},
		Width:  [3]float32{0.5, 0, 0},
		Height: [3]float32{0, 0.5, 0},
	})
	defer geom.Unref()
	tint := gputypes.Color{R: 0.2, G: 0.6, B: 1, A: 0.8}
	square := nodegl.NewRender(nodegl.RenderParams{Geometry: geom, Color: &tint})
	defer square.Unref()

	angle := nodegl.NewAnimatedFloat(
		nodegl.KeyFrame[float64]{Time: 0, Value: 0},
		nodegl.KeyFrame[float64]{Time: 2, Value: 360, Easing: "cubic_in_out"},
	)
	defer angle.Unref()
	spin := nodegl.NewRotate(nodegl.RotateParams{Child: square, Anim: angle})
	defer spin.Unref()

	path := nodegl.NewAnimatedVec3(
		nodegl.KeyFrame[[3]float32]{Time: 0, Value: [3]float32{-0.5, -0.5, 0}},
		nodegl.KeyFrame[[3]float32]{Time: 1, Value: [3]float32{0.5, 0, 0}, Easing: "quadratic_out"},
		nodegl.KeyFrame[[3]float32]{Time: 2, Value: [3]float32{-0.5, 0.5, 0}, Easing: "bounce_out"},
	)
	defer path.Unref()
	move := nodegl.NewTranslate(nodegl.TranslateParams{Child: spin, Anim: path})
	defer move.Unref()

	blend := gputypes.BlendStateAlpha()
	return nodegl.NewGraphicConfig(nodegl.GraphicConfigParams{Child: move, Blend: &blend}), nil
}

const mediaSize = 64

// checkerSource yields a scrolling checkerboard, one new frame per call.
func checkerSource() frame.Source {
	return frame.SourceFunc(func(t float64) (*frame.Frame, error) {
		shift := int(t * 16)
		pix := make([]byte, mediaSize*mediaSize*4)
		for y := 0; y < mediaSize; y++ {
			for x := 0; x < mediaSize; x++ {
				v := byte(40)
				if ((x+shift)/8+y/8)%2 == 0 {
					v = 220
				}
				i := (y*mediaSize + x) * 4
				pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, 255-v, 255
			}
		}
		return &frame.Frame{
			PixelFormat: frame.PixelFormatRGBA,
			Width:       mediaSize,
			Height:      mediaSize,
			Linesize:    mediaSize * 4,
			Data:        pix,
		}, nil
	})
}

// rotateMedia spins a quad textured with decoded frames.
func rotateMedia(width, height int) (*nodegl.Node, error) {
	media := nodegl.NewMedia(nodegl.MediaParams{Source: checkerSource()})
	defer media.Unref()
	tex := nodegl.NewTexture2D(nodegl.TextureParams{
		Source:    media,
		MinFilter: gputypes.FilterModeLinear,
		MagFilter: gputypes.FilterModeLinear,
	})
	defer tex.Unref()

	geom := nodegl.NewQuad(nodegl.DefaultQuadParams())
	defer geom.Unref()
	show := nodegl.NewRender(nodegl.RenderParams{Geometry: geom, Textures: []*nodegl.Node{tex}})
	defer show.Unref()

	angle := nodegl.NewAnimatedFloat(
		nodegl.KeyFrame[float64]{Time: 0, Value: 0},
		nodegl.KeyFrame[float64]{Time: 4, Value: -360},
	)
	defer angle.Unref()
	return nodegl.NewRotate(nodegl.RotateParams{Child: show, Anim: angle}), nil
}

// nv12Buffer is a bi-planar 4:2:0 picture in memory.
type nv12Buffer struct {
	width, height int
	luma, chroma  []byte
}

func (b *nv12Buffer) Width() int                 { return b.width }
func (b *nv12Buffer) Height() int                { return b.height }
func (b *nv12Buffer) BytesPerRow() int           { return b.width }
func (b *nv12Buffer) Format() frame.BufferFormat { return frame.BufferNV12 }
func (b *nv12Buffer) Lock() error                { return nil }
func (b *nv12Buffer) Unlock() error              { return nil }
func (b *nv12Buffer) Data() []byte               { return b.luma }

// Plane returns the pixels of plane i.
func (b *nv12Buffer) Plane(i int) []byte {
	if i == 1 {
		return b.chroma
	}
	return b.luma
}

// gradientSource yields NV12 pictures: a moving luma ramp over a slowly
// rotating chroma.
func gradientSource(width, height int) frame.Source {
	cw, ch := (width+1)/2, (height+1)/2
	return frame.SourceFunc(func(t float64) (*frame.Frame, error) {
		b := &nv12Buffer{
			width:  width,
			height: height,
			luma:   make([]byte, width*height),
			chroma: make([]byte, cw*ch*2),
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				b.luma[y*width+x] = byte(16 + (x*219/max(width-1, 1)+int(t*60))%220)
			}
		}
		u := byte(128 + 100*math.Cos(t))
		v := byte(128 + 100*math.Sin(t))
		for i := 0; i < cw*ch; i++ {
			b.chroma[2*i], b.chroma[2*i+1] = u, v
		}
		return &frame.Frame{PixelFormat: frame.PixelFormatVideoToolbox, Width: width, Height: height, Data: b}, nil
	})
}

// nv12Scene shows NV12 frames converted on the GPU.
func nv12Scene(width, height int) (*nodegl.Node, error) {
	media := nodegl.NewMedia(nodegl.MediaParams{Source: gradientSource(width, height)})
	defer media.Unref()
	tex := nodegl.NewTexture2D(nodegl.TextureParams{Source: media})
	defer tex.Unref()
	return texturedQuad(tex), nil
}
