package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/nodegl"
	"github.com/gogpu/nodegl/glcontext"
)

const maxRanges = 128

type timeRange struct {
	start    float64
	duration float64
	freq     int
}

type job struct {
	scene   string
	output  string
	width   int
	height  int
	ranges  []timeRange
	backend string
	debug   bool
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	var w, h int
	if n, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || n != 2 || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size format: %q is not following \"WxH\"", s)
	}
	return w, h, nil
}

// parseRange parses "start:duration:freq".
func parseRange(s string) (timeRange, error) {
	var r timeRange
	if n, err := fmt.Sscanf(strings.ReplaceAll(s, ":", " "), "%g %g %d", &r.start, &r.duration, &r.freq); err != nil || n != 3 {
		return r, fmt.Errorf("invalid range format: %q is not following \"start:duration:freq\"", s)
	}
	if r.freq <= 0 || r.duration < 0 {
		return r, fmt.Errorf("invalid range %q: frequency must be positive and duration not negative", s)
	}
	return r, nil
}

// times returns the draw times of r: start + k/freq below start + duration.
func (r timeRange) times() []float64 {
	var ts []float64
	end := r.start + r.duration
	for k := 0; ; k++ {
		t := r.start + float64(k)/float64(r.freq)
		if t >= end {
			return ts
		}
		ts = append(ts, t)
	}
}

type encodeFunc func(io.Writer, image.Image) error

var encoders = map[string]encodeFunc{
	".png":  png.Encode,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeTIFF(w io.Writer, m image.Image) error {
	return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
}

// frameImage turns bottom-up RGBA rows into an image.
func frameImage(px []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], px[(h-1-y)*stride:])
	}
	return img
}

func render(stdout io.Writer, j job) (err error) {
	build, ok := scenes[j.scene]
	if !ok {
		return fmt.Errorf("unknown scene %q (available: %s)", j.scene, sceneList())
	}
	p := message.NewPrinter(language.English)
	out := j.output
	if out == "" {
		out = "-"
	}
	p.Fprintf(stdout, "%s -> %s %dx%d\n", j.scene, out, j.width, j.height)

	cache := &planeCache{}
	opts := []nodegl.Option{
		nodegl.WithViewport(j.width, j.height),
		nodegl.WithGLOptions(glcontext.WithTextureCache(cache)),
	}
	if j.backend != "" {
		opts = append(opts, nodegl.WithBackend(j.backend))
	}
	ctx, err := nodegl.New(opts...)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(ctx))
	cache.funcs = ctx.GL().Funcs

	scene, err := build(j.width, j.height)
	if err != nil {
		return err
	}
	defer scene.Unref()

	encode := encoders[strings.ToLower(filepath.Ext(j.output))]
	if j.output != "" && encode == nil {
		f, ferr := os.Create(j.output)
		if ferr != nil {
			return ferr
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		cam := nodegl.NewCamera(nodegl.CameraParams{Child: scene, Pipe: f})
		defer cam.Unref()
		scene = cam
	}
	if err := ctx.SetScene(scene); err != nil {
		return err
	}

	for i, r := range j.ranges {
		start := time.Now()
		ts := r.times()
		for _, t := range ts {
			if j.debug {
				p.Fprintf(stdout, "draw @ t=%f [range %d/%d: %g-%g @ %dHz]\n",
					t, i+1, len(j.ranges), r.start, r.start+r.duration, r.freq)
			}
			if err := ctx.Draw(t); err != nil {
				return fmt.Errorf("unable to draw @ t=%g: %w", t, err)
			}
		}
		elapsed := time.Since(start).Seconds()
		fps := 0.0
		if elapsed > 0 {
			fps = float64(len(ts)) / elapsed
		}
		p.Fprintf(stdout, "Rendered %d frames in %.4g (FPS=%.2f)\n", len(ts), elapsed, fps)
	}

	if encode == nil {
		return nil
	}
	f, err := os.Create(j.output)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return encode(f, frameImage(ctx.ReadPixels(), j.width, j.height))
}
