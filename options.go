package nodegl

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
)

// Option configures a Context during creation.
//
// Example:
//
//	// Best available backend, 640x360 output
//	ctx, err := nodegl.New(nodegl.WithViewport(640, 360))
//
//	// In-memory GL for tests
//	ctx, err := nodegl.New(nodegl.WithFunctions(softgl.New()))
type Option func(*options)

type options struct {
	backend string
	funcs   glcontext.Functions
	glOpts  []glcontext.Option
	width   int
	height  int
	clear   gputypes.Color
	logger  *slog.Logger
}

func defaultOptions() options {
	return options{
		width:  320,
		height: 240,
		clear:  gputypes.Color{A: 1},
	}
}

// WithBackend selects a registered GL backend by name ("gles", "soft").
// Without it the best available backend is used.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithFunctions runs the context over an existing GL function table
// instead of opening a backend.
func WithFunctions(f glcontext.Functions) Option {
	return func(o *options) {
		o.funcs = f
	}
}

// WithGLOptions passes options to the GL context, for instance
// glcontext.WithTextureCache or glcontext.WithES.
func WithGLOptions(opts ...glcontext.Option) Option {
	return func(o *options) {
		o.glOpts = append(o.glOpts, opts...)
	}
}

// WithViewport sets the size of the default framebuffer area drawn to.
func WithViewport(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithClearColor sets the color the default framebuffer is cleared to
// before each frame.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithLogger sets the context logger. The package logger is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
