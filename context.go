package nodegl

import (
	"log/slog"

	"go.uber.org/multierr"

	"github.com/gogpu/nodegl/glcontext"
)

// Context drives a scene on one GL context. It is not safe for concurrent
// use: every call must come from the goroutine owning the GL context.
type Context struct {
	gl      *glcontext.Context
	backend string
	logger  *slog.Logger

	scene  *Node
	visits uint64

	width, height int32
	options       options
	graphics      graphicState
	closed        bool
}

// New opens a GL context and returns an engine bound to it.
func New(opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	glOpts := append([]glcontext.Option{glcontext.WithLogger(logger)}, o.glOpts...)

	var (
		gl      *glcontext.Context
		backend string
		err     error
	)
	switch {
	case o.funcs != nil:
		gl, backend = glcontext.New(o.funcs, glOpts...), "custom"
	case o.backend != "":
		gl, err = glcontext.Open(o.backend, glOpts...)
		backend = o.backend
	default:
		gl, backend, err = glcontext.OpenBest(glOpts...)
	}
	if err != nil {
		return nil, err
	}

	c := &Context{
		gl:      gl,
		backend: backend,
		logger:  logger,
		width:   int32(o.width),
		height:  int32(o.height),
		options: o,
	}
	c.graphics = defaultGraphicState()
	c.graphics.apply(gl.Funcs)

	logger.Info("nodegl: context created",
		"backend", backend,
		"adapter", gl.Adapter.Name,
		"features", gl.Features.String(),
		"size", [2]int32{c.width, c.height})
	return c, nil
}

// GL returns the underlying GL context.
func (c *Context) GL() *glcontext.Context { return c.gl }

// Backend returns the name of the backend in use.
func (c *Context) Backend() string { return c.backend }

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Size returns the viewport size.
func (c *Context) Size() (width, height int) { return int(c.width), int(c.height) }

// Scene returns the current scene root.
func (c *Context) Scene() *Node { return c.scene }

// SetScene replaces the scene. The previous scene is detached and
// released; the new one is referenced, attached and initialized. A nil
// scene clears the context.
func (c *Context) SetScene(n *Node) error {
	if c.closed {
		return ErrClosed
	}
	if c.scene != nil {
		c.scene.DetachContext()
		c.scene.Unref()
		c.scene = nil
	}
	if n == nil {
		return nil
	}
	n.Ref()
	if err := n.AttachContext(c); err != nil {
		n.Unref()
		return err
	}
	c.scene = n
	return nil
}

// Draw renders the scene at time t into the default framebuffer: visit,
// prefetch or release, update, clear and draw.
func (c *Context) Draw(t float64) error {
	if c.closed {
		return ErrClosed
	}
	if c.scene != nil {
		if err := c.scene.Visit(true, t); err != nil {
			return err
		}
		if err := c.scene.HonorReleasePrefetch(); err != nil {
			return err
		}
		if err := c.scene.Update(t); err != nil {
			return err
		}
	}

	f := c.gl.Funcs
	clear := c.options.clear
	f.BindFramebuffer(glcontext.FRAMEBUFFER, 0)
	f.Viewport(0, 0, c.width, c.height)
	f.ClearColor(float32(clear.R), float32(clear.G), float32(clear.B), float32(clear.A))
	f.Clear(glcontext.COLOR_BUFFER_BIT | glcontext.DEPTH_BUFFER_BIT)

	if c.scene != nil {
		if err := c.scene.Draw(); err != nil {
			return err
		}
	}
	if err := c.gl.CheckError(); err != nil {
		c.logger.Warn("nodegl: GL error after draw", "t", t, "err", err)
	}
	return nil
}

// Close detaches the scene and closes the GL context. Further calls
// return ErrClosed.
func (c *Context) Close() error {
	if c.closed {
		return ErrClosed
	}
	var err error
	err = multierr.Append(err, c.SetScene(nil))
	err = multierr.Append(err, c.gl.Close())
	c.closed = true
	return err
}

// ReadPixels reads the default framebuffer as tightly packed RGBA rows,
// bottom row first.
func (c *Context) ReadPixels() []byte {
	buf := make([]byte, int(c.width)*int(c.height)*4)
	f := c.gl.Funcs
	prev := uint32(c.gl.Integer(glcontext.FRAMEBUFFER_BINDING))
	f.BindFramebuffer(glcontext.FRAMEBUFFER, 0)
	f.ReadPixels(0, 0, c.width, c.height, glcontext.RGBA, glcontext.UNSIGNED_BYTE, buf)
	f.BindFramebuffer(glcontext.FRAMEBUFFER, prev)
	return buf
}
