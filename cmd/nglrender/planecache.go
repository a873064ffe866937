package main

import (
	"github.com/gogpu/nodegl/frame"
	"github.com/gogpu/nodegl/glcontext"
)

// errPlaneUnavailable is the status returned for buffers without CPU planes.
const errPlaneUnavailable = -6661

// planeBuffer is a pixel buffer whose planes are readable while locked.
type planeBuffer interface {
	frame.PixelBuffer
	Plane(i int) []byte
}

// planeCache stands in for a platform texture cache by uploading each
// plane into a GL texture it owns.
type planeCache struct {
	funcs glcontext.Functions
}

func (c *planeCache) CreateTexture(buf frame.PixelBuffer, desc glcontext.CacheTextureDesc) (glcontext.CacheTexture, int) {
	pb, ok := buf.(planeBuffer)
	if !ok || c.funcs == nil {
		return nil, errPlaneUnavailable
	}
	if err := pb.Lock(); err != nil {
		return nil, errPlaneUnavailable
	}
	defer pb.Unlock()

	f := c.funcs
	id := f.GenTextures(1)
	f.BindTexture(desc.Target, id)
	f.TexImage2D(desc.Target, 0, desc.InternalFormat, int32(desc.Width), int32(desc.Height),
		desc.Format, desc.Type, pb.Plane(desc.Plane))
	f.BindTexture(desc.Target, 0)
	return &planeTexture{funcs: f, id: id, target: desc.Target}, 0
}

type planeTexture struct {
	funcs  glcontext.Functions
	id     uint32
	target uint32
}

func (t *planeTexture) Name() uint32   { return t.id }
func (t *planeTexture) Target() uint32 { return t.target }

func (t *planeTexture) Release() {
	if t.id != 0 {
		t.funcs.DeleteTextures(t.id)
		t.id = 0
	}
}
