package nodegl

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/mat4"
)

// TextureParams configures a Texture2D node.
type TextureParams struct {
	// Format defaults to RGBA8Unorm.
	Format gputypes.TextureFormat
	Width  int
	Height int

	// MinFilter and MagFilter default to nearest.
	MinFilter    gputypes.FilterMode
	MagFilter    gputypes.FilterMode
	MipmapFilter gputypes.MipmapFilterMode
	// WrapS and WrapT default to clamp to edge.
	WrapS gputypes.AddressMode
	WrapT gputypes.AddressMode

	// Data is uploaded at prefetch when non-nil.
	Data []byte
	// Source is a Media node. Its frames are uploaded on update.
	Source *Node

	// ExternalID wraps an existing GL texture instead of allocating one.
	// The texture is then never deleted by the node.
	ExternalID     uint32
	ExternalTarget uint32
}

var texture2DClass = registerClass(&Class{
	ID:   fourcc("Tx2D"),
	Name: "Texture2D",
	Params: []ParamSpec{
		{Name: "format", Kind: ParamFormat, Default: gputypes.TextureFormatRGBA8Unorm},
		{Name: "width", Kind: ParamInt, Default: 0},
		{Name: "height", Kind: ParamInt, Default: 0},
		{Name: "min_filter", Kind: ParamFilter, Default: "nearest"},
		{Name: "mag_filter", Kind: ParamFilter, Default: "nearest"},
		{Name: "mipmap_filter", Kind: ParamFilter, Default: "none"},
		{Name: "wrap_s", Kind: ParamWrap, Default: "clamp_to_edge"},
		{Name: "wrap_t", Kind: ParamWrap, Default: "clamp_to_edge"},
		{Name: "data_src", Kind: ParamNode, Doc: "Media node"},
	},
})

// Texture2D is the implementation of Texture2D nodes. It satisfies the
// gpucontext texture interfaces once prefetched.
type Texture2D struct {
	node *Node
	p    TextureParams

	triple    glcontext.Triple
	minFilter int32
	magFilter int32
	wrapS     int32
	wrapT     int32

	width  int
	height int

	// localID is the texture owned (or wrapped) by the node; id is the
	// one sampled, which the upload pipeline may point elsewhere.
	localID     uint32
	localTarget uint32
	id          uint32
	target      uint32

	coords mat4.Mat4
	upload uploadState
}

var (
	_ gpucontext.Texture              = (*Texture2D)(nil)
	_ gpucontext.TextureUpdater       = (*Texture2D)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture2D)(nil)
)

// NewTexture2D creates a 2D texture.
func NewTexture2D(p TextureParams) *Node {
	if p.Format == gputypes.TextureFormatUndefined {
		p.Format = gputypes.TextureFormatRGBA8Unorm
	}
	t := &Texture2D{p: p, coords: mat4.Identity()}
	t.node = NewNode(t)
	return t.node
}

// TextureOf returns the Texture2D implementation of n.
func TextureOf(n *Node) (*Texture2D, bool) {
	if n == nil {
		return nil, false
	}
	t, ok := n.impl.(*Texture2D)
	return t, ok
}

func (t *Texture2D) Class() *Class { return texture2DClass }

func (t *Texture2D) Children() []*Node { return []*Node{t.p.Source} }

func (t *Texture2D) Init(n *Node) error {
	p := t.p
	if p.Width < 0 || p.Height < 0 {
		return configErrorf(n, "invalid size %dx%d", p.Width, p.Height)
	}
	if p.Source != nil {
		if _, ok := p.Source.impl.(*Media); !ok {
			return configErrorf(n, "data source must be a Media node, got %s", p.Source.Class().Name)
		}
	}
	triple, err := n.gl().TextureFormat(p.Format)
	if err != nil {
		return &ConfigError{Node: n.String(), Reason: err.Error()}
	}
	if p.Data != nil {
		want := p.Width * p.Height * bytesPerTexel(triple)
		if len(p.Data) < want {
			return configErrorf(n, "data holds %d bytes, %dx%d needs %d", len(p.Data), p.Width, p.Height, want)
		}
	}
	t.triple = triple
	t.minFilter = glcontext.MinFilter(p.MinFilter, p.MipmapFilter)
	t.magFilter = glcontext.MagFilter(p.MagFilter)
	t.wrapS = glcontext.Wrap(p.WrapS)
	t.wrapT = glcontext.Wrap(p.WrapT)
	return nil
}

func bytesPerTexel(tr glcontext.Triple) int {
	size := 1
	switch tr.Type {
	case glcontext.FLOAT, glcontext.UNSIGNED_INT:
		size = 4
	case glcontext.HALF_FLOAT, glcontext.UNSIGNED_SHORT:
		size = 2
	}
	switch tr.Format {
	case glcontext.RGBA, glcontext.BGRA:
		return 4 * size
	case glcontext.RG, glcontext.LUMINANCE_ALPHA:
		return 2 * size
	}
	return size
}

func (t *Texture2D) Prefetch(n *Node) error {
	f := n.gl().Funcs
	t.coords = mat4.Identity()

	if t.p.ExternalID != 0 {
		t.localID = t.p.ExternalID
		t.localTarget = t.p.ExternalTarget
		if t.localTarget == 0 {
			t.localTarget = glcontext.TEXTURE_2D
		}
		t.id, t.target = t.localID, t.localTarget
		t.width, t.height = t.p.Width, t.p.Height
		return nil
	}

	t.localTarget = glcontext.TEXTURE_2D
	t.localID = f.GenTextures(1)
	t.id, t.target = t.localID, t.localTarget

	f.BindTexture(t.localTarget, t.localID)
	t.applyParams(f, t.localTarget)
	if t.p.Width > 0 && t.p.Height > 0 {
		t.width, t.height = t.p.Width, t.p.Height
		f.TexImage2D(t.localTarget, 0, t.triple.InternalFormat, int32(t.width), int32(t.height),
			t.triple.Format, t.triple.Type, t.p.Data)
		if t.p.Data != nil && glcontext.IsMipmapFilter(t.minFilter) {
			f.GenerateMipmap(t.localTarget)
		}
	}
	f.BindTexture(t.localTarget, 0)
	return nil
}

func (t *Texture2D) applyParams(f glcontext.Functions, target uint32) {
	f.TexParameteri(target, glcontext.TEXTURE_MIN_FILTER, t.minFilter)
	f.TexParameteri(target, glcontext.TEXTURE_MAG_FILTER, t.magFilter)
	f.TexParameteri(target, glcontext.TEXTURE_WRAP_S, t.wrapS)
	f.TexParameteri(target, glcontext.TEXTURE_WRAP_T, t.wrapT)
}

func (t *Texture2D) Update(n *Node, ts float64) error {
	if t.p.Source == nil {
		return nil
	}
	if err := t.p.Source.Update(ts); err != nil {
		return err
	}
	media := t.p.Source.impl.(*Media)
	f := media.take()
	if f == nil {
		return nil
	}
	return UploadFrame(n, f)
}

func (t *Texture2D) Release(n *Node) {
	UninitUpload(n)
	if t.localID != 0 && t.p.ExternalID == 0 {
		n.gl().Funcs.DeleteTextures(t.localID)
	}
	t.localID, t.id = 0, 0
	t.localTarget, t.target = 0, 0
	t.width, t.height = 0, 0
}

// updateLocal resizes the local texture when w or h changed, uploading
// data if given, or uploads data in place. It reports whether storage was
// reallocated.
func (t *Texture2D) updateLocal(n *Node, w, h int, data []byte) bool {
	f := n.gl().Funcs
	changed := w != t.width || h != t.height
	f.BindTexture(t.localTarget, t.localID)
	if changed {
		t.width, t.height = w, h
		f.TexImage2D(t.localTarget, 0, t.triple.InternalFormat, int32(w), int32(h), t.triple.Format, t.triple.Type, data)
	} else if data != nil {
		f.TexSubImage2D(t.localTarget, 0, 0, 0, int32(w), int32(h), t.triple.Format, t.triple.Type, data)
	}
	if data != nil && glcontext.IsMipmapFilter(t.minFilter) {
		f.GenerateMipmap(t.localTarget)
	}
	f.BindTexture(t.localTarget, 0)
	return changed
}

// Width returns the texture width in texels.
func (t *Texture2D) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture2D) Height() int { return t.height }

// ID returns the GL name currently sampled.
func (t *Texture2D) ID() uint32 { return t.id }

// Target returns the GL target of ID.
func (t *Texture2D) Target() uint32 { return t.target }

// CoordinatesMatrix returns the transform applied to texture coordinates
// before sampling.
func (t *Texture2D) CoordinatesMatrix() mat4.Mat4 { return t.coords }

// UploadFormat returns the upload pipeline in use.
func (t *Texture2D) UploadFormat() UploadFormat { return t.upload.format }

// UpdateData replaces the whole content of a prefetched texture.
func (t *Texture2D) UpdateData(data []byte) error {
	return t.UpdateRegion(0, 0, t.width, t.height, data)
}

// UpdateRegion replaces a region of a prefetched texture.
func (t *Texture2D) UpdateRegion(x, y, w, h int, data []byte) error {
	n := t.node
	if !n.ready() || t.localID == 0 {
		return &StateError{Node: n.String(), Op: "update texture data", State: n.state}
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: region %dx%d+%d+%d outside %dx%d texture", ErrConfig, w, h, x, y, t.width, t.height)
	}
	if len(data) < w*h*bytesPerTexel(t.triple) {
		return fmt.Errorf("%w: region needs %d bytes, got %d", ErrConfig, w*h*bytesPerTexel(t.triple), len(data))
	}
	f := n.gl().Funcs
	f.BindTexture(t.localTarget, t.localID)
	f.TexSubImage2D(t.localTarget, 0, int32(x), int32(y), int32(w), int32(h), t.triple.Format, t.triple.Type, data)
	if glcontext.IsMipmapFilter(t.minFilter) {
		f.GenerateMipmap(t.localTarget)
	}
	f.BindTexture(t.localTarget, 0)
	return nil
}
