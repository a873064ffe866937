// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softgl

import (
	"image"

	"github.com/gogpu/nodegl/glcontext"
)

// TextureInfo is a snapshot of a texture object.
type TextureInfo struct {
	Target         uint32
	InternalFormat int32
	Format         uint32
	Type           uint32
	Width, Height  int
	Params         map[uint32]int32
	// Uploads counts TexImage2D/TexSubImage2D calls carrying pixels.
	Uploads int
	// LastUpload is the size of the last pixel transfer.
	LastUpload image.Point
	Mipmaps    int
}

// Texture returns a snapshot of a live texture.
func (g *GL) Texture(name uint32) (TextureInfo, bool) {
	t, ok := g.textures[name]
	if !ok {
		return TextureInfo{}, false
	}
	params := make(map[uint32]int32, len(t.params))
	for k, v := range t.params {
		params[k] = v
	}
	return TextureInfo{
		Target:         t.target,
		InternalFormat: t.internalFormat,
		Format:         t.format,
		Type:           t.typ,
		Width:          t.width,
		Height:         t.height,
		Params:         params,
		Uploads:        t.uploads,
		LastUpload:     t.lastUpload,
		Mipmaps:        t.mipmaps,
	}, true
}

// TexturePixels returns the RGBA storage of a color texture.
func (g *GL) TexturePixels(name uint32) *image.RGBA {
	if t, ok := g.textures[name]; ok {
		return t.img
	}
	return nil
}

// GenTextures allocates one texture name.
func (g *GL) GenTextures(n int32) uint32 {
	g.call("GenTextures")
	name := g.gen()
	g.textures[name] = &texture{params: make(map[uint32]int32)}
	return name
}

// DeleteTextures frees textures and unbinds them from every unit.
func (g *GL) DeleteTextures(textures ...uint32) {
	g.call("DeleteTextures")
	for _, name := range textures {
		if name == 0 {
			continue
		}
		delete(g.textures, name)
		for k, v := range g.unitBindings {
			if v == name {
				delete(g.unitBindings, k)
			}
		}
	}
}

// ActiveTexture selects the texture unit.
func (g *GL) ActiveTexture(unit uint32) {
	g.call("ActiveTexture")
	if unit < glcontext.TEXTURE0 {
		g.setError(glcontext.INVALID_ENUM)
		return
	}
	g.activeUnit = unit - glcontext.TEXTURE0
}

// BindTexture binds a texture to the active unit. Names this GL did not
// allocate (external and cache textures) are accepted and created on
// first bind.
func (g *GL) BindTexture(target, name uint32) {
	g.call("BindTexture")
	if name != 0 {
		t, ok := g.textures[name]
		if !ok {
			t = &texture{target: target, params: make(map[uint32]int32)}
			g.textures[name] = t
		}
		if t.target == 0 {
			t.target = target
		}
		if t.target != target {
			g.setError(glcontext.INVALID_OPERATION)
			return
		}
	}
	g.unitBindings[[2]uint32{g.activeUnit, target}] = name
}

// BoundTexture returns the texture bound to target on a unit.
func (g *GL) BoundTexture(unit, target uint32) uint32 {
	return g.unitBindings[[2]uint32{unit, target}]
}

func (g *GL) boundTexture(target uint32) *texture {
	name := g.unitBindings[[2]uint32{g.activeUnit, target}]
	if name == 0 {
		g.setError(glcontext.INVALID_OPERATION)
		return nil
	}
	return g.textures[name]
}

// TexParameteri sets a parameter on the bound texture.
func (g *GL) TexParameteri(target, pname uint32, param int32) {
	g.call("TexParameteri")
	if t := g.boundTexture(target); t != nil {
		t.params[pname] = param
	}
}

// TexImage2D (re)allocates the bound texture and uploads pixels if given.
func (g *GL) TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pixels []byte) {
	g.call("TexImage2D")
	t := g.boundTexture(target)
	if t == nil {
		return
	}
	if width < 0 || height < 0 || level != 0 {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	t.internalFormat = internalFormat
	t.format = format
	t.typ = typ
	t.width, t.height = int(width), int(height)
	t.img = image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	if pixels != nil {
		g.store(t, 0, 0, t.width, t.height, pixels)
	}
}

// TexSubImage2D uploads pixels into a region of the bound texture.
func (g *GL) TexSubImage2D(target uint32, level, x, y, width, height int32, format, typ uint32, pixels []byte) {
	g.call("TexSubImage2D")
	t := g.boundTexture(target)
	if t == nil {
		return
	}
	if x < 0 || y < 0 || int(x+width) > t.width || int(y+height) > t.height {
		g.setError(glcontext.INVALID_VALUE)
		return
	}
	g.store(t, int(x), int(y), int(width), int(height), pixels)
}

// store converts client pixels into the RGBA image of t.
func (g *GL) store(t *texture, x, y, w, h int, pixels []byte) {
	t.uploads++
	t.lastUpload = image.Pt(w, h)
	if t.typ != glcontext.UNSIGNED_BYTE || t.img == nil {
		return
	}
	var comps int
	switch t.format {
	case glcontext.RGBA, glcontext.BGRA:
		comps = 4
	case glcontext.RG, glcontext.LUMINANCE_ALPHA:
		comps = 2
	case glcontext.RED, glcontext.LUMINANCE:
		comps = 1
	default:
		return
	}
	if len(pixels) < w*h*comps {
		g.setError(glcontext.INVALID_OPERATION)
		return
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			src := pixels[(row*w+col)*comps:]
			dst := t.img.Pix[t.img.PixOffset(x+col, y+row):]
			switch t.format {
			case glcontext.RGBA:
				copy(dst[:4], src[:4])
			case glcontext.BGRA:
				dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], src[3]
			case glcontext.RG:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], 0, 255
			case glcontext.LUMINANCE_ALPHA:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
			case glcontext.RED:
				dst[0], dst[1], dst[2], dst[3] = src[0], 0, 0, 255
			case glcontext.LUMINANCE:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 255
			}
		}
	}
}

// GenerateMipmap counts mipmap generations on the bound texture.
func (g *GL) GenerateMipmap(target uint32) {
	g.call("GenerateMipmap")
	if t := g.boundTexture(target); t != nil {
		t.mipmaps++
	}
}
