// Package shader holds the built-in WGSL programs and translates WGSL to
// the GLSL dialect of the current GL context with naga.
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
	"go.uber.org/multierr"

	"github.com/gogpu/nodegl/internal/mat4"
)

//go:embed shaders/common.wgsl
var commonSource string

//go:embed shaders/color.wgsl
var colorSource string

//go:embed shaders/texture.wgsl
var textureSource string

//go:embed shaders/nv12.wgsl
var nv12Source string

//go:embed shaders/opaque.wgsl
var opaqueSource string

// Built-in programs. Each is a complete WGSL module exposing vs_main and
// fs_main and reading the Uniforms block at @group(0) @binding(0).
var (
	Color   = commonSource + "\n" + colorSource
	Texture = commonSource + "\n" + textureSource
	NV12    = commonSource + "\n" + nv12Source
	// Opaque copies the color channels of texture 0 and forces alpha to 1.
	Opaque = commonSource + "\n" + opaqueSource
)

// Default entry points.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Vertex attribute locations.
const (
	PositionLocation = 0
	UVLocation       = 1
)

// UniformBinding is the uniform buffer binding point of the Uniforms block.
const UniformBinding = 0

// UniformSize is the std140 size of the Uniforms block.
const UniformSize = 3*64 + 16

const externalExtension = "#extension GL_OES_EGL_image_external_essl3 : require"

var blockRE = regexp.MustCompile(`uniform\s+(\w+)\s*\{`)

// ErrEmptySource is returned for a blank WGSL module.
var ErrEmptySource = errors.New("shader: empty WGSL source")

// Options controls translation.
type Options struct {
	// ES selects GLSL ES 3.00 instead of GLSL 3.30 core.
	ES bool

	VertexEntry   string
	FragmentEntry string

	// External lists texture indexes sampled from TEXTURE_EXTERNAL_OES
	// targets. Their samplers are declared samplerExternalOES.
	External []int
}

// Program is a translated vertex/fragment pair.
type Program struct {
	Vertex   string
	Fragment string

	// Blocks lists the uniform block names declared by either stage.
	Blocks []string

	// Samplers maps combined sampler uniform names to texture indexes.
	Samplers map[string]int
}

// TextureBinding returns the WGSL binding of texture i. Its sampler sits at
// the next binding.
func TextureBinding(i int) uint32 { return uint32(1 + 2*i) }

// TextureIndex is the inverse of TextureBinding.
func TextureIndex(binding uint32) (int, bool) {
	if binding == 0 || (binding-1)%2 != 0 {
		return 0, false
	}
	return int(binding-1) / 2, true
}

// Translate parses, validates and lowers a WGSL module to GLSL.
func Translate(source string, opts Options) (*Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	if opts.VertexEntry == "" {
		opts.VertexEntry = VertexEntry
	}
	if opts.FragmentEntry == "" {
		opts.FragmentEntry = FragmentEntry
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL parse error: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL lower error: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("shader: validation failed: %w", err)
	}
	if len(verrs) > 0 {
		var all error
		for _, ve := range verrs {
			all = multierr.Append(all, ve)
		}
		return nil, fmt.Errorf("shader: invalid module: %w", all)
	}

	for _, want := range []struct {
		name  string
		stage ir.ShaderStage
		kind  string
	}{
		{opts.VertexEntry, ir.StageVertex, "vertex"},
		{opts.FragmentEntry, ir.StageFragment, "fragment"},
	} {
		if !hasEntryPoint(module, want.name, want.stage) {
			return nil, fmt.Errorf("shader: unknown %s entry point %q", want.kind, want.name)
		}
	}

	version := glsl.Version330
	if opts.ES {
		version = glsl.VersionES300
	}

	p := &Program{Samplers: make(map[string]int)}
	blocks := make(map[string]struct{})
	for _, stage := range []struct {
		entry string
		out   *string
	}{
		{opts.VertexEntry, &p.Vertex},
		{opts.FragmentEntry, &p.Fragment},
	} {
		code, info, err := glsl.Compile(module, glsl.Options{
			LangVersion:        version,
			EntryPoint:         stage.entry,
			ForceHighPrecision: true,
		})
		if err != nil {
			return nil, fmt.Errorf("shader: GLSL compile error for entry point %q: %w", stage.entry, err)
		}
		for name, m := range info.TextureMappings {
			if i, ok := TextureIndex(m.TextureBinding.Binding); ok {
				p.Samplers[name] = i
			}
		}
		for _, match := range blockRE.FindAllStringSubmatch(code, -1) {
			blocks[match[1]] = struct{}{}
		}
		*stage.out = code
	}

	for name := range blocks {
		p.Blocks = append(p.Blocks, name)
	}
	sort.Strings(p.Blocks)

	if len(opts.External) > 0 {
		p.Fragment = useExternalSamplers(p.Fragment, p.Samplers, opts.External)
	}
	return p, nil
}

func hasEntryPoint(m *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range m.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

// useExternalSamplers redeclares the samplers of the listed textures as
// samplerExternalOES and enables the extension that provides them.
func useExternalSamplers(code string, samplers map[string]int, external []int) string {
	ext := make(map[int]bool, len(external))
	for _, i := range external {
		ext[i] = true
	}
	changed := false
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "sampler2D") || !strings.Contains(line, "uniform") {
			continue
		}
		for name, idx := range samplers {
			if ext[idx] && strings.Contains(line, " "+name+";") {
				lines[i] = strings.Replace(line, "sampler2D", "samplerExternalOES", 1)
				changed = true
			}
		}
	}
	if !changed {
		return code
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			lines = append(lines[:i+1], append([]string{externalExtension}, lines[i+1:]...)...)
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Uniforms mirrors the WGSL Uniforms struct.
type Uniforms struct {
	Modelview  mat4.Mat4
	Projection mat4.Mat4
	TexCoords  mat4.Mat4
	Color      [4]float32
}

// Bytes packs u with std140 layout.
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for _, m := range []*mat4.Mat4{&u.Modelview, &u.Projection, &u.TexCoords} {
		for _, v := range m {
			put(v)
		}
	}
	for _, v := range u.Color {
		put(v)
	}
	return buf
}
