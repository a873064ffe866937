package nodegl

import (
	"fmt"

	"github.com/gogpu/nodegl/frame"
)

// MediaParams configures a Media node.
type MediaParams struct {
	Source frame.Source
	// Surface is the decoder output surface MediaCodec frames are
	// rendered to. It is required for MediaCodec sources only.
	Surface frame.MediaCodecSurface
}

var mediaClass = registerClass(&Class{
	ID:   fourcc("Mdia"),
	Name: "Media",
	Params: []ParamSpec{
		{Name: "source", Kind: ParamSource, Constructor: true, Doc: "decoded frame provider"},
	},
})

// Media pulls decoded frames from a frame.Source. A Texture2D reading it
// uploads each new frame.
type Media struct {
	p MediaParams

	frame *frame.Frame
	fresh bool
	count int
}

// NewMedia creates a media node.
func NewMedia(p MediaParams) *Node {
	return NewNode(&Media{p: p})
}

func (m *Media) Class() *Class { return mediaClass }

func (m *Media) Init(n *Node) error {
	if m.p.Source == nil {
		return configErrorf(n, "source is required")
	}
	return nil
}

func (m *Media) Update(n *Node, t float64) error {
	f, err := m.p.Source.Frame(t)
	if err != nil {
		return fmt.Errorf("nodegl: %s: frame at %gs: %w", n, t, err)
	}
	if f != nil {
		m.frame, m.fresh = f, true
		m.count++
	}
	return nil
}

func (m *Media) Release(n *Node) {
	m.frame, m.fresh = nil, false
}

// take returns the frame fetched by the last update once.
func (m *Media) take() *frame.Frame {
	if !m.fresh {
		return nil
	}
	m.fresh = false
	return m.frame
}

// Frames returns how many frames the source produced.
func (m *Media) Frames() int { return m.count }

// Surface returns the MediaCodec output surface, if any.
func (m *Media) Surface() frame.MediaCodecSurface { return m.p.Surface }
