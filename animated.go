package nodegl

import (
	"fmt"
	"slices"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":           ease.Linear,
	"quadratic_in":     ease.InQuad,
	"quadratic_out":    ease.OutQuad,
	"quadratic_in_out": ease.InOutQuad,
	"quadratic_out_in": ease.OutInQuad,
	"cubic_in":         ease.InCubic,
	"cubic_out":        ease.OutCubic,
	"cubic_in_out":     ease.InOutCubic,
	"cubic_out_in":     ease.OutInCubic,
	"quartic_in":       ease.InQuart,
	"quartic_out":      ease.OutQuart,
	"quartic_in_out":   ease.InOutQuart,
	"quartic_out_in":   ease.OutInQuart,
	"quintic_in":       ease.InQuint,
	"quintic_out":      ease.OutQuint,
	"quintic_in_out":   ease.InOutQuint,
	"quintic_out_in":   ease.OutInQuint,
	"sinus_in":         ease.InSine,
	"sinus_out":        ease.OutSine,
	"sinus_in_out":     ease.InOutSine,
	"sinus_out_in":     ease.OutInSine,
	"exp_in":           ease.InExpo,
	"exp_out":          ease.OutExpo,
	"exp_in_out":       ease.InOutExpo,
	"exp_out_in":       ease.OutInExpo,
	"circular_in":      ease.InCirc,
	"circular_out":     ease.OutCirc,
	"circular_in_out":  ease.InOutCirc,
	"circular_out_in":  ease.OutInCirc,
	"elastic_in":       ease.InElastic,
	"elastic_out":      ease.OutElastic,
	"elastic_in_out":   ease.InOutElastic,
	"elastic_out_in":   ease.OutInElastic,
	"back_in":          ease.InBack,
	"back_out":         ease.OutBack,
	"back_in_out":      ease.InOutBack,
	"back_out_in":      ease.OutInBack,
	"bounce_in":        ease.InBounce,
	"bounce_out":       ease.OutBounce,
	"bounce_in_out":    ease.InOutBounce,
	"bounce_out_in":    ease.OutInBounce,
}

// Easings returns the accepted easing names, sorted.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// KeyFrame is one key of an animation. Easing shapes the segment that ends
// at this key; an empty Easing means linear.
type KeyFrame[T any] struct {
	Time   float64
	Value  T
	Easing string
}

// timeline evaluates the interpolation ratio between the keys around t.
type timeline struct {
	times  []float64
	tweens []*gween.Tween // tweens[i] shapes the segment ending at key i+1
}

func newTimeline(n *Node, times []float64, easingNames []string) (*timeline, error) {
	if len(times) == 0 {
		return nil, configErrorf(n, "at least one key frame is required")
	}
	tl := &timeline{times: times}
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		if d < 0 {
			return nil, configErrorf(n, "key frame %d at %gs precedes key frame %d at %gs", i, times[i], i-1, times[i-1])
		}
		name := easingNames[i]
		if name == "" {
			name = "linear"
		}
		fn, ok := easings[name]
		if !ok {
			return nil, configErrorf(n, "unknown easing %q", name)
		}
		tl.tweens = append(tl.tweens, gween.New(0, 1, float32(d), fn))
	}
	return tl, nil
}

// at returns the segment holding t and the eased ratio inside it. Times
// before the first key or after the last clamp to it.
func (tl *timeline) at(t float64) (seg int, ratio float32) {
	last := len(tl.times) - 1
	switch {
	case last == 0 || t <= tl.times[0]:
		return 0, 0
	case t >= tl.times[last]:
		return last - 1, 1
	}
	i := sort.SearchFloat64s(tl.times, t)
	if tl.times[i] == t {
		return i - 1, 1
	}
	seg = i - 1
	ratio, _ = tl.tweens[seg].Set(float32(t - tl.times[seg]))
	return seg, ratio
}

func lerp(a, b, r float32) float32 { return a + (b-a)*r }

// AnimatedFloat interpolates a scalar over key frames. Other nodes read
// it after updating it.
type AnimatedFloat struct {
	Keys []KeyFrame[float64]

	tl    *timeline
	value float64
}

var animatedFloatClass = registerClass(&Class{
	ID:   fourcc("AnmF"),
	Name: "AnimatedFloat",
	Params: []ParamSpec{
		{Name: "keyframes", Kind: ParamKeyFrames, Constructor: true, Doc: "time, value and easing of each key"},
	},
})

// NewAnimatedFloat creates a scalar animation.
func NewAnimatedFloat(keys ...KeyFrame[float64]) *Node {
	return NewNode(&AnimatedFloat{Keys: keys})
}

func (a *AnimatedFloat) Class() *Class { return animatedFloatClass }

func (a *AnimatedFloat) Init(n *Node) error {
	times, names := splitKeys(a.Keys)
	tl, err := newTimeline(n, times, names)
	if err != nil {
		return err
	}
	a.tl = tl
	a.value = a.Keys[0].Value
	return nil
}

func (a *AnimatedFloat) Update(n *Node, t float64) error {
	if len(a.Keys) == 1 {
		a.value = a.Keys[0].Value
		return nil
	}
	seg, r := a.tl.at(t)
	from, to := a.Keys[seg].Value, a.Keys[seg+1].Value
	a.value = from + (to-from)*float64(r)
	return nil
}

func (a *AnimatedFloat) Uninit(n *Node) { a.tl = nil }

// Value returns the value computed by the last update.
func (a *AnimatedFloat) Value() float64 { return a.value }

// AnimatedVec3 interpolates a three component vector over key frames.
type AnimatedVec3 struct {
	Keys []KeyFrame[[3]float32]

	tl    *timeline
	value [3]float32
}

var animatedVec3Class = registerClass(&Class{
	ID:   fourcc("AnmV"),
	Name: "AnimatedVec3",
	Params: []ParamSpec{
		{Name: "keyframes", Kind: ParamKeyFrames, Constructor: true, Doc: "time, value and easing of each key"},
	},
})

// NewAnimatedVec3 creates a vector animation.
func NewAnimatedVec3(keys ...KeyFrame[[3]float32]) *Node {
	return NewNode(&AnimatedVec3{Keys: keys})
}

func (a *AnimatedVec3) Class() *Class { return animatedVec3Class }

func (a *AnimatedVec3) Init(n *Node) error {
	times, names := splitKeys(a.Keys)
	tl, err := newTimeline(n, times, names)
	if err != nil {
		return err
	}
	a.tl = tl
	a.value = a.Keys[0].Value
	return nil
}

func (a *AnimatedVec3) Update(n *Node, t float64) error {
	if len(a.Keys) == 1 {
		a.value = a.Keys[0].Value
		return nil
	}
	seg, r := a.tl.at(t)
	from, to := a.Keys[seg].Value, a.Keys[seg+1].Value
	for i := range a.value {
		a.value[i] = lerp(from[i], to[i], r)
	}
	return nil
}

func (a *AnimatedVec3) Uninit(n *Node) { a.tl = nil }

// Value returns the value computed by the last update.
func (a *AnimatedVec3) Value() [3]float32 { return a.value }

func splitKeys[T any](keys []KeyFrame[T]) ([]float64, []string) {
	times := make([]float64, len(keys))
	names := make([]string, len(keys))
	for i, k := range keys {
		times[i], names[i] = k.Time, k.Easing
	}
	return times, names
}

// animatedFloat updates anim, an AnimatedFloat node, and returns its value.
func animatedFloat(owner, anim *Node, t float64) (float64, error) {
	a, ok := anim.impl.(*AnimatedFloat)
	if !ok {
		return 0, configErrorf(owner, "animation is a %s, want AnimatedFloat", anim.Class().Name)
	}
	if err := anim.Update(t); err != nil {
		return 0, fmt.Errorf("animation: %w", err)
	}
	return a.Value(), nil
}

// animatedVec3 updates anim, an AnimatedVec3 node, and returns its value.
func animatedVec3(owner, anim *Node, t float64) ([3]float32, error) {
	a, ok := anim.impl.(*AnimatedVec3)
	if !ok {
		return [3]float32{}, configErrorf(owner, "animation is a %s, want AnimatedVec3", anim.Class().Name)
	}
	if err := anim.Update(t); err != nil {
		return [3]float32{}, fmt.Errorf("animation: %w", err)
	}
	return a.Value(), nil
}
