package mat4

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func equal(a, b Mat4) bool {
	for i := range a {
		if !approx(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	if got := Mul(Identity(), m); !equal(got, m) {
		t.Errorf("I*m = %v, want %v", got, m)
	}
	if got := Mul(m, Identity()); !equal(got, m) {
		t.Errorf("m*I = %v, want %v", got, m)
	}
}

func TestMulComposesTranslations(t *testing.T) {
	got := Mul(Translate(Vec3{1, 0, 0}), Translate(Vec3{0, 2, 0}))
	want := Translate(Vec3{1, 2, 0})
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRotateZ(t *testing.T) {
	m := Rotate(math.Pi/2, Vec3{0, 0, 1})
	p := MulVec3(m, Vec3{1, 0, 0})
	if !approx(p[0], 0) || !approx(p[1], 1) || !approx(p[2], 0) {
		t.Errorf("rotated point = %v, want (0,1,0)", p)
	}
}

func TestRotateNormalizesAxis(t *testing.T) {
	a := Rotate(1, Vec3{0, 0, 5})
	b := Rotate(1, Vec3{0, 0, 1})
	if !equal(a, b) {
		t.Errorf("unnormalized axis changed result: %v vs %v", a, b)
	}
}

func TestScale(t *testing.T) {
	p := MulVec3(Scale(Vec3{2, 3, 4}), Vec3{1, 1, 1})
	if p != (Vec3{2, 3, 4}) {
		t.Errorf("scaled point = %v", p)
	}
}

func TestLookAtOrigin(t *testing.T) {
	m := LookAt(Vec3{0, 0, 2}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	p := MulVec3(m, Vec3{0, 0, 0})
	if !approx(p[2], -2) {
		t.Errorf("center in view space = %v, want z=-2", p)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(90, 1, 1, 10)
	if !approx(m[0], 1) || !approx(m[5], 1) {
		t.Errorf("fov 90 focal = %v,%v, want 1,1", m[0], m[5])
	}
	if m[11] != -1 {
		t.Errorf("m[11] = %v, want -1", m[11])
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Normalize(Vec3{}); got != (Vec3{}) {
		t.Errorf("Normalize(0) = %v", got)
	}
}
