package vec3

import (
	"math"
	"testing"
)

func TestAddSub(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, -5, 6}

	sum := Add(a, b)
	if sum != (Vec{5, -3, 9}) {
		t.Errorf("Add = %v", sum)
	}
	if Sub(sum, b) != a {
		t.Errorf("Sub did not invert Add: %v", Sub(sum, b))
	}
}

func TestAddScaled(t *testing.T) {
	got := AddScaled(Vec{1, 0, 0}, 2, Vec{0, 3, 0})
	if got != (Vec{1, 6, 0}) {
		t.Errorf("AddScaled = %v", got)
	}
}

func TestDotCross(t *testing.T) {
	x := Vec{1, 0, 0}
	y := Vec{0, 1, 0}

	if Dot(x, y) != 0 {
		t.Errorf("orthogonal dot = %f", Dot(x, y))
	}
	if Cross(x, y) != (Vec{0, 0, 1}) {
		t.Errorf("x cross y = %v", Cross(x, y))
	}
	if Cross(y, x) != (Vec{0, 0, -1}) {
		t.Errorf("y cross x = %v", Cross(y, x))
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize(Vec{3, 4, 0})
	if math.Abs(Len(v)-1) > 1e-15 {
		t.Errorf("normalized length = %f", Len(v))
	}
	if math.Abs(v[0]-0.6) > 1e-15 || math.Abs(v[1]-0.8) > 1e-15 {
		t.Errorf("direction = %v", v)
	}

	if Normalize(Zero) != Zero {
		t.Errorf("normalizing zero should stay zero")
	}
}

func TestLen(t *testing.T) {
	v := Vec{2, 3, 6}
	if LenSqr(v) != 49 {
		t.Errorf("LenSqr = %f", LenSqr(v))
	}
	if Len(v) != 7 {
		t.Errorf("Len = %f", Len(v))
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(Zero) {
		t.Error("zero vector not detected")
	}
	if IsZero(Vec{0, 0, 1e-300}) {
		t.Error("tiny nonzero treated as zero")
	}
}
