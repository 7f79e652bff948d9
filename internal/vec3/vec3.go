// Package vec3 provides the small set of 3-vector operations used by the
// contact force laws. Vectors are plain [3]float64 values passed and
// returned by value, so hot loops stay allocation-free.
package vec3

import "math"

type Vec [3]float64

var Zero = Vec{}

func Add(a, b Vec) Vec {
	return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Sub(a, b Vec) Vec {
	return Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Scale(s float64, v Vec) Vec {
	return Vec{s * v[0], s * v[1], s * v[2]}
}

// AddScaled returns a + s*b.
func AddScaled(a Vec, s float64, b Vec) Vec {
	return Vec{a[0] + s*b[0], a[1] + s*b[1], a[2] + s*b[2]}
}

func Dot(a, b Vec) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross(a, b Vec) Vec {
	return Vec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func LenSqr(v Vec) float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

func Len(v Vec) float64 {
	return math.Sqrt(LenSqr(v))
}

// Normalize returns the unit vector along v, or the zero vector when v has
// zero length.
func Normalize(v Vec) Vec {
	l := Len(v)
	if l == 0 {
		return Zero
	}
	return Scale(1/l, v)
}

func IsZero(v Vec) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}
