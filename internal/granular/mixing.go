package granular

import (
	"fmt"
	"math"
)

// FromMaterial is the sentinel coefficient value meaning "derive this
// stiffness from the normal law's elastic modulus and Poisson ratio instead
// of mixing it directly". The sentinel survives mixing: if either endpoint
// carries it, so does the pair.
const FromMaterial = -1.0

// MixGeom is the default pairwise rule: the geometric mean of the two
// endpoint values. Both inputs must be nonnegative.
func MixGeom(a, b float64) (float64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: cannot mix negative coefficients (%g, %g)", ErrInvalidParameters, a, b)
	}
	return math.Sqrt(a * b), nil
}

// MixStiffnessE mixes two Young's moduli into the effective contact modulus.
func MixStiffnessE(e1, e2, pois1, pois2 float64) float64 {
	factor1 := (1 - pois1*pois1) / e1
	factor2 := (1 - pois2*pois2) / e2
	return 1 / (factor1 + factor2)
}

// MixStiffnessG mixes two Young's moduli into the effective shear modulus.
func MixStiffnessG(e1, e2, pois1, pois2 float64) float64 {
	factor1 := 2 * (2 - pois1) * (1 + pois1) / e1
	factor2 := 2 * (2 - pois2) * (1 + pois2) / e2
	return 1 / (factor1 + factor2)
}

// MixStiffnessEWall is the one-sided modulus mix for contact with a wall.
func MixStiffnessEWall(e, pois float64) float64 {
	return e / (2 * (1 - pois))
}

// MixStiffnessGWall is the one-sided shear-modulus mix for contact with a wall.
func MixStiffnessGWall(e, pois float64) float64 {
	return e / (32.0 * (2 - pois) * (1 + pois))
}
