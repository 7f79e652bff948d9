package granular

import (
	"fmt"
	"math"

	"github.com/san-kum/granular/internal/vec3"
)

// RollingSubmodel resists relative rolling of the two bodies.
type RollingSubmodel interface {
	Submodel

	// Force writes the rolling pseudo-force into c.Fr.
	Force(c *Contact)
}

// RollingNone disables rolling resistance.
type RollingNone struct {
	submodel
}

func NewRollingNone() *RollingNone {
	r := &RollingNone{}
	r.name = "none"
	return r
}

func (r *RollingNone) deriveLocal() error { return nil }
func (r *RollingNone) Force(c *Contact) { c.Fr = vec3.Zero }

// RollingSDS is the spring-dashpot-slider rolling law: it accumulates a
// rolling displacement in its history slots and caps the restoring force at
// the rolling Coulomb bound. Coefficients: stiffness, damping, friction.
type RollingSDS struct {
	submodel
	k    float64
	damp float64
	mu   float64
}

func NewRollingSDS() *RollingSDS {
	r := &RollingSDS{}
	r.name = "sds"
	r.numCoeffs = 3
	r.sizeHistory = 3

	// rolling displacement is built from Reff*cross(relrot, n), which is
	// invariant under a participant swap (both factors change sign)
	r.transfer = []float64{+1, +1, +1}
	return r
}

func (r *RollingSDS) deriveLocal() error {
	r.k = r.coeffs[0]
	r.damp = r.coeffs[1]
	r.mu = r.coeffs[2]
	if r.k < 0 || r.damp < 0 || r.mu < 0 {
		return errCoeff(r.name, fmt.Errorf("%w: stiffness, damping, and friction must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (r *RollingSDS) Force(c *Contact) {
	frcrit := r.mu * c.Fncrit
	hs := r.history(c)
	h := loadVec(hs)

	if c.HistoryUpdate {
		rolldotn := vec3.Dot(h, c.Nx)
		if math.Abs(rolldotn)*r.k > epsilon*frcrit {
			h = projectTangent(h, rolldotn, c.Nx)
		}
		h = vec3.AddScaled(h, c.Dt, c.Vrl)
		storeVec(hs, h)
	}

	c.Fr = vec3.AddScaled(vec3.Scale(-r.k, h), -r.damp, c.Vrl)

	magfr := vec3.Len(c.Fr)
	if magfr > frcrit {
		if !vec3.IsZero(h) {
			h = vec3.Scale(-frcrit/(magfr*r.k), c.Fr)
			h = vec3.AddScaled(h, -r.damp/r.k, c.Vrl)
			storeVec(hs, h)
			c.Fr = vec3.Scale(frcrit/magfr, c.Fr)
		} else {
			c.Fr = vec3.Zero
		}
	}
}
