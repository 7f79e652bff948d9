package granular

import (
	"fmt"
	"math"
)

// MaterialProperties are the elastic constants a material-based normal law
// exposes to laws that derive their stiffness from them.
type MaterialProperties struct {
	Emod    float64
	Poisson float64
}

// NormalSubmodel computes the elastic normal force, the instantaneous
// contact radius consumed by area-coupled laws, and the critical force
// bounding friction. It runs before every other aspect.
type NormalSubmodel interface {
	Submodel

	// Touch reports whether the pair is in contact. wasTouching matters
	// only for laws acting beyond geometric overlap, which hold a contact
	// until pull-off.
	Touch(c *Contact, wasTouching bool) bool

	// Area is the instantaneous contact radius.
	Area(c *Contact) float64

	// Force is the elastic normal force (negative when cohesive).
	Force(c *Contact) float64

	// Stiffness is the instantaneous normal force constant, consumed by the
	// Tsuji damping law.
	Stiffness(c *Contact) float64

	// CriticalForce converts the total normal force into the bound on
	// tangential (and rolling, twisting) force.
	CriticalForce(fntot float64, c *Contact) float64

	// Damp is the raw normal damping coefficient consumed by the damping
	// submodel.
	Damp() float64

	// Cohesive reports whether the law can produce attractive forces.
	Cohesive() bool

	MaterialProperties() (MaterialProperties, bool)
}

// normalBase supplies the defaults shared by the normal family: contact at
// geometric overlap, Hertzian contact radius, and Fncrit = |Fntot|.
type normalBase struct {
	submodel
	damp     float64
	cohesive bool
}

func (n *normalBase) Touch(c *Contact, _ bool) bool { return c.Delta >= 0 }

func (n *normalBase) Area(c *Contact) float64 {
	if c.Delta <= 0 {
		return 0
	}
	return math.Sqrt(c.Delta * c.Reff)
}

func (n *normalBase) CriticalForce(fntot float64, _ *Contact) float64 {
	return math.Abs(fntot)
}

func (n *normalBase) Damp() float64 { return n.damp }
func (n *normalBase) Cohesive() bool { return n.cohesive }

func (n *normalBase) MaterialProperties() (MaterialProperties, bool) {
	return MaterialProperties{}, false
}

// NormalHooke is the linear spring: F = kn*delta.
// Coefficients: kn, damping.
type NormalHooke struct {
	normalBase
	kn float64
}

func NewNormalHooke() *NormalHooke {
	n := &NormalHooke{}
	n.name = "hooke"
	n.numCoeffs = 2
	return n
}

func (n *NormalHooke) deriveLocal() error {
	n.kn = n.coeffs[0]
	n.damp = n.coeffs[1]
	if n.kn < 0 || n.damp < 0 {
		return errCoeff(n.name, fmt.Errorf("%w: stiffness and damping must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (n *NormalHooke) Force(c *Contact) float64 { return n.kn * c.Delta }
func (n *NormalHooke) Stiffness(_ *Contact) float64 { return n.kn }

// NormalHertz scales the spring constant by the contact radius.
// Coefficients: kn, damping.
type NormalHertz struct {
	normalBase
	kn float64
}

func NewNormalHertz() *NormalHertz {
	n := &NormalHertz{}
	n.name = "hertz"
	n.numCoeffs = 2
	return n
}

func (n *NormalHertz) deriveLocal() error {
	n.kn = n.coeffs[0]
	n.damp = n.coeffs[1]
	if n.kn < 0 || n.damp < 0 {
		return errCoeff(n.name, fmt.Errorf("%w: stiffness and damping must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (n *NormalHertz) Force(c *Contact) float64 { return n.kn * c.Area * c.Delta }
func (n *NormalHertz) Stiffness(c *Contact) float64 { return n.kn * c.Area }

// hertzMaterial carries the material-parameterized Hertz law shared by
// hertz/material, DMT, and JKR. Coefficients: Emod, damping, Poisson
// (cohesive variants append a surface energy).
//
// The stored Emod/Poisson are representative per-pair values: mixing two
// unlike materials stores an Emod chosen so that the identical-material
// reduction E/(2(1-nu^2)) recovers the true effective modulus. Wall models
// keep the particle's raw coefficients and switch to the one-sided formula
// at derive time instead.
type hertzMaterial struct {
	normalBase
	emod  float64
	poiss float64
	eeff  float64 // effective contact modulus
	k     float64 // 4/3 * effective modulus
}

func (n *hertzMaterial) deriveCommon() error {
	n.emod = n.coeffs[0]
	n.damp = n.coeffs[1]
	n.poiss = n.coeffs[2]
	if n.emod < 0 || n.damp < 0 {
		return errCoeff(n.name, fmt.Errorf("%w: modulus and damping must be nonnegative", ErrInvalidParameters))
	}
	if n.m.wall {
		n.eeff = MixStiffnessEWall(n.emod, n.poiss)
	} else {
		n.eeff = MixStiffnessE(n.emod, n.emod, n.poiss, n.poiss)
	}
	n.k = 4.0 / 3.0 * n.eeff
	return nil
}

func (n *hertzMaterial) MixCoeffs(icoeffs, jcoeffs []float64) ([]float64, error) {
	mixed := make([]float64, n.numCoeffs)
	for i := 1; i < n.numCoeffs; i++ {
		v, err := MixGeom(icoeffs[i], jcoeffs[i])
		if err != nil {
			return nil, errCoeff(n.name, err)
		}
		mixed[i] = v
	}
	if icoeffs[0] < 0 || jcoeffs[0] < 0 {
		return nil, errCoeff(n.name, fmt.Errorf("%w: negative elastic modulus", ErrInvalidParameters))
	}
	eeff := MixStiffnessE(icoeffs[0], jcoeffs[0], icoeffs[2], jcoeffs[2])
	mixed[0] = 2 * eeff * (1 - mixed[2]*mixed[2])
	return mixed, nil
}

func (n *hertzMaterial) Force(c *Contact) float64 { return n.k * c.Area * c.Delta }
func (n *hertzMaterial) Stiffness(c *Contact) float64 { return n.k * c.Area }

func (n *hertzMaterial) MaterialProperties() (MaterialProperties, bool) {
	return MaterialProperties{Emod: n.emod, Poisson: n.poiss}, true
}

// NormalHertzMaterial is the Hertz law parameterized by Young's modulus and
// Poisson ratio. Coefficients: Emod, damping, Poisson.
type NormalHertzMaterial struct {
	hertzMaterial
}

func NewNormalHertzMaterial() *NormalHertzMaterial {
	n := &NormalHertzMaterial{}
	n.name = "hertz/material"
	n.numCoeffs = 3
	return n
}

func (n *NormalHertzMaterial) deriveLocal() error { return n.deriveCommon() }

// NormalDMT adds a constant DMT adhesion to the material Hertz law.
// Coefficients: Emod, damping, Poisson, cohesion.
type NormalDMT struct {
	hertzMaterial
	cohesion float64
}

func NewNormalDMT() *NormalDMT {
	n := &NormalDMT{}
	n.name = "dmt"
	n.numCoeffs = 4
	n.cohesive = true
	return n
}

func (n *NormalDMT) deriveLocal() error {
	if err := n.deriveCommon(); err != nil {
		return err
	}
	n.cohesion = n.coeffs[3]
	if n.cohesion < 0 {
		return errCoeff(n.name, fmt.Errorf("%w: cohesion must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (n *NormalDMT) Force(c *Contact) float64 {
	return n.k*c.Area*c.Delta - 4*math.Pi*n.cohesion*c.Reff
}

func (n *NormalDMT) CriticalForce(fntot float64, c *Contact) float64 {
	return math.Abs(fntot + 4*math.Pi*n.cohesion*c.Reff)
}

// NormalJKR is the Johnson-Kendall-Roberts adhesive contact law. It acts
// beyond geometric overlap: an established contact persists until pull-off.
// Coefficients: Emod, damping, Poisson, cohesion.
type NormalJKR struct {
	hertzMaterial
	cohesion float64
}

func NewNormalJKR() *NormalJKR {
	n := &NormalJKR{}
	n.name = "jkr"
	n.numCoeffs = 4
	n.cohesive = true
	n.beyondContact = true
	return n
}

func (n *NormalJKR) deriveLocal() error {
	if err := n.deriveCommon(); err != nil {
		return err
	}
	n.cohesion = n.coeffs[3]
	if n.cohesion < 0 {
		return errCoeff(n.name, fmt.Errorf("%w: cohesion must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (n *NormalJKR) Touch(c *Contact, wasTouching bool) bool {
	if !wasTouching {
		return c.Delta >= 0
	}
	// hold the contact until the JKR pull-off separation (deltaPulloff is
	// negative, so the breaking distance exceeds radsum)
	r2 := c.Reff * c.Reff
	aPulloff := math.Cbrt(9 * math.Pi * n.cohesion * r2 / (4 * n.eeff))
	deltaPulloff := aPulloff*aPulloff/c.Reff - 2*math.Sqrt(math.Pi*n.cohesion*aPulloff/n.eeff)
	return c.R < c.Radsum-deltaPulloff
}

func (n *NormalJKR) Area(c *Contact) float64 {
	// contact radius from the quartic JKR solution, guarded against small
	// negative arguments near pull-off
	const (
		pi27sq     = 266.47933750705694 // 27*pi^2
		threeRoot3 = 5.196152422706631  // 3*sqrt(3)
		sixRoot6   = 14.696938456699069 // 6*sqrt(6)
		invRoot6   = 0.4082482904638631 // 1/sqrt(6)
	)
	e := n.eeff
	coh := n.cohesion
	r2 := c.Reff * c.Reff
	dR := c.Delta * c.Reff
	dR2 := dR * dR
	t0 := coh * coh * r2 * r2 * e
	t1 := pi27sq * t0
	t2 := 8 * dR * dR2 * e * e * e
	t3 := 4 * dR2 * e
	sqrt1 := math.Max(0, t0*(t1+2*t2))
	t4 := math.Cbrt(t1 + t2 + threeRoot3*math.Pi*math.Sqrt(sqrt1))
	if t4 == 0 {
		return 0
	}
	t5 := t3/t4 + t4/e
	sqrt2 := math.Max(0, 2*dR+t5)
	t6 := math.Sqrt(sqrt2)
	if t6 == 0 {
		return 0
	}
	sqrt3 := math.Max(0, 4*dR-t5+sixRoot6*coh*math.Pi*r2/(e*t6))
	return invRoot6 * (t6 + math.Sqrt(sqrt3))
}

func (n *NormalJKR) Force(c *Contact) float64 {
	a := c.Area
	if a == 0 {
		return 0
	}
	return n.k*a*a*a/c.Reff - 2*math.Pi*a*a*math.Sqrt(4*n.cohesion*n.eeff/(math.Pi*a))
}

func (n *NormalJKR) CriticalForce(fntot float64, c *Contact) float64 {
	return math.Abs(fntot + 2*3*math.Pi*n.cohesion*c.Reff)
}
