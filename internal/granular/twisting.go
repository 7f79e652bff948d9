package granular

import (
	"fmt"
	"math"
)

// TwistingSubmodel resists relative rotation about the contact normal.
type TwistingSubmodel interface {
	Submodel

	// Torque writes the twisting torque magnitude into c.Magtortwist and,
	// with c.HistoryUpdate set, advances the accumulated twist angle.
	Torque(c *Contact)
}

// TwistingNone disables twisting resistance.
type TwistingNone struct {
	submodel
}

func NewTwistingNone() *TwistingNone {
	t := &TwistingNone{}
	t.name = "none"
	return t
}

func (t *TwistingNone) deriveLocal() error { return nil }
func (t *TwistingNone) Torque(c *Contact) { c.Magtortwist = 0 }

// twistSDS holds the shared spring-dashpot-slider torque update; SDS uses
// fixed coefficients, Marshall derives them from the tangential law and the
// contact size each evaluation.
type twistSDS struct {
	submodel
}

func (t *twistSDS) torque(c *Contact, h []float64, k, damp, mu float64) {
	if c.HistoryUpdate {
		h[0] += c.Magtwist * c.Dt
	}

	c.Magtortwist = -k*h[0] - damp*c.Magtwist

	signtwist := sign(c.Magtwist)
	mtcrit := mu * c.Fncrit
	if math.Abs(c.Magtortwist) > mtcrit {
		// reconstruct the stored angle so it regenerates the capped torque
		if k > 0 {
			h[0] = (mtcrit*signtwist - damp*c.Magtwist) / k
		}
		c.Magtortwist = -mtcrit * signtwist
	}
}

// TwistingSDS is the spring-dashpot-slider twisting law with fixed
// coefficients: stiffness, damping, friction.
type TwistingSDS struct {
	twistSDS
	k    float64
	damp float64
	mu   float64
}

func NewTwistingSDS() *TwistingSDS {
	t := &TwistingSDS{}
	t.name = "sds"
	t.numCoeffs = 3
	t.sizeHistory = 1

	// the twist angle integrates dot(relrot, n), which is invariant under a
	// participant swap
	t.transfer = []float64{+1}
	return t
}

func (t *TwistingSDS) deriveLocal() error {
	t.k = t.coeffs[0]
	t.damp = t.coeffs[1]
	t.mu = t.coeffs[2]
	if t.k < 0 || t.damp < 0 || t.mu < 0 {
		return errCoeff(t.name, fmt.Errorf("%w: stiffness, damping, and friction must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (t *TwistingSDS) Torque(c *Contact) {
	t.torque(c, t.history(c), t.k, t.damp, t.mu)
}

// TwistingMarshall derives its coefficients from the tangential law and the
// instantaneous contact radius, after Marshall, J. Comput. Phys. 228 (2009).
// It takes no coefficients of its own.
type TwistingMarshall struct {
	twistSDS
}

func NewTwistingMarshall() *TwistingMarshall {
	t := &TwistingMarshall{}
	t.name = "marshall"
	t.sizeHistory = 1
	t.transfer = []float64{+1}
	return t
}

func (t *TwistingMarshall) deriveLocal() error { return nil }

func (t *TwistingMarshall) Torque(c *Contact) {
	a2 := c.Area * c.Area
	k := 0.5 * t.m.Tangential.TangentialStiffness() * a2
	damp := 0.5 * t.m.Tangential.TangentialDamp() * a2
	mu := 2.0 / 3.0 * c.Area * t.m.Tangential.Friction()
	t.torque(c, t.history(c), k, damp, mu)
}
