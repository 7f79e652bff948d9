package granular

import "math"

// DampingSubmodel converts the normal law's raw damping coefficient into a
// velocity-proportional normal force. Its derived scalar also seeds the
// tangential law's viscous term.
type DampingSubmodel interface {
	Submodel

	// Prefactor is the velocity-proportional coefficient for the current
	// contact.
	Prefactor(c *Contact) float64

	// Force is the damping contribution to the scalar normal force.
	Force(c *Contact) float64

	// BaseDamp is the configuration-time scalar consumed by the tangential
	// law (its per-contact factors excluded).
	BaseDamp() float64
}

// dampingBase derives its scalar from the attached normal law. Damping laws
// take no coefficients of their own.
type dampingBase struct {
	submodel
	damp float64
}

func (d *dampingBase) deriveLocal() error {
	d.damp = d.m.Normal.Damp()
	return nil
}

func (d *dampingBase) BaseDamp() float64 { return d.damp }

// DampingNone disables normal damping.
type DampingNone struct {
	dampingBase
}

func NewDampingNone() *DampingNone {
	d := &DampingNone{}
	d.name = "none"
	return d
}

func (d *DampingNone) deriveLocal() error { return nil }
func (d *DampingNone) Prefactor(_ *Contact) float64 { return 0 }
func (d *DampingNone) Force(_ *Contact) float64 { return 0 }

// DampingVelocity applies a constant coefficient.
type DampingVelocity struct {
	dampingBase
}

func NewDampingVelocity() *DampingVelocity {
	d := &DampingVelocity{}
	d.name = "velocity"
	return d
}

func (d *DampingVelocity) Prefactor(_ *Contact) float64 { return d.damp }

func (d *DampingVelocity) Force(c *Contact) float64 { return -d.damp * c.Vnnr }

// DampingMassVelocity scales the coefficient by the effective mass.
type DampingMassVelocity struct {
	dampingBase
}

func NewDampingMassVelocity() *DampingMassVelocity {
	d := &DampingMassVelocity{}
	d.name = "mass_velocity"
	return d
}

func (d *DampingMassVelocity) Prefactor(c *Contact) float64 { return d.damp * c.Meff }

func (d *DampingMassVelocity) Force(c *Contact) float64 { return -d.Prefactor(c) * c.Vnnr }

// DampingViscoelastic scales by effective mass and contact radius.
type DampingViscoelastic struct {
	dampingBase
}

func NewDampingViscoelastic() *DampingViscoelastic {
	d := &DampingViscoelastic{}
	d.name = "viscoelastic"
	return d
}

func (d *DampingViscoelastic) Prefactor(c *Contact) float64 { return d.damp * c.Meff * c.Area }

func (d *DampingViscoelastic) Force(c *Contact) float64 { return -d.Prefactor(c) * c.Vnnr }

// DampingTsuji interprets the normal damping coefficient as a restitution
// coefficient and converts it to the Tsuji damping constant via the fitted
// polynomial from Tsuji et al., Powder Tech. 71, 239 (1992).
type DampingTsuji struct {
	dampingBase
}

func NewDampingTsuji() *DampingTsuji {
	d := &DampingTsuji{}
	d.name = "tsuji"
	return d
}

func (d *DampingTsuji) deriveLocal() error {
	cor := d.m.Normal.Damp()
	d.damp = 1.2728 - 4.2783*cor + 11.087*cor*cor - 22.348*cor*cor*cor +
		27.467*math.Pow(cor, 4) - 18.022*math.Pow(cor, 5) + 4.8218*math.Pow(cor, 6)
	return nil
}

func (d *DampingTsuji) Prefactor(c *Contact) float64 {
	return d.damp * math.Sqrt(c.Meff*d.m.Normal.Stiffness(c))
}

func (d *DampingTsuji) Force(c *Contact) float64 { return -d.Prefactor(c) * c.Vnnr }
