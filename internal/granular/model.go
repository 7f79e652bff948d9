package granular

import (
	"errors"
	"fmt"
)

// ErrIncompleteModel indicates a model finalized before its normal, damping,
// and tangential aspects were all assigned.
var ErrIncompleteModel = errors.New("granular: model requires normal, damping, and tangential submodels")

// Model composes one submodel per physical aspect into a single contact
// evaluation. A Model is built once per material type (or produced by mixing
// two types), finalized, and then shared read-only across all contacts.
type Model struct {
	Normal     NormalSubmodel
	Damping    DampingSubmodel
	Tangential TangentialSubmodel
	Rolling    RollingSubmodel
	Twisting   TwistingSubmodel
	Heat       HeatSubmodel

	// LimitDamping clamps the total normal force at zero so damping never
	// turns a repulsive contact attractive.
	LimitDamping bool

	// wall marks a model produced by MixWall: material-based laws then
	// derive their stiffness through the one-sided wall formulas.
	wall bool

	sizeHistory int
	transfer    []float64
	finalized   bool
}

// New returns a model with the optional aspects disabled. The normal,
// damping, and tangential aspects must be assigned before Finalize.
func New() *Model {
	m := &Model{}
	m.Rolling = NewRollingNone()
	m.Twisting = NewTwistingNone()
	m.Heat = NewHeatNone()
	m.Rolling.attach(m)
	m.Twisting.attach(m)
	m.Heat.attach(m)
	return m
}

func (m *Model) use(sub Submodel, coeffs []float64) error {
	if err := sub.SetCoeffs(coeffs); err != nil {
		return err
	}
	sub.attach(m)
	m.finalized = false
	return nil
}

// UseNormal assigns the normal law by registry name.
func (m *Model) UseNormal(name string, coeffs []float64) error {
	n, err := NewNormal(name)
	if err != nil {
		return err
	}
	if err := m.use(n, coeffs); err != nil {
		return err
	}
	m.Normal = n
	return nil
}

// UseDamping assigns the damping law by registry name. Damping laws take no
// coefficients; they read the normal law's damping parameter.
func (m *Model) UseDamping(name string) error {
	d, err := NewDamping(name)
	if err != nil {
		return err
	}
	if err := m.use(d, nil); err != nil {
		return err
	}
	m.Damping = d
	return nil
}

// UseTangential assigns the tangential law by registry name.
func (m *Model) UseTangential(name string, coeffs []float64) error {
	t, err := NewTangential(name)
	if err != nil {
		return err
	}
	if err := m.use(t, coeffs); err != nil {
		return err
	}
	m.Tangential = t
	return nil
}

// UseRolling assigns the rolling law by registry name.
func (m *Model) UseRolling(name string, coeffs []float64) error {
	r, err := NewRolling(name)
	if err != nil {
		return err
	}
	if err := m.use(r, coeffs); err != nil {
		return err
	}
	m.Rolling = r
	return nil
}

// UseTwisting assigns the twisting law by registry name.
func (m *Model) UseTwisting(name string, coeffs []float64) error {
	t, err := NewTwisting(name)
	if err != nil {
		return err
	}
	if err := m.use(t, coeffs); err != nil {
		return err
	}
	m.Twisting = t
	return nil
}

// UseHeat assigns the heat law by registry name.
func (m *Model) UseHeat(name string, coeffs []float64) error {
	h, err := NewHeat(name)
	if err != nil {
		return err
	}
	if err := m.use(h, coeffs); err != nil {
		return err
	}
	m.Heat = h
	return nil
}

func (m *Model) submodels() []Submodel {
	return []Submodel{m.Normal, m.Damping, m.Tangential, m.Rolling, m.Twisting, m.Heat}
}

// Finalize derives every law's working parameters, validates cross-law
// dependencies, and assigns history offsets. It must be called before
// Evaluate and after any coefficient change; a mixed-but-unfinalized model
// must never be evaluated.
func (m *Model) Finalize() error {
	if m.Normal == nil || m.Damping == nil || m.Tangential == nil {
		return ErrIncompleteModel
	}

	// derive in dependency order: damping reads the normal law, tangential
	// reads both, twisting reads tangential
	for _, sub := range m.submodels() {
		if err := sub.deriveLocal(); err != nil {
			return err
		}
	}

	if m.Normal.Cohesive() && !m.Tangential.AllowsCohesion() {
		return fmt.Errorf("%w: tangential model %s cannot be used with a cohesive normal model",
			ErrInvalidParameters, m.Tangential.Name())
	}

	// fixed-offset history layout, assigned once and never reordered
	idx := 0
	m.transfer = m.transfer[:0]
	for _, sub := range m.submodels() {
		sub.setHistoryIndex(idx)
		idx += sub.HistorySize()

		factors := sub.TransferFactors()
		for i := 0; i < sub.HistorySize(); i++ {
			f := -1.0
			if factors != nil {
				f = factors[i]
			}
			m.transfer = append(m.transfer, f)
		}
	}
	m.sizeHistory = idx
	m.finalized = true
	return nil
}

// HistorySize is the total per-contact slot count the neighbor subsystem
// must allocate for this model.
func (m *Model) HistorySize() int { return m.sizeHistory }

// TransferHistory remaps a contact's history slots when its participants are
// swapped or periodically imaged: directional slots are negated, slots that
// declared a +1 factor pass through unchanged.
func (m *Model) TransferHistory(history []float64) {
	for i, f := range m.transfer {
		history[i] *= f
	}
}

// Touch reports whether the pair described by the context is in contact
// under the normal law.
func (m *Model) Touch(c *Contact, wasTouching bool) bool {
	return m.Normal.Touch(c, wasTouching)
}

// MixWith derives the model governing contacts between this model's type
// and another's. Both inputs are left untouched; the result is finalized.
// Per-aspect law variants must match.
func (m *Model) MixWith(other *Model) (*Model, error) {
	mixed := New()
	mixed.LimitDamping = m.LimitDamping || other.LimitDamping

	pairs := []struct {
		i, j Submodel
		set  func(name string, coeffs []float64) error
	}{
		{m.Normal, other.Normal, mixed.UseNormal},
		{m.Tangential, other.Tangential, mixed.UseTangential},
		{m.Rolling, other.Rolling, mixed.UseRolling},
		{m.Twisting, other.Twisting, mixed.UseTwisting},
		{m.Heat, other.Heat, mixed.UseHeat},
	}
	for _, p := range pairs {
		if p.i.Name() != p.j.Name() {
			return nil, fmt.Errorf("%w: %s vs %s", ErrMixIncompatible, p.i.Name(), p.j.Name())
		}
		coeffs, err := p.i.MixCoeffs(p.i.Coeffs(), p.j.Coeffs())
		if err != nil {
			return nil, err
		}
		if err := p.set(p.i.Name(), coeffs); err != nil {
			return nil, err
		}
	}

	if m.Damping.Name() != other.Damping.Name() {
		return nil, fmt.Errorf("%w: %s vs %s", ErrMixIncompatible, m.Damping.Name(), other.Damping.Name())
	}
	if err := mixed.UseDamping(m.Damping.Name()); err != nil {
		return nil, err
	}

	if err := mixed.Finalize(); err != nil {
		return nil, err
	}
	return mixed, nil
}

// MixWall derives the one-sided model governing contact with a wall, which
// carries no independent material.
func (m *Model) MixWall() (*Model, error) {
	mixed := New()
	mixed.LimitDamping = m.LimitDamping
	mixed.wall = true

	pairs := []struct {
		sub Submodel
		set func(name string, coeffs []float64) error
	}{
		{m.Normal, mixed.UseNormal},
		{m.Tangential, mixed.UseTangential},
		{m.Rolling, mixed.UseRolling},
		{m.Twisting, mixed.UseTwisting},
		{m.Heat, mixed.UseHeat},
	}
	for _, p := range pairs {
		coeffs, err := p.sub.MixCoeffsWall(p.sub.Coeffs())
		if err != nil {
			return nil, err
		}
		if err := p.set(p.sub.Name(), coeffs); err != nil {
			return nil, err
		}
	}
	if err := mixed.UseDamping(m.Damping.Name()); err != nil {
		return nil, err
	}
	if err := mixed.Finalize(); err != nil {
		return nil, err
	}
	return mixed, nil
}

// Evaluate runs the aspect laws in dependency order: the normal law sets the
// contact area and critical force before the tangential, rolling, and
// twisting laws consume them. Outputs land in the context; the only other
// mutation is the contact's own history slice, and only when
// c.HistoryUpdate is set.
func (m *Model) Evaluate(c *Contact) {
	c.Area = m.Normal.Area(c)

	fne := m.Normal.Force(c)
	fdamp := m.Damping.Force(c)
	fntot := fne + fdamp
	if m.LimitDamping && fntot < 0 {
		fntot = 0
	}
	c.Fnormal = fntot
	c.Fncrit = m.Normal.CriticalForce(fntot, c)

	m.Tangential.Force(c)
	m.Rolling.Force(c)
	m.Twisting.Torque(c)
	c.Q = m.Heat.Flux(c)
}
