// Package granular implements a pluggable contact-force engine for
// particle simulations. A [Model] composes one submodel per physical
// aspect (normal repulsion, velocity damping, tangential friction, and
// optionally rolling resistance, twisting resistance, and heat
// conduction); each contact evaluation reads a [Contact] context and
// writes force, torque, and per-contact history updates back into it.
//
// Submodels are built once per material type at configuration time, mixed
// pairwise for unlike types, and immutable during evaluation.
package granular

import "math"

// epsilon bounds the frame-objectivity correction: stored displacement is
// only re-projected when its out-of-plane component is significant relative
// to the Coulomb bound.
const epsilon = 1e-10

// Submodel is the contract shared by every force law: coefficient storage,
// pairwise mixing, and history-slot declarations. Concrete laws additionally
// satisfy one of the per-aspect interfaces (NormalSubmodel, TangentialSubmodel,
// ...).
type Submodel interface {
	// Name is the registry name of the law variant.
	Name() string

	// NumCoeffs is the number of raw coefficients the law accepts.
	NumCoeffs() int

	// Coeffs returns the raw coefficient list. Callers must not modify it.
	Coeffs() []float64

	// SetCoeffs stores a copy of the raw coefficients. Derived parameters are
	// computed when the owning model is finalized.
	SetCoeffs(coeffs []float64) error

	// MixCoeffs derives the pairwise coefficient list from two endpoint
	// lists without mutating either. The default rule is a per-coefficient
	// geometric mean; variants with sentinel coefficients override it.
	MixCoeffs(icoeffs, jcoeffs []float64) ([]float64, error)

	// MixCoeffsWall derives coefficients for contact with a wall, which has
	// no independent material of its own.
	MixCoeffsWall(coeffs []float64) ([]float64, error)

	// HistorySize is the number of persistent scalar slots the law needs
	// per contact (0 for stateless laws).
	HistorySize() int

	// HistoryIndex is the law's offset into the shared per-contact history
	// buffer, assigned once at model finalize.
	HistoryIndex() int

	// AllowsCohesion reports whether the law tolerates a cohesive (negative
	// elastic) normal force.
	AllowsCohesion() bool

	// BeyondContact reports whether the law acts before geometric overlap.
	BeyondContact() bool

	// TransferFactors returns the per-slot multipliers applied when a
	// contact's participants are swapped. nil means the default (negate
	// every slot).
	TransferFactors() []float64

	attach(m *Model)
	setHistoryIndex(idx int)
	deriveLocal() error
}

// submodel carries the state common to all laws and implements the
// bookkeeping half of the Submodel contract. Concrete laws embed it and
// provide deriveLocal plus their aspect-specific evaluation method.
type submodel struct {
	name         string
	numCoeffs    int
	coeffs       []float64
	sizeHistory  int
	historyIndex int

	noCohesion    bool
	beyondContact bool
	transfer      []float64

	m *Model
}

func (s *submodel) Name() string { return s.name }
func (s *submodel) NumCoeffs() int { return s.numCoeffs }
func (s *submodel) Coeffs() []float64 { return s.coeffs }
func (s *submodel) HistorySize() int { return s.sizeHistory }
func (s *submodel) HistoryIndex() int { return s.historyIndex }
func (s *submodel) AllowsCohesion() bool { return !s.noCohesion }
func (s *submodel) BeyondContact() bool { return s.beyondContact }

func (s *submodel) TransferFactors() []float64 { return s.transfer }

func (s *submodel) attach(m *Model) { s.m = m }
func (s *submodel) setHistoryIndex(i int) { s.historyIndex = i }

func (s *submodel) SetCoeffs(coeffs []float64) error {
	if len(coeffs) != s.numCoeffs {
		return errCoeffCount(s.name, s.numCoeffs, len(coeffs))
	}
	s.coeffs = append([]float64(nil), coeffs...)
	return nil
}

// MixCoeffs applies the default per-coefficient geometric mean.
func (s *submodel) MixCoeffs(icoeffs, jcoeffs []float64) ([]float64, error) {
	mixed := make([]float64, s.numCoeffs)
	for i := 0; i < s.numCoeffs; i++ {
		v, err := MixGeom(icoeffs[i], jcoeffs[i])
		if err != nil {
			return nil, errCoeff(s.name, err)
		}
		mixed[i] = v
	}
	return mixed, nil
}

// MixCoeffsWall keeps the particle-side coefficients unchanged; laws that
// derive stiffness from elastic properties switch to the one-sided modulus
// formulas when the owning model is a wall model.
func (s *submodel) MixCoeffsWall(coeffs []float64) ([]float64, error) {
	return append([]float64(nil), coeffs...), nil
}

// history returns the law's slice of the contact's history buffer.
func (s *submodel) history(c *Contact) []float64 {
	return c.History[s.historyIndex : s.historyIndex+s.sizeHistory]
}

// sign mirrors the copysign idiom used by the torque caps.
func sign(x float64) float64 {
	return math.Copysign(1, x)
}
