package granular

import (
	"fmt"
	"math"

	"github.com/san-kum/granular/internal/vec3"
)

// TangentialSubmodel computes the friction force. It runs after the normal
// and damping laws, which must have set Fncrit on the context.
type TangentialSubmodel interface {
	Submodel

	// Force writes the tangential force into c.Fs and, for history-bearing
	// laws with c.HistoryUpdate set, advances the stored displacement.
	Force(c *Contact)

	// Friction is the sliding friction coefficient, exposed for the
	// Marshall twisting law.
	Friction() float64

	// TangentialStiffness is the (unscaled) tangential spring constant,
	// exposed for the Marshall twisting law.
	TangentialStiffness() float64

	// TangentialDamp is the derived viscous coefficient, exposed for the
	// Marshall twisting law.
	TangentialDamp() float64
}

type tangentialBase struct {
	submodel
	k    float64
	xt   float64
	mu   float64
	damp float64
}

func (t *tangentialBase) Friction() float64 { return t.mu }
func (t *tangentialBase) TangentialStiffness() float64 { return t.k }
func (t *tangentialBase) TangentialDamp() float64 { return t.damp }

// loadVec reads the law's first three history slots as a vector.
func loadVec(h []float64) vec3.Vec { return vec3.Vec{h[0], h[1], h[2]} }

func storeVec(h []float64, v vec3.Vec) { h[0], h[1], h[2] = v[0], v[1], v[2] }

// projectTangent removes the component of the stored displacement along the
// current normal and rescales the remainder to the pre-projection magnitude,
// so a pure rotation of the contact frame never changes the stored slip.
func projectTangent(h vec3.Vec, rsht float64, nx vec3.Vec) vec3.Vec {
	shrmag := vec3.Len(h)
	h = vec3.AddScaled(h, -rsht, nx)
	prjmag := vec3.Len(h)
	scale := 0.0
	if prjmag > 0 {
		scale = shrmag / prjmag
	}
	return vec3.Scale(scale, h)
}

// TangentialLinearNoHistory is the stateless linear law: viscous force
// capped at the Coulomb bound, directed against the slip velocity.
// Coefficients: damping scale, friction.
type TangentialLinearNoHistory struct {
	tangentialBase
}

func NewTangentialLinearNoHistory() *TangentialLinearNoHistory {
	t := &TangentialLinearNoHistory{}
	t.name = "linear_nohistory"
	t.numCoeffs = 2
	t.noCohesion = true
	return t
}

func (t *TangentialLinearNoHistory) deriveLocal() error {
	t.k = 0 // no tangential stiffness without history
	t.xt = t.coeffs[0]
	t.mu = t.coeffs[1]
	if t.xt < 0 || t.mu < 0 {
		return errCoeff(t.name, fmt.Errorf("%w: damping and friction must be nonnegative", ErrInvalidParameters))
	}
	t.damp = t.xt * t.m.Damping.BaseDamp()
	return nil
}

func (t *TangentialLinearNoHistory) Force(c *Contact) {
	fscrit := t.mu * c.Fncrit
	fsmag := t.damp * c.Vrel

	// explicit zero-slip branch: no direction to oppose
	ft := 0.0
	if c.Vrel != 0 {
		ft = math.Min(fscrit, fsmag) / c.Vrel
	}
	c.Fs = vec3.Scale(-ft, c.Vtr)
}

// TangentialLinearHistory accumulates the elastic tangential force in its
// history slots and adds a viscous term. Coefficients: stiffness, damping
// scale, friction.
type TangentialLinearHistory struct {
	tangentialBase
}

func NewTangentialLinearHistory() *TangentialLinearHistory {
	t := &TangentialLinearHistory{}
	t.name = "linear_history"
	t.numCoeffs = 3
	t.sizeHistory = 3
	t.noCohesion = true
	return t
}

func (t *TangentialLinearHistory) deriveLocal() error {
	t.k = t.coeffs[0]
	t.xt = t.coeffs[1]
	t.mu = t.coeffs[2]
	if t.k < 0 || t.xt < 0 || t.mu < 0 {
		return errCoeff(t.name, fmt.Errorf("%w: stiffness, damping, and friction must be nonnegative", ErrInvalidParameters))
	}
	t.damp = t.xt * t.m.Damping.BaseDamp()
	return nil
}

func (t *TangentialLinearHistory) Force(c *Contact) {
	fscrit := t.mu * c.Fncrit
	hs := t.history(c)
	h := loadVec(hs)

	if c.HistoryUpdate {
		// rotate stored displacement into the current tangent plane,
		// cf. eq. 17 of Luding, Gran. Matter 10, 235 (2008)
		rsht := vec3.Dot(h, c.Nx)
		if math.Abs(rsht)*t.k > epsilon*fscrit {
			h = projectTangent(h, rsht, c.Nx)
		}

		// integrate the elastic force forward,
		// cf. eq. 18 of Thornton et al., Powder Tech. 233, 30 (2013)
		h = vec3.AddScaled(h, -t.k*c.Dt, c.Vtr)
		storeVec(hs, h)
	}

	// total force = stored elastic part + velocity damping
	c.Fs = vec3.AddScaled(h, -t.damp, c.Vtr)

	// rescale force and stored displacement together when sliding
	magfs := vec3.Len(c.Fs)
	if magfs > fscrit {
		if !vec3.IsZero(h) {
			h = vec3.Scale(fscrit/magfs, c.Fs)
			h = vec3.AddScaled(h, t.damp, c.Vtr)
			storeVec(hs, h)
			c.Fs = vec3.Scale(fscrit/magfs, c.Fs)
		} else {
			c.Fs = vec3.Zero
		}
	}
}

// TangentialMindlin is the Mindlin elastic law with area-scaled stiffness.
// mindlinForce switches the history slots from displacement to force units;
// mindlinRescale shrinks stored displacement on unloading, tracking the
// contact radius high-water mark in an extra slot. Coefficients: stiffness
// (or the FromMaterial sentinel), damping scale, friction.
type TangentialMindlin struct {
	tangentialBase
	mindlinForce   bool
	mindlinRescale bool
}

func NewTangentialMindlin() *TangentialMindlin {
	t := &TangentialMindlin{}
	t.name = "mindlin"
	t.numCoeffs = 3
	t.sizeHistory = 3
	return t
}

func NewTangentialMindlinForce() *TangentialMindlin {
	t := &TangentialMindlin{}
	t.name = "mindlin/force"
	t.numCoeffs = 3
	t.sizeHistory = 3
	t.mindlinForce = true
	return t
}

func newTangentialMindlinRescale(name string, force bool) *TangentialMindlin {
	t := &TangentialMindlin{}
	t.name = name
	t.numCoeffs = 3
	t.sizeHistory = 4
	t.mindlinForce = force
	t.mindlinRescale = true

	// the area high-water mark is not directional: it survives a
	// participant swap unchanged
	t.transfer = []float64{-1, -1, -1, +1}
	return t
}

func NewTangentialMindlinRescale() *TangentialMindlin {
	return newTangentialMindlinRescale("mindlin/rescale", false)
}

func NewTangentialMindlinRescaleForce() *TangentialMindlin {
	return newTangentialMindlinRescale("mindlin/rescale/force", true)
}

func (t *TangentialMindlin) deriveLocal() error {
	t.k = t.coeffs[0]
	t.xt = t.coeffs[1]
	t.mu = t.coeffs[2]

	if t.k == FromMaterial {
		props, ok := t.m.Normal.MaterialProperties()
		if !ok {
			return errCoeff(t.name, fmt.Errorf("%w: specify tangential stiffness or use a material-based normal model", ErrMissingMaterialProperty))
		}
		if t.m.wall {
			t.k = 8 * MixStiffnessGWall(props.Emod, props.Poisson)
		} else {
			t.k = 8 * MixStiffnessG(props.Emod, props.Emod, props.Poisson, props.Poisson)
		}
	}

	if t.k < 0 || t.xt < 0 || t.mu < 0 {
		return errCoeff(t.name, fmt.Errorf("%w: stiffness, damping, and friction must be nonnegative", ErrInvalidParameters))
	}
	t.damp = t.xt * t.m.Damping.BaseDamp()
	return nil
}

// MixCoeffs keeps the derive-from-material sentinel if either endpoint
// carries it; everything else mixes geometrically.
func (t *TangentialMindlin) MixCoeffs(icoeffs, jcoeffs []float64) ([]float64, error) {
	mixed := make([]float64, t.numCoeffs)
	if icoeffs[0] == FromMaterial || jcoeffs[0] == FromMaterial {
		mixed[0] = FromMaterial
	} else {
		v, err := MixGeom(icoeffs[0], jcoeffs[0])
		if err != nil {
			return nil, errCoeff(t.name, err)
		}
		mixed[0] = v
	}
	for i := 1; i < t.numCoeffs; i++ {
		v, err := MixGeom(icoeffs[i], jcoeffs[i])
		if err != nil {
			return nil, errCoeff(t.name, err)
		}
		mixed[i] = v
	}
	return mixed, nil
}

func (t *TangentialMindlin) Force(c *Contact) {
	fscrit := t.mu * c.Fncrit
	hs := t.history(c)
	h := loadVec(hs)

	kScaled := t.k * c.Area

	if t.mindlinRescale && c.Area < hs[3] {
		// unloading: contact shrank below its high-water mark
		h = vec3.Scale(c.Area/hs[3], h)
		storeVec(hs, h)
	}

	if c.HistoryUpdate {
		rsht := vec3.Dot(h, c.Nx)
		var frameUpdate bool
		if t.mindlinForce {
			frameUpdate = math.Abs(rsht) > epsilon*fscrit
		} else {
			frameUpdate = math.Abs(rsht)*kScaled > epsilon*fscrit
		}
		if frameUpdate {
			h = projectTangent(h, rsht, c.Nx)
		}

		if t.mindlinForce {
			h = vec3.AddScaled(h, -kScaled*c.Dt, c.Vtr)
		} else {
			h = vec3.AddScaled(h, c.Dt, c.Vtr)
		}
		storeVec(hs, h)

		if t.mindlinRescale {
			hs[3] = c.Area
		}
	}

	c.Fs = vec3.Scale(-t.damp, c.Vtr)
	if t.mindlinForce {
		c.Fs = vec3.Add(c.Fs, h)
	} else {
		c.Fs = vec3.AddScaled(c.Fs, -kScaled, h)
	}

	magfs := vec3.Len(c.Fs)
	if magfs > fscrit {
		if !vec3.IsZero(h) {
			h = vec3.Scale(fscrit/magfs, c.Fs)
			h = vec3.AddScaled(h, t.damp, c.Vtr)
			if !t.mindlinForce {
				h = vec3.Scale(-1/kScaled, h)
			}
			storeVec(hs, h)
			c.Fs = vec3.Scale(fscrit/magfs, c.Fs)
		} else {
			c.Fs = vec3.Zero
		}
	}
}
