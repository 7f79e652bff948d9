package granular

import (
	"math"
	"testing"

	"github.com/san-kum/granular/internal/vec3"
)

func rollingModel(t *testing.T) *Model {
	t.Helper()
	m := New()
	if err := m.UseNormal("hooke", []float64{1000, 0}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseDamping("velocity"); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTangential("linear_nohistory", []float64{1, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseRolling("sds", []float64{500, 10, 0.3}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRollingSDSSpringDashpot(t *testing.T) {
	m := rollingModel(t)
	c := overlapContact(m, vec3.Zero)
	c.Vrl = vec3.Vec{0.1, 0, 0}

	m.Evaluate(c)

	// one step of rolling displacement plus the dashpot term
	want := -500*0.1*0.001 - 10*0.1
	if math.Abs(c.Fr[0]-want) > 1e-12 {
		t.Errorf("rolling force = %g, want %g", c.Fr[0], want)
	}
}

func TestRollingSDSCoulombCap(t *testing.T) {
	m := rollingModel(t)
	c := overlapContact(m, vec3.Zero)
	c.Vrl = vec3.Vec{0.1, 0, 0}

	// sustained rolling: the spring winds up until the cap takes over
	for i := 0; i < 200; i++ {
		m.Evaluate(c)
	}

	// frcrit = 0.3 * 10
	if math.Abs(vec3.Len(c.Fr)-3.0) > 1e-9 {
		t.Errorf("capped |Fr| = %f, want 3", vec3.Len(c.Fr))
	}
	// the stored displacement must regenerate the capped force exactly
	h := vec3.Vec{c.History[0], c.History[1], c.History[2]}
	regen := vec3.AddScaled(vec3.Scale(-500, h), -10, c.Vrl)
	if vec3.Len(vec3.Sub(regen, c.Fr)) > 1e-9 {
		t.Errorf("history inconsistent with capped force: %v vs %v", regen, c.Fr)
	}
}

func TestTwistingSDSTorqueCap(t *testing.T) {
	m := New()
	if err := m.UseNormal("hooke", []float64{1000, 0}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseDamping("velocity"); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTangential("linear_nohistory", []float64{1, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTwisting("sds", []float64{200, 5, 0.2}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}

	c := overlapContact(m, vec3.Zero)
	c.Magtwist = 0.5

	m.Evaluate(c)

	// uncapped torque would be -200*5e-4 - 5*0.5 = -2.6; mtcrit = 0.2*10
	if math.Abs(c.Magtortwist+2.0) > 1e-12 {
		t.Errorf("capped torque = %g, want -2", c.Magtortwist)
	}
	// the stored angle must regenerate the capped torque exactly
	regen := -200*c.History[0] - 5*c.Magtwist
	if math.Abs(regen-c.Magtortwist) > 1e-12 {
		t.Errorf("stored angle regenerates torque %g, want %g", regen, c.Magtortwist)
	}
	wantAngle := (2.0 - 5*0.5) / 200
	if math.Abs(c.History[0]-wantAngle) > 1e-12 {
		t.Errorf("reconstructed angle = %g, want %g", c.History[0], wantAngle)
	}
}

func TestTwistingMarshallDerivesFromTangential(t *testing.T) {
	m := New()
	if err := m.UseNormal("hooke", []float64{1000, 2.0}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseDamping("velocity"); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTangential("mindlin", []float64{8e4, 1, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTwisting("marshall", nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}

	c := overlapContact(m, vec3.Zero)
	c.Magtwist = 0.01

	m.Evaluate(c)

	a2 := c.Area * c.Area
	k := 0.5 * 8e4 * a2
	damp := 0.5 * 2.0 * a2 // xt * normal damping
	want := -k*0.01*0.001 - damp*0.01
	if math.Abs(c.Magtortwist-want) > 1e-12 {
		t.Errorf("marshall torque = %g, want %g", c.Magtortwist, want)
	}
}
