package metrics

import (
	"testing"

	"github.com/san-kum/granular/internal/granular"
	"github.com/san-kum/granular/internal/sim"
	"github.com/san-kum/granular/internal/vec3"
)

func demoWorld(t *testing.T) *sim.World {
	t.Helper()
	m := granular.New()
	if err := m.UseNormal("hooke", []float64{1e4, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := m.UseDamping("mass_velocity"); err != nil {
		t.Fatal(err)
	}
	if err := m.UseTangential("linear_history", []float64{100, 1, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}

	w := sim.NewWorld(m, sim.Config{Dt: 1e-5})
	body := func(x, vx float64) sim.Body {
		return sim.Body{BodyState: granular.BodyState{
			Pos:    vec3.Vec{x, 0, 0},
			Vel:    vec3.Vec{vx, 0, 0},
			Radius: 0.01,
			Mass:   0.01,
		}}
	}
	w.AddBody(body(-0.009, 0.5))
	w.AddBody(body(0.009, -0.5))
	return w
}

func TestPeakForceTracksMaximum(t *testing.T) {
	w := demoWorld(t)
	p := NewPeakForce()

	var prev float64
	for i := 0; i < 50; i++ {
		w.Step()
		p.Observe(w, w.Time())
		if p.Value() < prev {
			t.Fatalf("peak decreased: %g -> %g", prev, p.Value())
		}
		prev = p.Value()
	}
	if p.Value() <= 0 {
		t.Error("no force observed during an impact")
	}

	p.Reset()
	if p.Value() != 0 {
		t.Error("reset did not clear the peak")
	}
}

func TestMaxOverlapDuringImpact(t *testing.T) {
	w := demoWorld(t)
	m := NewMaxOverlap()

	for i := 0; i < 200; i++ {
		w.Step()
		m.Observe(w, w.Time())
	}
	if m.Value() <= 0.002 {
		t.Errorf("approach should deepen the initial overlap, got %g", m.Value())
	}
}

func TestEnergyDriftBounded(t *testing.T) {
	w := demoWorld(t)
	e := NewEnergyDrift()

	for i := 0; i < 200; i++ {
		w.Step()
		e.Observe(w, w.Time())
	}
	// a damped impact dissipates, so drift is positive but bounded by 1
	if e.Value() < 0 || e.Value() > 1 {
		t.Errorf("relative drift = %g", e.Value())
	}
}

func TestSetFansOut(t *testing.T) {
	w := demoWorld(t)
	s := &Set{Metrics: []Metric{NewPeakForce(), NewMaxOverlap()}}

	w.Step()
	s.OnStep(w, w.Time())

	for _, m := range s.Metrics {
		if m.Value() == 0 {
			t.Errorf("%s not updated by the set", m.Name())
		}
	}

	s.Reset()
	for _, m := range s.Metrics {
		if m.Value() != 0 {
			t.Errorf("%s not reset", m.Name())
		}
	}
}
