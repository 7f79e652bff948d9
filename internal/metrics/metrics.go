// Package metrics provides step observers that summarize a running scene.
package metrics

import (
	"math"

	"github.com/san-kum/granular/internal/sim"
	"github.com/san-kum/granular/internal/vec3"
)

type Metric interface {
	Name() string
	Observe(w *sim.World, t float64)
	Value() float64
	Reset()
}

// Set fans one sim observer out to several metrics.
type Set struct {
	Metrics []Metric
}

func (s *Set) OnStep(w *sim.World, t float64) {
	for _, m := range s.Metrics {
		m.Observe(w, t)
	}
}

func (s *Set) Reset() {
	for _, m := range s.Metrics {
		m.Reset()
	}
}

// EnergyDrift tracks the largest relative change in kinetic energy since the
// first observation. For a dissipative contact scene the drift is expected;
// the metric exists to catch divergence.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(w *sim.World, _ float64) {
	en := w.KineticEnergy()
	if e.samples == 0 {
		e.initial = en
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(en-e.initial) / math.Abs(e.initial)
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// PeakForce records the largest resultant force seen on any body.
type PeakForce struct {
	peak float64
}

func NewPeakForce() *PeakForce { return &PeakForce{} }

func (p *PeakForce) Name() string { return "peak_force" }

func (p *PeakForce) Observe(w *sim.World, _ float64) {
	for i := range w.Bodies {
		f := vec3.Len(w.Bodies[i].Force)
		if f > p.peak {
			p.peak = f
		}
	}
}

func (p *PeakForce) Value() float64 { return p.peak }

func (p *PeakForce) Reset() { p.peak = 0 }

// MaxOverlap records the deepest interpenetration seen, a timestep sanity
// check for stiff contacts.
type MaxOverlap struct {
	max float64
}

func NewMaxOverlap() *MaxOverlap { return &MaxOverlap{} }

func (m *MaxOverlap) Name() string { return "max_overlap" }

func (m *MaxOverlap) Observe(w *sim.World, _ float64) {
	if o := w.MaxOverlap(); o > m.max {
		m.max = o
	}
}

func (m *MaxOverlap) Value() float64 { return m.max }

func (m *MaxOverlap) Reset() { m.max = 0 }
