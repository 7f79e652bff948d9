// Package sim drives the contact engine with a small DEM integration loop:
// spherical bodies, a naive all-pairs contact search with persistent
// per-pair history, and a half-step leapfrog update. It stands in for the
// spatial-decomposition and integration subsystems a production code would
// supply around the engine.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/granular/internal/granular"
	"github.com/san-kum/granular/internal/vec3"
)

type Body struct {
	granular.BodyState

	Force  vec3.Vec
	Torque vec3.Vec
}

func (b *Body) inertia() float64 {
	return 0.4 * b.Mass * b.Radius * b.Radius
}

// pairKey orders the participant indices so each pair has one identity.
type pairKey struct{ i, j int }

func key(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{i, j}
}

// pair holds a contact's persistent history slice for as long as the two
// bodies stay in contact.
type pair struct {
	history []float64
}

type Config struct {
	Dt      float64
	Gravity vec3.Vec
	Workers int
}

// World owns the bodies and the per-pair contact history. One granular
// model governs every pair; the material front end builds it.
type World struct {
	Bodies []Body
	Model  *granular.Model

	cfg   Config
	pairs map[pairKey]*pair
	time  float64
}

func NewWorld(model *granular.Model, cfg Config) *World {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &World{
		Model: model,
		cfg:   cfg,
		pairs: make(map[pairKey]*pair),
	}
}

func (w *World) Time() float64 { return w.time }

func (w *World) AddBody(b Body) int {
	w.Bodies = append(w.Bodies, b)
	return len(w.Bodies) - 1
}

// Contacts returns the number of currently touching pairs.
func (w *World) Contacts() int { return len(w.pairs) }

// History returns the live history slice for a touching pair, or nil.
// Diagnostics only; the slots are opaque outside their owning submodel.
func (w *World) History(i, j int) []float64 {
	if p, ok := w.pairs[key(i, j)]; ok {
		return p.history
	}
	return nil
}

// Step advances the world by one timestep: contact detection, parallel
// force evaluation, and a leapfrog position/velocity update.
func (w *World) Step() {
	dt := w.cfg.Dt

	contacts := w.detect()
	w.evaluate(contacts, true)

	for i := range w.Bodies {
		b := &w.Bodies[i]
		acc := vec3.AddScaled(w.cfg.Gravity, 1/b.Mass, b.Force)
		b.Vel = vec3.AddScaled(b.Vel, dt, acc)
		b.Pos = vec3.AddScaled(b.Pos, dt, b.Vel)
		b.Omega = vec3.AddScaled(b.Omega, dt/b.inertia(), b.Torque)
	}
	w.time += dt
}

// Run advances the world until the context is canceled or the step count is
// reached, invoking the observer (if any) after every step.
func (w *World) Run(ctx context.Context, steps int, obs Observer) error {
	if w.cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %g", w.cfg.Dt)
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.Step()
		if obs != nil {
			obs.OnStep(w, w.time)
		}
	}
	return nil
}

// Observer is notified after each completed step.
type Observer interface {
	OnStep(w *World, t float64)
}

// activeContact is one touching pair scheduled for evaluation this step.
type activeContact struct {
	i, j int
	p    *pair
}

// detect runs the all-pairs contact search, creating history slices for new
// contacts and discarding the history of broken ones.
func (w *World) detect() []activeContact {
	var actives []activeContact
	c := granular.Contact{}
	for i := 0; i < len(w.Bodies); i++ {
		for j := i + 1; j < len(w.Bodies); j++ {
			k := key(i, j)
			p, wasTouching := w.pairs[k]

			c.Prep(&w.Bodies[i].BodyState, &w.Bodies[j].BodyState)
			if !w.Model.Touch(&c, wasTouching) {
				if wasTouching {
					delete(w.pairs, k)
				}
				continue
			}
			if !wasTouching {
				p = &pair{history: make([]float64, w.Model.HistorySize())}
				w.pairs[k] = p
			}
			actives = append(actives, activeContact{i: i, j: j, p: p})
		}
	}
	return actives
}

// evaluate computes contact forces for all active pairs and accumulates them
// onto the bodies. Pairs are independent; the shared per-body accumulators
// are the only write hazard, handled with worker-local buffers reduced by
// summation afterward. The sum is associative only up to floating-point
// reassociation, so resultants may differ in the last bits across worker
// counts.
func (w *World) evaluate(contacts []activeContact, historyUpdate bool) {
	n := len(w.Bodies)
	for i := range w.Bodies {
		w.Bodies[i].Force = vec3.Zero
		w.Bodies[i].Torque = vec3.Zero
	}
	if len(contacts) == 0 {
		return
	}

	workers := w.cfg.Workers
	if len(contacts) < 4*workers {
		workers = 1
	}

	localF := make([][]vec3.Vec, workers)
	localT := make([][]vec3.Vec, workers)
	for g := 0; g < workers; g++ {
		localF[g] = make([]vec3.Vec, n)
		localT[g] = make([]vec3.Vec, n)
	}

	parallelFor(len(contacts), workers, func(worker, start, end int) {
		// one context per worker, reused across its contacts
		var c granular.Contact
		c.Dt = w.cfg.Dt
		c.HistoryUpdate = historyUpdate
		fbuf, tbuf := localF[worker], localT[worker]

		for _, ac := range contacts[start:end] {
			bi, bj := &w.Bodies[ac.i], &w.Bodies[ac.j]
			c.Prep(&bi.BodyState, &bj.BodyState)
			c.History = ac.p.history
			w.Model.Evaluate(&c)

			f := c.TotalForce()
			ti, tj := c.Torques()
			fbuf[ac.i] = vec3.Add(fbuf[ac.i], f)
			fbuf[ac.j] = vec3.Sub(fbuf[ac.j], f)
			tbuf[ac.i] = vec3.Add(tbuf[ac.i], ti)
			tbuf[ac.j] = vec3.Add(tbuf[ac.j], tj)
		}
	})

	for g := 0; g < workers; g++ {
		for i := 0; i < n; i++ {
			w.Bodies[i].Force = vec3.Add(w.Bodies[i].Force, localF[g][i])
			w.Bodies[i].Torque = vec3.Add(w.Bodies[i].Torque, localT[g][i])
		}
	}
}

// Virial recomputes the current pair virial sum without touching contact
// history: a trial evaluation pass that must be idempotent.
func (w *World) Virial() float64 {
	var c granular.Contact
	c.Dt = w.cfg.Dt
	c.HistoryUpdate = false

	total := 0.0
	for k, p := range w.pairs {
		c.Prep(&w.Bodies[k.i].BodyState, &w.Bodies[k.j].BodyState)
		c.History = p.history
		w.Model.Evaluate(&c)
		total += c.Virial()
	}
	return total
}

// KineticEnergy is the translational plus rotational kinetic energy.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for i := range w.Bodies {
		b := &w.Bodies[i]
		e += 0.5 * b.Mass * vec3.LenSqr(b.Vel)
		e += 0.5 * b.inertia() * vec3.LenSqr(b.Omega)
	}
	return e
}

// MaxOverlap is the largest geometric overlap among touching pairs.
func (w *World) MaxOverlap() float64 {
	max := 0.0
	for k := range w.pairs {
		bi, bj := &w.Bodies[k.i], &w.Bodies[k.j]
		delta := bi.Radius + bj.Radius - vec3.Len(vec3.Sub(bi.Pos, bj.Pos))
		if delta > max {
			max = delta
		}
	}
	return max
}

// SwapPair reorders a contact's participants, remapping its history through
// the model's transfer factors. The decomposition layer calls this when
// contact ownership migrates.
func (w *World) SwapPair(i, j int) {
	if p, ok := w.pairs[key(i, j)]; ok {
		w.Model.TransferHistory(p.history)
	}
}
