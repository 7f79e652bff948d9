package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/granular/internal/granular"
	"github.com/san-kum/granular/internal/vec3"
)

func contactModel(t *testing.T) *granular.Model {
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
	return m
}

func sphere(pos, vel vec3.Vec) Body {
	return Body{BodyState: granular.BodyState{
		Pos:    pos,
		Vel:    vel,
		Radius: 0.01,
		Mass:   0.01,
	}}
}

func TestNewtonThirdLaw(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.009, 0, 0}, vec3.Vec{0.1, 0.05, 0}))
	w.AddBody(sphere(vec3.Vec{0.009, 0, 0}, vec3.Vec{-0.1, 0, 0}))

	w.Step()

	f0, f1 := w.Bodies[0].Force, w.Bodies[1].Force
	if vec3.IsZero(f0) {
		t.Fatal("overlapping pair produced no force")
	}
	if vec3.Add(f0, f1) != vec3.Zero {
		t.Errorf("forces not equal and opposite: %v vs %v", f0, f1)
	}
}

func TestMomentumConserved(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.009, 0, 0}, vec3.Vec{0.5, 0.1, 0}))
	w.AddBody(sphere(vec3.Vec{0.009, 0, 0}, vec3.Vec{-0.5, 0, 0}))

	momentum := func() vec3.Vec {
		var p vec3.Vec
		for i := range w.Bodies {
			p = vec3.AddScaled(p, w.Bodies[i].Mass, w.Bodies[i].Vel)
		}
		return p
	}

	before := momentum()
	if err := w.Run(context.Background(), 200, nil); err != nil {
		t.Fatal(err)
	}
	after := momentum()

	if d := vec3.Len(vec3.Sub(after, before)); d > 1e-12 {
		t.Errorf("momentum drifted by %g", d)
	}
}

func TestContactLifecycle(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.011, 0, 0}, vec3.Vec{1, 0, 0}))
	w.AddBody(sphere(vec3.Vec{0.011, 0, 0}, vec3.Vec{-1, 0, 0}))

	w.Step()
	if w.Contacts() != 0 {
		t.Fatalf("separated pair reported %d contacts", w.Contacts())
	}

	// drive them together
	for i := 0; i < 400 && w.Contacts() == 0; i++ {
		w.Step()
	}
	if w.Contacts() != 1 {
		t.Fatal("bodies never came into contact")
	}
	h := w.History(0, 1)
	if len(h) != w.Model.HistorySize() {
		t.Fatalf("history size = %d, want %d", len(h), w.Model.HistorySize())
	}

	// the elastic rebound must eventually separate them and drop the pair
	for i := 0; i < 20000 && w.Contacts() != 0; i++ {
		w.Step()
	}
	if w.Contacts() != 0 {
		t.Error("contact persisted after rebound")
	}
	if w.History(0, 1) != nil {
		t.Error("history survived the broken contact")
	}
}

func TestVirialIdempotent(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.009, 0, 0}, vec3.Vec{0.1, 0.2, 0}))
	w.AddBody(sphere(vec3.Vec{0.009, 0, 0}, vec3.Vec{-0.1, 0, 0}))
	w.Step()

	h := append([]float64(nil), w.History(0, 1)...)
	v1 := w.Virial()
	v2 := w.Virial()

	if v1 != v2 {
		t.Errorf("virial not reproducible: %g vs %g", v1, v2)
	}
	for i, s := range w.History(0, 1) {
		if s != h[i] {
			t.Errorf("trial evaluation mutated history slot %d: %g -> %g", i, h[i], s)
		}
	}
}

func TestSwapPairNegatesDirectionalHistory(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.009, 0, 0}, vec3.Vec{0, 0.1, 0}))
	w.AddBody(sphere(vec3.Vec{0.009, 0, 0}, vec3.Vec{0, -0.1, 0}))
	w.Step()

	h := w.History(0, 1)
	if h == nil {
		t.Fatal("no contact history")
	}
	copy(h, []float64{1, -2, 3})

	w.SwapPair(0, 1)

	want := []float64{-1, 2, -3}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("slot %d = %g, want %g", i, h[i], want[i])
		}
	}
}

func TestParallelEvaluationMatchesSerial(t *testing.T) {
	build := func(workers int) *World {
		w := NewWorld(contactModel(t), Config{Dt: 1e-5, Workers: workers})
		// a chain of overlapping spheres gives enough contacts to engage
		// the parallel path
		for i := 0; i < 24; i++ {
			w.AddBody(sphere(vec3.Vec{float64(i) * 0.019, 0, 0}, vec3.Vec{0, 0, 0}))
		}
		return w
	}

	serial, parallel := build(1), build(4)
	serial.Step()
	parallel.Step()

	for i := range serial.Bodies {
		d := vec3.Len(vec3.Sub(serial.Bodies[i].Force, parallel.Bodies[i].Force))
		if d > 1e-9 {
			t.Errorf("body %d force differs by %g across worker counts", i, d)
		}
	}
}

func TestRunHonorsContext(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{-0.009, 0, 0}, vec3.Zero))
	w.AddBody(sphere(vec3.Vec{0.009, 0, 0}, vec3.Zero))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx, 100, nil); err == nil {
		t.Error("canceled run should return an error")
	}
}

func TestRunRejectsBadTimestep(t *testing.T) {
	w := NewWorld(contactModel(t), Config{})
	if err := w.Run(context.Background(), 10, nil); err == nil {
		t.Error("zero dt should be rejected")
	}
}

func TestKineticEnergy(t *testing.T) {
	w := NewWorld(contactModel(t), Config{Dt: 1e-5})
	w.AddBody(sphere(vec3.Vec{0, 0, 0}, vec3.Vec{2, 0, 0}))

	want := 0.5 * 0.01 * 4
	if e := w.KineticEnergy(); math.Abs(e-want) > 1e-15 {
		t.Errorf("kinetic energy = %g, want %g", e, want)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	cases := []struct{ n, workers int }{
		{100, 4},
		{33, 8}, // ceil chunking exhausts the range before the last worker
		{3, 8},
		{1, 4},
	}
	for _, tc := range cases {
		seen := make([]int, tc.n)
		lanes := make([][]int, tc.workers)
		parallelFor(tc.n, tc.workers, func(worker, start, end int) {
			for i := start; i < end; i++ {
				lanes[worker] = append(lanes[worker], i)
			}
		})
		for _, lane := range lanes {
			for _, i := range lane {
				seen[i]++
			}
		}
		for i, n := range seen {
			if n != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tc.n, tc.workers, i, n)
			}
		}
	}
}
