package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/granular/internal/granular"
	"github.com/san-kum/granular/internal/material"
	"github.com/san-kum/granular/internal/metrics"
	"github.com/san-kum/granular/internal/sim"
	"github.com/san-kum/granular/internal/storage"
	"github.com/san-kum/granular/internal/tui"
	"github.com/san-kum/granular/internal/vec3"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	matName    string
	matName2   string
	dt         float64
	steps      int
	workers    int
	plots      bool
	save       bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "granular",
		Short: "granular contact-force engine demo",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".granular", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a demo scene (impact, shear, pile)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "materials file (yaml)")
	runCmd.Flags().StringVar(&matName, "material", "bead", "material of the first body")
	runCmd.Flags().StringVar(&matName2, "material2", "", "material of the second body (defaults to --material)")
	runCmd.Flags().Float64Var(&dt, "dt", 1e-5, "timestep")
	runCmd.Flags().IntVar(&steps, "steps", 20000, "number of steps")
	runCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "evaluation workers")
	runCmd.Flags().BoolVar(&plots, "plot", true, "plot traces after the run")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list registered force laws",
		Run:   listModels,
	}

	materialsCmd := &cobra.Command{
		Use:   "materials [file]",
		Short: "write the default materials file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return material.Save(args[0], material.Default())
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene live in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "materials file (yaml)")
	liveCmd.Flags().StringVar(&matName, "material", "bead", "material")
	liveCmd.Flags().Float64Var(&dt, "dt", 1e-5, "timestep")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%-28s %-8s dt=%-10g steps=%d\n", r.ID, r.Scene, r.Dt, r.Steps)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, modelsCmd, materialsCmd, liveCmd, runsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadModel() (*granular.Model, error) {
	db := material.Default()
	if configFile != "" {
		loaded, err := material.Load(configFile)
		if err != nil {
			return nil, err
		}
		db = loaded
	}
	other := matName2
	if other == "" {
		other = matName
	}
	return db.BuildPair(matName, other)
}

func buildScene(scene string, model *granular.Model) (*sim.World, error) {
	cfg := sim.Config{Dt: dt, Workers: workers}
	if workers < 1 {
		cfg.Workers = 1
	}

	w := sim.NewWorld(model, cfg)
	switch scene {
	case "impact":
		// oblique collision: closing velocity with a tangential component
		w.AddBody(body(vec3.Vec{-0.011, 0, 0}, vec3.Vec{1.0, 0.2, 0}))
		w.AddBody(body(vec3.Vec{0.011, 0, 0}, vec3.Vec{-1.0, 0, 0}))
	case "shear":
		// pre-overlapped pair in steady sliding
		w.AddBody(body(vec3.Vec{-0.009, 0, 0}, vec3.Vec{0, 0.05, 0}))
		w.AddBody(body(vec3.Vec{0.009, 0, 0}, vec3.Vec{0, -0.05, 0}))
	case "pile":
		cfg.Gravity = vec3.Vec{0, -9.81, 0}
		w = sim.NewWorld(model, cfg)
		w.AddBody(bodyWithMass(vec3.Vec{0, 0, 0}, vec3.Vec{}, 0.05, 1e3))
		w.AddBody(body(vec3.Vec{0, 0.0605, 0}, vec3.Vec{}))
		w.AddBody(body(vec3.Vec{0.004, 0.0805, 0}, vec3.Vec{}))
	default:
		return nil, fmt.Errorf("unknown scene: %s", scene)
	}
	return w, nil
}

func body(pos, vel vec3.Vec) sim.Body {
	return bodyWithMass(pos, vel, 0.01, 0.01)
}

func bodyWithMass(pos, vel vec3.Vec, radius, mass float64) sim.Body {
	return sim.Body{BodyState: granular.BodyState{
		Pos:    pos,
		Vel:    vel,
		Radius: radius,
		Mass:   mass,
	}}
}

// trace records per-step diagnostics for terminal plots and saved runs.
type trace struct {
	every   int
	count   int
	times   []float64
	force   []float64
	overlap []float64
	kinetic []float64
	set     *metrics.Set
}

func newTrace(every int) *trace {
	return &trace{
		every: every,
		set: &metrics.Set{Metrics: []metrics.Metric{
			metrics.NewEnergyDrift(),
			metrics.NewPeakForce(),
			metrics.NewMaxOverlap(),
		}},
	}
}

func (t *trace) OnStep(w *sim.World, tm float64) {
	t.set.OnStep(w, tm)
	t.count++
	if t.count%t.every != 0 {
		return
	}
	t.times = append(t.times, tm)
	t.force = append(t.force, vec3.Len(w.Bodies[0].Force))
	t.overlap = append(t.overlap, w.MaxOverlap())
	t.kinetic = append(t.kinetic, w.KineticEnergy())
}

func (t *trace) metricValues() map[string]float64 {
	out := make(map[string]float64, len(t.set.Metrics))
	for _, m := range t.set.Metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func runScene(cmd *cobra.Command, args []string) error {
	model, err := loadModel()
	if err != nil {
		return err
	}
	w, err := buildScene(args[0], model)
	if err != nil {
		return err
	}

	every := steps / 200
	if every < 1 {
		every = 1
	}
	tr := newTrace(every)

	if err := w.Run(context.Background(), steps, tr); err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("scene %s: %d steps, dt=%g", args[0], steps, dt)))
	fmt.Printf("  final kinetic energy  %.6g\n", w.KineticEnergy())
	fmt.Printf("  active contacts       %d\n", w.Contacts())
	fmt.Printf("  virial                %.6g\n", w.Virial())
	for name, v := range tr.metricValues() {
		fmt.Printf("  %-21s %.6g\n", name, v)
	}
	fmt.Println()

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(storage.RunMetadata{
			Scene:    args[0],
			Material: matName,
			Dt:       dt,
			Steps:    steps,
			Metrics:  tr.metricValues(),
		}, storage.Series{
			Names:   []string{"time", "force0", "overlap", "kinetic"},
			Columns: [][]float64{tr.times, tr.force, tr.overlap, tr.kinetic},
		})
		if err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("saved " + id))
	}

	if plots {
		plot("force on body 0", tr.force)
		plot("max overlap", tr.overlap)
		plot("kinetic energy", tr.kinetic)
	}
	return nil
}

func plot(caption string, data []float64) {
	if len(data) < 2 {
		return
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}

func listModels(cmd *cobra.Command, args []string) {
	fmt.Println(headerStyle.Render("registered force laws"))
	aspect := ""
	for _, v := range granular.Variants() {
		if v.Aspect != aspect {
			aspect = v.Aspect
			fmt.Println(dimStyle.Render(aspect))
		}
		fmt.Printf("  %-24s coeffs=%d history=%d\n", v.Name, v.NumCoeffs, v.History)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	model, err := loadModel()
	if err != nil {
		return err
	}
	workers = 1
	w, err := buildScene(args[0], model)
	if err != nil {
		return err
	}
	_, err = tui.NewProgram(w, 50).Run()
	return err
}
