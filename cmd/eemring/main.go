package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/mohamedorhan/eemring/internal/analysis"
	"github.com/mohamedorhan/eemring/internal/config"
	"github.com/mohamedorhan/eemring/internal/energy"
	"github.com/mohamedorhan/eemring/internal/figures"
	"github.com/mohamedorhan/eemring/internal/integrators"
	"github.com/mohamedorhan/eemring/internal/localize"
	"github.com/mohamedorhan/eemring/internal/ring"
	"github.com/mohamedorhan/eemring/internal/sim"
	"github.com/mohamedorhan/eemring/internal/store"
	"github.com/mohamedorhan/eemring/internal/sweep"
)

var (
	dataDir string
	outDir  string

	cells          int
	inductance     float64
	capacitance    float64
	coupling       float64
	resistance     float64
	lossless       bool
	duration       float64
	samples        int
	rtol           float64
	atol           float64
	excitedCells   []int
	initialCharge  float64
	initialCurrent float64
	sigma          float64
	configFile     string
	preset         string
	save           bool

	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))

	rootCmd := &cobra.Command{
		Use:   "eemring",
		Short: "RLC ring electromagnetic energy memory simulator",
		Long: "eemring simulates a ring of coupled RLC cells, tracks per-cell energy\n" +
			"over time, and detects localized long-lived energy patterns (memory states).",
		RunE: runSimulation,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eemring", "data directory for stored runs")
	addModelFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and write the figure artifacts",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "ascii plot of a stored run's total energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run's energy series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "run a simulation and report the dominant resonance frequency",
		RunE:  analyzeRun,
	}
	addModelFlags(analyzeCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [parameter]",
		Short: "sweep resistance, coupling or charge over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1e-2, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 8, "number of sweep points")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, analyzeCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&cells, "cells", ring.DefaultN, "number of RLC cells in the ring")
	cmd.Flags().Float64Var(&inductance, "inductance", ring.DefaultL, "inductance per cell [H]")
	cmd.Flags().Float64Var(&capacitance, "capacitance", ring.DefaultC, "self-capacitance per cell [F]")
	cmd.Flags().Float64Var(&coupling, "coupling", ring.DefaultCc, "coupling capacitance [F]")
	cmd.Flags().Float64Var(&resistance, "resistance", ring.DefaultR, "series resistance per cell [Ohm]")
	cmd.Flags().BoolVar(&lossless, "lossless", false, "force R=0 (lossless ring)")
	cmd.Flags().Float64Var(&duration, "time", ring.DefaultTFinal, "simulation duration [s]")
	cmd.Flags().IntVar(&samples, "samples", ring.DefaultSamples, "number of output time samples")
	cmd.Flags().Float64Var(&rtol, "rtol", ring.DefaultRTol, "relative solver tolerance")
	cmd.Flags().Float64Var(&atol, "atol", ring.DefaultATol, "absolute solver tolerance")
	cmd.Flags().IntSliceVar(&excitedCells, "excite", []int{0}, "cell indices receiving the initial charge")
	cmd.Flags().Float64Var(&initialCharge, "charge", ring.DefaultInitialCharge, "initial charge per excited cell [C]")
	cmd.Flags().Float64Var(&initialCurrent, "current", 0, "initial current in every cell [A]")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSmoothSigma, "Gaussian width for memory detection")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset configuration")
	cmd.Flags().StringVar(&outDir, "out", "figures", "output directory for figures")
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
}

// buildConfig resolves preset, config file and flags into the physical
// configuration. Precedence: flags > config file > preset > defaults.
func buildConfig(cmd *cobra.Command) (ring.Config, float64, error) {
	fileCfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return ring.Config{}, 0, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		fileCfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return ring.Config{}, 0, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = loaded
	}

	cfg := fileCfg.Ring()
	smoothSigma := fileCfg.Sigma()

	if cmd.Flags().Changed("cells") {
		cfg.N = cells
	}
	if cmd.Flags().Changed("inductance") {
		cfg.L = inductance
	}
	if cmd.Flags().Changed("capacitance") {
		cfg.C = capacitance
	}
	if cmd.Flags().Changed("coupling") {
		cfg.Cc = coupling
	}
	if cmd.Flags().Changed("resistance") {
		cfg.R = resistance
	}
	if lossless {
		cfg.R = 0
	}
	if cmd.Flags().Changed("time") {
		cfg.TFinal = duration
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("rtol") {
		cfg.RTol = rtol
	}
	if cmd.Flags().Changed("atol") {
		cfg.ATol = atol
	}
	if cmd.Flags().Changed("excite") {
		cfg.InitialCells = excitedCells
	}
	if cmd.Flags().Changed("charge") {
		cfg.InitialCharge = initialCharge
	}
	if cmd.Flags().Changed("current") {
		cfg.InitialCurrent = initialCurrent
	}
	if cmd.Flags().Changed("sigma") {
		smoothSigma = sigma
	}

	return cfg, smoothSigma, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, smoothSigma, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	slog.Info("running simulation", "cells", cfg.N, "R", cfg.R, "Cc", cfg.Cc, "t_final", cfg.TFinal)
	start := time.Now()

	solver := sim.New(integrators.NewRK45())
	traj, err := solver.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	series := energy.Compute(traj, cfg)
	prof := localize.DetectMemory(series, smoothSigma)
	participation := localize.Participation(series)

	slog.Info("simulation completed",
		"elapsed", time.Since(start),
		"steps", traj.Steps,
		"energy_drift", traj.EnergyDrift,
	)

	summarize(traj.T, series, prof, participation)

	if save {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, traj.T, series, prof.MemoryCell, traj.Steps)
		if err != nil {
			return err
		}
		slog.Info("run stored", "id", runID)
	}

	if err := figures.WriteAll(outDir, traj.T, series, prof); err != nil {
		return err
	}
	slog.Info("figures written", "dir", outDir)

	return nil
}

func summarize(t []float64, series *energy.Series, prof localize.Profile, participation []float64) {
	initial := series.Total[0]
	final := series.Total[len(series.Total)-1]
	decay := 0.0
	if initial != 0 {
		decay = final / initial
	}

	fmt.Println("=== Electromagnetic Energy Memory — Summary ===")
	fmt.Printf("Simulation time: %.3e s -> %.3e s\n", t[0], t[len(t)-1])
	fmt.Printf("Initial total energy: %.3e J\n", initial)
	fmt.Printf("Final total energy:   %.3e J\n", final)
	fmt.Printf("Energy decay ratio (final / initial): %.3f\n", decay)
	fmt.Printf("Final localization (participation): %.3f\n", participation[len(participation)-1])
	fmt.Printf("Dominant memory cell index: %d\n", prof.MemoryCell)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCELLS\tR\tCC\tDECAY\tMEMORY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2e\t%.2e\t%.3f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cells,
			run.Resistance,
			run.Coupling,
			run.DecayRatio,
			run.MemoryCell,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, series, err := st.LoadEnergy(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d cells, R=%.2e)\n\n", meta.ID, meta.Cells, meta.Resistance)

	graph := asciigraph.Plot(series.Total,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("total energy vs time"),
	)
	fmt.Println(graph)

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	solver := sim.New(integrators.NewRK45())
	traj, err := solver.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	// Spectrum of the first excited cell's charge ringdown.
	cell := cfg.InitialCells[0]
	signal := make([]float64, len(traj.T))
	for i := range traj.T {
		signal[i] = traj.Q[i][cell]
	}

	dt := traj.T[1] - traj.T[0]
	ps := analysis.PowerSpectrum(signal)
	freq := analysis.DominantFrequency(signal, dt)

	// The resonances sit well below Nyquist; plot the bottom quarter.
	plotData := ps
	if len(ps) >= 32 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("charge power spectrum (cell %d)", cell)),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Printf("dominant frequency: %.3e Hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3e s\n", 1.0/freq)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, smoothSigma, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if sweepPoints < 2 {
		return fmt.Errorf("sweep needs at least 2 points, got %d", sweepPoints)
	}

	values := make([]float64, sweepPoints)
	floats.Span(values, sweepFrom, sweepTo)

	s := &sweep.Sweep{Param: args[0], Values: values, Sigma: smoothSigma}

	slog.Info("running sweep", "param", args[0], "points", sweepPoints)
	points, err := s.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tDECAY\tLOCALIZATION\tMEMORY\tSTATUS")
	for _, p := range points {
		status := "ok"
		if p.Err != nil {
			status = p.Err.Error()
		}
		fmt.Fprintf(w, "%.3e\t%.4f\t%.4f\t%d\t%s\n",
			p.Value, p.DecayRatio, p.FinalLocalization, p.MemoryCell, status)
	}
	return w.Flush()
}
