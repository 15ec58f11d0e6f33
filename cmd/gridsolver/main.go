package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gridsolver/internal/analysis"
	"github.com/san-kum/gridsolver/internal/automation"
	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/export"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
	"github.com/san-kum/gridsolver/internal/solver"
	"github.com/san-kum/gridsolver/internal/storage"
	"github.com/san-kum/gridsolver/internal/tui"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile string
	preset     string
	name       string
	precision  string
	policy     string
	dt         float64
	steps      int
	seed       int64
	count      int
	workers    int
	progress   bool
	frameRate  int
	noSave     bool

	series    []string
	outFile   string
	table     string
	benchRuns int
	svgWidth  int
	svgHeight int
	tolerance float64

	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepRepeats int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gridsolver",
		Short:         "uniform-grid collision solver lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.TimeOnly,
				Level:           level,
				Prefix:          "gridsolver",
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DataDir(), "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a world and save it",
		Args:  cobra.NoArgs,
		RunE:  runWorld,
	}
	worldFlags(runCmd)
	runCmd.Flags().BoolVar(&progress, "progress", true, "print a live status line")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "status line refresh rate")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a world in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	worldFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time solver steps across body counts and precisions",
		Args:  cobra.NoArgs,
		RunE:  benchWorld,
	}
	worldFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "counts", 3, "number of body counts, each ten times the last")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-step series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"pairs", "live", "max_bucket"},
		"series to plot ("+strings.Join(sim.SeriesNames(), ", ")+")")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&table, "table", "steps", "table to export (steps, bodies)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's final bodies, or one series, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")
	exportSVGCmd.Flags().StringSliceVar(&series, "series", nil, "render this series instead of the bodies")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "periodicity and settling analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&series, "series", []string{"pairs", "occupied_cells", "kinetic_energy"}, "series to analyze")
	analyzeCmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "settling band relative to the series peak")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file from the defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and compare grid statistics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	worldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "cell_size",
		"parameter to vary ("+strings.Join(automation.SweepParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 25, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "values", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepRepeats, "repeats", 1, "seeds per value")

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		exportSVGCmd, analyzeCmd, presetsCmd, initCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func worldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&name, "name", "", "run name")
	cmd.Flags().StringVar(&precision, "precision", config.DefaultPrecision, "float precision (f32, f64)")
	cmd.Flags().StringVar(&policy, "policy", solver.ContinueUpdating.String(), "out-of-bounds policy")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "bodies in the first spawn group")
	cmd.Flags().IntVar(&workers, "workers", 0, "solver workers (0 uses GOMAXPROCS)")
}

// resolveConfig starts from a config file, a preset or the defaults, in that order,
// then applies the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = name
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("policy") {
		cfg.World.OutOfBounds.Policy = policy
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("count") && len(cfg.Spawn) > 0 {
		cfg.Spawn[0].Count = count
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runWorld(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s := sim.New(cfg)
	s.SetLogger(logger)
	for _, m := range metrics.Standard(cfg.Buckets()) {
		s.AddMetric(m)
	}
	if progress {
		s.AddObserver(tui.NewProgress(os.Stdout, cfg.Steps, frameRate))
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := s.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run interrupted, saving partial result", "steps", len(result.Samples))
	}

	labels := []string{"steps", "bodies", "elapsed"}
	values := []string{fmt.Sprint(len(result.Samples)), fmt.Sprint(cfg.Bodies()), result.Elapsed.Round(time.Millisecond).String()}
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		labels = append(labels, "run id")
		values = append(values, runID)
	}
	for _, n := range metrics.Names(result.Metrics) {
		labels = append(labels, n)
		values = append(values, fmt.Sprintf("%.6g", result.Metrics[n]))
	}
	fmt.Println(tui.Summary(cfg.Name, labels, values))
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// The alternate screen owns stderr while the view is open.
	quiet := logger.WithPrefix("live")
	quiet.SetLevel(log.ErrorLevel)

	opts := []solver.Option{solver.WithLogger(quiet)}
	if cfg.Workers > 0 {
		opts = append(opts, solver.WithWorkers(cfg.Workers))
	}
	return tui.Run(cfg.Name, func() (sim.Stepper, error) {
		return sim.NewStepper(cfg, opts...)
	})
}

func benchWorld(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") {
		cfg.Steps = 50
	}
	base := cfg.Spawn[0].Count
	if !cmd.Flags().Changed("count") {
		base = 1000
	}

	fmt.Printf("benchmarking %s (%d steps)\n\n", cfg.Name, cfg.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tPRECISION\tSTEP\tSTEPS/SEC\tPAIRS/STEP\tPEAK BUCKET")

	n := base
	for i := 0; i < benchRuns; i++ {
		for _, p := range []string{"f32", "f64"} {
			run := cfg.Clone()
			run.Precision = p
			run.Spawn[0].Count = n

			world, err := sim.NewStepper(run, solver.WithLogger(logger))
			if err != nil {
				return err
			}
			var pairs, peak int
			start := time.Now()
			for step := 0; step < run.Steps; step++ {
				s := world.Step()
				pairs += s.Pairs
				peak = max(peak, s.MaxBucket)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%.1f\t%d\n",
				run.Bodies(), p, elapsed/time.Duration(run.Steps),
				float64(run.Steps)/elapsed.Seconds(), float64(pairs)/float64(run.Steps), peak)
		}
		n *= 10
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tSTEPS\tDT\tPREC\tPOLICY\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4fs\t%s\t%s\t%.0fms\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Dt,
			run.Precision,
			run.Policy,
			run.ElapsedMs,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d  policy: %s\n", meta.Bodies, meta.Policy)
	fmt.Printf("samples: %d\n\n", len(samples))

	result := &sim.Result{Samples: samples}
	for _, name := range series {
		data, ok := result.Series(name)
		if !ok {
			return fmt.Errorf("unknown series %q (available: %v)", name, sim.SeriesNames())
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportJSON(args[0], outFile); err != nil {
			return err
		}
		logger.Info("exported", "run", args[0], "path", outFile)
		return nil
	}
	return st.WriteJSON(args[0], os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.CopyFile(args[0], table, os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if len(series) > 0 {
		samples, err := st.LoadSteps(runID)
		if err != nil {
			return err
		}
		data, ok := (&sim.Result{Samples: samples}).Series(series[0])
		if !ok {
			return fmt.Errorf("unknown series %q (available: %v)", series[0], sim.SeriesNames())
		}
		return export.SeriesSVG(w, data, svgWidth, svgHeight/2, "#5fd7d7")
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	points, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}
	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	lo, hi := cfg.Bounds()
	return export.BodiesSVG(w, points, lo, hi, svgWidth, svgHeight)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("steps: %d  dt: %gs\n\n", len(samples), meta.Dt)

	result := &sim.Result{Samples: samples}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPERIOD (STEPS)\tPERIOD (S)\tPOWER\tSETTLED AT")
	for _, name := range series {
		data, ok := result.Series(name)
		if !ok {
			return fmt.Errorf("unknown series %q (available: %v)", name, sim.SeriesNames())
		}
		peak := analysis.Dominant(data)
		settled := analysis.Settle(data, tolerance)
		if peak.Bin == 0 {
			fmt.Fprintf(w, "%s\t-\t-\t0\t%d\n", name, settled)
			continue
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.3f\t%.3g\t%d\n",
			name, peak.Period, peak.Period*meta.Dt, peak.Power, settled)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tPREC\tPOLICY\tSTEPS\tDT")
	for _, n := range config.ListPresets() {
		p := config.GetPreset(n)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%g\n",
			n, p.Bodies(), p.Precision, p.World.OutOfBounds.Policy, p.Steps, p.Dt)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", args[0], "name", cfg.Name)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("scenario", "name", scenario.Name, "runs", len(scenario.Runs))
	results, err := automation.RunScenario(ctx, scenario, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRUN ID\tSTEPS\tMEAN PAIRS\tPEAK BUCKET\tSTEP MS")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.0f\t%.3f\n",
			r.Name, runID, len(r.Result.Samples),
			r.Result.Metrics["mean_pairs"], r.Result.Metrics["peak_bucket"], r.Result.Metrics["step_ms"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Repeats:  sweepRepeats,
	}
	results, err := automation.RunSweep(ctx, sweep, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN PAIRS\tPEAK BUCKET\tOCCUPANCY\tSTEP MS\n", strings.ToUpper(sweepParam))
	stepMs := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.1f\t%.0f\t%.3f\t%.3f\n", r.Value, r.MeanPairs, r.PeakBucket, r.Occupancy, r.StepMs)
		stepMs = append(stepMs, r.StepMs)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(stepMs) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(stepMs,
			asciigraph.Height(8),
			asciigraph.Caption("step ms by "+sweepParam),
		))
	}
	return nil
}
