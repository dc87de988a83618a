package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/analysis"
	"github.com/san-kum/schotter/internal/automation"
	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
	"github.com/san-kum/schotter/internal/render"
	"github.com/san-kum/schotter/internal/server"
	"github.com/san-kum/schotter/internal/sim"
	"github.com/san-kum/schotter/internal/storage"
	"github.com/san-kum/schotter/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	seed         int64
	cols         int
	rows         int
	displacement float64
	rotation     float64
	motion       float64
	frameRate    int
	framesDir    string
	logLevel     string
	logFile      string
	// headless runs
	ticks        int
	record       bool
	scenarioFile string
	runName      string
	// ensembles and sweeps
	numRuns   int
	sweepVar  string
	sweepMin  float64
	sweepMax  float64
	sweepN    int
	plotOut   string
	htmlOut   string
	serveAddr string
	// index search
	filterName     string
	filterSeed     int64
	filterActivity float64
	filterLimit    int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "schotter",
		Short:        "animated Schotter grid after Georg Nees",
		SilenceUsage: true,
		RunE:         runSetup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".schotter", "data directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset animation settings")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&cols, "cols", grid.DefaultCols, "grid columns")
	pf.IntVar(&rows, "rows", grid.DefaultRows, "grid rows")
	pf.Float64Var(&displacement, "displacement", 1.0, "displacement scale")
	pf.Float64Var(&rotation, "rotation", 1.0, "rotation scale")
	pf.Float64Var(&motion, "motion", 0.5, "probability that a cell moves rather than rests")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&framesDir, "frames", "", "directory for recorded frames (default <exe>_frames)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the grid in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the animation headless and save the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	runCmd.Flags().BoolVar(&record, "record", false, "record frames while running")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [path]",
		Short: "render one frame to png, jpg or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run before capturing")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&filterName, "name", "", "only runs with this name")
	listCmd.Flags().Int64Var(&filterSeed, "with-seed", 0, "only runs with this seed")
	listCmd.Flags().Float64Var(&filterActivity, "min-activity", 0, "only runs whose mean moving fraction is at least this")
	listCmd.Flags().IntVar(&filterLimit, "limit", 0, "show at most this many runs")

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run index from the saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			ix, err := st.OpenIndex()
			if err != nil {
				return err
			}
			defer ix.Close()
			n, err := ix.Rebuild(st)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d runs\n", n)
			return nil
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotOut, "out", "", "also write the activity plot to this png")
	plotCmd.Flags().StringVar(&htmlOut, "html", "", "also write an interactive report to this html file")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "measure disorder per row over an ensemble of seeds",
		Args:  cobra.NoArgs,
		RunE:  runProfile,
	}
	profileCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	profileCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks per run")
	profileCmd.Flags().StringVar(&plotOut, "out", "", "write the profile plot to this png")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one animation setting and compare outcomes",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepVar, "param", "displacement", "setting to sweep (displacement, rotation, motion)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks per run")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the animation to a browser",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISP\tROT\tMOTION\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%s\n",
					name, p.Animation.Displacement, p.Animation.Rotation, p.Animation.Motion, p.Description)
			}
			return w.Flush()
		},
	}

	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "list the commands a scenario can use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, c := range control.ListCommands() {
				fmt.Fprintf(w, "%s\t%s\n", c, c.Describe())
			}
			w.Flush()
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, snapshotCmd, listCmd, plotCmd, profileCmd, sweepCmd, serveCmd, presetsCmd, exportJSONCmd, initCmd, reindexCmd, commandsCmd)
	return rootCmd
}

// resolveConfig layers defaults, config file, preset and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Animation = p.Animation
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("displacement") {
		cfg.Animation.Displacement = displacement
	}
	if flags.Changed("rotation") {
		cfg.Animation.Rotation = rotation
	}
	if flags.Changed("motion") {
		cfg.Animation.Motion = motion
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("frames") {
		cfg.Recorder.Dir = framesDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.Animation.Clamp()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a console logger at level. Terminal views log nowhere
// unless a file is given, since stderr shares their screen.
func newLogger(level string, tui bool) (*zap.Logger, error) {
	if tui && logFile == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	zc.DisableStacktrace = true
	if logFile != "" {
		zc.OutputPaths = []string{logFile}
		zc.ErrorOutputPaths = []string{logFile}
	}
	return zc.Build()
}

func setup(cmd *cobra.Command, tui bool) (*config.Config, *zap.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.LogLevel, tui)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer log.Sync()
	return viz.RunInteractive(cfg, log)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	session, err := control.Build(cfg, log)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(session, viz.Options{FPS: cfg.FPS, Theme: cfg.Theme, Log: log}))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	// a scenario's preset and seed act as defaults for the flags
	var scenario *automation.Scenario
	if scenarioFile != "" {
		var err error
		if scenario, err = automation.LoadScenario(scenarioFile); err != nil {
			return err
		}
		flags := cmd.Flags()
		if scenario.Preset != "" && !flags.Changed("preset") {
			if err := flags.Set("preset", scenario.Preset); err != nil {
				return err
			}
		}
		if scenario.Seed != 0 && !flags.Changed("seed") {
			if err := flags.Set("seed", fmt.Sprint(scenario.Seed)); err != nil {
				return err
			}
		}
		if runName == "" {
			runName = scenario.Name
		}
	}

	cfg, log, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	session, err := control.Build(cfg, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	ix, err := st.OpenIndex()
	if err != nil {
		return err
	}
	defer ix.Close()
	st.UseIndex(ix)

	s := sim.New(session.Grid)
	for _, m := range metrics.Standard(cfg.Rows) {
		s.AddMetric(m)
	}
	// scenario steps can toggle recording, so the observer is always attached;
	// OnFrame does nothing while the recorder is inactive
	s.AddObserver(sim.ObserverFunc(func(tick int, _ *grid.Grid) error {
		return session.Recorder.OnFrame(uint64(tick))
	}))
	if record {
		if err := session.Recorder.Start(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %dx%d grid, seed %d...\n", cfg.Cols, cfg.Rows, session.Grid.Seed())
	var result *sim.Result
	if scenario != nil {
		result, err = automation.RunScenario(ctx, scenario, s, session, log)
	} else {
		result, err = s.Run(ctx, sim.Config{Ticks: cfg.Ticks})
	}
	if err != nil {
		return err
	}

	rec := session.Recording()
	session.Recorder.Stop()
	run := storage.Run{Name: runName, Grid: session.Grid, Result: result}
	if rec.Frame > 0 {
		run.Frames, run.FramesDir = rec.Frame, rec.Dir
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	if rec.Frame > 0 {
		fmt.Printf("frames: %d in %s\n", rec.Frame, rec.Dir)
	}
	fmt.Println("\nmetrics:")
	for _, name := range []string{"active_cells", "mean_displacement", "row_profile"} {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	sum := analysis.Summarize(result.Activity)
	fmt.Printf("  activity: mean %.3f  sd %.3f  min %.3f  max %.3f\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	fmt.Printf("  severity correlation: %.3f\n", analysis.SeverityCorrelation(result.Profile))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	path := cfg.SnapshotPath()
	if len(args) > 0 {
		path = args[0]
	}
	g, err := grid.New(cfg.Cols, cfg.Rows, cfg.Animation, cfg.ResolveSeed())
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Ticks; i++ {
		g.Tick()
	}
	if err := render.NewGridCapturer(cfg.Layout(), g).Capture(path); err != nil {
		return err
	}
	log.Info("snapshot saved", zap.String("path", path), zap.Int64("seed", g.Seed()), zap.Int("ticks", cfg.Ticks))
	fmt.Printf("saved %s (seed %d, tick %d)\n", path, g.Seed(), g.Ticks())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ix, err := st.OpenIndex()
	if err != nil {
		return err
	}
	defer ix.Close()

	runs, err := ix.Search(storage.Filter{
		Name:        filterName,
		Seed:        filterSeed,
		MinActivity: filterActivity,
		Limit:       filterLimit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found (try reindex)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tSEED\tTICKS\tDISP\tROT\tMOTION\tACTIVE\tFRAMES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.3f\t%d\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Cols, run.Rows,
			run.Seed,
			run.Ticks,
			run.Displacement,
			run.Rotation,
			run.Motion,
			run.Activity,
			run.Frames,
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
	activity, err := st.LoadActivity(runID)
	if err != nil {
		return err
	}
	if len(activity) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("ticks: %d\n\n", len(activity))

	fmt.Println(asciigraph.Plot(activity,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("fraction of cells moving"),
	))

	if len(meta.Profile) > 1 {
		disp := make([]float64, len(meta.Profile))
		for i, r := range meta.Profile {
			disp[i] = r.Displacement
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(disp,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.LowerBound(0),
			asciigraph.Caption("mean displacement by row"),
		))
	}

	if plotOut != "" {
		if err := analysis.SaveActivityPlot(plotOut, activity, meta.ID); err != nil {
			return err
		}
		fmt.Printf("\nsaved %s\n", plotOut)
	}
	if htmlOut != "" {
		if err := analysis.SaveReport(htmlOut, meta.ID, activity, meta.Profile); err != nil {
			return err
		}
		fmt.Printf("\nsaved %s\n", htmlOut)
	}
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer log.Sync()
	if numRuns < 1 {
		return fmt.Errorf("need at least one run, got %d", numRuns)
	}

	start := cfg.ResolveSeed()
	fmt.Printf("running %d seeds from %d for %d ticks...\n", numRuns, start, cfg.Ticks)
	results, err := sim.NewEnsemble(cfg.Cols, cfg.Rows, cfg.Animation, numRuns, start).
		Run(context.Background(), sim.Config{Ticks: cfg.Ticks})
	if err != nil {
		return err
	}
	profile := sim.MeanProfile(results)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tSEVERITY\tDISPLACEMENT\tROTATION")
	for _, r := range profile {
		fmt.Fprintf(w, "%d\t%.3f\t%.4f\t%.4f\n", r.Row, grid.Severity(r.Row, cfg.Rows), r.Displacement, r.Rotation)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nseverity correlation: %.3f\n", analysis.SeverityCorrelation(profile))

	if plotOut != "" {
		title := fmt.Sprintf("%d seeds, disp %.2f rot %.2f", numRuns, cfg.Animation.Displacement, cfg.Animation.Rotation)
		if err := analysis.SaveProfilePlot(plotOut, profile, title); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", plotOut)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Param:    sweepVar,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepN,
		Ticks:    cfg.Ticks,
		Cols:     cfg.Cols,
		Rows:     cfg.Rows,
		Base:     cfg.Animation,
		Seed:     cfg.ResolveSeed(),
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tACTIVITY\tMEAN DISP\tDEEPEST ROW\n", strings.ToUpper(sweepVar))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\t%.4f\n", r.ParamValue, r.Activity, r.MeanDisplacement, r.DeepestRow)
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	srv, err := server.New(serveAddr, cfg, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := serveAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	fmt.Printf("open http://%s/ (add ?seed=N to pin a drawing)\n", addr)
	return srv.Serve(ctx)
}
