package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/gui"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/store"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	integrator  string
	ticks       int
	seed        int64
	workers     int
	target      int
	replenish   bool
	shape       string
	metricNames []string
	overrides   []string
	// run
	runName     string
	record      bool
	recordEvery int
	runs        int
	// plot / analyze
	seriesNames []string
	// live
	gifPath string
	// sweep
	sweepParams []string
	sweepMetric string
	maximize    bool
	// scan
	scanParam string
	// render / export
	frameIndex int
	outPath    string
	style      string
	width      int
	height     int
)

// simFlags registers the flags every command that builds a simulator shares.
func simFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml, or ini/gcfg)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&workers, "workers", 1, "worker goroutines for integration and collisions")
	f.IntVar(&target, "target", 5000, "target particle count")
	f.BoolVar(&replenish, "replenish", false, "spawn particles back toward the target")
	f.StringVar(&shape, "shape", "sphere", "absorption volume (sphere|cube)")
	f.StringSliceVar(&metricNames, "metrics", nil, "metrics to record")
	f.StringArrayVar(&overrides, "set", nil, "override a parameter, name=value (repeatable)")
}

// main is the entry point for the orbitsim CLI; with no subcommand it opens
// the live terminal view.
func main() {
	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "orbital particle simulation",
		SilenceUsage: true,
		RunE:         runLive,
	}
	simFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store its series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "orbit", "run name")
	runCmd.Flags().BoolVar(&record, "record", false, "record snapshots to "+storage.FramesFile)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "record every n-th tick")
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size; >1 reports mean metrics only")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", viz.GIFPath, "where G recordings are written")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a raylib window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	simFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&seriesNames, "series", []string{"count", "collisions"}, "series to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary and frequency analysis of run series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&seriesNames, "series", []string{"count", "collisions"}, "series to analyze")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput",
		Args:  cobra.NoArgs,
		RunE:  benchTicks,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTARGET\tREPLENISH\tTICKS\tMETRICS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%v\t%d\t%s\n",
					name, p.Population.Target, p.Population.Replenish, p.Run.Ticks, strings.Join(p.Run.Metrics, ","))
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... or name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "retention", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "population outcome across one parameter",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	simFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanParam, "param", "", "name=lo:hi:n")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of chained runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a recorded frame",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index (negative counts from the end)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVar(&style, "style", "svg", "svg|braille|text")
	renderCmd.Flags().IntVar(&width, "width", 800, "svg width, or canvas columns for braille/text")
	renderCmd.Flags().IntVar(&height, "height", 600, "svg height, or canvas rows for braille/text")

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list integrators and metrics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			r := experiment.NewRegistry()
			fmt.Printf("integrators: %s\n", strings.Join(r.ListIntegrators(), ", "))
			fmt.Printf("metrics: %s\n", strings.Join(r.ListMetrics(), ", "))
			fmt.Printf("settable: %s\n", strings.Join(config.Settable(), ", "))
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, benchCmd, presetsCmd, sweepCmd, scanCmd, scenarioCmd, renderCmd, integratorsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	if runs > 1 {
		fmt.Printf("running ensemble of %d...\n", runs)
		start := time.Now()
		results, err := exp.RunEnsemble(ctx, runs)
		if err != nil {
			return err
		}
		fmt.Printf("completed in %v\n", time.Since(start))
		fmt.Println("\nmean metrics:")
		printMetrics(sim.MeanMetrics(results))
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var rec *store.Recorder
	var framesTmp string
	if record {
		framesTmp = filepath.Join(dataDir, fmt.Sprintf(".frames_%d.tmp", time.Now().UnixNano()))
		rec, err = store.CreateRecorder(framesTmp)
		if err != nil {
			return err
		}
		defer os.Remove(framesTmp)
		exp.Simulator().AddObserver(sampledObserver{every: recordEvery, next: rec})
	}

	fmt.Printf("running %d particles for %d ticks...\n", cfg.Population.Target, cfg.Run.Ticks)
	start := time.Now()
	result, err := exp.Run(ctx)
	if rec != nil {
		if cerr := rec.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runName, cfg.Run.Integrator, cfg.Params(), result)
	if err != nil {
		return err
	}
	if rec != nil {
		if err := os.Rename(framesTmp, filepath.Join(st.Dir(runID), storage.FramesFile)); err != nil {
			return err
		}
	}

	last := result.Stats[len(result.Stats)-1]
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("particles: %d\n", last.Count)
	if rec != nil {
		fmt.Printf("frames: %d\n", rec.Frames())
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func populatedSimulator(cmd *cobra.Command) (*sim.Simulator, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return nil, err
	}
	s := exp.Simulator()
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := populatedSimulator(cmd)
	if err != nil {
		return err
	}
	if gifPath != "" {
		viz.GIFPath = gifPath
	}
	return viz.Run(s)
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, err := populatedSimulator(cmd)
	if err != nil {
		return err
	}
	return gui.Run(s)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tDT\tINTEG\tTARGET\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Dt,
			run.Integrator,
			run.Params.TargetCount,
			run.Seed,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []namedSeries, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(stats) == 0 {
		return nil, nil, fmt.Errorf("no data")
	}

	out := make([]namedSeries, 0, len(seriesNames))
	for _, name := range seriesNames {
		data, err := sim.Series(stats, name)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, namedSeries{name, data})
	}
	return meta, out, nil
}

type namedSeries struct {
	name string
	data []float64
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrator: %s\n", meta.Integrator)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.name+" vs tick"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stats, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	w.Write(append([]string{"tick"}, sim.SeriesNames...))
	for _, s := range stats {
		row := []string{strconv.Itoa(s.Tick)}
		for _, name := range sim.SeriesNames {
			v, err := sim.Field(s, name)
			if err != nil {
				return err
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		w.Write(row)
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	stats, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	data := store.ExportData{
		Name:       meta.Name,
		Integrator: meta.Integrator,
		Seed:       meta.Seed,
		Dt:         meta.Dt,
		Ticks:      meta.Ticks,
		Params:     meta.Params,
		Stats:      stats,
		Metrics:    meta.Metrics,
	}
	if outPath == "" {
		return store.ExportJSONStdout(data)
	}
	if err := store.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)
	for _, s := range series {
		sum := analysis.Summarize(s.data)
		fmt.Printf("%s\n", s.name)
		fmt.Printf("  mean %.4g  std %.4g  min %.4g  max %.4g  change %+.4g\n",
			sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.Change)

		ps := analysis.PowerSpectrum(s.data)
		if len(ps) > 2 {
			plotData := ps[1:]
			if len(plotData) > 80 {
				plotData = plotData[:80]
			}
			graph := asciigraph.Plot(plotData,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+s.name+")"),
			)
			fmt.Println(graph)
		}

		if period := analysis.DominantPeriod(s.data); period > 0 {
			fmt.Printf("  dominant period: %.1f ticks (%.3f s)\n", period, period*meta.Dt)
		} else {
			fmt.Println("  no dominant period")
		}
		fmt.Println()
	}
	return nil
}

func benchTicks(cmd *cobra.Command, args []string) error {
	counts := []int{1000, 5000, 20000}
	workerSets := []int{1, runtime.GOMAXPROCS(0)}
	const tickCount = 60

	fmt.Printf("benchmarking %d ticks\n\n", tickCount)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tTIME\tTICKS/SEC\tPARTICLE-TICKS/SEC")

	for _, n := range counts {
		for _, wk := range workerSets {
			cfg := config.DefaultConfig()
			cfg.Population.Target = n
			cfg.Population.Replenish = true
			cfg.Run.Workers = wk
			cfg.Run.Ticks = tickCount
			cfg.Run.Metrics = []string{"collision_rate"}

			exp, err := setupExperiment(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			particleTicks := 0
			for _, s := range result.Stats {
				particleTicks += s.Count
			}
			fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.0f\n",
				n, wk, elapsed.Round(time.Millisecond),
				float64(result.TicksTaken)/elapsed.Seconds(),
				float64(particleTicks)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("sweep needs at least one --param")
	}
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, vals, err := parseSweep(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	if !slices.Contains(base.Run.Metrics, sweepMetric) {
		base.Run.Metrics = append(base.Run.Metrics, sweepMetric)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	best, val, err := g.Search(ctx, func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.Set(k, v); err != nil {
				return nil, err
			}
		}
		return setupExperiment(cfg)
	}, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t")+"\t"+strings.ToUpper(sweepMetric))
	for _, t := range g.Trials() {
		cols := make([]string, 0, len(names)+1)
		for _, n := range names {
			cols = append(cols, strconv.FormatFloat(t.Params[n], 'g', 6, 64))
		}
		if t.Err != nil {
			cols = append(cols, "error: "+t.Err.Error())
		} else {
			cols = append(cols, strconv.FormatFloat(t.Value, 'g', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("no grid point ran successfully")
	}
	fmt.Printf("\nbest %s = %.6g at %v\n", sweepMetric, val, best)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	name, raw, ok := strings.Cut(scanParam, "=")
	parts := strings.Split(raw, ":")
	if !ok || len(parts) != 3 {
		return fmt.Errorf("--param wants name=lo:hi:n, got %q", scanParam)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("--param: bad range %q", raw)
	}

	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      base,
		ParamName: strings.TrimSpace(name),
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  n,
	}, experiment.NewRegistry(), os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tABSORBED\tESCAPED\tSPAWNED\tCOLLISIONS\n", strings.ToUpper(name))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%d\t%d\t%d\t%d\n", r.ParamValue, r.FinalCount, r.Absorbed, r.Escaped, r.Spawned, r.Collisions)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Description != "" {
		fmt.Printf("%s: %s\n", sc.Name, sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tTICKS\tFINAL\tRUN ID")
	for i, r := range results {
		final := 0
		if n := len(r.Result.Stats); n > 0 {
			final = r.Result.Stats[n-1].Count
		}
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", i+1, r.Result.TicksTaken, final, id)
	}
	return w.Flush()
}

func renderFrame(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := store.ReadFrames(filepath.Join(st.Dir(args[0]), storage.FramesFile))
	if err != nil {
		return fmt.Errorf("no recorded frames (run with --record): %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("no recorded frames")
	}

	idx := frameIndex
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIndex, len(frames))
	}
	snap := frames[idx]

	cam := viz.NewCamera()
	cam.RotateX(-0.4)
	cam.Fit(snapshotExtent(snap))

	var out string
	switch style {
	case "svg":
		out = export.SnapshotToSVG(snap, cam, width, height)
	case "braille", "text":
		cols, rows := width, height
		if !cmd.Flags().Changed("width") {
			cols = 80
		}
		if !cmd.Flags().Changed("height") {
			rows = 24
		}
		canvas := viz.NewCanvas(cols, rows)
		viz.RenderSnapshot(canvas, snap, cam)
		if style == "text" {
			out = canvas.Render()
		} else {
			out = export.CanvasToSVG(canvas, 4)
		}
	default:
		return fmt.Errorf("unknown style: %s", style)
	}

	if outPath == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return err
	}
	fmt.Printf("frame %d (tick %d, %d particles) written to %s\n", idx, snap.Tick, len(snap.Instances), outPath)
	return nil
}
