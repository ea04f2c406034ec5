package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/grfm/internal/analysis"
	"github.com/san-kum/grfm/internal/config"
	"github.com/san-kum/grfm/internal/export"
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/metrics"
	"github.com/san-kum/grfm/internal/pipeline"
	"github.com/san-kum/grfm/internal/storage"
	"github.com/san-kum/grfm/internal/trial"
	"github.com/san-kum/grfm/internal/viz"
	"github.com/spf13/cobra"
)

// newRunner builds a model and a runner with the standard metrics.
func newRunner(cfg *config.Config) (*pipeline.Runner, error) {
	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	var opts []pipeline.RunnerOption
	if skipInvalid {
		opts = append(opts, pipeline.WithSkipInvalid())
	}
	r, err := pipeline.New(model, cfg.EngineParameters(), nil, opts...)
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Standard(model.Weight()) {
		r.AddMetric(m)
	}
	return r, nil
}

func runMetadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Method:          cfg.Method,
		Model:           cfg.Model.Preset,
		Mass:            cfg.Model.Mass,
		Height:          cfg.Model.Height,
		DirectionWindow: cfg.DirectionWindow,
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runTrial(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr, err := trial.LoadFile(args[0])
	if err != nil {
		return err
	}
	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("estimating %s (%d frames, %s)...\n", tr.Name, tr.Len(), cfg.Method)
	start := time.Now()
	result, err := runner.Run(ctx, tr)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%.0f frames/s)\n", elapsed, float64(tr.Len())/elapsed.Seconds())
	if result.ReadyAt >= 0 {
		fmt.Printf("gait phases ready at %.3fs\n", result.ReadyAt)
	} else {
		fmt.Println("gait phases never became ready; all outputs are zero")
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("skipped frames: %d\n", len(result.Skipped))
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := trial.WriteOutputs(f, result.Outputs); err != nil {
			return err
		}
	}

	if !noSave {
		st := storage.New(dataDir)
		runID, err := st.Save(runMetadata(cfg), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	printMetrics(result.Metrics)
	return nil
}

func synthTrial(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr, err := trial.Synthesize(cfg.SynthOptions())
	if err != nil {
		return err
	}
	if err := trial.SaveFile(args[0], tr); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames (%.2fs at %.0f Hz) to %s\n", tr.Len(), tr.Duration(), tr.SampleRate(), args[0])
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	trials := make([]*trial.Trial, len(args))
	for i, path := range args {
		if trials[i], err = trial.LoadFile(path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batch := pipeline.NewBatch(func() (*pipeline.Runner, error) { return newRunner(cfg) }, cfg.Workers)
	start := time.Now()
	results, err := batch.Run(ctx, trials)
	if err != nil {
		return err
	}
	fmt.Printf("%d trials in %v\n\n", len(results), time.Since(start))

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tFRAMES\tREADY\tBW RATIO\tRUN ID")
	for _, res := range results {
		runID := "-"
		if !noSave {
			if runID, err = st.Save(runMetadata(cfg), res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.2fs\t%.3f\t%s\n",
			res.Trial, len(res.Outputs), res.ReadyAt, res.Metrics["body_weight_ratio"], runID)
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
	fmt.Fprintln(w, "ID\tTRIAL\tTIME\tMETHOD\tFRAMES\tMASS\tWINDOW")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1fkg\t%d\n",
			run.ID,
			run.Trial,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Method,
			run.Frames,
			run.Mass,
			run.DirectionWindow,
		)
	}
	return w.Flush()
}

// loadRun resolves "latest" and reads a stored run.
func loadRun(st *storage.Store, id string) (*storage.RunMetadata, []grfm.Output, error) {
	if id == "latest" {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		id = latest
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	outputs, err := st.LoadOutputs(id)
	if err != nil {
		return nil, nil, err
	}
	if len(outputs) == 0 {
		return nil, nil, fmt.Errorf("run %s has no outputs", id)
	}
	return meta, outputs, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, outputs, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("trial: %s\n", meta.Trial)
	fmt.Printf("samples: %d\n\n", len(outputs))

	graph := asciigraph.PlotMany(
		[][]float64{
			metrics.VerticalForces(outputs, gait.Right),
			metrics.VerticalForces(outputs, gait.Left),
		},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DeepSkyBlue, asciigraph.HotPink),
		asciigraph.Caption("vertical force [N], right (blue) and left (pink)"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(metrics.TotalVerticalForces(outputs),
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Precision(0),
		asciigraph.Caption("total vertical force [N]"),
	)
	fmt.Println(graph)
	return nil
}

func saveFigure(cmd *cobra.Command, args []string) error {
	meta, outputs, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	path := args[1]

	switch figureKind {
	case "top-view", "braille":
		if strings.ToLower(filepath.Ext(path)) != ".svg" {
			return fmt.Errorf("%s figures are written as svg", figureKind)
		}
		svg := export.CoPPathSVG(outputs, 800, 300)
		if figureKind == "braille" {
			svg = export.CanvasToSVG(viz.TopView(outputs, 120, 20), 4)
		}
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		fig, ok := export.Figures[figureKind]
		if !ok {
			return fmt.Errorf("unknown figure kind: %s", figureKind)
		}
		if err := fig.Save(path, meta.Trial, outputs); err != nil {
			return err
		}
	}

	fmt.Printf("saved %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, outputs, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("gait analysis: %s\n", meta.ID)
	fmt.Printf("trial: %s\n\n", meta.Trial)

	// only frames with a ready tracker carry load
	loaded := outputs
	for i, o := range outputs {
		if o.T >= meta.ReadyAt && meta.ReadyAt >= 0 {
			loaded = outputs[i:]
			break
		}
	}
	times := make([]float64, len(loaded))
	for i, o := range loaded {
		times[i] = o.T
	}

	total := metrics.TotalVerticalForces(loaded)
	if c, err := analysis.Cadence(times, total); err != nil {
		fmt.Printf("cadence: unavailable (%v)\n", err)
	} else {
		fmt.Printf("step frequency: %.3f hz\n", c.StepFrequency)
		fmt.Printf("cadence: %.1f steps/min\n", c.StepsPerMinute)
		if c.StrideTime > 0 {
			fmt.Printf("stride time: %.3f s\n", c.StrideTime)
		}
	}

	rate, err := analysis.SampleRate(times)
	if err == nil {
		freqs, power := analysis.PowerSpectrum(total, rate)
		// up to 6 Hz covers the first harmonics of walking
		n := len(freqs)
		for i, f := range freqs {
			if f > 6 {
				n = i
				break
			}
		}
		if n > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(power[1:n],
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum of total vertical force (0-6 hz)"),
			))
		}
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FOOT\tSTANCES\tMEAN STANCE\tPEAK FY\tMEAN FY")
	for _, leg := range []gait.Leg{gait.Right, gait.Left} {
		spans := analysis.Stances(loaded, leg)
		s := metrics.Summarize(loaded, leg)
		fmt.Fprintf(w, "%s\t%d\t%.3fs\t%.1fN\t%.1fN\n", leg, len(spans), analysis.MeanDuration(spans), s.Peak, s.Mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\npeak asymmetry: %.1f%%\n", 100*metrics.Summarize(loaded, gait.Right).Asymmetry)
	return nil
}

// output opens outPath, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func resolveID(st *storage.Store, id string) (string, error) {
	if id == "latest" {
		return st.Latest()
	}
	return id, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := resolveID(st, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return st.ExportCSV(w, id)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := resolveID(st, args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return st.ExportJSONFile(outPath, id)
	}
	return st.ExportJSON(os.Stdout, id)
}

func runLive(cmd *cobra.Command, args []string) error {
	meta, outputs, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	weight := meta.Mass * 9.80665
	return viz.RunReplay(meta.Trial, outputs, weight, theme)
}

func listMethods(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tALIASES")
	for _, m := range []grfm.Method{grfm.NewtonEuler, grfm.InverseDynamics} {
		fmt.Fprintf(w, "%s\t%s\n", m, strings.Join(grfm.MethodAliases(m), ", "))
	}
	return w.Flush()
}
