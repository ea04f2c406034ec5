package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/grfm/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	// engine
	method      string
	window      int
	skipInvalid bool
	noSave      bool
	outPath     string

	// subject
	mass   float64
	height float64

	// synth
	duration   float64
	rate       float64
	strideTime float64
	speed      float64
	heading    float64

	// batch
	workers int

	// output
	figureKind string
	theme      string
)

// main registers the commands and runs the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "grfm",
		Short:         "ground reaction force and moment estimation from kinematics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".grfm", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [trial.csv]",
		Short: "estimate reactions for a trial",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrial,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write outputs to this csv file")

	synthCmd := &cobra.Command{
		Use:   "synth [out.csv]",
		Short: "generate a walking trial",
		Args:  cobra.ExactArgs(1),
		RunE:  synthTrial,
	}
	addSubjectFlags(synthCmd)
	synthCmd.Flags().Float64Var(&duration, "time", 6, "duration [s]")
	synthCmd.Flags().Float64Var(&rate, "rate", 100, "sample rate [Hz]")
	synthCmd.Flags().Float64Var(&strideTime, "stride", 1.1, "stride time [s]")
	synthCmd.Flags().Float64Var(&speed, "speed", 1.3, "walking speed [m/s]")
	synthCmd.Flags().Float64Var(&heading, "heading", 0, "walking direction about the vertical [rad]")

	batchCmd := &cobra.Command{
		Use:   "batch [trial.csv...]",
		Short: "estimate reactions for many trials in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	addEngineFlags(batchCmd)
	batchCmd.Flags().IntVarP(&workers, "workers", "j", 0, "parallel trials (0 = one per cpu)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot vertical forces in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	figureCmd := &cobra.Command{
		Use:   "figure [run_id] [out.png|out.svg|out.pdf]",
		Short: "save a figure of a run",
		Args:  cobra.ExactArgs(2),
		RunE:  saveFigure,
	}
	figureCmd.Flags().StringVar(&figureKind, "kind", "vertical", "vertical, anterior, cop, top-view or braille")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "cadence and stance analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run outputs to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "default", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := config.DefaultModel
			if len(args) > 0 {
				model = args[0]
			}
			presets := config.ListPresets(model)
			if len(presets) == 0 {
				return fmt.Errorf("no presets for model: %s", model)
			}
			fmt.Printf("presets for %s:\n", model)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list total reaction methods",
		Args:  cobra.NoArgs,
		RunE:  listMethods,
	}

	rootCmd.AddCommand(runCmd, synthCmd, batchCmd, listCmd, plotCmd, figureCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd, methodsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSubjectFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", 75, "subject mass [kg]")
	cmd.Flags().Float64Var(&height, "height", 1.75, "subject height [m]")
}

func addEngineFlags(cmd *cobra.Command) {
	addSubjectFlags(cmd)
	cmd.Flags().StringVarP(&method, "method", "m", config.DefaultMethod, "total reaction method")
	cmd.Flags().IntVar(&window, "window", config.DefaultDirectionWindow, "heading estimate window [frames]")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "continue past frames the model rejects")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig resolves defaults, then the preset, then the config file, then
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(config.DefaultModel, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(config.DefaultModel))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("window") {
		cfg.DirectionWindow = window
	}
	if flags.Changed("mass") {
		cfg.Model.Mass = mass
	}
	if flags.Changed("height") {
		cfg.Model.Height = height
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("time") {
		cfg.Synth.Duration = duration
	}
	if flags.Changed("rate") {
		cfg.Synth.Rate = rate
	}
	if flags.Changed("stride") {
		cfg.Synth.StrideTime = strideTime
	}
	if flags.Changed("speed") {
		cfg.Synth.Speed = speed
	}
	if flags.Changed("heading") {
		cfg.Synth.Heading = heading
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
