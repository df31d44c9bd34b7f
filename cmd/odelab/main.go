package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/export"
	"github.com/san-kum/odelab/internal/store"
	"github.com/san-kum/odelab/internal/viz"
)

var (
	envFile  string
	logLevel string
	workers  int
	logger   = slog.Default()
)

// runFlags are the flags of the run command.
type runFlags struct {
	configFile string
	writeCfg   string
	preset     string
	params     []string
	dt         float64
	tmax       float64
	integrator string
	asJSON     bool
	jsonFile   string
	csv        string
	plain      bool
	ascii      bool
	svg        string
}

var rf runFlags

func main() {
	rootCmd := &cobra.Command{
		Use:           "odelab",
		Short:         "ordinary differential equation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg := config.DefaultConfig()
			cfg.ApplyEnv()
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			setupLogger(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded at start")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "goroutines for scans and ensembles (0 = GOMAXPROCS)")

	runCmd := &cobra.Command{
		Use:   "run [exercise]",
		Short: "run an exercise",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExercise,
	}
	runCmd.Flags().StringVar(&rf.configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&rf.writeCfg, "write-config", "", "save the resolved settings as a yaml run file")
	runCmd.Flags().StringVar(&rf.preset, "preset", "", "use a named preset")
	runCmd.Flags().StringArrayVarP(&rf.params, "param", "p", nil, "parameter override name=value (repeatable)")
	runCmd.Flags().Float64Var(&rf.dt, "dt", 0, "timestep (0 = exercise default)")
	runCmd.Flags().Float64Var(&rf.tmax, "time", 0, "final time (0 = exercise default)")
	runCmd.Flags().StringVar(&rf.integrator, "integrator", "", "euler, rk4 or symplectic")
	runCmd.Flags().BoolVar(&rf.asJSON, "json", false, "print the result as JSON")
	runCmd.Flags().StringVar(&rf.jsonFile, "json-file", "", "write the result as JSON to a file")
	runCmd.Flags().StringVar(&rf.csv, "csv", "", "write the trajectory as CSV")
	runCmd.Flags().BoolVar(&rf.plain, "plain", false, "skip plots")
	runCmd.Flags().BoolVar(&rf.ascii, "ascii", false, "draw the phase portrait without braille")
	runCmd.Flags().StringVar(&rf.svg, "svg", "", "write the phase portrait or bifurcation diagram as SVG")

	rootCmd.AddCommand(runCmd, listCmd(), plotCmd(), presetsCmd(), classifyCmd(), bifurcateCmd(), driftCmd(), batchCmd(), sweepCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.Warning.Render("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
}

func registry() *experiment.Registry {
	return experiment.NewRegistry().WithLogger(logger).WithWorkers(workers)
}

func runExercise(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args, rf, cmd.Flags().Changed)
	if err != nil {
		return err
	}
	if cfg.LogLevel != config.DefaultLogLevel && !cmd.Flags().Changed("log-level") {
		setupLogger(cfg)
	}
	if rf.writeCfg != "" {
		if err := config.Save(rf.writeCfg, cfg); err != nil {
			return err
		}
		logger.Info("config written", "path", rf.writeCfg)
	}

	in := experiment.Input{
		Params:     dynamo.Params(cfg.Params),
		Dt:         cfg.Dt,
		TMax:       cfg.TMax,
		Integrator: cfg.Integrator,
	}

	res, runErr := registry().Run(cmd.Context(), cfg.Exercise, in)
	if res == nil {
		return runErr
	}

	if rf.csv != "" && res.Trajectory != nil {
		if err := store.ExportCSV(rf.csv, res.Trajectory); err != nil {
			return err
		}
		logger.Info("csv written", "path", rf.csv, "samples", res.Trajectory.Len())
	}

	if rf.jsonFile != "" {
		if err := store.ExportJSON(rf.jsonFile, res); err != nil {
			return err
		}
		logger.Info("json written", "path", rf.jsonFile)
	}

	if rf.svg != "" {
		if err := export.WriteSVG(rf.svg, res, 640, 480); err != nil {
			return err
		}
		logger.Info("svg written", "path", rf.svg)
	}

	if rf.asJSON {
		if err := store.WriteJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		opts := viz.DefaultOptions()
		opts.Plain = rf.plain
		opts.ASCII = rf.ascii
		if err := viz.Render(cmd.OutOrStdout(), res, opts); err != nil {
			return err
		}
	}

	if dynamo.Partial(runErr) {
		return fmt.Errorf("partial result: %w", runErr)
	}
	return runErr
}

// resolveConfig layers the run settings: preset, then config file, then
// ODELAB_* variables, then explicit flags.
func resolveConfig(args []string, f runFlags, changed func(string) bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Exercise = ""

	var file *config.Config
	if f.configFile != "" {
		var err error
		file, err = config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		// Load fills a missing exercise key with the default.
		cfg.Exercise = file.Exercise
	}
	if len(args) > 0 {
		cfg.Exercise = args[0]
	}
	if cfg.Exercise == "" {
		cfg.Exercise = config.DefaultExercise
	}

	if f.preset != "" {
		p := config.GetPreset(cfg.Exercise, f.preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset: %s (available: %v)",
				dynamo.ErrInvalidConfiguration, f.preset, config.ListPresets(cfg.Exercise))
		}
		cfg.ApplyPreset(p)
	}

	if file != nil {
		for k, v := range file.Params {
			cfg.SetParam(k, v)
		}
		if file.Dt != 0 {
			cfg.Dt = file.Dt
		}
		if file.TMax != 0 {
			cfg.TMax = file.TMax
		}
		if file.Integrator != "" {
			cfg.Integrator = file.Integrator
		}
		cfg.LogLevel = file.LogLevel
	}

	cfg.ApplyEnv()

	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.TMax = f.tmax
	}
	if changed("integrator") {
		cfg.Integrator = f.integrator
	}
	overrides, err := parseParams(f.params)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		cfg.SetParam(k, v)
	}
	return cfg, nil
}

func parseParams(kvs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: parameter %q is not name=value", dynamo.ErrInvalidConfiguration, kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %s: %v", dynamo.ErrInvalidConfiguration, name, err)
		}
		out[name] = v
	}
	return out, nil
}
