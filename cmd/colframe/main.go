package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/logger"
	"github.com/colframe/colframe/pkg/metrics"
)

var version = "0.1.0"

// env is the state shared by every subcommand, set up before each run
type env struct {
	cfg       *config.Config
	log       *zap.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector
}

// GlobalFlags are the persistent flags of the root command
type GlobalFlags struct {
	ConfigFile   string
	LogLevel     string
	Seed         uint64
	Rows         int
	NaNPolicy    string
	PrintMetrics bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &GlobalFlags{}
	e := &env{}

	root := &cobra.Command{
		Use:   "colframe",
		Short: "colframe - in-memory columnar frames",
		Long: `colframe builds a frame of generated data and runs one transformation on it:
reindexing by a column, retyping a column, aligning period summaries or
selecting the top values of a column.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if flags.PrintMetrics && e.registry != nil {
				if err := writeMetrics(e.registry); err != nil {
					return err
				}
			}
			_ = logger.Sync()
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to a YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	root.PersistentFlags().Uint64Var(&flags.Seed, "seed", 0, "Seed of the generated data; 0 draws a fresh seed")
	root.PersistentFlags().IntVar(&flags.Rows, "rows", 0, "Number of generated rows")
	root.PersistentFlags().StringVar(&flags.NaNPolicy, "nan-policy", "", "Padding of short columns (pad, dont_pad)")
	root.PersistentFlags().BoolVar(&flags.PrintMetrics, "print-metrics", false, "Write collected metrics to stderr in Prometheus text format")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "colframe v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(e.cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	root.AddCommand(
		newGenerateCommand(e),
		newReindexCommand(e),
		newRetypeCommand(e),
		newAlignCommand(e),
		newTopKCommand(e),
		newDescribeCommand(e),
		newArrowCommand(e),
	)
	return root
}

// setup loads the configuration, applies flag overrides and creates the
// logger and metrics registry
func (e *env) setup(cmd *cobra.Command, flags *GlobalFlags) error {
	cfg := config.NewConfig()
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		cfg = loaded
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}
	if pf.Changed("seed") {
		cfg.RandGen.Seed = flags.Seed
	}
	if pf.Changed("rows") {
		cfg.RandGen.Rows = flags.Rows
	}
	if pf.Changed("nan-policy") {
		cfg.Frame.NaNPolicy = flags.NaNPolicy
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Encoding:    cfg.Logging.Encoding,
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), logger.CommandKey, cmd.Name())
	ctx = context.WithValue(ctx, logger.FrameKey, cfg.Name)
	cmd.SetContext(ctx)

	e.cfg = cfg
	e.log = logger.WithContext(ctx).With(zap.String("component", "colframe-cli"))
	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		e.collector = metrics.NewCollector(cfg.Metrics.Namespace, e.registry)
	}
	return nil
}

func writeMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
