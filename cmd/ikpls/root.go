package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/ikpls/internal/config"
	"github.com/YuminosukeSato/ikpls/internal/dataset"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

const version = "v0.1.0"

// app carries the state shared by all subcommands.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string

	cfg    *config.Config
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ikpls",
		Short:         "Fit and apply IKPLS regression models",
		Long:          "ikpls fits Partial Least Squares regression models with the Improved Kernel PLS algorithms and predicts with any number of components.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags(), cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error); overrides the config file")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format (console|json); overrides the config file")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus fit metrics to this textfile")

	root.AddCommand(newFitCmd(a), newPredictCmd(a), newEvaluateCmd(a))
	return root
}

// setup loads the configuration, applies flag overrides and installs the logger.
func (a *app) setup(flags *pflag.FlagSet, cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := log.SetupLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.GetLoggerWithName("cli").With(log.OperationKey, cmd.Name())
	return nil
}

func (a *app) csvOptions() dataset.Options {
	return dataset.Options{Header: a.cfg.Data.Header, Comma: a.cfg.DelimiterRune()}
}
