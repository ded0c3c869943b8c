package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/keiba-flat/internal/config"
	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/metrics"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries what the subcommands share once the root command has run.
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keiba",
		Short: "Flatten netkeiba race results into a machine-learning table",
		Long: `A CLI tool that crawls netkeiba race results and converts them into a flat table
with one row per horse per race, as CSV, JSON or Parquet.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default $KEIBA_CONFIG)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newConvertCmd(a),
		newScrapeCmd(a),
		newHeaderCmd(a),
		newDescribeCmd(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.Configure(logger.Options{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		MaxAge: cfg.Logging.MaxAge,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	logger.SetDefault(log)

	a.cfg = cfg
	a.log = log
	a.metrics = metrics.New()
	return nil
}

// writeMetrics dumps the run's counters when a metrics file is configured.
func (a *app) writeMetrics() {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.log.Error("writing metrics file", logger.Fields{"path": a.cfg.MetricsFile}, err)
	}
}

// close releases the log file, if the run opened one.
func (a *app) close() {
	if a.log == nil {
		return
	}
	logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr))
	if err := a.log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: closing log: %v\n", err)
	}
}

// Execute runs the CLI and returns the process exit code. An interrupt cancels the
// running command.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrInvalidConfig) {
			fmt.Fprintln(os.Stderr, "Run 'keiba --help' for usage.")
		}
		return ExitError
	}
	return ExitSuccess
}
