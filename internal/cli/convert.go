package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/keiba-flat/internal/convert"
	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/output"
	"github.com/pfrederiksen/keiba-flat/internal/race"
	"github.com/pfrederiksen/keiba-flat/internal/schema"
	"github.com/pfrederiksen/keiba-flat/internal/storage"
)

// Stdio stands for stdin or stdout in file flags.
const Stdio = "-"

type convertOptions struct {
	input       string
	output      string
	format      string
	compression string
	postgresURL string
	table       string
	s3Bucket    string
	s3Prefix    string
	metricsFile string
	summary     string
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a race file into a flat table",
		Long: `Convert reads a JSON array of scraped races and writes one row per horse per race.
Races whose records are malformed are skipped and logged; values that cannot be read
are left empty and logged. The race_id column is the race's position in the input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.apply(cmd, a)
			return runConvert(cmd.Context(), a, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", storage.DefaultRacesFile, "Race file, relative to the data directory, or - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", Stdio, "Table file, or - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: csv, json or parquet (default from config)")
	cmd.Flags().StringVar(&opts.compression, "compression", "", "Parquet compression: snappy, gzip or none")
	cmd.Flags().StringVar(&opts.postgresURL, "postgres-url", "", "Also load rows into this Postgres database")
	cmd.Flags().StringVar(&opts.table, "table", "", "Postgres table name")
	cmd.Flags().StringVar(&opts.s3Bucket, "s3-bucket", "", "Upload the table file to this S3 bucket")
	cmd.Flags().StringVar(&opts.s3Prefix, "s3-prefix", "", "Key prefix for the S3 upload")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.summary, "summary", string(SummaryText), "Run summary on stderr: text, json or none")

	return cmd
}

// apply copies flags that were set on the command line into the config.
func (o *convertOptions) apply(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		a.cfg.Output.Format = o.format
	}
	if flags.Changed("compression") {
		a.cfg.Output.Compression = o.compression
	}
	if flags.Changed("postgres-url") {
		a.cfg.Postgres.URL = o.postgresURL
	}
	if flags.Changed("table") {
		a.cfg.Postgres.Table = o.table
	}
	if flags.Changed("s3-bucket") {
		a.cfg.S3.Bucket = o.s3Bucket
	}
	if flags.Changed("s3-prefix") {
		a.cfg.S3.Prefix = o.s3Prefix
	}
	if flags.Changed("metrics-file") {
		a.cfg.MetricsFile = o.metricsFile
	}
}

func runConvert(ctx context.Context, a *app, opts *convertOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.writeMetrics()

	summaryFormat, err := ParseSummaryFormat(opts.summary)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	if a.cfg.S3.Bucket != "" && opts.output == Stdio {
		return fmt.Errorf("--s3-bucket needs a table file; set --output")
	}

	races, mismatches, err := readRaces(a, opts.input, stdin)
	if err != nil {
		return err
	}

	conv := convert.NewConverter(convert.WithLogger(a.log), convert.WithMetrics(a.metrics))
	for _, m := range mismatches {
		conv.Skip(m)
	}

	dst, closeDst, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer closeDst()

	table, err := output.New(format, dst, convert.Schema, output.Options{Compression: a.cfg.Output.Compression})
	if err != nil {
		return err
	}
	sinks := rowWriters{table}

	var loader *storage.PostgresLoader
	if a.cfg.Postgres.URL != "" {
		pool, err := storage.OpenPostgres(ctx, a.cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		loader = storage.NewPostgresLoader(ctx, pool, a.cfg.Postgres.Table, convert.Schema)
		if err := loader.EnsureTable(); err != nil {
			return err
		}
		sinks = append(sinks, loader)
	}

	if err := conv.Convert(races, sinks); err != nil {
		return err
	}
	if err := sinks.Close(); err != nil {
		return err
	}
	if err := closeDst(); err != nil {
		return fmt.Errorf("closing %s: %w", opts.output, err)
	}

	result := &RunResult{
		FinishedAt: time.Now().UTC(),
		Input:      opts.input,
		Output:     opts.output,
		Format:     string(format),
		Schema:     convert.Schema.Version,
		Summary:    conv.Summary(),
	}
	if loader != nil {
		result.PostgresRows = loader.Loaded()
	}

	if a.cfg.S3.Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, a.cfg.StorageS3Config())
		if err != nil {
			return err
		}
		key, err := uploader.UploadFile(ctx, opts.output, format.ContentType(), convert.Schema.Version)
		if err != nil {
			return err
		}
		result.S3Key = key
	}

	a.log.Info("conversion finished", logger.Fields{
		"races":     result.Summary.Races,
		"skipped":   result.Summary.Skipped,
		"rows":      result.Summary.Rows,
		"malformed": result.Summary.Malformed,
	})

	return WriteSummary(stderr, result, summaryFormat)
}

func readRaces(a *app, input string, stdin io.Reader) ([]race.Indexed, []*race.StructuralMismatch, error) {
	if input == Stdio {
		return race.Decode(stdin)
	}

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store.LoadRaces(input)
}

// openOutput returns the destination and an idempotent close function.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == Stdio {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}

	closed := false
	return f, func() error {
		if closed {
			return nil
		}
		closed = true
		return f.Close()
	}, nil
}

// rowWriters fans rows out to several sinks.
type rowWriters []output.Writer

func (ws rowWriters) WriteRow(row schema.Row) error {
	for _, w := range ws {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (ws rowWriters) Close() error {
	for _, w := range ws {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
