package convert

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/metrics"
	"github.com/pfrederiksen/keiba-flat/internal/parse"
	"github.com/pfrederiksen/keiba-flat/internal/race"
	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// Rows emits one row per horse record, each prefixed with the race columns of ctx.
func Rows(ctx RaceContext, records []HorseRecord) []schema.Row {
	prefix := raceValues(&ctx)
	rows := make([]schema.Row, 0, len(records))
	for i := range records {
		row := make(schema.Row, 0, len(Schema.Columns))
		row = append(row, prefix...)
		row = append(row, horseValues(&records[i])...)
		rows = append(rows, row)
	}
	return rows
}

// Assemble flattens the race at position index into rows. The returned errors are
// the per-field coercion failures; the affected cells are absent in the rows.
func Assemble(index int, rr race.RawRace) ([]schema.Row, []error) {
	ctx, records, errs := parseAll(index, rr)
	return Rows(ctx, records), errs
}

func parseAll(index int, rr race.RawRace) (RaceContext, []HorseRecord, []error) {
	ctx := ParseRace(index, rr)

	records := make([]HorseRecord, 0, len(rr.Horses))
	var errs []error
	for _, h := range rr.Horses {
		rec, herrs := ParseHorse(h)
		records = append(records, rec)
		errs = append(errs, herrs...)
	}
	return ctx, records, errs
}

// RowWriter receives rows in input order.
type RowWriter interface {
	WriteRow(row schema.Row) error
}

// Summary counts what a conversion run did.
type Summary struct {
	Races     int
	Skipped   int
	Rows      int
	Malformed int
}

// Converter runs Assemble over a race sequence, logging and counting degraded values
// and skipped races.
type Converter struct {
	log     *logger.Logger
	metrics *metrics.Metrics
	summary Summary
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger; the package default is used otherwise.
func WithLogger(l *logger.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithMetrics sets the metrics sink. Nil disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Converter) { c.metrics = m }
}

// NewConverter creates a Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{log: logger.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Skip records a race that could not be read.
func (c *Converter) Skip(m *race.StructuralMismatch) {
	c.summary.Skipped++
	c.metrics.RaceSkipped()

	fields := logger.Fields{"race_id": m.Index}
	if m.Horse >= 0 {
		fields["horse"] = m.Horse
		fields["missing"] = m.Missing
	}
	if m.Err != nil {
		fields["error"] = m.Err.Error()
	}
	c.log.Warn("skipping race", fields)
}

// Convert writes the rows of every race to w. A write error stops the run.
func (c *Converter) Convert(races []race.Indexed, w RowWriter) error {
	for _, ir := range races {
		ctx, records, errs := parseAll(ir.Index, ir.Race)
		rows := Rows(ctx, records)

		for _, err := range errs {
			c.malformed(ir.Index, err)
		}
		for i := range records {
			c.withheld(ir.Index, i, records[i].Finish)
		}

		for _, row := range rows {
			if err := w.WriteRow(row); err != nil {
				return fmt.Errorf("writing race %d: %w", ir.Index, err)
			}
		}

		c.summary.Races++
		c.summary.Rows += len(rows)
		c.metrics.RaceConverted(len(rows))
		c.metrics.RowsWritten(len(rows))
	}
	return nil
}

func (c *Converter) malformed(index int, err error) {
	c.summary.Malformed++

	column := "unknown"
	var fe *FieldError
	if errors.As(err, &fe) {
		column = fe.Column
	}
	c.metrics.MalformedValue(column)

	fields := logger.Fields{"race_id": index, "column": column}
	var mv *parse.MalformedValue
	if errors.As(err, &mv) {
		fields["text"] = mv.Text
	}
	c.log.Warn("malformed value", fields)
}

// withheld logs horses whose order column is empty because they did not finish.
func (c *Converter) withheld(index, horse int, f parse.Finish) {
	switch f {
	case parse.Scratched, parse.Stopped, parse.Excluded:
		c.log.Debug("order withheld", logger.Fields{
			"race_id": index,
			"horse":   horse,
			"finish":  f.String(),
		})
	}
}

// Summary returns the counts accumulated so far.
func (c *Converter) Summary() Summary {
	return c.summary
}
