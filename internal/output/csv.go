package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// CSVWriter writes a header line and then one comma-separated line per row.
type CSVWriter struct {
	w      *csv.Writer
	schema *schema.Schema
	record []string
}

// NewCSV writes the header to w and returns the writer.
func NewCSV(w io.Writer, s *schema.Schema) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Header()); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	return &CSVWriter{w: cw, schema: s, record: make([]string, len(s.Columns))}, nil
}

// WriteRow writes one line. Absent cells are empty fields.
func (c *CSVWriter) WriteRow(row schema.Row) error {
	if err := c.schema.Validate(row); err != nil {
		return err
	}
	for i, v := range row {
		c.record[i] = v.String()
	}
	return c.w.Write(c.record)
}

// Close flushes buffered lines.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}
