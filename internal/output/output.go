package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatParquet}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want csv, json or parquet)", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type used when the output is uploaded.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Writer receives rows and flushes them on Close. Close does not close the
// underlying io.Writer.
type Writer interface {
	WriteRow(row schema.Row) error
	Close() error
}

// Options tune format-specific behaviour.
type Options struct {
	// Compression is the Parquet codec: snappy, gzip or none.
	Compression string
}

// New returns a Writer of the given format over w.
func New(format Format, w io.Writer, s *schema.Schema, opts Options) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSV(w, s)
	case FormatJSON:
		return NewJSON(w, s)
	case FormatParquet:
		return NewParquet(w, s, opts.Compression)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
