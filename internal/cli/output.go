package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/keiba-flat/internal/convert"
)

// SummaryFormat specifies how a run summary is printed
type SummaryFormat string

const (
	SummaryText SummaryFormat = "text"
	SummaryJSON SummaryFormat = "json"
	SummaryNone SummaryFormat = "none"
)

// ParseSummaryFormat validates a --summary value.
func ParseSummaryFormat(s string) (SummaryFormat, error) {
	f := SummaryFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case SummaryText, SummaryJSON, SummaryNone:
		return f, nil
	default:
		return "", fmt.Errorf("invalid summary format: %s (must be 'text', 'json' or 'none')", s)
	}
}

// RunResult describes a finished conversion or crawl.
type RunResult struct {
	FinishedAt   time.Time       `json:"finished_at"`
	Input        string          `json:"input,omitempty"`
	Output       string          `json:"output"`
	Format       string          `json:"format,omitempty"`
	Schema       string          `json:"schema,omitempty"`
	Summary      convert.Summary `json:"summary"`
	PostgresRows int64           `json:"postgres_rows,omitempty"`
	S3Key        string          `json:"s3_key,omitempty"`
}

// WriteSummary writes the result in the specified format
func WriteSummary(w io.Writer, result *RunResult, format SummaryFormat) error {
	switch format {
	case SummaryJSON:
		return writeJSON(w, result)
	case SummaryText:
		return writeText(w, result)
	case SummaryNone:
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *RunResult) error {
	s := result.Summary

	if result.Input != "" {
		fmt.Fprintf(w, "Read %s\n", result.Input)
	}
	fmt.Fprintf(w, "Races: %d converted, %d skipped\n", s.Races, s.Skipped)
	if result.Format != "" {
		fmt.Fprintf(w, "Rows:  %d written to %s (%s, schema %s)\n", s.Rows, result.Output, result.Format, result.Schema)
	} else {
		fmt.Fprintf(w, "Saved to %s\n", result.Output)
	}
	if s.Malformed > 0 {
		fmt.Fprintf(w, "Malformed values left empty: %d\n", s.Malformed)
	}
	if result.PostgresRows > 0 {
		fmt.Fprintf(w, "Postgres: %d rows loaded\n", result.PostgresRows)
	}
	if result.S3Key != "" {
		fmt.Fprintf(w, "S3: %s\n", result.S3Key)
	}
	return nil
}
