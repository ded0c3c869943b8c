package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RaceConverted(16)
	m.RaceConverted(2)
	m.RaceSkipped()
	m.RowsWritten(18)
	m.MalformedValue("odds")
	m.MalformedValue("odds")
	m.MalformedValue("prise")
	m.PageFetched("race", 120*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"races", testutil.ToFloat64(m.racesTotal), 2},
		{"horses", testutil.ToFloat64(m.horsesTotal), 18},
		{"skipped", testutil.ToFloat64(m.racesSkipped), 1},
		{"rows", testutil.ToFloat64(m.rowsWritten), 18},
		{"malformed odds", testutil.ToFloat64(m.malformedValues.WithLabelValues("odds")), 2},
		{"malformed prise", testutil.ToFloat64(m.malformedValues.WithLabelValues("prise")), 1},
		{"race pages", testutil.ToFloat64(m.pagesFetched.WithLabelValues("race")), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	m.RaceConverted(1)
	m.RaceSkipped()
	m.RowsWritten(1)
	m.MalformedValue("odds")
	m.PageFetched("day", time.Second)

	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil = %v, want nil", err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.RaceConverted(3)

	path := filepath.Join(t.TempDir(), "keiba.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	if !strings.Contains(string(data), "keiba_races_total 1") {
		t.Errorf("textfile missing races counter:\n%s", data)
	}
	if !strings.Contains(string(data), "keiba_horses_total 3") {
		t.Errorf("textfile missing horses counter:\n%s", data)
	}
}
