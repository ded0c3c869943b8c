package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("test", []schema.Column{
		{Name: "race_id", Kind: schema.Int},
		{Name: "is_Jan", Kind: schema.Flag},
		{Name: "odds", Kind: schema.Float},
		{Name: "name", Kind: schema.String},
	})
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return s
}

func testRows() []schema.Row {
	id0, id1 := 0, 1
	odds := 2.4
	name := "ギベオン, 2着"
	return []schema.Row{
		{schema.IntValue(&id0), schema.FlagValue(1), schema.FloatValue(&odds), schema.StringValue(&name)},
		{schema.IntValue(&id1), schema.FlagValue(0), schema.FloatValue(nil), schema.StringValue(nil)},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" parquet ", FormatParquet, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatCSV, &buf, testSchema(t), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, row := range testRows() {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "race_id,is_Jan,odds,name\n" +
		"0,1,2.4,\"ギベオン, 2着\"\n" +
		"1,0,,\n"
	if got := buf.String(); got != want {
		t.Errorf("csv =\n%q\nwant\n%q", got, want)
	}
}

func TestCSVWriter_RejectsWrongShape(t *testing.T) {
	w, err := NewCSV(&bytes.Buffer{}, testSchema(t))
	if err != nil {
		t.Fatalf("NewCSV() error = %v", err)
	}
	if err := w.WriteRow(schema.Row{schema.FlagValue(1)}); err == nil {
		t.Error("WriteRow() expected error for short row")
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatJSON, &buf, testSchema(t), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, row := range testRows() {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `{"race_id":0,"is_Jan":1,"odds":2.4,"name":"ギベオン, 2着"}`) {
		t.Errorf("first object not in column order:\n%s", out)
	}
	if !strings.Contains(out, `{"race_id":1,"is_Jan":0,"odds":null,"name":null}`) {
		t.Errorf("absent cells should be null:\n%s", out)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded %d objects, want 2", len(decoded))
	}
}

func TestWriters_NonFiniteFloat(t *testing.T) {
	id := 0
	nan := math.NaN()
	inf := math.Inf(1)
	name := "ジュンヴァルロ"
	row := schema.Row{schema.IntValue(&id), schema.FlagValue(1), schema.FloatValue(&nan), schema.StringValue(&name)}
	infRow := schema.Row{schema.IntValue(&id), schema.FlagValue(0), schema.FloatValue(&inf), schema.StringValue(nil)}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := New(format, &buf, testSchema(t), Options{})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			for _, r := range []schema.Row{row, infRow} {
				if err := w.WriteRow(r); err != nil {
					t.Fatalf("WriteRow() error = %v", err)
				}
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if format != FormatJSON {
				return
			}
			var decoded []map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
			}
			if len(decoded) != 2 {
				t.Fatalf("decoded %d objects, want 2", len(decoded))
			}
			for i, obj := range decoded {
				if obj["odds"] != nil {
					t.Errorf("row %d odds = %v, want null", i, obj["odds"])
				}
			}
		})
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewJSON(&buf, testSchema(t))
	if err != nil {
		t.Fatalf("NewJSON() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("empty output = %q, want []", got)
	}
}

func TestParquetSchema(t *testing.T) {
	js, fields, err := parquetSchema(testSchema(t))
	if err != nil {
		t.Fatalf("parquetSchema() error = %v", err)
	}

	if len(fields) != 4 || fields[3] != "Col3" {
		t.Errorf("fields = %v", fields)
	}

	for _, want := range []string{
		"name=race_id, inname=Col0, type=INT64, repetitiontype=OPTIONAL",
		"name=is_Jan, inname=Col1, type=INT32, repetitiontype=OPTIONAL",
		"name=odds, inname=Col2, type=DOUBLE, repetitiontype=OPTIONAL",
		"name=name, inname=Col3, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL",
	} {
		if !strings.Contains(js, want) {
			t.Errorf("schema missing %q:\n%s", want, js)
		}
	}
}

func TestParquetCodec(t *testing.T) {
	for _, name := range []string{"", "snappy", "GZIP", "none"} {
		if _, err := parquetCodec(name); err != nil {
			t.Errorf("parquetCodec(%q) error = %v", name, err)
		}
	}
	if _, err := parquetCodec("lz4"); err == nil {
		t.Error("parquetCodec(lz4) expected error")
	}
}

func TestParquetWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatParquet, &buf, testSchema(t), Options{Compression: "none"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, row := range testRows() {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	b := buf.Bytes()
	if len(b) < 8 || string(b[:4]) != "PAR1" || string(b[len(b)-4:]) != "PAR1" {
		t.Errorf("output is not a parquet file (%d bytes)", len(b))
	}
	if !bytes.Contains(b, []byte("is_Jan")) {
		t.Error("parquet footer should carry the column names")
	}
}
