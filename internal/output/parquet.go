package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// memFile is a write-only in-memory parquet sink.
type memFile struct {
	buffer *bytes.Buffer
}

func newMemFile() *memFile {
	return &memFile{buffer: &bytes.Buffer{}}
}

func (m *memFile) Create(string) (source.ParquetFile, error) { return m, nil }
func (m *memFile) Open(string) (source.ParquetFile, error)   { return m, nil }
func (m *memFile) Seek(int64, int) (int64, error)            { return int64(m.buffer.Len()), nil }
func (m *memFile) Read([]byte) (int, error)                  { return 0, fmt.Errorf("read not supported") }
func (m *memFile) Write(b []byte) (int, error)               { return m.buffer.Write(b) }
func (m *memFile) Close() error                              { return nil }

// ParquetWriter buffers the file in memory and copies it to the destination on Close,
// since the parquet footer is only known once all rows are in.
type ParquetWriter struct {
	dst    io.Writer
	mem    *memFile
	pw     *writer.JSONWriter
	schema *schema.Schema
	fields []string
}

// NewParquet returns a ParquetWriter over w. Every column is optional.
func NewParquet(w io.Writer, s *schema.Schema, compression string) (*ParquetWriter, error) {
	jsonSchema, fields, err := parquetSchema(s)
	if err != nil {
		return nil, err
	}

	mem := newMemFile()
	pw, err := writer.NewJSONWriter(jsonSchema, mem, 1)
	if err != nil {
		return nil, fmt.Errorf("new parquet writer: %w", err)
	}

	codec, err := parquetCodec(compression)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = codec

	return &ParquetWriter{dst: w, mem: mem, pw: pw, schema: s, fields: fields}, nil
}

func parquetCodec(name string) (parquet.CompressionCodec, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return parquet.CompressionCodec_SNAPPY, nil
	case "gzip":
		return parquet.CompressionCodec_GZIP, nil
	case "none", "uncompressed":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unknown parquet compression %q", name)
	}
}

type schemaNode struct {
	Tag    string
	Fields []schemaNode `json:",omitempty"`
}

// parquetSchema derives the JSON schema of s. Column names such as "is_Jan" are kept
// as the stored names; records are keyed by positional field names.
func parquetSchema(s *schema.Schema) (string, []string, error) {
	root := schemaNode{Tag: "name=keiba, repetitiontype=REQUIRED"}
	fields := make([]string, len(s.Columns))

	for i, c := range s.Columns {
		var typ string
		switch c.Kind {
		case schema.Flag:
			typ = "type=INT32"
		case schema.Int:
			typ = "type=INT64"
		case schema.Float:
			typ = "type=DOUBLE"
		case schema.String:
			typ = "type=BYTE_ARRAY, convertedtype=UTF8"
		default:
			return "", nil, fmt.Errorf("column %q: unsupported kind %s", c.Name, c.Kind)
		}

		fields[i] = fmt.Sprintf("Col%d", i)
		root.Fields = append(root.Fields, schemaNode{
			Tag: fmt.Sprintf("name=%s, inname=%s, %s, repetitiontype=OPTIONAL", c.Name, fields[i], typ),
		})
	}

	b, err := json.Marshal(root)
	if err != nil {
		return "", nil, err
	}
	return string(b), fields, nil
}

// WriteRow buffers one row. Absent cells are left out of the record and stored as null.
func (p *ParquetWriter) WriteRow(row schema.Row) error {
	if err := p.schema.Validate(row); err != nil {
		return err
	}

	rec := make(map[string]interface{}, len(row))
	for i, v := range row {
		if v.Valid() {
			rec[p.fields[i]] = v.Interface()
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := p.pw.Write(string(b)); err != nil {
		return fmt.Errorf("write parquet record: %w", err)
	}
	return nil
}

// Close finalizes the file and copies it to the destination.
func (p *ParquetWriter) Close() error {
	if err := p.pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet: %w", err)
	}
	_, err := io.Copy(p.dst, p.mem.buffer)
	return err
}
