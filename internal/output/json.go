package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// JSONWriter writes a JSON array with one object per row. Keys follow the column
// order; absent cells are null.
type JSONWriter struct {
	w      *bufio.Writer
	obj    bytes.Buffer
	schema *schema.Schema
	keys   [][]byte
	rows   int
}

// NewJSON returns a JSONWriter over w.
func NewJSON(w io.Writer, s *schema.Schema) (*JSONWriter, error) {
	keys := make([][]byte, len(s.Columns))
	for i, c := range s.Columns {
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("["); err != nil {
		return nil, err
	}
	return &JSONWriter{w: bw, schema: s, keys: keys}, nil
}

// WriteRow appends one object to the array. The object is built in full before any
// of it reaches the destination.
func (j *JSONWriter) WriteRow(row schema.Row) error {
	if err := j.schema.Validate(row); err != nil {
		return err
	}

	j.obj.Reset()
	j.obj.WriteByte('{')
	for i, v := range row {
		if i > 0 {
			j.obj.WriteByte(',')
		}
		j.obj.Write(j.keys[i])
		j.obj.WriteByte(':')

		b, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Errorf("column %q: %w", j.schema.Columns[i].Name, err)
		}
		j.obj.Write(b)
	}
	j.obj.WriteByte('}')

	sep := ",\n"
	if j.rows == 0 {
		sep = "\n"
	}
	if _, err := j.w.WriteString(sep); err != nil {
		return err
	}
	if _, err := j.w.Write(j.obj.Bytes()); err != nil {
		return err
	}
	j.rows++
	return nil
}

// Close terminates the array and flushes.
func (j *JSONWriter) Close() error {
	if j.rows > 0 {
		j.w.WriteString("\n")
	}
	if _, err := j.w.WriteString("]\n"); err != nil {
		return err
	}
	return j.w.Flush()
}
