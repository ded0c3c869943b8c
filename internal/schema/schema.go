// Package schema defines the fixed column layout of the flattened race table and the
// typed cells that fill it.
package schema

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the value type of a column.
type Kind int

const (
	Flag   Kind = iota // 0/1
	Int                // integer, may be absent
	Float              // float, may be absent
	String             // text, may be absent
)

func (k Kind) String() string {
	switch k {
	case Flag:
		return "flag"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is one named, typed column of the table.
type Column struct {
	Name string
	Kind Kind
}

// Value is one cell. The zero Value is absent.
type Value struct {
	kind  Kind
	valid bool
	i     int64
	f     float64
	s     string
}

// FlagValue returns a 0/1 cell.
func FlagValue(v int) Value {
	return Value{kind: Flag, valid: true, i: int64(v)}
}

// IntValue returns an integer cell, absent when p is nil.
func IntValue(p *int) Value {
	if p == nil {
		return Value{kind: Int}
	}
	return Value{kind: Int, valid: true, i: int64(*p)}
}

// FloatValue returns a float cell, absent when p is nil or not a finite number.
func FloatValue(p *float64) Value {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return Value{kind: Float}
	}
	return Value{kind: Float, valid: true, f: *p}
}

// StringValue returns a text cell, absent when p is nil.
func StringValue(p *string) Value {
	if p == nil {
		return Value{kind: String}
	}
	return Value{kind: String, valid: true, s: *p}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether the cell holds a value.
func (v Value) Valid() bool { return v.valid }

// Int returns the integer content of a Flag or Int cell.
func (v Value) Int() int64 { return v.i }

// Float returns the content of a Float cell.
func (v Value) Float() float64 { return v.f }

// Text returns the content of a String cell.
func (v Value) Text() string { return v.s }

// String renders the cell for text output. Absent cells render as "".
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case Flag, Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// Interface returns the cell as a plain Go value, nil when absent.
func (v Value) Interface() interface{} {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case Flag, Int:
		return v.i
	case Float:
		return v.f
	default:
		return v.s
	}
}

// Row is one output record, in schema column order.
type Row []Value

// Schema is an ordered, versioned list of columns.
type Schema struct {
	Version string
	Columns []Column
}

// New builds a schema and rejects duplicate column names.
func New(version string, columns []Column) (*Schema, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("schema %s: empty column name", version)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("schema %s: duplicate column %q", version, c.Name)
		}
		seen[c.Name] = true
	}
	return &Schema{Version: version, Columns: columns}, nil
}

// Header returns the column names in order.
func (s *Schema) Header() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s *Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that row has one cell per column and that each cell's kind
// matches its column.
func (s *Schema) Validate(row Row) error {
	if len(row) != len(s.Columns) {
		return fmt.Errorf("row has %d cells, schema %s has %d columns", len(row), s.Version, len(s.Columns))
	}
	for i, v := range row {
		if v.kind != s.Columns[i].Kind {
			return fmt.Errorf("column %q: got %s cell, want %s", s.Columns[i].Name, v.kind, s.Columns[i].Kind)
		}
	}
	return nil
}
