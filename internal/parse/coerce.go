package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedValue marks non-empty text that is not a valid number.
	ErrMalformedValue = errors.New("malformed value")

	errNotFinite = errors.New("not a finite number")
)

// MalformedValue records the text a coercer rejected.
type MalformedValue struct {
	Text string
	Kind string // "int" or "float"
	Err  error
}

func (e *MalformedValue) Error() string {
	return fmt.Sprintf("%v: %q is not a valid %s", ErrMalformedValue, e.Text, e.Kind)
}

func (e *MalformedValue) Unwrap() []error {
	return []error{ErrMalformedValue, e.Err}
}

// Int coerces text to an integer. Absent or empty text is absent with no error.
func Int(text *string) (*int, error) {
	s, ok := present(text)
	if !ok {
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &MalformedValue{Text: s, Kind: "int", Err: err}
	}
	return &n, nil
}

// Float coerces text to a float. Absent or empty text is absent with no error.
// NaN and infinities are malformed.
func Float(text *string) (*float64, error) {
	s, ok := present(text)
	if !ok {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &MalformedValue{Text: s, Kind: "float", Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &MalformedValue{Text: s, Kind: "float", Err: errNotFinite}
	}
	return &f, nil
}

// present trims text and reports whether anything is left.
func present(text *string) (string, bool) {
	if text == nil {
		return "", false
	}
	s := strings.TrimSpace(*text)
	return s, s != ""
}

func ptr[T any](v T) *T {
	return &v
}
