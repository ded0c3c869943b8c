package race

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrStructuralMismatch marks a race whose record does not have the expected shape.
var ErrStructuralMismatch = errors.New("structural mismatch")

// StructuralMismatch describes why the race at Index was skipped.
type StructuralMismatch struct {
	Index   int
	Horse   int      // row within the race, -1 when the race itself failed to decode
	Missing []string // horse keys absent from the row
	Err     error    // decode error, if any
}

func (e *StructuralMismatch) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("race %d: %v: %v", e.Index, ErrStructuralMismatch, e.Err)
	}
	return fmt.Sprintf("race %d horse %d: %v: missing keys %s",
		e.Index, e.Horse, ErrStructuralMismatch, strings.Join(e.Missing, ", "))
}

func (e *StructuralMismatch) Unwrap() error {
	return ErrStructuralMismatch
}

// Decode reads a JSON array of races. Each element is decoded on its own, so one
// malformed race is reported in the returned mismatches and skipped while the rest
// are kept with their original positions. The error is non-nil only when the input
// is not a JSON array at all.
func Decode(r io.Reader) ([]Indexed, []*StructuralMismatch, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decoding race array: %w", err)
	}

	races := make([]Indexed, 0, len(raw))
	var mismatches []*StructuralMismatch

	for i, msg := range raw {
		rr, mismatch := decodeOne(i, msg)
		if mismatch != nil {
			mismatches = append(mismatches, mismatch)
			continue
		}
		races = append(races, Indexed{Index: i, Race: rr})
	}

	return races, mismatches, nil
}

func decodeOne(index int, msg json.RawMessage) (RawRace, *StructuralMismatch) {
	var rr RawRace
	if err := json.Unmarshal(msg, &rr); err != nil {
		return RawRace{}, &StructuralMismatch{Index: index, Horse: -1, Err: err}
	}

	if err := Check(index, rr); err != nil {
		return RawRace{}, err
	}
	return rr, nil
}

// Check verifies that every horse row of rr carries the full key set.
func Check(index int, rr RawRace) *StructuralMismatch {
	for j, h := range rr.Horses {
		if missing := h.Missing(); len(missing) > 0 {
			return &StructuralMismatch{Index: index, Horse: j, Missing: missing}
		}
	}
	return nil
}
