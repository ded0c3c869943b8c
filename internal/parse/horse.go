package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	horseWeightPattern = regexp.MustCompile(`([0-9]+)\(([+-]?[0-9]+)\)`)
	leadingDigits      = regexp.MustCompile(`^[0-9]+`)
	timePattern        = regexp.MustCompile(`([0-9]+):([0-9.]+)`)
)

// NoOdds is shown in the odds column when no odds were offered.
const NoOdds = "---"

// Sex of a horse, read from the first character of the age column.
type Sex int

const (
	SexUnknown Sex = iota
	Male
	Female
	Castrated
)

var sexByRune = map[rune]Sex{
	'牡': Male,
	'牝': Female,
	'セ': Castrated,
}

// Flags returns the male, female and castrated flags.
func (s Sex) Flags() (male, female, castrated int) {
	return flag(s == Male), flag(s == Female), flag(s == Castrated)
}

func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	case Castrated:
		return "castrated"
	default:
		return "unknown"
	}
}

// AgeOf splits an age cell such as "牡3" into sex and years. An unrecognised first
// character yields SexUnknown; the years are still coerced from the rest.
func AgeOf(text *string) (Sex, *int, error) {
	s, ok := present(text)
	if !ok {
		return SexUnknown, nil, nil
	}

	r, size := utf8.DecodeRuneInString(s)
	sex := sexByRune[r]

	rest := s[size:]
	years, err := Int(&rest)
	return sex, years, err
}

// HorseWeight parses "480(+4)" into the body weight and its change since the last
// race. Both are nil unless the whole pattern matches.
func HorseWeight(text *string) (*float64, *float64) {
	s, ok := present(text)
	if !ok {
		return nil, nil
	}

	m := horseWeightPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, nil
	}
	delta, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, nil
	}
	return &value, &delta
}

// Odds parses the win odds. NoOdds is absent, like an empty cell.
func Odds(text *string) (*float64, error) {
	if s, ok := present(text); ok && s == NoOdds {
		return nil, nil
	}
	return Float(text)
}

// Finish tells how a horse's race ended.
type Finish int

const (
	FinishUnknown Finish = iota
	Finished
	Scratched // 取消
	Stopped   // 中止
	Excluded  // 除外
)

var finishBySentinel = map[string]Finish{
	"取": Scratched,
	"中": Stopped,
	"除": Excluded,
}

func (f Finish) String() string {
	switch f {
	case Finished:
		return "finished"
	case Scratched:
		return "scratched"
	case Stopped:
		return "stopped"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Order parses the finishing position. The scratch, stop and exclusion sentinels
// give no rank, as does a cell without a leading number; the Finish value keeps the
// reason apart. "3(降)" is rank 3.
func Order(text *string) (*int, Finish, error) {
	s, ok := present(text)
	if !ok {
		return nil, FinishUnknown, nil
	}

	if f, ok := finishBySentinel[s]; ok {
		return nil, f, nil
	}

	digits := leadingDigits.FindString(s)
	if digits == "" {
		return nil, FinishUnknown, nil
	}

	rank, err := Int(&digits)
	if err != nil {
		return nil, FinishUnknown, err
	}
	return rank, Finished, nil
}

// Time parses a race time "1:23.4" into seconds (83.4). Text without the
// minutes:seconds pattern is absent.
func Time(text *string) (*float64, error) {
	s, ok := present(text)
	if !ok {
		return nil, nil
	}

	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}

	minutes, err := Float(&m[1])
	if err != nil {
		return nil, err
	}
	seconds, err := Float(&m[2])
	if err != nil {
		return nil, err
	}

	total := 60.0*(*minutes) + *seconds
	return &total, nil
}

// Prize parses prize money in units of ten thousand yen, e.g. "1,234.5".
func Prize(text *string) (*float64, error) {
	s, ok := present(text)
	if !ok {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	return Float(&s)
}
