package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Race titles carry the date as "2018年05月06日".
var datePattern = regexp.MustCompile(`([0-9]{4})年([0-9]{2})月([0-9]{2})日`)

// Date is the race date found in a title. All fields are nil when no date was found.
type Date struct {
	ISO   *string // YYYY-MM-DD
	Year  *int
	Month *int
	Day   *int
}

// DateOf extracts the first year-month-day date from a race title.
func DateOf(title string) Date {
	m := datePattern.FindStringSubmatch(title)
	if m == nil {
		return Date{}
	}

	// The pattern guarantees digits, so Atoi cannot fail here.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	return Date{
		ISO:   ptr(fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])),
		Year:  &year,
		Month: &month,
		Day:   &day,
	}
}

// MonthOneHot returns twelve flags with a single 1 at month-1.
// A nil or out-of-range month gives all zeros.
func MonthOneHot(month *int) [12]int {
	var flags [12]int
	if month != nil && *month >= 1 && *month <= 12 {
		flags[*month-1] = 1
	}
	return flags
}

// Grade holds the graded-stakes flags of a race. The flags are tested
// independently and are not forced to be exclusive.
type Grade struct {
	G1 int
	G2 int
	G3 int
}

// GradeOf tests a race title for the G1, G2 and G3 markers.
func GradeOf(title string) Grade {
	return Grade{
		G1: flag(strings.Contains(title, "G1")),
		G2: flag(strings.Contains(title, "G2")),
		G3: flag(strings.Contains(title, "G3")),
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
