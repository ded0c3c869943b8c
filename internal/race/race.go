package race

import "sort"

// Horse keys, in the column order of the netkeiba result table.
const (
	KeyOrder       = "order"
	KeyFrame       = "frame"
	KeyNumber      = "number"
	KeyName        = "name"
	KeyAge         = "age"
	KeyWeight      = "weight"
	KeyJocky       = "jocky"
	KeyTime        = "time"
	KeyDifference  = "difference"
	KeyTimeMetric  = "time-metric"
	KeyPassed      = "passed"
	KeyLastSpurt   = "last-spurt"
	KeyOdds        = "odds"
	KeyPopularity  = "popularity"
	KeyHorseWeight = "horse-weight"
	KeyTrainTime   = "train-time"
	KeyComments    = "comments"
	KeyRemarks     = "remarks"
	KeyTrainer     = "trainer"
	KeyOwner       = "owner"
	KeyPrise       = "prise"
)

// Keys is the fixed key set of a RawHorse, in result-table order.
var Keys = []string{
	KeyOrder,
	KeyFrame,
	KeyNumber,
	KeyName,
	KeyAge,
	KeyWeight,
	KeyJocky,
	KeyTime,
	KeyDifference,
	KeyTimeMetric,
	KeyPassed,
	KeyLastSpurt,
	KeyOdds,
	KeyPopularity,
	KeyHorseWeight,
	KeyTrainTime,
	KeyComments,
	KeyRemarks,
	KeyTrainer,
	KeyOwner,
	KeyPrise,
}

// RawRace is one scraped race page.
type RawRace struct {
	Title     *string    `json:"title"`
	Diary     *string    `json:"diary"`
	SmallText *string    `json:"smalltxt,omitempty"`
	Horses    []RawHorse `json:"horses"`
}

// RawHorse maps each key of Keys to its scraped cell text. A nil value is an empty cell.
type RawHorse map[string]*string

// Indexed pairs a race with its zero-based position in the input sequence.
type Indexed struct {
	Index int
	Race  RawRace
}

// Text returns s, or "" when s is nil.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TitleText returns the race title, "" when absent.
func (r RawRace) TitleText() string {
	return Text(r.Title)
}

// DiaryText returns the diary line, "" when absent.
func (r RawRace) DiaryText() string {
	return Text(r.Diary)
}

// Get returns the value stored under key. Missing keys, JSON nulls and empty
// strings all come back as nil.
func (h RawHorse) Get(key string) *string {
	v, ok := h[key]
	if !ok || v == nil || *v == "" {
		return nil
	}
	return v
}

// Missing lists the keys of Keys that are not present in h, sorted.
func (h RawHorse) Missing() []string {
	var missing []string
	for _, k := range Keys {
		if _, ok := h[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// NewHorse builds a RawHorse with every key present. Values not given in cells are nil.
func NewHorse(cells map[string]string) RawHorse {
	h := make(RawHorse, len(Keys))
	for _, k := range Keys {
		h[k] = nil
		if v, ok := cells[k]; ok {
			v := v
			h[k] = &v
		}
	}
	return h
}
