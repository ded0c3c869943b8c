package convert

import (
	"fmt"

	"github.com/pfrederiksen/keiba-flat/internal/parse"
	"github.com/pfrederiksen/keiba-flat/internal/race"
)

// HorseRecord holds one horse's entry and result.
type HorseRecord struct {
	Name    *string
	Jocky   *string
	Trainer *string
	Owner   *string

	Frame  *int
	Number *int

	Sex    parse.Sex
	Age    *int
	Weight *float64 // carried weight, kg

	HorseWeight      *float64 // body weight, kg
	HorseWeightDelta *float64

	Odds       *float64
	Popularity *int

	TimeMetric *string
	TrainTime  *string
	Comments   *string
	Remarks    *string

	Order  *int
	Finish parse.Finish // why Order is absent, when it is

	Time       *float64 // seconds
	Difference *string
	Passed     *string
	LastSpurt  *float64
	Prize      *float64
}

// FieldError ties a degraded value to its output column.
type FieldError struct {
	Column string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Column, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseHorse derives a horse record from one result row. Cells whose text is not a
// valid number come back absent, and each one is reported in the returned errors.
func ParseHorse(h race.RawHorse) (HorseRecord, []error) {
	var errs []error
	note := func(column string, err error) {
		if err != nil {
			errs = append(errs, &FieldError{Column: column, Err: err})
		}
	}

	var rec HorseRecord
	var err error

	rec.Name = h.Get(race.KeyName)
	rec.Jocky = h.Get(race.KeyJocky)
	rec.Trainer = h.Get(race.KeyTrainer)
	rec.Owner = h.Get(race.KeyOwner)

	rec.Frame, err = parse.Int(h.Get(race.KeyFrame))
	note("frame", err)
	rec.Number, err = parse.Int(h.Get(race.KeyNumber))
	note("number", err)

	rec.Sex, rec.Age, err = parse.AgeOf(h.Get(race.KeyAge))
	note("age", err)
	rec.Weight, err = parse.Float(h.Get(race.KeyWeight))
	note("weight", err)
	rec.HorseWeight, rec.HorseWeightDelta = parse.HorseWeight(h.Get(race.KeyHorseWeight))

	rec.Odds, err = parse.Odds(h.Get(race.KeyOdds))
	note("odds", err)
	rec.Popularity, err = parse.Int(h.Get(race.KeyPopularity))
	note("popularity", err)

	rec.TimeMetric = h.Get(race.KeyTimeMetric)
	rec.TrainTime = h.Get(race.KeyTrainTime)
	rec.Comments = h.Get(race.KeyComments)
	rec.Remarks = h.Get(race.KeyRemarks)

	rec.Order, rec.Finish, err = parse.Order(h.Get(race.KeyOrder))
	note("order", err)
	rec.Time, err = parse.Time(h.Get(race.KeyTime))
	note("time", err)
	rec.Difference = h.Get(race.KeyDifference)
	rec.Passed = h.Get(race.KeyPassed)
	rec.LastSpurt, err = parse.Float(h.Get(race.KeyLastSpurt))
	note("last_spurt", err)
	rec.Prize, err = parse.Prize(h.Get(race.KeyPrise))
	note("prise", err)

	return rec, errs
}
