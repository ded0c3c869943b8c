package convert

import (
	"github.com/pfrederiksen/keiba-flat/internal/parse"
	"github.com/pfrederiksen/keiba-flat/internal/race"
)

// RaceContext holds the attributes shared by all horses of one race.
type RaceContext struct {
	// ID is the race's position in the input sequence. It is not read from the
	// page, so it is only stable for the same input in the same order.
	ID int

	Date  *string // YYYY-MM-DD
	Year  *int
	Month *int
	Day   *int

	Months [12]int // one-hot, January first

	Grade    parse.Grade
	Surface  parse.Surface
	Rotation parse.Rotation
	Distance *int // meters

	Weather     parse.Weather
	TurfWetness parse.Wetness
	DirtWetness parse.Wetness

	Horses int
}

// ParseRace derives the race context of rr, which sits at position index of the input.
func ParseRace(index int, rr race.RawRace) RaceContext {
	title := rr.TitleText()
	diary := rr.DiaryText()

	date := parse.DateOf(title)

	return RaceContext{
		ID:          index,
		Date:        date.ISO,
		Year:        date.Year,
		Month:       date.Month,
		Day:         date.Day,
		Months:      parse.MonthOneHot(date.Month),
		Grade:       parse.GradeOf(title),
		Surface:     parse.SurfaceOf(diary),
		Rotation:    parse.RotationOf(diary),
		Distance:    parse.Distance(diary),
		Weather:     parse.WeatherOf(diary),
		TurfWetness: parse.TurfWetness(diary),
		DirtWetness: parse.DirtWetness(diary),
		Horses:      len(rr.Horses),
	}
}
