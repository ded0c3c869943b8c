package convert

import (
	"fmt"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// SchemaVersion names the current column layout.
const SchemaVersion = "v1"

// binding pairs an output column with the field of T it reads.
type binding[T any] struct {
	schema.Column
	get func(*T) schema.Value
}

func flagField[T any](name string, get func(*T) int) binding[T] {
	return binding[T]{
		Column: schema.Column{Name: name, Kind: schema.Flag},
		get:    func(v *T) schema.Value { return schema.FlagValue(get(v)) },
	}
}

func intField[T any](name string, get func(*T) *int) binding[T] {
	return binding[T]{
		Column: schema.Column{Name: name, Kind: schema.Int},
		get:    func(v *T) schema.Value { return schema.IntValue(get(v)) },
	}
}

func floatField[T any](name string, get func(*T) *float64) binding[T] {
	return binding[T]{
		Column: schema.Column{Name: name, Kind: schema.Float},
		get:    func(v *T) schema.Value { return schema.FloatValue(get(v)) },
	}
}

func stringField[T any](name string, get func(*T) *string) binding[T] {
	return binding[T]{
		Column: schema.Column{Name: name, Kind: schema.String},
		get:    func(v *T) schema.Value { return schema.StringValue(get(v)) },
	}
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var raceBindings = buildRaceBindings()

func buildRaceBindings() []binding[RaceContext] {
	b := []binding[RaceContext]{
		intField("race_id", func(c *RaceContext) *int { return &c.ID }),
		stringField("date", func(c *RaceContext) *string { return c.Date }),
		intField("year", func(c *RaceContext) *int { return c.Year }),
		intField("month", func(c *RaceContext) *int { return c.Month }),
		intField("day", func(c *RaceContext) *int { return c.Day }),
	}

	for i, name := range monthNames {
		b = append(b, flagField("is_"+name, func(c *RaceContext) int { return c.Months[i] }))
	}

	b = append(b,
		flagField("is_g1", func(c *RaceContext) int { return c.Grade.G1 }),
		flagField("is_g2", func(c *RaceContext) int { return c.Grade.G2 }),
		flagField("is_g3", func(c *RaceContext) int { return c.Grade.G3 }),

		flagField("is_turf", func(c *RaceContext) int { return c.Surface.Turf }),
		flagField("is_dirt", func(c *RaceContext) int { return c.Surface.Dirt }),
		flagField("is_obstacle", func(c *RaceContext) int { return c.Surface.Obstacle }),

		flagField("is_right", func(c *RaceContext) int { return c.Rotation.Right }),
		flagField("is_left", func(c *RaceContext) int { return c.Rotation.Left }),
		flagField("is_straight", func(c *RaceContext) int { return c.Rotation.Straight }),

		intField("distance", func(c *RaceContext) *int { return c.Distance }),

		flagField("is_sunny", func(c *RaceContext) int { s, _, _ := c.Weather.Flags(); return s }),
		flagField("is_cloudy", func(c *RaceContext) int { _, cl, _ := c.Weather.Flags(); return cl }),
		flagField("is_rainy", func(c *RaceContext) int { _, _, r := c.Weather.Flags(); return r }),
	)

	wetness := [4]string{"good", "slightly_heavy", "heavy", "bad"}
	for i, name := range wetness {
		b = append(b, flagField("is_turf_"+name, func(c *RaceContext) int { return c.TurfWetness.Flags()[i] }))
	}
	for i, name := range wetness {
		b = append(b, flagField("is_dirt_"+name, func(c *RaceContext) int { return c.DirtWetness.Flags()[i] }))
	}

	return append(b, intField("number_of_horses", func(c *RaceContext) *int { return &c.Horses }))
}

var horseBindings = []binding[HorseRecord]{
	stringField("name", func(h *HorseRecord) *string { return h.Name }),
	stringField("jocky", func(h *HorseRecord) *string { return h.Jocky }),
	stringField("trainer", func(h *HorseRecord) *string { return h.Trainer }),
	stringField("owner", func(h *HorseRecord) *string { return h.Owner }),
	intField("frame", func(h *HorseRecord) *int { return h.Frame }),
	intField("number", func(h *HorseRecord) *int { return h.Number }),
	flagField("is_male", func(h *HorseRecord) int { m, _, _ := h.Sex.Flags(); return m }),
	flagField("is_female", func(h *HorseRecord) int { _, f, _ := h.Sex.Flags(); return f }),
	flagField("is_castrated", func(h *HorseRecord) int { _, _, c := h.Sex.Flags(); return c }),
	intField("age", func(h *HorseRecord) *int { return h.Age }),
	floatField("weight", func(h *HorseRecord) *float64 { return h.Weight }),
	floatField("horse_weight", func(h *HorseRecord) *float64 { return h.HorseWeight }),
	floatField("horse_weight_difference", func(h *HorseRecord) *float64 { return h.HorseWeightDelta }),
	floatField("odds", func(h *HorseRecord) *float64 { return h.Odds }),
	intField("popularity", func(h *HorseRecord) *int { return h.Popularity }),
	stringField("time_metric", func(h *HorseRecord) *string { return h.TimeMetric }),
	stringField("train_time", func(h *HorseRecord) *string { return h.TrainTime }),
	stringField("comments", func(h *HorseRecord) *string { return h.Comments }),
	stringField("remarks", func(h *HorseRecord) *string { return h.Remarks }),
	intField("order", func(h *HorseRecord) *int { return h.Order }),
	floatField("time", func(h *HorseRecord) *float64 { return h.Time }),
	stringField("difference", func(h *HorseRecord) *string { return h.Difference }),
	stringField("passed", func(h *HorseRecord) *string { return h.Passed }),
	floatField("last_spurt", func(h *HorseRecord) *float64 { return h.LastSpurt }),
	floatField("prise", func(h *HorseRecord) *float64 { return h.Prize }),
}

// Schema is the v1 table layout: the race columns followed by the horse columns.
var Schema = mustSchema()

func mustSchema() *schema.Schema {
	cols := make([]schema.Column, 0, len(raceBindings)+len(horseBindings))
	for _, b := range raceBindings {
		cols = append(cols, b.Column)
	}
	for _, b := range horseBindings {
		cols = append(cols, b.Column)
	}

	s, err := schema.New(SchemaVersion, cols)
	if err != nil {
		panic(fmt.Sprintf("convert: %v", err))
	}
	return s
}

// RaceColumns is the number of leading columns taken from the race context.
func RaceColumns() int {
	return len(raceBindings)
}

func raceValues(c *RaceContext) []schema.Value {
	values := make([]schema.Value, len(raceBindings))
	for i, b := range raceBindings {
		values[i] = b.get(c)
	}
	return values
}

func horseValues(h *HorseRecord) []schema.Value {
	values := make([]schema.Value, len(horseBindings))
	for i, b := range horseBindings {
		values[i] = b.get(h)
	}
	return values
}
