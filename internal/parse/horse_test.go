package parse

import (
	"errors"
	"testing"
)

func TestAgeOf(t *testing.T) {
	tests := []struct {
		name      string
		text      *string
		wantSex   Sex
		wantAge   *int
		wantError bool
	}{
		{name: "colt", text: sp("牡3"), wantSex: Male, wantAge: ptr(3)},
		{name: "filly", text: sp("牝4"), wantSex: Female, wantAge: ptr(4)},
		{name: "gelding", text: sp("セ10"), wantSex: Castrated, wantAge: ptr(10)},
		{name: "unknown sex keeps age", text: sp("騸5"), wantSex: SexUnknown, wantAge: ptr(5)},
		{name: "sex only", text: sp("牡"), wantSex: Male},
		{name: "absent", text: nil, wantSex: SexUnknown},
		{name: "malformed years", text: sp("牝x"), wantSex: Female, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sex, age, err := AgeOf(tt.text)
			if (err != nil) != tt.wantError {
				t.Fatalf("AgeOf() error = %v, wantError %v", err, tt.wantError)
			}
			if sex != tt.wantSex {
				t.Errorf("sex = %v, want %v", sex, tt.wantSex)
			}
			assertIntPtr(t, "age", age, tt.wantAge)
		})
	}
}

func TestSex_Flags(t *testing.T) {
	tests := []struct {
		sex  Sex
		want [3]int
	}{
		{Male, [3]int{1, 0, 0}},
		{Female, [3]int{0, 1, 0}},
		{Castrated, [3]int{0, 0, 1}},
		{SexUnknown, [3]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.sex.String(), func(t *testing.T) {
			m, f, c := tt.sex.Flags()
			if got := [3]int{m, f, c}; got != tt.want {
				t.Errorf("Flags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHorseWeight(t *testing.T) {
	tests := []struct {
		text      *string
		wantValue *float64
		wantDelta *float64
	}{
		{sp("480(+4)"), ptr(480.0), ptr(4.0)},
		{sp("456(-12)"), ptr(456.0), ptr(-12.0)},
		{sp("500(0)"), ptr(500.0), ptr(0.0)},
		{sp("480"), nil, nil},
		{sp("計不"), nil, nil},
		{nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(show(tt.text).(string), func(t *testing.T) {
			value, delta := HorseWeight(tt.text)
			assertFloatPtr(t, "value", value, tt.wantValue)
			assertFloatPtr(t, "delta", delta, tt.wantDelta)
		})
	}
}

func TestOdds(t *testing.T) {
	tests := []struct {
		text      *string
		want      *float64
		wantError bool
	}{
		{sp("---"), nil, false},
		{sp("2.4"), ptr(2.4), false},
		{sp("123.5"), ptr(123.5), false},
		{sp(""), nil, false},
		{nil, nil, false},
		{sp("**"), nil, true},
	}

	for _, tt := range tests {
		t.Run(show(tt.text).(string), func(t *testing.T) {
			got, err := Odds(tt.text)
			if (err != nil) != tt.wantError {
				t.Fatalf("Odds() error = %v, wantError %v", err, tt.wantError)
			}
			assertFloatPtr(t, "Odds()", got, tt.want)
		})
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		text       *string
		want       *int
		wantFinish Finish
	}{
		{sp("1"), ptr(1), Finished},
		{sp("3着"), ptr(3), Finished},
		{sp("12(降)"), ptr(12), Finished},
		{sp("取"), nil, Scratched},
		{sp("中"), nil, Stopped},
		{sp("除"), nil, Excluded},
		{sp("失"), nil, FinishUnknown},
		{sp(""), nil, FinishUnknown},
		{nil, nil, FinishUnknown},
	}

	for _, tt := range tests {
		t.Run(show(tt.text).(string), func(t *testing.T) {
			got, finish, err := Order(tt.text)
			if err != nil {
				t.Fatalf("Order() unexpected error: %v", err)
			}
			assertIntPtr(t, "Order()", got, tt.want)
			if finish != tt.wantFinish {
				t.Errorf("finish = %v, want %v", finish, tt.wantFinish)
			}
		})
	}
}

func TestOrder_Overflow(t *testing.T) {
	_, _, err := Order(sp("99999999999999999999999"))
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("Order() error = %v, want ErrMalformedValue", err)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		text      *string
		want      *float64
		wantError bool
	}{
		{sp("1:23.4"), ptr(83.4), false},
		{sp("2:01.0"), ptr(121.0), false},
		{sp("0:58.9"), ptr(58.9), false},
		{sp(""), nil, false},
		{nil, nil, false},
		{sp("58.9"), nil, false},
		{sp("1:2.3.4"), nil, true},
	}

	for _, tt := range tests {
		t.Run(show(tt.text).(string), func(t *testing.T) {
			got, err := Time(tt.text)
			if (err != nil) != tt.wantError {
				t.Fatalf("Time() error = %v, wantError %v", err, tt.wantError)
			}
			assertFloatPtr(t, "Time()", got, tt.want)
		})
	}
}

func TestPrize(t *testing.T) {
	tests := []struct {
		text      *string
		want      *float64
		wantError bool
	}{
		{sp("11,266.1"), ptr(11266.1), false},
		{sp("510.0"), ptr(510.0), false},
		{sp("1,000,000"), ptr(1000000.0), false},
		{sp(""), nil, false},
		{nil, nil, false},
		{sp("n/a"), nil, true},
	}

	for _, tt := range tests {
		t.Run(show(tt.text).(string), func(t *testing.T) {
			got, err := Prize(tt.text)
			if (err != nil) != tt.wantError {
				t.Fatalf("Prize() error = %v, wantError %v", err, tt.wantError)
			}
			assertFloatPtr(t, "Prize()", got, tt.want)
		})
	}
}
