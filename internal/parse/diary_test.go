package parse

import "testing"

const sampleDiary = "芝右 外1600m / 天候 : 晴 / 芝 : 良 / 発走 : 15:40"

func TestSurfaceOf(t *testing.T) {
	tests := []struct {
		diary string
		want  Surface
	}{
		{sampleDiary, Surface{Turf: 1}},
		{"ダ左1400m / 天候 : 曇 / ダート : 稍重", Surface{Dirt: 1}},
		{"障芝 外-内3930m / 天候 : 雨 / 芝 : 重", Surface{Turf: 1}},
		{"障害 ダート3000m", Surface{Dirt: 1, Obstacle: 1}},
		{"", Surface{}},
	}

	for _, tt := range tests {
		t.Run(tt.diary, func(t *testing.T) {
			if got := SurfaceOf(tt.diary); got != tt.want {
				t.Errorf("SurfaceOf(%q) = %+v, want %+v", tt.diary, got, tt.want)
			}
		})
	}
}

func TestRotationOf(t *testing.T) {
	tests := []struct {
		diary string
		want  Rotation
	}{
		{sampleDiary, Rotation{Right: 1}},
		{"芝左2400m", Rotation{Left: 1}},
		{"芝直線1000m", Rotation{Straight: 1}},
		{"芝右 直線コース", Rotation{Right: 1, Straight: 1}},
		{"", Rotation{}},
	}

	for _, tt := range tests {
		t.Run(tt.diary, func(t *testing.T) {
			if got := RotationOf(tt.diary); got != tt.want {
				t.Errorf("RotationOf(%q) = %+v, want %+v", tt.diary, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		diary string
		want  *int
	}{
		{sampleDiary, ptr(1600)},
		{"ダ右1200m 2400m", ptr(1200)}, // first match wins
		{"no distance here", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.diary, func(t *testing.T) {
			assertIntPtr(t, "Distance()", Distance(tt.diary), tt.want)
		})
	}
}

func TestWeatherOf(t *testing.T) {
	tests := []struct {
		diary string
		want  Weather
		flags [3]int
	}{
		{sampleDiary, Sunny, [3]int{1, 0, 0}},
		{"天候 : 曇", Cloudy, [3]int{0, 1, 0}},
		{"天候 : 雨", Rainy, [3]int{0, 0, 1}},
		{"天候 : 小雨", WeatherUnknown, [3]int{}},
		{"天候 : 雪", WeatherUnknown, [3]int{}},
		{"芝右1600m", WeatherUnknown, [3]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.diary, func(t *testing.T) {
			got := WeatherOf(tt.diary)
			if got != tt.want {
				t.Errorf("WeatherOf(%q) = %v, want %v", tt.diary, got, tt.want)
			}
			s, c, r := got.Flags()
			if [3]int{s, c, r} != tt.flags {
				t.Errorf("Flags() = %v, want %v", [3]int{s, c, r}, tt.flags)
			}
		})
	}
}

func TestWetness(t *testing.T) {
	tests := []struct {
		name     string
		diary    string
		wantTurf Wetness
		wantDirt Wetness
	}{
		{"turf good", sampleDiary, Good, WetnessUnknown},
		{"turf slightly heavy", "芝 : 稍重", SlightlyHeavy, WetnessUnknown},
		{"turf heavy", "芝 : 重 / 発走", Heavy, WetnessUnknown},
		{"turf bad", "芝 : 不良", Bad, WetnessUnknown},
		{"dirt bad", "ダ右1800m / ダート : 不良", WetnessUnknown, Bad},
		{"both surfaces", "芝 : 良  ダート : 重", Good, Heavy},
		{"unknown word", "芝 : 普通", WetnessUnknown, WetnessUnknown},
		{"no marker", "芝右1600m", WetnessUnknown, WetnessUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TurfWetness(tt.diary); got != tt.wantTurf {
				t.Errorf("TurfWetness(%q) = %v, want %v", tt.diary, got, tt.wantTurf)
			}
			if got := DirtWetness(tt.diary); got != tt.wantDirt {
				t.Errorf("DirtWetness(%q) = %v, want %v", tt.diary, got, tt.wantDirt)
			}
		})
	}
}

func TestWetness_Flags(t *testing.T) {
	tests := []struct {
		w       Wetness
		flags   [4]int
		ordinal *int
	}{
		{Good, [4]int{1, 0, 0, 0}, ptr(1)},
		{SlightlyHeavy, [4]int{0, 1, 0, 0}, ptr(2)},
		{Heavy, [4]int{0, 0, 1, 0}, ptr(3)},
		{Bad, [4]int{0, 0, 0, 1}, ptr(4)},
		{WetnessUnknown, [4]int{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.w.String(), func(t *testing.T) {
			if got := tt.w.Flags(); got != tt.flags {
				t.Errorf("Flags() = %v, want %v", got, tt.flags)
			}
			assertIntPtr(t, "Ordinal()", tt.w.Ordinal(), tt.ordinal)
		})
	}
}
