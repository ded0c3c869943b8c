package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Diary lines look like "芝右1600m / 天候 : 晴 / 芝 : 良 / 発走 : 15:40".
// Each test below runs over the whole line on its own; none of them suppresses another.
var (
	distancePattern = regexp.MustCompile(`([0-9]+)m`)
	weatherPattern  = regexp.MustCompile(`天候 : (.)`)
)

const (
	turfToken     = "芝"
	dirtToken     = "ダート"
	obstacleToken = "障害"

	rightToken    = "右"
	leftToken     = "左"
	straightToken = "直線"

	turfWetnessPrefix = "芝 : "
	dirtWetnessPrefix = "ダート : "
)

// Surface flags. Valid pages set at most one.
type Surface struct {
	Turf     int
	Dirt     int
	Obstacle int
}

// SurfaceOf tests a diary line for the turf, dirt and obstacle tokens.
func SurfaceOf(diary string) Surface {
	return Surface{
		Turf:     flag(strings.Contains(diary, turfToken)),
		Dirt:     flag(strings.Contains(diary, dirtToken)),
		Obstacle: flag(strings.Contains(diary, obstacleToken)),
	}
}

// Rotation flags. A right-handed course may also have a straight section, so
// several can be set at once.
type Rotation struct {
	Right    int
	Left     int
	Straight int
}

// RotationOf tests a diary line for the right, left and straight tokens.
func RotationOf(diary string) Rotation {
	return Rotation{
		Right:    flag(strings.Contains(diary, rightToken)),
		Left:     flag(strings.Contains(diary, leftToken)),
		Straight: flag(strings.Contains(diary, straightToken)),
	}
}

// Distance returns the first "<digits>m" figure of a diary line in meters.
func Distance(diary string) *int {
	m := distancePattern.FindStringSubmatch(diary)
	if m == nil {
		return nil
	}
	d, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &d
}

// Weather is the sky condition reported on the diary line.
type Weather int

const (
	WeatherUnknown Weather = iota
	Sunny
	Cloudy
	Rainy
)

var weatherByChar = map[string]Weather{
	"晴": Sunny,
	"曇": Cloudy,
	"雨": Rainy,
}

// WeatherOf reads the character after "天候 : ". Anything outside the lookup,
// including a missing marker, is WeatherUnknown.
func WeatherOf(diary string) Weather {
	m := weatherPattern.FindStringSubmatch(diary)
	if m == nil {
		return WeatherUnknown
	}
	return weatherByChar[m[1]]
}

// Flags returns the sunny, cloudy and rainy flags.
func (w Weather) Flags() (sunny, cloudy, rainy int) {
	return flag(w == Sunny), flag(w == Cloudy), flag(w == Rainy)
}

func (w Weather) String() string {
	switch w {
	case Sunny:
		return "sunny"
	case Cloudy:
		return "cloudy"
	case Rainy:
		return "rainy"
	default:
		return "unknown"
	}
}

// Wetness is the going of one surface.
type Wetness int

const (
	WetnessUnknown Wetness = iota
	Good
	SlightlyHeavy
	Heavy
	Bad
)

// wetnessWords is ordered so that longer words are tried first.
var wetnessWords = []struct {
	word    string
	wetness Wetness
}{
	{"稍重", SlightlyHeavy},
	{"不良", Bad},
	{"良", Good},
	{"重", Heavy},
}

// TurfWetness reads the condition word after "芝 : ".
func TurfWetness(diary string) Wetness {
	return wetnessAfter(diary, turfWetnessPrefix)
}

// DirtWetness reads the condition word after "ダート : ".
func DirtWetness(diary string) Wetness {
	return wetnessAfter(diary, dirtWetnessPrefix)
}

func wetnessAfter(diary, prefix string) Wetness {
	i := strings.Index(diary, prefix)
	if i < 0 {
		return WetnessUnknown
	}
	rest := diary[i+len(prefix):]
	for _, w := range wetnessWords {
		if strings.HasPrefix(rest, w.word) {
			return w.wetness
		}
	}
	return WetnessUnknown
}

// Flags returns the good, slightly-heavy, heavy and bad flags, in that order.
func (w Wetness) Flags() [4]int {
	var flags [4]int
	if w >= Good && w <= Bad {
		flags[w-Good] = 1
	}
	return flags
}

// Ordinal returns the going as 1 (good) through 4 (bad), or nil when unknown.
// This is the single-column encoding older exports used.
func (w Wetness) Ordinal() *int {
	if w < Good || w > Bad {
		return nil
	}
	return ptr(int(w))
}

func (w Wetness) String() string {
	switch w {
	case Good:
		return "good"
	case SlightlyHeavy:
		return "slightly_heavy"
	case Heavy:
		return "heavy"
	case Bad:
		return "bad"
	default:
		return "unknown"
	}
}
