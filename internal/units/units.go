// Package units converts canonical measurements (meters, kilograms, seconds,
// degrees Celsius, liters, fractions) into the numbers and text an export shows.
//
// Convert feeds every machine-readable format, Display feeds Markdown. Both are
// pure and never fail.
package units

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem accepts "metric" or "imperial" in any case.
func ParseSystem(s string) (System, bool) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, true
	case Imperial:
		return Imperial, true
	}
	return "", false
}

// Kind tells how a canonical value is converted and rendered.
type Kind int

const (
	Count           Kind = iota // unitless integer
	Energy                      // kcal
	DurationHours               // seconds, shown as hours
	DurationMinutes             // seconds, shown as minutes
	HeartRate                   // bpm
	Milliseconds                // ms
	BreathRate                  // breaths/min
	Fraction                    // 0..1, shown as percent
	Temperature                 // °C
	Pressure                    // mmHg
	Glucose                     // mg/dL
	Weight                      // kg
	Height                      // m
	Length                      // m, short lengths (cm / in)
	Distance                    // m
	Volume                      // L
	Speed                       // m/s
	Grams                       // g
	Milligrams                  // mg
	Decibels                    // dB
	VO2Max                      // mL/kg/min
	Scalar                      // unitless decimal (BMI)
)

const (
	metersPerMile   = 1609.344
	feetPerMeter    = 3.28084
	inchesPerMeter  = 39.3701
	poundsPerKg     = 2.20462262
	flOzPerLiter    = 33.814
	kmhPerMps       = 3.6
	mphPerMps       = 2.23694
	inchesPerFoot   = 12
	secondsPerMin   = 60
	secondsPerHour  = 3600
	metersPerKm     = 1000
	shortMilesLimit = 0.1
)

// Quantity is a converted value with the unit label it is expressed in.
type Quantity struct {
	Value float64
	Unit  string
}

// Convert expresses v in the primary unit of sys for kind k. The result is
// rounded to the precision used by every export format.
func Convert(k Kind, v float64, sys System) Quantity {
	imperial := sys == Imperial
	switch k {
	case Count:
		return Quantity{Value: Round(v, 0)}
	case Energy:
		return Quantity{Value: Round(v, 0), Unit: "kcal"}
	case DurationHours:
		return Quantity{Value: Round(v/secondsPerHour, 2), Unit: "hours"}
	case DurationMinutes:
		return Quantity{Value: Round(v/secondsPerMin, 1), Unit: "minutes"}
	case HeartRate:
		return Quantity{Value: Round(v, 0), Unit: "bpm"}
	case Milliseconds:
		return Quantity{Value: Round(v, 0), Unit: "ms"}
	case BreathRate:
		return Quantity{Value: Round(v, 1), Unit: "breaths/min"}
	case Fraction:
		return Quantity{Value: Round(v*100, 1), Unit: "percent"}
	case Temperature:
		if imperial {
			return Quantity{Value: Round(v*9/5+32, 1), Unit: "°F"}
		}
		return Quantity{Value: Round(v, 1), Unit: "°C"}
	case Pressure:
		return Quantity{Value: Round(v, 0), Unit: "mmHg"}
	case Glucose:
		return Quantity{Value: Round(v, 0), Unit: "mg/dL"}
	case Weight:
		if imperial {
			return Quantity{Value: Round(v*poundsPerKg, 1), Unit: "lb"}
		}
		return Quantity{Value: Round(v, 1), Unit: "kg"}
	case Height, Length:
		if imperial {
			return Quantity{Value: Round(v*inchesPerMeter, 1), Unit: "in"}
		}
		return Quantity{Value: Round(v*100, 1), Unit: "cm"}
	case Distance:
		if imperial {
			return Quantity{Value: Round(v/metersPerMile, 2), Unit: "mi"}
		}
		return Quantity{Value: Round(v/metersPerKm, 2), Unit: "km"}
	case Volume:
		if imperial {
			return Quantity{Value: Round(v*flOzPerLiter, 1), Unit: "fl oz"}
		}
		return Quantity{Value: Round(v, 2), Unit: "L"}
	case Speed:
		if imperial {
			return Quantity{Value: Round(v*mphPerMps, 1), Unit: "mph"}
		}
		return Quantity{Value: Round(v*kmhPerMps, 1), Unit: "km/h"}
	case Grams:
		return Quantity{Value: Round(v, 1), Unit: "g"}
	case Milligrams:
		return Quantity{Value: Round(v, 0), Unit: "mg"}
	case Decibels:
		return Quantity{Value: Round(v, 0), Unit: "dB"}
	case VO2Max:
		return Quantity{Value: Round(v, 1), Unit: "mL/kg/min"}
	case Scalar:
		return Quantity{Value: Round(v, 1)}
	}
	return Quantity{Value: v}
}

// Display renders v for people: thousands separators on whole counts,
// h/m durations, whole percentages, feet-and-inches heights and a smaller
// sub-unit for short distances.
func Display(k Kind, v float64, sys System) string {
	imperial := sys == Imperial
	switch k {
	case Count:
		return Grouped(v)
	case Energy:
		return Grouped(v) + " kcal"
	case DurationHours, DurationMinutes:
		return FormatDuration(v)
	case Fraction:
		return FormatNumber(Round(v*100, 0)) + "%"
	case Height:
		if imperial {
			return FeetInches(v)
		}
		return FormatNumber(Round(v*100, 0)) + " cm"
	case Distance:
		if imperial {
			if v/metersPerMile < shortMilesLimit {
				return Grouped(v*feetPerMeter) + " ft"
			}
		} else if v < metersPerKm {
			return Grouped(v) + " m"
		}
	case Milligrams:
		return Grouped(v) + " mg"
	}
	q := Convert(k, v, sys)
	if q.Unit == "" {
		return FormatNumber(q.Value)
	}
	return FormatNumber(q.Value) + " " + q.Unit
}

// FormatDuration renders seconds as "7h 30m", "8h" or "45m".
// Anything under half a minute but above zero is shown in seconds.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0m"
	}
	totalMinutes := int(math.Round(seconds / secondsPerMin))
	if totalMinutes == 0 {
		return strconv.Itoa(int(math.Round(seconds))) + "s"
	}
	h, m := totalMinutes/60, totalMinutes%60
	switch {
	case h > 0 && m > 0:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	case h > 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(m) + "m"
	}
}

// FeetInches renders a height in meters as 5' 10".
func FeetInches(meters float64) string {
	total := int(math.Round(meters * inchesPerMeter))
	return strconv.Itoa(total/inchesPerFoot) + "' " + strconv.Itoa(total%inchesPerFoot) + `"`
}

var printer = message.NewPrinter(language.English)

// Grouped rounds v to a whole number and inserts thousands separators.
func Grouped(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatNumber prints the shortest decimal form of v ("96.5", "58", "5.23").
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
