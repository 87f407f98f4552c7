package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DurationSentinel is emitted when a downtime value cannot be parsed
const DurationSentinel = 0.0

var (
	decimalPattern      = regexp.MustCompile(`^(?:\d+(?:\.\d*)?|\.\d+)$`)
	hourMinutePattern   = regexp.MustCompile(`(?i)^(\d+)\s*h\s*(\d{1,2})?\s*(?:min|mn)?$`)
	hoursWordPattern    = regexp.MustCompile(`(?i)^(\d+)\s*heures?\s*(?:(\d{1,2})\s*min(?:utes?)?)?$`)
	clockPattern        = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	commaDecimalPattern = regexp.MustCompile(`^\d+,\d+$`)
	zerosPattern        = regexp.MustCompile(`^0+$`)
)

type durationStrategy func(s string) (float64, bool)

// durationStrategies run in order; the first match wins
var durationStrategies = []durationStrategy{
	parseDecimalHours,
	parseHourMinute,
	parseHoursWord,
	parseClock,
	parseCommaDecimal,
}

// ParseDuration normalizes a downtime value to decimal hours with two
// fractional digits. Values no strategy understands become 0.00 and are
// reported invalid.
func ParseDuration(raw string) Result[float64] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Result[float64]{
			Value:  DurationSentinel,
			Text:   formatHours(DurationSentinel),
			Status: StatusMissing,
			Reason: "missing downtime",
		}
	}

	for _, strategy := range durationStrategies {
		if hours, ok := strategy(s); ok {
			hours = roundHours(hours)
			return parsed(hours, formatHours(hours))
		}
	}

	return invalid(DurationSentinel, formatHours(DurationSentinel),
		fmt.Sprintf("unrecognized duration format %q", s))
}

// parseDecimalHours handles "14", "14.00" and the doubled decimal point typos
// "33.0.25" and "33..25" where the stray zero or empty segment is dropped.
func parseDecimalHours(s string) (float64, bool) {
	if strings.Count(s, ".") > 1 {
		segments := strings.Split(s, ".")
		for _, middle := range segments[1 : len(segments)-1] {
			if middle != "" && !zerosPattern.MatchString(middle) {
				return 0, false
			}
		}
		s = segments[0] + "." + segments[len(segments)-1]
	}
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	return parseFinite(s)
}

// parseHourMinute handles "41h45", "41h" and "41 h 45 min"
func parseHourMinute(s string) (float64, bool) {
	m := hourMinutePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return hoursAndMinutes(m[1], m[2])
}

// parseHoursWord handles "13 heures 30 min" and "24 heures"
func parseHoursWord(s string) (float64, bool) {
	m := hoursWordPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return hoursAndMinutes(m[1], m[2])
}

// parseClock handles "9:45"
func parseClock(s string) (float64, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return hoursAndMinutes(m[1], m[2])
}

// parseCommaDecimal handles the French decimal separator "12,5"
func parseCommaDecimal(s string) (float64, bool) {
	if !commaDecimalPattern.MatchString(s) {
		return 0, false
	}
	return parseFinite(strings.Replace(s, ",", ".", 1))
}

func hoursAndMinutes(h, m string) (float64, bool) {
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minutes := 0
	if m != "" {
		if minutes, err = strconv.Atoi(m); err != nil {
			return 0, false
		}
	}
	if minutes >= 60 {
		return 0, false
	}
	return float64(hours) + float64(minutes)/60, true
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
