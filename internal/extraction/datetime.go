package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var (
	todayRe    = regexp.MustCompile(`(?i)\b(hoy|today|tonight|esta noche)\b`)
	tomorrowRe = regexp.MustCompile(`(?i)\b(mañana|manana|tomorrow)\b`)
	afterRe    = regexp.MustCompile(`(?i)\bpasado\s+mañana\b|\bpasado\s+manana\b|\bday after tomorrow\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(domingo|lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)

	rangeEsRe = regexp.MustCompile(`(?i)\bde\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s+a\s+(?:las?\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	rangeRe   = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(?i:(am|pm))?\s*[-–]\s*(\d{1,2})(?::(\d{2}))?\s*(?i:(am|pm))?\b`)
	clockRe   = regexp.MustCompile(`(?i)\b(?:a\s+las?\s+|at\s+)?(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourRe    = regexp.MustCompile(`(?i)\b(?:a\s+las?\s+|at\s+)(\d{1,2})\s*(am|pm)?\b`)
)

// relativeDate scans text for a relative-date phrase and resolves it against
// the reference day. Weekday names resolve to the next occurrence strictly
// after the reference day.
func relativeDate(text string, ref time.Time) (time.Time, bool) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	if afterRe.MatchString(text) {
		return day.AddDate(0, 0, 2), true
	}
	if tomorrowRe.MatchString(text) {
		return day.AddDate(0, 0, 1), true
	}
	if todayRe.MatchString(text) {
		return day, true
	}
	if m := weekdayRe.FindString(text); m != "" {
		wd, ok := weekdays[strings.ToLower(m)]
		if ok {
			delta := (int(wd) - int(day.Weekday()) + 7) % 7
			if delta == 0 {
				delta = 7
			}
			return day.AddDate(0, 0, delta), true
		}
	}
	return time.Time{}, false
}

// resolveHour turns a possibly ambiguous clock reading into a concrete time
// on the reference day. Hours 1-11 with no meridiem marker resolve relative
// to the send timestamp: if the AM reading would already be in the past on
// that day, the PM reading wins.
func resolveHour(hour, minute int, meridiem string, ref time.Time) time.Time {
	switch strings.ToLower(meridiem) {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	default:
		if hour >= 1 && hour <= 11 {
			am := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
			if am.Before(ref) {
				hour += 12
			}
		}
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}

// timeWindow is a parsed start/end pair plus where in the text it was found.
type timeWindow struct {
	start    time.Time
	end      time.Time
	explicit bool // an explicit end was stated
	pos      int  // byte offset of the match, -1 when nothing matched
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// findTimeWindow scans for an explicit range first ("de 2 a 4", "2-4"), then
// a single clock time, then a bare "a las N" hour. Days referenced by a
// relative-date phrase shift the anchor day before hours are resolved.
func findTimeWindow(text string, ref time.Time) timeWindow {
	anchor := ref
	if d, ok := relativeDate(text, ref); ok && !d.Equal(time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())) {
		// Future days carry no "already past" pressure; anchor at midnight so
		// ambiguous hours read as stated.
		anchor = d
	}

	if m := rangeEsRe.FindStringSubmatchIndex(text); m != nil {
		g := func(i int) string {
			if m[2*i] < 0 {
				return ""
			}
			return text[m[2*i]:m[2*i+1]]
		}
		start := resolveHour(atoiOr(g(1), 0), atoiOr(g(2), 0), g(3), anchor)
		end := resolveHour(atoiOr(g(4), 0), atoiOr(g(5), 0), g(6), anchor)
		if !end.After(start) {
			end = end.Add(12 * time.Hour)
		}
		return timeWindow{start: start, end: end, explicit: true, pos: m[0]}
	}

	if m := rangeRe.FindStringSubmatchIndex(text); m != nil {
		g := func(i int) string {
			if m[2*i] < 0 {
				return ""
			}
			return text[m[2*i]:m[2*i+1]]
		}
		// A trailing meridiem covers both ends ("2-4pm")
		startMer := g(3)
		if startMer == "" {
			startMer = g(6)
		}
		start := resolveHour(atoiOr(g(1), 0), atoiOr(g(2), 0), startMer, anchor)
		end := resolveHour(atoiOr(g(4), 0), atoiOr(g(5), 0), g(6), anchor)
		if !end.After(start) {
			end = end.Add(12 * time.Hour)
		}
		return timeWindow{start: start, end: end, explicit: true, pos: m[0]}
	}

	if m := clockRe.FindStringSubmatchIndex(text); m != nil {
		g := func(i int) string {
			if m[2*i] < 0 {
				return ""
			}
			return text[m[2*i]:m[2*i+1]]
		}
		start := resolveHour(atoiOr(g(1), 0), atoiOr(g(2), 0), g(3), anchor)
		return timeWindow{start: start, end: start.Add(time.Hour), pos: m[0]}
	}

	if m := hourRe.FindStringSubmatchIndex(text); m != nil {
		g := func(i int) string {
			if m[2*i] < 0 {
				return ""
			}
			return text[m[2*i]:m[2*i+1]]
		}
		start := resolveHour(atoiOr(g(1), 0), 0, g(2), anchor)
		return timeWindow{start: start, end: start.Add(time.Hour), pos: m[0]}
	}

	return timeWindow{pos: -1}
}
