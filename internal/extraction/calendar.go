package extraction

import (
	"regexp"
	"strings"
	"time"
)

var (
	virtualRe = regexp.MustCompile(`(?i)\b(zoom|meet|google\s+meet|teams|virtual|llamada|videollamada|video\s+call|online)\b`)
	mealRe    = regexp.MustCompile(`(?i)\b(desayuno|breakfast|almuerzo|lunch|comida|cena|dinner)\b`)

	locationEsRe = regexp.MustCompile(`(?i)\ben\s+((?:el|la|los|las)\s+)?([\p{L}\d][\p{L}\d .'-]*)$`)
	locationEnRe = regexp.MustCompile(`(?i)\b(?:in|at)\s+((?:the)\s+)?([\p{L}][\p{L}\d .'-]*)$`)

	attendeeRe = regexp.MustCompile(`(?i)\bcon\s+([\p{L}][\p{L} ]*?)(?:$|[,.\n]|\s+(?:a\s+las?|de|en)\b)`)
	mentionRe  = regexp.MustCompile(`@([\p{L}\d._-]+)`)
)

// CalendarParser turns meeting-shaped message content into event drafts.
type CalendarParser struct {
	settings Settings
}

func NewCalendarParser(s Settings) *CalendarParser {
	return &CalendarParser{settings: s}
}

func (p *CalendarParser) Parse(content string, ref time.Time) []Draft {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil
	}
	ref = ref.In(p.settings.Location)

	confidence := 0.85
	meal := ""
	if m := mealRe.FindString(text); m != "" {
		meal = strings.ToLower(m)
	}

	window := findTimeWindow(text, ref)
	if window.pos < 0 {
		// No stated time: anchor at the configured default start hour, the
		// next one if today's has already passed. Duration stays the default
		// 60 minutes, meal keyword or not.
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), p.settings.DefaultEventHour, 0, 0, 0, ref.Location())
		if d, ok := relativeDate(text, ref); ok {
			start = time.Date(d.Year(), d.Month(), d.Day(), p.settings.DefaultEventHour, 0, 0, 0, ref.Location())
		} else if !start.After(ref) {
			start = start.AddDate(0, 0, 1)
		}
		window = timeWindow{start: start, end: start.Add(time.Hour)}
		confidence = 0.5
		if meal == "" {
			confidence = 0.4
		}
	}

	location := extractLocation(text)
	isVirtual := location == "" && virtualRe.MatchString(text)

	var attendees []string
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		attendees = append(attendees, m[1])
	}
	if m := attendeeRe.FindStringSubmatch(text); m != nil {
		attendees = append(attendees, strings.TrimSpace(m[1]))
	}

	return []Draft{{
		Event: &EventDraft{
			Title:       eventTitle(text, window.pos),
			Start:       window.start,
			End:         window.end,
			Location:    location,
			IsVirtual:   isVirtual,
			MealKeyword: meal,
			Attendees:   attendees,
		},
		Confidence: confidence,
		Span:       text,
	}}
}

// extractLocation picks up the trailing locative phrase, rejecting captures
// that are really virtual-meeting words ("en Zoom").
func extractLocation(text string) string {
	for _, re := range []*regexp.Regexp{locationEsRe, locationEnRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			loc := strings.TrimSpace(m[1] + m[2])
			if virtualRe.MatchString(loc) {
				continue
			}
			return loc
		}
	}
	return ""
}

// eventTitle is the leading clause, cut before the time expression when one
// was found inside it.
func eventTitle(text string, timePos int) string {
	title := firstClause(text)
	if timePos > 0 && timePos < len(title) {
		title = strings.TrimSpace(title[:timePos])
	}
	title = strings.TrimSuffix(title, ",")
	// Strip a dangling connective left over from the cut
	for _, suffix := range []string{" a", " de", " at", " from"} {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}
