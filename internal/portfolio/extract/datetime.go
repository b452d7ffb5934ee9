package extract

import (
	"regexp"
	"strings"
	"time"
)

// DisplayDateLayout is the human-readable form every publish date is shown in.
const DisplayDateLayout = "Jan 2, 2006"

// DateWindow is the size of the text window, centred on a link, searched for
// a publish date.
const DateWindow = 600

var enMonthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

type dateNotation struct {
	name    string
	re      *regexp.Regexp
	layouts []string
}

// Notations in priority order.
var dateNotations = []dateNotation{
	{
		name:    "iso",
		re:      regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		layouts: []string{"2006-01-02"},
	},
	{
		name:    "month_day_year",
		re:      regexp.MustCompile(`(?i)\b` + enMonthPattern + `\.?\s+\d{1,2},?\s+\d{4}\b`),
		layouts: []string{"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006"},
	},
	{
		name:    "day_month_year",
		re:      regexp.MustCompile(`(?i)\b\d{1,2}\s+` + enMonthPattern + `\.?,?\s+\d{4}\b`),
		layouts: []string{"2 January 2006", "2 Jan 2006", "2 January, 2006", "2 Jan, 2006"},
	},
	{
		name:    "slashed",
		re:      regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		layouts: []string{"02/01/2006", "2/1/2006"},
	},
}

// FindDateNear searches the window of doc centred on [start,end) for a
// date-shaped substring and returns it in DisplayDateLayout. The empty string
// means no date was found.
func FindDateNear(doc string, start, end int) string {
	if start < 0 || end < start || start > len(doc) {
		return ""
	}
	center := start + (end-start)/2
	from := center - DateWindow/2
	if from < 0 {
		from = 0
	}
	from = runeFloor(doc, from)
	window := Window(doc, from, DateWindow)
	if window == "" {
		return ""
	}
	relCenter := center - from
	for _, n := range dateNotations {
		matches := n.re.FindAllStringIndex(window, -1)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		for _, m := range matches[1:] {
			if distance(m, relCenter) < distance(best, relCenter) {
				best = m
			}
		}
		return NormalizeDate(window[best[0]:best[1]])
	}
	return ""
}

func distance(m []int, pos int) int {
	switch {
	case pos < m[0]:
		return m[0] - pos
	case pos > m[1]:
		return pos - m[1]
	default:
		return 0
	}
}

// NormalizeDate rewrites a recognised date notation into DisplayDateLayout.
// Unparseable input is returned trimmed.
func NormalizeDate(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}
	if t := ParseDate(clean); t != nil {
		return t.Format(DisplayDateLayout)
	}
	return clean
}

// ParseDate parses any notation FindDateNear recognises. Feed timestamps are
// parsed by the feed library before they get here.
func ParseDate(raw string) *time.Time {
	clean := normalizeDateInput(raw)
	if clean == "" {
		return nil
	}
	for _, n := range dateNotations {
		for _, layout := range n.layouts {
			if t, err := time.ParseInLocation(layout, clean, time.UTC); err == nil {
				return &t
			}
		}
	}
	return nil
}

var septRE = regexp.MustCompile(`(?i)\bsept\b`)

func normalizeDateInput(raw string) string {
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	s = strings.ReplaceAll(s, ".", "")
	s = septRE.ReplaceAllString(s, "Sep")
	return strings.Join(strings.Fields(s), " ")
}
