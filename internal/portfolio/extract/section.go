package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Marker is a literal heading or prose fragment that opens a section.
// Headings match case-sensitively; prose markers set Fold.
type Marker struct {
	Text string
	Fold bool
}

// Section markers used by the README extractors.
var (
	IntroMarkers     = []Marker{{Text: "#### About"}}
	HighlightMarkers = []Marker{{Text: "That's me"}, {Text: "That’s me"}}
	VideoMarkers     = []Marker{{Text: "Recent YouTube Videos"}, {Text: "Recent Videos"}}
	SpeakingMarkers  = []Marker{{Text: "speak at conferences", Fold: true}}
)

// Scan windows. They bound the work done on very large documents and carry no
// meaning about where a section ends.
const (
	IntroWindow     = 4000
	HighlightWindow = 4000
	VideoWindow     = 8000
	SpeakingWindow  = 6000
)

// Locate returns the offset immediately after the first occurrence of m.
func Locate(doc string, m Marker) (int, bool) {
	if m.Text == "" || doc == "" {
		return 0, false
	}
	if !m.Fold {
		idx := strings.Index(doc, m.Text)
		if idx < 0 {
			return 0, false
		}
		return idx + len(m.Text), true
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(m.Text))
	if err != nil {
		return 0, false
	}
	loc := re.FindStringIndex(doc)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// LocateAny tries markers in order and returns the first hit.
func LocateAny(doc string, markers []Marker) (int, bool) {
	for _, m := range markers {
		if off, ok := Locate(doc, m); ok {
			return off, true
		}
	}
	return 0, false
}

// Window returns at most size bytes of doc starting at offset. Both ends are
// moved onto rune boundaries, so the result is valid UTF-8 for valid input.
func Window(doc string, offset, size int) string {
	if offset < 0 {
		offset = 0
	}
	offset = runeFloor(doc, offset)
	if offset >= len(doc) {
		return ""
	}
	end := offset + size
	if size <= 0 || end > len(doc) {
		end = len(doc)
	}
	for end < len(doc) && end > offset && !utf8.RuneStart(doc[end]) {
		end--
	}
	return doc[offset:end]
}

// runeFloor moves offset forward to the next rune boundary.
func runeFloor(doc string, offset int) int {
	for offset < len(doc) && !utf8.RuneStart(doc[offset]) {
		offset++
	}
	return offset
}

// Section locates the first matching marker and returns the bounded slice that
// follows it. ok is false when no marker occurs in doc.
func Section(doc string, markers []Marker, size int) (string, bool) {
	off, ok := LocateAny(doc, markers)
	if !ok {
		return "", false
	}
	return Window(doc, off, size), true
}

// afterLine drops the remainder of the line the section started on.
func afterLine(section string) string {
	idx := strings.IndexByte(section, '\n')
	if idx < 0 {
		return ""
	}
	return section[idx+1:]
}
