package extract

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRE   = regexp.MustCompile(`\s+`)
	emphasisTrimRE = regexp.MustCompile(`^[*_~\s]+|[*_~\s]+$`)
)

// NormalizeNewlines converts CRLF and CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitLines splits on LF after normalising line endings.
func splitLines(s string) []string {
	return strings.Split(NormalizeNewlines(s), "\n")
}

// isHeading reports whether a line opens a new markdown section.
func isHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// CleanTitle trims emphasis markup and collapses whitespace.
func CleanTitle(s string) string {
	s = multiSpaceRE.ReplaceAllString(s, " ")
	s = emphasisTrimRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
