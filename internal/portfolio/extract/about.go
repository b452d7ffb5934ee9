package extract

import (
	"regexp"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

// MaxHighlights caps the highlights list.
const MaxHighlights = 6

// Only top-level bullets count; indented sub-bullets are skipped.
var bulletRE = regexp.MustCompile(`^-\s+`)

// ExtractIntro returns the first paragraph after the About heading, or nil.
func ExtractIntro(doc string) *core.IntroRecord {
	section, ok := Section(doc, IntroMarkers, IntroWindow)
	if !ok {
		return nil
	}
	paras := make([]string, 0)
	for _, line := range splitLines(afterLine(section)) {
		if isHeading(line) {
			break
		}
		if strings.TrimSpace(line) == "" {
			if len(paras) > 0 {
				break
			}
			continue
		}
		paras = append(paras, strings.TrimSpace(line))
	}
	if len(paras) == 0 {
		return nil
	}
	return &core.IntroRecord{Text: RewriteLinks(strings.Join(paras, " "))}
}

// ExtractHighlights returns the bullets under the highlights heading in
// document order. Lines that are not bullets are skipped.
func ExtractHighlights(doc string) []core.HighlightItem {
	section, ok := Section(doc, HighlightMarkers, HighlightWindow)
	if !ok {
		return nil
	}
	items := make([]core.HighlightItem, 0, MaxHighlights)
	for _, line := range splitLines(afterLine(section)) {
		if isHeading(line) {
			break
		}
		if !bulletRE.MatchString(line) {
			continue
		}
		body := strings.TrimSpace(bulletRE.ReplaceAllString(line, ""))
		if body == "" {
			continue
		}
		items = append(items, RewriteLinks(body))
		if len(items) == MaxHighlights {
			break
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
