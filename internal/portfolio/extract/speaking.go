package extract

import (
	"regexp"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

// MaxSpeaking caps the talks list.
const MaxSpeaking = 20

var talkBulletRE = regexp.MustCompile(`-\s*\[(.*?)\]\((https?://[^)\s]+)\)`)

// ExtractSpeaking returns bullet links after the speaking marker in document
// order. Talks are not deduplicated and carry no location yet.
func ExtractSpeaking(doc string) []core.SpeakingEntry {
	section, ok := Section(doc, SpeakingMarkers, SpeakingWindow)
	if !ok {
		return nil
	}
	out := make([]core.SpeakingEntry, 0)
	for _, m := range talkBulletRE.FindAllStringSubmatch(section, -1) {
		title := CleanTitle(m[1])
		if title == "" {
			continue
		}
		out = append(out, core.SpeakingEntry{Title: title, URL: strings.TrimSpace(m[2])})
		if len(out) == MaxSpeaking {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
