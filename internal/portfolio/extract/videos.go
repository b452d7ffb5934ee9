package extract

import (
	"regexp"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxMinedVideos caps raw matches collected across all matchers.
	MaxMinedVideos = 6
	// MaxVideos caps the list handed to the presentation layer.
	MaxVideos = 4

	// FallbackVideoTitle is used when a match carries no caption.
	FallbackVideoTitle = "YouTube Video"

	SourceReadme = "readme"
)

// VideoMatch is one candidate link found in a document.
type VideoMatch struct {
	Title string
	URL   string
}

// VideoMatcher is a named pure matcher over a section of text.
type VideoMatcher struct {
	Name  string
	Match func(section string) []VideoMatch
}

var (
	watchLinkRE = regexp.MustCompile(`\[([^\[\]]+)\]\((https?://(?:www\.|m\.)?youtube\.com/watch\?[^\s)]+)\)`)
	shortLinkRE = regexp.MustCompile(`\[([^\[\]]+)\]\((https?://youtu\.be/[^\s)]+)\)`)
	// [![alt](thumb)](URL) on one line, optional <br>, then [**Title**](URL).
	imageCaptionRE = regexp.MustCompile(`\[!\[[^\]]*\]\([^)]*\)\]\((https?://[^\s)]+)\)[ \t]*(?:<br\s*/?>)?\s*\[\*\*(.*?)\*\*\]\((https?://[^\s)]+)\)`)
	// [![alt](thumb)](URL) with no caption line.
	imageLinkRE    = regexp.MustCompile(`\[!\[([^\]]*)\]\([^)]*\)\]\((https?://[^\s)]+)\)`)
	bareVideoURLRE = regexp.MustCompile(`https?://(?:(?:www\.|m\.)?youtube\.com/(?:watch\?v=|shorts/|embed/)|youtu\.be/)[A-Za-z0-9_-]{6,}[^\s)"'<>\]]*`)
)

// VideoMatchers returns the document matchers in priority order.
func VideoMatchers() []VideoMatcher {
	return []VideoMatcher{
		{Name: "markdown_watch", Match: markdownMatcher(watchLinkRE)},
		{Name: "markdown_short", Match: markdownMatcher(shortLinkRE)},
		{Name: "image_caption", Match: matchImageCaption},
		{Name: "image_alt", Match: matchImageAlt},
		{Name: "html_anchor", Match: matchHTMLAnchors},
		{Name: "bare_url", Match: matchBareURLs},
	}
}

func markdownMatcher(re *regexp.Regexp) func(string) []VideoMatch {
	return func(section string) []VideoMatch {
		out := make([]VideoMatch, 0)
		for _, m := range re.FindAllStringSubmatch(section, -1) {
			if !IsVideoURL(m[2]) {
				continue
			}
			out = append(out, VideoMatch{Title: CleanTitle(m[1]), URL: m[2]})
		}
		return out
	}
}

func matchImageCaption(section string) []VideoMatch {
	out := make([]VideoMatch, 0)
	for _, m := range imageCaptionRE.FindAllStringSubmatch(section, -1) {
		if m[1] != m[3] || !IsVideoURL(m[1]) {
			continue
		}
		out = append(out, VideoMatch{Title: CleanTitle(m[2]), URL: m[1]})
	}
	return out
}

func matchImageAlt(section string) []VideoMatch {
	out := make([]VideoMatch, 0)
	for _, m := range imageLinkRE.FindAllStringSubmatch(section, -1) {
		if !IsVideoURL(m[2]) {
			continue
		}
		out = append(out, VideoMatch{Title: CleanTitle(m[1]), URL: m[2]})
	}
	return out
}

func matchHTMLAnchors(section string) []VideoMatch {
	if !strings.Contains(section, "<a") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(section))
	if err != nil {
		return nil
	}
	out := make([]VideoMatch, 0)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if !IsVideoURL(href) {
			return
		}
		title := CleanTitle(sel.Text())
		if title == "" {
			title = CleanTitle(sel.Find("img[alt]").First().AttrOr("alt", ""))
		}
		if title == "" {
			title = CleanTitle(sel.AttrOr("title", ""))
		}
		out = append(out, VideoMatch{Title: title, URL: href})
	})
	return out
}

func matchBareURLs(section string) []VideoMatch {
	out := make([]VideoMatch, 0)
	for _, raw := range bareVideoURLRE.FindAllString(section, -1) {
		clean := strings.TrimRight(raw, ".,;*")
		if !IsVideoURL(clean) {
			continue
		}
		out = append(out, VideoMatch{Title: FallbackVideoTitle, URL: clean})
	}
	return out
}

// MineVideos applies every matcher to the videos section of doc, collecting at
// most MaxMinedVideos raw matches in matcher order, then drops repeated URLs
// keeping the first. Each survivor gets a thumbnail and the nearest date.
func MineVideos(doc string) []core.VideoEntry {
	return MineVideosWith(doc, VideoMatchers())
}

// MineVideosWith is MineVideos over an explicit matcher list.
func MineVideosWith(doc string, matchers []VideoMatcher) []core.VideoEntry {
	section, ok := Section(doc, VideoMarkers, VideoWindow)
	if !ok {
		return nil
	}
	raw := make([]VideoMatch, 0, MaxMinedVideos)
collect:
	for _, matcher := range matchers {
		for _, m := range matcher.Match(section) {
			raw = append(raw, m)
			if len(raw) == MaxMinedVideos {
				break collect
			}
		}
	}
	unique := DedupVideoMatches(raw)
	if len(unique) == 0 {
		return nil
	}
	out := make([]core.VideoEntry, 0, len(unique))
	for _, m := range unique {
		title := m.Title
		if title == "" {
			title = FallbackVideoTitle
		}
		date := ""
		if idx := strings.Index(doc, m.URL); idx >= 0 {
			date = FindDateNear(doc, idx, idx+len(m.URL))
		}
		out = append(out, core.VideoEntry{
			Title:         title,
			URL:           m.URL,
			ThumbnailURL:  ThumbnailURL(m.URL),
			PublishedDate: date,
			Source:        SourceReadme,
		})
	}
	return out
}

// DedupVideoMatches keeps the first match per URL, preserving order.
func DedupVideoMatches(items []VideoMatch) []VideoMatch {
	seen := make(map[string]struct{}, len(items))
	out := make([]VideoMatch, 0, len(items))
	for _, item := range items {
		url := strings.TrimSpace(item.URL)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupVideos keeps the first entry per URL and truncates to max.
func DedupVideos(items []core.VideoEntry, max int) []core.VideoEntry {
	seen := make(map[string]struct{}, len(items))
	out := make([]core.VideoEntry, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		out = append(out, item)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
