package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

var markdownLinkRE = regexp.MustCompile(`\[([^\[\]]*)\]\(([A-Za-z][A-Za-z0-9+.-]*:[^\s)]+)\)`)

var linkSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// RewriteLinks turns [label](url) markdown into link segments. Only URLs with
// an explicit, known scheme are rewritten; anything else stays literal.
func RewriteLinks(text string) core.Rich {
	out := core.Rich{}
	last := 0
	for _, m := range markdownLinkRE.FindAllStringSubmatchIndex(text, -1) {
		label := text[m[2]:m[3]]
		href := text[m[4]:m[5]]
		if !validLinkTarget(href) {
			continue
		}
		out = appendText(out, text[last:m[0]])
		out = append(out, core.Segment{Text: label, Href: href})
		last = m[1]
	}
	out = appendText(out, text[last:])
	return out
}

func validLinkTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if !linkSchemes[scheme] {
		return false
	}
	if scheme == "mailto" {
		return u.Opaque != ""
	}
	return u.Host != ""
}

func appendText(r core.Rich, s string) core.Rich {
	if s == "" {
		return r
	}
	if n := len(r); n > 0 && r[n-1].Href == "" {
		r[n-1].Text += s
		return r
	}
	return append(r, core.Segment{Text: s})
}
