package core

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

// Segment is one run of formatted text. A segment with Href is a hyperlink.
type Segment struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Rich is formatted text with embedded hyperlinks, in document order.
type Rich []Segment

// Plain returns the text with link labels inlined.
func (r Rich) Plain() string {
	var b strings.Builder
	for _, seg := range r {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// HTML renders the text as escaped HTML with anchors opening in a new tab.
func (r Rich) HTML() string {
	var b strings.Builder
	for _, seg := range r {
		if seg.Href == "" {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener">%s</a>`,
			html.EscapeString(seg.Href), html.EscapeString(seg.Text))
	}
	return b.String()
}

// Links returns the hyperlink segments.
func (r Rich) Links() []Segment {
	out := make([]Segment, 0)
	for _, seg := range r {
		if seg.Href != "" {
			out = append(out, seg)
		}
	}
	return out
}

// IntroRecord is the intro paragraph of the profile README.
type IntroRecord struct {
	Text Rich `json:"text"`
}

// HighlightItem is one bullet of the highlights list.
type HighlightItem = Rich

// VideoEntry is one recent video.
type VideoEntry struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	PublishedDate string `json:"publishedDate"`
	Source        string `json:"source"`
}

// GeoPoint is a coordinate resolved from a free-text label.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Place     string  `json:"place"`
	Geohash   string  `json:"geohash"`
}

// SpeakingEntry is one talk. Location is nil when the title could not be resolved.
type SpeakingEntry struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Location *GeoPoint `json:"location,omitempty"`
}

// Article is one post from an article listing.
type Article struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Date        string     `json:"date"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Source      string     `json:"source"`
}

// Profile is the subset of the GitHub user record the site shows.
type Profile struct {
	AvatarURL string `json:"avatarUrl"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	Bio       string `json:"bio"`
}

// Extraction is everything mined from one README document.
type Extraction struct {
	Intro      *IntroRecord    `json:"intro,omitempty"`
	Highlights []HighlightItem `json:"highlights"`
	Videos     []VideoEntry    `json:"videos"`
	Speaking   []SpeakingEntry `json:"speaking"`
}

// SpeakingResolved counts talks that carry a location.
func (e Extraction) SpeakingResolved() int {
	n := 0
	for _, talk := range e.Speaking {
		if talk.Location != nil {
			n++
		}
	}
	return n
}

// Snapshot is one full pass over every source.
type Snapshot struct {
	Profile          *Profile        `json:"profile,omitempty"`
	Intro            *IntroRecord    `json:"intro,omitempty"`
	Highlights       []HighlightItem `json:"highlights"`
	Videos           []VideoEntry    `json:"videos"`
	VideosFound      bool            `json:"videosFound"`
	VideoStrategy    string          `json:"videoStrategy,omitempty"`
	Articles         []Article       `json:"articles"`
	Speaking         []SpeakingEntry `json:"speaking"`
	SpeakingResolved int             `json:"speakingResolved"`
}

// Fetcher retrieves a URL and reports the body and status.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) ([]byte, int, error)
}

// FetchError reports a network failure or a non-success status from a source.
type FetchError struct {
	Source string
	URL    string
	Status int
	Err    error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e == nil {
		return "fetch failed"
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.URL, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s (%s): status %d", e.Source, e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s (%s) failed", e.Source, e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports a payload that could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e == nil {
		return "parse failed"
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
