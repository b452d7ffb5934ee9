package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/extract"

	"github.com/mmcdole/gofeed/atom"
)

const (
	SourceYouTubeFeed = "youtube_feed"

	MaxFeedVideos = 6

	defaultFeedTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
)

// Proxy rewrites the feed URL into a relay URL. The direct fetch is a proxy
// that returns its input.
type Proxy struct {
	Name     string
	Endpoint func(feedURL string) string
}

// ProxiesFromTemplates turns templates such as
// "https://relay.example/raw?url={url_escaped}" into proxies. A template
// without a placeholder gets the escaped URL appended.
func ProxiesFromTemplates(templates []string) []Proxy {
	out := make([]Proxy, 0, len(templates))
	for _, tmpl := range templates {
		tmpl = strings.TrimSpace(tmpl)
		if tmpl == "" {
			continue
		}
		name := tmpl
		if u, err := url.Parse(tmpl); err == nil && u.Host != "" {
			name = u.Host
		}
		tmpl := tmpl
		out = append(out, Proxy{Name: name, Endpoint: func(feedURL string) string {
			switch {
			case strings.Contains(tmpl, "{url_escaped}"):
				return strings.ReplaceAll(tmpl, "{url_escaped}", url.QueryEscape(feedURL))
			case strings.Contains(tmpl, "{url}"):
				return strings.ReplaceAll(tmpl, "{url}", feedURL)
			default:
				return tmpl + url.QueryEscape(feedURL)
			}
		}})
	}
	return out
}

// YouTubeConfig configures YouTubeFeed.
type YouTubeConfig struct {
	ChannelID string
	// FeedURL overrides the feed derived from ChannelID.
	FeedURL string
	Proxies []Proxy
}

// YouTubeFeed reads the channel's Atom feed, directly or through relays.
type YouTubeFeed struct {
	feedURL string
	proxies []Proxy
	fetcher core.Fetcher
	logger  *slog.Logger
}

func NewYouTubeFeed(cfg YouTubeConfig, fetcher core.Fetcher, logger *slog.Logger) *YouTubeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	feedURL := strings.TrimSpace(cfg.FeedURL)
	if feedURL == "" && strings.TrimSpace(cfg.ChannelID) != "" {
		feedURL = fmt.Sprintf(defaultFeedTemplate, url.QueryEscape(strings.TrimSpace(cfg.ChannelID)))
	}
	return &YouTubeFeed{feedURL: feedURL, proxies: cfg.Proxies, fetcher: fetcher, logger: logger}
}

// Enabled reports whether a feed location is known.
func (y *YouTubeFeed) Enabled() bool {
	return y != nil && y.feedURL != "" && y.fetcher != nil
}

// Videos returns up to MaxFeedVideos entries from the first location that
// yields a non-empty feed.
func (y *YouTubeFeed) Videos(ctx context.Context) ([]core.VideoEntry, error) {
	if !y.Enabled() {
		return nil, errors.New("youtube feed is not configured")
	}
	candidates := []core.Candidate[[]core.VideoEntry]{{
		Name:  "direct",
		Fetch: func(ctx context.Context) ([]core.VideoEntry, error) { return y.load(ctx, y.feedURL) },
	}}
	for _, proxy := range y.proxies {
		proxy := proxy
		candidates = append(candidates, core.Candidate[[]core.VideoEntry]{
			Name:  proxy.Name,
			Fetch: func(ctx context.Context) ([]core.VideoEntry, error) { return y.load(ctx, proxy.Endpoint(y.feedURL)) },
		})
	}
	videos, via, err := core.FirstSuccess(ctx, candidates)
	if err != nil {
		return nil, err
	}
	y.logger.Debug("youtube_feed", "via", via, "count", len(videos))
	return videos, nil
}

func (y *YouTubeFeed) load(ctx context.Context, target string) ([]core.VideoEntry, error) {
	body, status, err := y.fetcher.Get(ctx, target, map[string]string{"Accept": "application/atom+xml,application/xml;q=0.9"})
	if err != nil {
		return nil, &core.FetchError{Source: SourceYouTubeFeed, URL: target, Err: err}
	}
	if status != http.StatusOK {
		return nil, &core.FetchError{Source: SourceYouTubeFeed, URL: target, Status: status}
	}
	videos, err := ParseAtomFeed(body)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, core.ErrEmpty
	}
	return videos, nil
}

// ParseAtomFeed converts an Atom video feed into entries. Entries whose link
// is not a video URL are skipped.
func ParseAtomFeed(body []byte) ([]core.VideoEntry, error) {
	feed, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &core.ParseError{Source: SourceYouTubeFeed, Err: err}
	}
	out := make([]core.VideoEntry, 0, MaxFeedVideos)
	for _, entry := range feed.Entries {
		if len(out) >= MaxFeedVideos {
			break
		}
		link := entryLink(entry)
		if !extract.IsVideoURL(link) {
			continue
		}
		title := extract.CleanTitle(entry.Title)
		if title == "" {
			title = extract.FallbackVideoTitle
		}
		out = append(out, core.VideoEntry{
			Title:         title,
			URL:           link,
			ThumbnailURL:  extract.ThumbnailURL(link),
			PublishedDate: entryDate(entry),
			Source:        SourceYouTubeFeed,
		})
	}
	return out, nil
}

// entryLink prefers rel="alternate" (or no rel) over the first other link.
func entryLink(e *atom.Entry) string {
	fallback := ""
	for _, l := range e.Links {
		if l == nil {
			continue
		}
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func entryDate(e *atom.Entry) string {
	if e.PublishedParsed != nil {
		return e.PublishedParsed.UTC().Format(extract.DisplayDateLayout)
	}
	return extract.NormalizeDate(e.Published)
}
