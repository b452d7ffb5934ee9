package sources

import (
	"context"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/extract"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	SourceDevTo    = "devto"
	SourceHashnode = "hashnode"

	// MaxArticlesPerSource caps each feed before merging.
	MaxArticlesPerSource = 6
	// MaxArticles caps the merged list.
	MaxArticles = 8

	defaultDevToTemplate = "https://dev.to/api/articles?username=%s&per_page=6"
)

// DevTo lists a user's articles from the dev.to public API.
type DevTo struct {
	endpoint string
	fetcher  core.Fetcher
}

// NewDevTo builds the source. apiURL, when set, replaces the URL derived
// from username.
func NewDevTo(username, apiURL string, fetcher core.Fetcher) *DevTo {
	endpoint := strings.TrimSpace(apiURL)
	if endpoint == "" && strings.TrimSpace(username) != "" {
		endpoint = fmt.Sprintf(defaultDevToTemplate, url.QueryEscape(strings.TrimSpace(username)))
	}
	return &DevTo{endpoint: endpoint, fetcher: fetcher}
}

func (d *DevTo) Enabled() bool { return d != nil && d.endpoint != "" && d.fetcher != nil }

type devtoArticle struct {
	Title               string `json:"title"`
	URL                 string `json:"url"`
	ReadablePublishDate string `json:"readable_publish_date"`
	PublishedAt         string `json:"published_at"`
}

func (d *DevTo) Articles(ctx context.Context) ([]core.Article, error) {
	if !d.Enabled() {
		return nil, errors.New("dev.to source is not configured")
	}
	body, err := getOK(ctx, d.fetcher, SourceDevTo, d.endpoint, "application/json")
	if err != nil {
		return nil, err
	}
	var items []devtoArticle
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &core.ParseError{Source: SourceDevTo, Err: err}
	}
	out := make([]core.Article, 0, MaxArticlesPerSource)
	for _, item := range items {
		if len(out) >= MaxArticlesPerSource {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.URL)
		if title == "" || link == "" {
			continue
		}
		var published *time.Time
		date := strings.TrimSpace(item.ReadablePublishDate)
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(item.PublishedAt)); err == nil {
			t = t.UTC()
			published = &t
			date = t.Format(extract.DisplayDateLayout)
		}
		out = append(out, core.Article{
			Title:       title,
			URL:         link,
			Date:        date,
			PublishedAt: published,
			Source:      SourceDevTo,
		})
	}
	return out, nil
}

// Hashnode reads a blog's RSS feed.
type Hashnode struct {
	feedURL string
	fetcher core.Fetcher
}

func NewHashnode(feedURL string, fetcher core.Fetcher) *Hashnode {
	return &Hashnode{feedURL: strings.TrimSpace(feedURL), fetcher: fetcher}
}

func (h *Hashnode) Enabled() bool { return h != nil && h.feedURL != "" && h.fetcher != nil }

func (h *Hashnode) Articles(ctx context.Context) ([]core.Article, error) {
	if !h.Enabled() {
		return nil, errors.New("hashnode source is not configured")
	}
	body, err := getOK(ctx, h.fetcher, SourceHashnode, h.feedURL, "application/rss+xml,application/xml;q=0.9")
	if err != nil {
		return nil, err
	}
	return ParseRSS(body)
}

// ParseRSS converts feed items into articles. Markup inside titles is
// dropped. Atom bodies are accepted too.
func ParseRSS(body []byte) ([]core.Article, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &core.ParseError{Source: SourceHashnode, Err: err}
	}
	out := make([]core.Article, 0, MaxArticlesPerSource)
	for _, item := range feed.Items {
		if len(out) >= MaxArticlesPerSource {
			break
		}
		title := stripMarkup(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		var published *time.Time
		date := strings.TrimSpace(item.Published)
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			published = &t
			date = t.Format(extract.DisplayDateLayout)
		}
		out = append(out, core.Article{
			Title:       title,
			URL:         link,
			Date:        date,
			PublishedAt: published,
			Source:      SourceHashnode,
		})
	}
	return out, nil
}

func stripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return extract.CleanTitle(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return extract.CleanTitle(s)
	}
	return extract.CleanTitle(doc.Text())
}

// MergeArticles combines article lists, newest first. Undated articles keep
// their relative order after the dated ones. Duplicate URLs keep the first
// occurrence.
func MergeArticles(lists ...[]core.Article) []core.Article {
	var all []core.Article
	seen := map[string]bool{}
	for _, list := range lists {
		for _, a := range list {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			all = append(all, a)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].PublishedAt, all[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(all) > MaxArticles {
		all = all[:MaxArticles]
	}
	return all
}

func getOK(ctx context.Context, fetcher core.Fetcher, source, target, accept string) ([]byte, error) {
	body, status, err := fetcher.Get(ctx, target, map[string]string{"Accept": accept})
	if err != nil {
		return nil, &core.FetchError{Source: source, URL: target, Err: err}
	}
	if status != http.StatusOK {
		return nil, &core.FetchError{Source: source, URL: target, Status: status}
	}
	return body, nil
}
