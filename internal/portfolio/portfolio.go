// Package portfolio assembles the site content from the profile README and
// the external feeds.
package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/extract"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/geo"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/sources"

	"golang.org/x/sync/errgroup"
)

const (
	StrategyYouTubeFeed  = "youtube_feed"
	StrategyReadmeMining = "readme_mining"
)

// ProfileSource returns the account record.
type ProfileSource interface {
	Profile(ctx context.Context) (*core.Profile, error)
}

// ReadmeSource returns the README text and the name of the location that
// served it.
type ReadmeSource interface {
	Readme(ctx context.Context) (string, string, error)
}

// VideoFeed returns recent uploads.
type VideoFeed interface {
	Enabled() bool
	Videos(ctx context.Context) ([]core.VideoEntry, error)
}

// ArticleSource returns published articles.
type ArticleSource interface {
	Enabled() bool
	Articles(ctx context.Context) ([]core.Article, error)
}

// Deps wires the sources. Any of them may be nil.
type Deps struct {
	Profile  ProfileSource
	Readme   ReadmeSource
	Feed     VideoFeed
	Articles []ArticleSource
	Resolver *geo.Resolver
	// FetchTimeout bounds each network call. Extraction is never bounded.
	// Zero means the caller's context only.
	FetchTimeout time.Duration
}

type Service struct {
	deps   Deps
	logger *slog.Logger
}

func NewService(deps Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Resolver == nil {
		deps.Resolver = geo.NewResolver(nil)
	}
	return &Service{deps: deps, logger: logger}
}

// Extract mines one document. It performs no I/O and returns the same
// result for the same input.
func (s *Service) Extract(doc string) core.Extraction {
	doc = extract.NormalizeNewlines(doc)
	speaking, _ := s.deps.Resolver.Annotate(extract.ExtractSpeaking(doc))
	return core.Extraction{
		Intro:      extract.ExtractIntro(doc),
		Highlights: extract.ExtractHighlights(doc),
		Videos:     extract.MineVideos(doc),
		Speaking:   speaking,
	}
}

// Snapshot reads every source once. Failures are logged and leave their
// category empty; Snapshot itself never fails.
func (s *Service) Snapshot(ctx context.Context) core.Snapshot {
	start := time.Now()

	var (
		profile  *core.Profile
		readme   string
		articles = make([][]core.Article, len(s.deps.Articles))
	)
	// Tasks never return errors so one failure cannot cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile = s.profile(gctx)
		return nil
	})
	g.Go(func() error {
		readme = s.readme(gctx)
		return nil
	})
	for i, src := range s.deps.Articles {
		i, src := i, src
		g.Go(func() error {
			articles[i] = s.articles(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	snap := core.Snapshot{Profile: profile}
	if readme != "" {
		readme = extract.NormalizeNewlines(readme)
		snap.Intro = extract.ExtractIntro(readme)
		snap.Highlights = extract.ExtractHighlights(readme)
		snap.Speaking, snap.SpeakingResolved = s.deps.Resolver.Annotate(extract.ExtractSpeaking(readme))
	}
	snap.Videos, snap.VideoStrategy = s.videos(ctx, func(context.Context) string { return readme })
	snap.VideosFound = len(snap.Videos) > 0
	snap.Articles = sources.MergeArticles(articles...)

	s.logger.Info("snapshot",
		"action", "snapshot",
		"status", "ok",
		"readme", readme != "",
		"videos", len(snap.Videos),
		"video_strategy", snap.VideoStrategy,
		"articles", len(snap.Articles),
		"speaking", len(snap.Speaking),
		"speaking_resolved", snap.SpeakingResolved,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap
}

// Videos runs only the video strategies. The README is fetched only when the
// feed yields nothing.
func (s *Service) Videos(ctx context.Context) ([]core.VideoEntry, string) {
	return s.videos(ctx, s.readme)
}

// Speaking returns the annotated talk list and how many were located.
func (s *Service) Speaking(ctx context.Context) ([]core.SpeakingEntry, int) {
	readme := s.readme(ctx)
	if readme == "" {
		return nil, 0
	}
	return s.deps.Resolver.Annotate(extract.ExtractSpeaking(extract.NormalizeNewlines(readme)))
}

// About returns the intro and highlights.
func (s *Service) About(ctx context.Context) (*core.IntroRecord, []core.HighlightItem) {
	readme := s.readme(ctx)
	if readme == "" {
		return nil, nil
	}
	readme = extract.NormalizeNewlines(readme)
	return extract.ExtractIntro(readme), extract.ExtractHighlights(readme)
}

// Profile returns the account record or nil.
func (s *Service) Profile(ctx context.Context) *core.Profile {
	return s.profile(ctx)
}

// Articles returns the merged article list.
func (s *Service) Articles(ctx context.Context) []core.Article {
	lists := make([][]core.Article, len(s.deps.Articles))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.deps.Articles {
		i, src := i, src
		g.Go(func() error {
			lists[i] = s.articles(gctx, src)
			return nil
		})
	}
	_ = g.Wait()
	return sources.MergeArticles(lists...)
}

// videos tries the feed, then mines the README. Mining is pure once the text
// is in hand, so it runs even after the feed used up ctx.
func (s *Service) videos(ctx context.Context, readme func(context.Context) string) ([]core.VideoEntry, string) {
	var strategies []core.Strategy[core.VideoEntry]
	if s.deps.Feed != nil && s.deps.Feed.Enabled() {
		strategies = append(strategies, core.Strategy[core.VideoEntry]{
			Name: StrategyYouTubeFeed,
			Run: func(ctx context.Context) ([]core.VideoEntry, error) {
				ctx, cancel := s.fetchContext(ctx)
				defer cancel()
				return s.deps.Feed.Videos(ctx)
			},
		})
	}
	strategies = append(strategies, core.Strategy[core.VideoEntry]{
		Name: StrategyReadmeMining,
		Pure: true,
		Run: func(ctx context.Context) ([]core.VideoEntry, error) {
			text := readme(ctx)
			if text == "" {
				return nil, errors.New("readme unavailable")
			}
			return extract.MineVideos(text), nil
		},
	})
	videos, winner, attempts := core.FirstNonEmpty(ctx, strategies)
	for _, a := range attempts {
		if a.Err != nil {
			s.logger.Warn("video_strategy", "action", "videos", "status", "error", "strategy", a.Name, "error", a.Err)
		}
	}
	if len(videos) == 0 {
		return nil, ""
	}
	return extract.DedupVideos(videos, extract.MaxVideos), winner
}

func (s *Service) profile(ctx context.Context) *core.Profile {
	if s.deps.Profile == nil {
		return nil
	}
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	profile, err := s.deps.Profile.Profile(ctx)
	if err != nil {
		s.logFailure("profile", err)
		return nil
	}
	return profile
}

func (s *Service) readme(ctx context.Context) string {
	if s.deps.Readme == nil {
		return ""
	}
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	text, via, err := s.deps.Readme.Readme(ctx)
	if err != nil {
		s.logFailure("readme", err)
		return ""
	}
	s.logger.Debug("readme", "action", "readme", "status", "ok", "via", via, "bytes", len(text))
	return text
}

func (s *Service) articles(ctx context.Context, src ArticleSource) []core.Article {
	if src == nil || !src.Enabled() {
		return nil
	}
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	list, err := src.Articles(ctx)
	if err != nil {
		s.logFailure("articles", err)
		return nil
	}
	return list
}

func (s *Service) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.deps.FetchTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.deps.FetchTimeout)
}

func (s *Service) logFailure(action string, err error) {
	attrs := []any{"action", action, "status", "error", "error", err}
	var fetchErr *core.FetchError
	var parseErr *core.ParseError
	switch {
	case errors.As(err, &fetchErr):
		attrs = append(attrs, "source", fetchErr.Source, "http_status", fetchErr.Status)
	case errors.As(err, &parseErr):
		attrs = append(attrs, "source", parseErr.Source)
	}
	s.logger.Warn(action+"_failed", attrs...)
}
