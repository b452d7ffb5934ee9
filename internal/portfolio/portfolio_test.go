package portfolio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

const sampleReadme = "# Hi there\r\n" +
	"#### About\n" +
	"\n" +
	"Hello world. I write at [dev.to](https://dev.to/eleftheria).\n" +
	"\n" +
	"#### That's me\n" +
	"- [PyCon](https://pycon.org)\n" +
	"\n" +
	"#### Recent YouTube Videos\n" +
	"- [Go tips](https://www.youtube.com/watch?v=abc123XYZ) Mar 5, 2024\n" +
	"- [Go tips again](https://www.youtube.com/watch?v=abc123XYZ)\n" +
	"- [Short one](https://youtu.be/zzz999ABC)\n" +
	"\n" +
	"#### Speaking\n" +
	"Sometimes I speak at conferences:\n" +
	"- [Talk in Porto](https://x/y)\n" +
	"- [Remote meetup](https://x/z)\n"

type fakeProfile struct {
	profile *core.Profile
	err     error
}

func (f fakeProfile) Profile(context.Context) (*core.Profile, error) { return f.profile, f.err }

type fakeReadme struct {
	text  string
	err   error
	calls int32
}

func (f *fakeReadme) Readme(context.Context) (string, string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.text, "fake", f.err
}

type fakeFeed struct {
	enabled bool
	videos  []core.VideoEntry
	err     error
}

func (f fakeFeed) Enabled() bool { return f.enabled }
func (f fakeFeed) Videos(context.Context) ([]core.VideoEntry, error) {
	return f.videos, f.err
}

type fakeArticles struct {
	list []core.Article
	err  error
}

func (f fakeArticles) Enabled() bool { return true }
func (f fakeArticles) Articles(context.Context) ([]core.Article, error) {
	return f.list, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractEndToEnd(t *testing.T) {
	svc := NewService(Deps{}, quietLogger())
	got := svc.Extract(sampleReadme)

	if got.Intro == nil || got.Intro.Text.Plain() != "Hello world. I write at dev.to." {
		t.Fatalf("unexpected intro: %+v", got.Intro)
	}
	if links := got.Intro.Text.Links(); len(links) != 1 || links[0].Href != "https://dev.to/eleftheria" {
		t.Fatalf("expected intro link, got %+v", links)
	}
	if len(got.Highlights) != 1 {
		t.Fatalf("expected one highlight, got %+v", got.Highlights)
	}
	if links := got.Highlights[0].Links(); len(links) != 1 || links[0].Text != "PyCon" || links[0].Href != "https://pycon.org" {
		t.Fatalf("unexpected highlight links %+v", links)
	}
	if len(got.Videos) != 2 {
		t.Fatalf("expected deduplicated videos, got %+v", got.Videos)
	}
	if got.Videos[0].Title != "Go tips" || got.Videos[0].PublishedDate != "Mar 5, 2024" {
		t.Fatalf("unexpected first video %+v", got.Videos[0])
	}
	if len(got.Speaking) != 2 {
		t.Fatalf("expected two talks, got %+v", got.Speaking)
	}
	loc := got.Speaking[0].Location
	if loc == nil || loc.Latitude != 41.1579 || loc.Longitude != -8.6291 {
		t.Fatalf("expected Porto coordinates, got %+v", loc)
	}
	if got.Speaking[1].Location != nil {
		t.Fatalf("remote meetup should stay unresolved")
	}
	if got.SpeakingResolved() != 1 {
		t.Fatalf("expected one resolved talk")
	}
}

func TestExtractSimpleIntro(t *testing.T) {
	svc := NewService(Deps{}, quietLogger())
	got := svc.Extract("#### About\nHello world.\n\n#### Next")
	if got.Intro == nil || got.Intro.Text.Plain() != "Hello world." {
		t.Fatalf("unexpected intro %+v", got.Intro)
	}
	if got.Highlights != nil || got.Videos != nil || got.Speaking != nil {
		t.Fatalf("absent sections should be empty: %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	svc := NewService(Deps{}, quietLogger())
	first := svc.Extract(sampleReadme)
	second := svc.Extract(sampleReadme)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction differs between runs:\n%+v\n%+v", first, second)
	}
}

func TestSnapshotPrefersFeed(t *testing.T) {
	feedVideos := []core.VideoEntry{
		{Title: "1", URL: "https://www.youtube.com/watch?v=111111"},
		{Title: "2", URL: "https://www.youtube.com/watch?v=222222"},
		{Title: "3", URL: "https://www.youtube.com/watch?v=333333"},
		{Title: "4", URL: "https://www.youtube.com/watch?v=444444"},
		{Title: "5", URL: "https://www.youtube.com/watch?v=555555"},
	}
	svc := NewService(Deps{
		Readme: &fakeReadme{text: sampleReadme},
		Feed:   fakeFeed{enabled: true, videos: feedVideos},
	}, quietLogger())
	snap := svc.Snapshot(context.Background())
	if snap.VideoStrategy != StrategyYouTubeFeed {
		t.Fatalf("expected feed strategy, got %q", snap.VideoStrategy)
	}
	if len(snap.Videos) != 4 || !snap.VideosFound {
		t.Fatalf("expected four feed videos, got %+v", snap.Videos)
	}
}

func TestSnapshotFallsBackToMining(t *testing.T) {
	svc := NewService(Deps{
		Readme: &fakeReadme{text: sampleReadme},
		Feed:   fakeFeed{enabled: true, err: errors.New("all relays down")},
	}, quietLogger())
	snap := svc.Snapshot(context.Background())
	if snap.VideoStrategy != StrategyReadmeMining {
		t.Fatalf("expected mining strategy, got %q", snap.VideoStrategy)
	}
	if len(snap.Videos) != 2 {
		t.Fatalf("expected mined videos, got %+v", snap.Videos)
	}
}

func TestSnapshotDegradesPerCategory(t *testing.T) {
	published := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(Deps{
		Profile: fakeProfile{err: &core.FetchError{Source: "github_profile", Status: 500}},
		Readme:  &fakeReadme{err: &core.FetchError{Source: "github_readme", Status: 404}},
		Feed:    fakeFeed{enabled: false},
		Articles: []ArticleSource{
			fakeArticles{err: &core.ParseError{Source: "devto", Err: errors.New("bad json")}},
			fakeArticles{list: []core.Article{{Title: "Post", URL: "https://blog.example/post", PublishedAt: &published}}},
		},
	}, quietLogger())
	snap := svc.Snapshot(context.Background())
	if snap.Profile != nil || snap.Intro != nil || snap.Highlights != nil || snap.Speaking != nil {
		t.Fatalf("failed sources should leave empty categories: %+v", snap)
	}
	if snap.VideosFound || snap.VideoStrategy != "" {
		t.Fatalf("expected no videos, got %+v", snap.Videos)
	}
	if len(snap.Articles) != 1 || snap.Articles[0].Title != "Post" {
		t.Fatalf("working source should still produce articles: %+v", snap.Articles)
	}
}

func TestSnapshotFillsEveryCategory(t *testing.T) {
	readme := &fakeReadme{text: sampleReadme}
	svc := NewService(Deps{
		Profile: fakeProfile{profile: &core.Profile{Name: "Eleftheria", Login: "eleftheria"}},
		Readme:  readme,
	}, quietLogger())
	snap := svc.Snapshot(context.Background())
	if snap.Profile == nil || snap.Profile.Name != "Eleftheria" {
		t.Fatalf("unexpected profile %+v", snap.Profile)
	}
	if snap.Intro == nil || len(snap.Highlights) != 1 || len(snap.Speaking) != 2 || snap.SpeakingResolved != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := atomic.LoadInt32(&readme.calls); got != 1 {
		t.Fatalf("readme should be fetched once per snapshot, got %d", got)
	}
}

func TestSnapshotWithNoSources(t *testing.T) {
	snap := NewService(Deps{}, nil).Snapshot(context.Background())
	if snap.Profile != nil || snap.Videos != nil || snap.Articles != nil {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

type blockingFeed struct{}

func (blockingFeed) Enabled() bool { return true }
func (blockingFeed) Videos(ctx context.Context) ([]core.VideoEntry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSnapshotSlowFeedStillMines(t *testing.T) {
	svc := NewService(Deps{
		Readme:       &fakeReadme{text: sampleReadme},
		Feed:         blockingFeed{},
		FetchTimeout: 50 * time.Millisecond,
	}, quietLogger())
	snap := svc.Snapshot(context.Background())
	if !snap.VideosFound || snap.VideoStrategy != StrategyReadmeMining || len(snap.Videos) != 2 {
		t.Fatalf("expected README mining after the feed timed out, got %q %+v", snap.VideoStrategy, snap.Videos)
	}
}

func TestSnapshotMinesAfterCallerDeadline(t *testing.T) {
	svc := NewService(Deps{
		Readme: &fakeReadme{text: sampleReadme},
		Feed:   blockingFeed{},
	}, quietLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	snap := svc.Snapshot(ctx)
	if snap.VideoStrategy != StrategyReadmeMining || len(snap.Videos) != 2 {
		t.Fatalf("mining should not depend on the deadline, got %q %+v", snap.VideoStrategy, snap.Videos)
	}
}

func TestVideosSkipsReadmeWhenFeedWins(t *testing.T) {
	readme := &fakeReadme{text: sampleReadme}
	svc := NewService(Deps{
		Readme: readme,
		Feed:   fakeFeed{enabled: true, videos: []core.VideoEntry{{Title: "1", URL: "https://www.youtube.com/watch?v=111111"}}},
	}, quietLogger())
	videos, strategy := svc.Videos(context.Background())
	if strategy != StrategyYouTubeFeed || len(videos) != 1 {
		t.Fatalf("expected the feed to win, got %q %+v", strategy, videos)
	}
	if got := atomic.LoadInt32(&readme.calls); got != 0 {
		t.Fatalf("readme should not be fetched when the feed yields videos, got %d calls", got)
	}
}

func TestVideosFetchesReadmeOnFallback(t *testing.T) {
	readme := &fakeReadme{text: sampleReadme}
	svc := NewService(Deps{Readme: readme, Feed: fakeFeed{enabled: true}}, quietLogger())
	videos, strategy := svc.Videos(context.Background())
	if strategy != StrategyReadmeMining || len(videos) != 2 {
		t.Fatalf("expected mined videos, got %q %+v", strategy, videos)
	}
	if got := atomic.LoadInt32(&readme.calls); got != 1 {
		t.Fatalf("expected one readme fetch, got %d", got)
	}
}
