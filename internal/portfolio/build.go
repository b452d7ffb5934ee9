package portfolio

import (
	"fmt"
	"log/slog"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/config"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/logging"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/fetch"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/geo"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/sources"
)

// Build wires every source from cfg around one shared fetcher.
func Build(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := fetch.NewHTTPFetcherWithConfig(logging.Component(logger, "fetch"), fetch.HTTPFetcherConfig{
		Timeout:      cfg.Fetch.Timeout,
		RateLimitRPS: cfg.Fetch.RateRPS,
		RateBurst:    cfg.Fetch.RateBurst,
	})

	github, err := sources.NewGitHubSource(sources.GitHubConfig{
		Username:  cfg.GitHub.Username,
		Token:     cfg.GitHub.Token,
		APIURL:    cfg.GitHub.APIURL,
		ReadmeURL: cfg.GitHub.ReadmeURL,
	}, fetcher.Client(), fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("github source: %w", err)
	}

	feed := sources.NewYouTubeFeed(sources.YouTubeConfig{
		ChannelID: cfg.YouTube.ChannelID,
		FeedURL:   cfg.YouTube.FeedURL,
		Proxies:   sources.ProxiesFromTemplates(cfg.YouTube.Proxies),
	}, fetcher, logger)
	if !feed.Enabled() {
		logger.Info("youtube_feed_disabled", "reason", "no channel id or feed url")
	}

	return NewService(Deps{
		Profile: github,
		Readme:  github,
		Feed:    feed,
		Articles: []ArticleSource{
			sources.NewDevTo(cfg.DevTo.Username, cfg.DevTo.APIURL, fetcher),
			sources.NewHashnode(cfg.Hashnode.RSSURL, fetcher),
		},
		Resolver:     geo.NewResolver(geo.DefaultTable()),
		FetchTimeout: cfg.Fetch.Timeout * 2,
	}, logging.Component(logger, "portfolio")), nil
}
