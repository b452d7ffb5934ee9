package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	SourceGitHubProfile = "github_profile"
	SourceGitHubReadme  = "github_readme"

	defaultRawReadmeTemplate = "https://raw.githubusercontent.com/%s/%s/main/README.md"
)

// GitHubConfig configures GitHubSource.
type GitHubConfig struct {
	Username string
	// Token is optional; anonymous calls are rate limited harder.
	Token string
	// APIURL overrides the API base URL, mostly for tests.
	APIURL string
	// ReadmeURL overrides the raw README location.
	ReadmeURL string
}

// GitHubSource reads the profile record and the profile README.
type GitHubSource struct {
	cfg     GitHubConfig
	client  *gh.Client
	fetcher core.Fetcher
	logger  *slog.Logger
}

// NewGitHubSource creates a GitHub source. httpClient carries the shared
// transport; fetcher is used for the raw README.
func NewGitHubSource(cfg GitHubConfig, httpClient *http.Client, fetcher core.Fetcher, logger *slog.Logger) (*GitHubSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.Username == "" {
		return nil, errors.New("github username is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token := strings.TrimSpace(cfg.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		authed.Timeout = httpClient.Timeout
		httpClient = authed
	}
	client := gh.NewClient(httpClient)
	if raw := strings.TrimSpace(cfg.APIURL); raw != "" {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		base, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = base
	}
	if strings.TrimSpace(cfg.ReadmeURL) == "" {
		cfg.ReadmeURL = fmt.Sprintf(defaultRawReadmeTemplate, cfg.Username, cfg.Username)
	}
	return &GitHubSource{cfg: cfg, client: client, fetcher: fetcher, logger: logger}, nil
}

// Profile fetches the user record. Name falls back to the login.
func (s *GitHubSource) Profile(ctx context.Context) (*core.Profile, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("github source is not configured")
	}
	user, _, err := s.client.Users.Get(ctx, s.cfg.Username)
	if err != nil {
		return nil, wrapGitHubError(SourceGitHubProfile, "users/"+s.cfg.Username, err)
	}
	profile := &core.Profile{
		AvatarURL: strings.TrimSpace(user.GetAvatarURL()),
		Name:      strings.TrimSpace(user.GetName()),
		Login:     strings.TrimSpace(user.GetLogin()),
		Bio:       strings.TrimSpace(user.GetBio()),
	}
	if profile.Name == "" {
		profile.Name = profile.Login
	}
	return profile, nil
}

// Readme returns the profile README, trying the raw file first and the
// contents API second. Each location is tried once.
func (s *GitHubSource) Readme(ctx context.Context) (string, string, error) {
	if s == nil {
		return "", "", errors.New("github source is not configured")
	}
	return core.FirstSuccess(ctx, []core.Candidate[string]{
		{Name: "raw", Fetch: s.rawReadme},
		{Name: "api", Fetch: s.apiReadme},
	})
}

func (s *GitHubSource) rawReadme(ctx context.Context) (string, error) {
	if s.fetcher == nil {
		return "", errors.New("fetcher is not configured")
	}
	body, status, err := s.fetcher.Get(ctx, s.cfg.ReadmeURL, map[string]string{"Accept": "text/plain"})
	if err != nil {
		return "", &core.FetchError{Source: SourceGitHubReadme, URL: s.cfg.ReadmeURL, Err: err}
	}
	if status != http.StatusOK {
		return "", &core.FetchError{Source: SourceGitHubReadme, URL: s.cfg.ReadmeURL, Status: status}
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", core.ErrEmpty
	}
	return text, nil
}

func (s *GitHubSource) apiReadme(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", errors.New("github client is not configured")
	}
	content, _, err := s.client.Repositories.GetReadme(ctx, s.cfg.Username, s.cfg.Username, nil)
	if err != nil {
		return "", wrapGitHubError(SourceGitHubReadme, "repos/"+s.cfg.Username+"/"+s.cfg.Username+"/readme", err)
	}
	text, err := content.GetContent()
	if err != nil {
		return "", &core.ParseError{Source: SourceGitHubReadme, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", core.ErrEmpty
	}
	return text, nil
}

func wrapGitHubError(source, path string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &core.FetchError{Source: source, URL: path, Status: ghErr.Response.StatusCode, Err: err}
	}
	return &core.FetchError{Source: source, URL: path, Err: err}
}
