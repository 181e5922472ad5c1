// Package nitter fetches Twitter/X profile pages through a scrape-friendly
// mirror and extracts a typed snapshot from the semi-structured HTML.
package nitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/imposter/httpcache"
	"github.com/codeGROOVE-dev/imposter/profile"
)

// DefaultBaseURL is the mirror instance used when none is configured.
// Mirror instances come and go; deployments should pin their own.
const DefaultBaseURL = "https://nitter.privacydev.net"

// Match returns true if the URL is a Twitter/X or mirror profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "twitter.com/") ||
		strings.Contains(lower, "x.com/") ||
		strings.Contains(lower, "nitter.")
}

// Client fetches mirror profile pages.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   httpcache.Cacher
	logger  *slog.Logger
	baseURL string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL points the client at a specific mirror instance.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// New creates a mirror client. No authentication is required.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
	}, nil
}

// Document fetches and parses the mirror page for a username or profile URL.
func (c *Client) Document(ctx context.Context, username string) (*html.Node, error) {
	username = ExtractUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", profile.ErrInvalidProfile)
	}

	pageURL := c.baseURL + "/" + username
	c.logger.InfoContext(ctx, "fetching mirror profile", "url", pageURL, "username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, username)
		}
		return nil, fmt.Errorf("%w: %w", profile.ErrNetworkFailure, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		// html.Parse is extremely tolerant; treat a failure as a fetch problem.
		return nil, fmt.Errorf("%w: parse mirror page: %w", profile.ErrNetworkFailure, err)
	}
	return doc, nil
}

// Fetch retrieves and extracts a mirror profile snapshot in one step.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.MirrorSnapshot, error) {
	doc, err := c.Document(ctx, username)
	if err != nil {
		return nil, err
	}
	snap := ParseProfile(doc)
	if snap.ScreenName == "" {
		snap.ScreenName = ExtractUsername(username)
	}
	return snap, nil
}

var usernamePattern = regexp.MustCompile(`(?:x\.com|twitter\.com|nitter\.[^/]+)/([^/?#]+)`)

// ExtractUsername pulls the screen name out of a profile URL, or trims a bare
// handle.
func ExtractUsername(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		if m := usernamePattern.FindStringSubmatch(strings.ToLower(s)); len(m) > 1 {
			return m[1]
		}
		return ""
	}
	return strings.TrimPrefix(s, "@")
}
