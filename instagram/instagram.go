// Package instagram fetches Instagram profile data using authenticated
// session cookies.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/imposter/auth"
	"github.com/codeGROOVE-dev/imposter/httpcache"
	"github.com/codeGROOVE-dev/imposter/profile"
)

const platform = "instagram"

// appID is the web client's application ID; the profile API rejects requests
// without it.
const appID = "936619743392459"

// Match returns true if the URL is an Instagram profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "instagram.com/")
}

// IsValidUsername validates an Instagram username against platform rules:
// 1-30 characters, alphanumeric, dot, or underscore.
func IsValidUsername(username string) bool {
	if len(username) < 1 || len(username) > 30 {
		return false
	}
	for _, r := range username {
		isLower := r >= 'a' && r <= 'z'
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isUpper && !isDigit && r != '.' && r != '_' {
			return false
		}
	}
	return true
}

// AuthRequired returns true because Instagram requires authentication.
func AuthRequired() bool { return true }

// Client handles Instagram requests with authenticated cookies.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies        map[string]string
	cache          httpcache.Cacher
	logger         *slog.Logger
	browserCookies bool
}

// WithCookies sets explicit cookie values.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithHTTPCache sets a shared response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates an Instagram client.
// Cookie sources: WithCookies > environment variables > browser.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	var sources []auth.Source
	if len(cfg.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(cfg.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}

	cookies, err := auth.ChainSources(ctx, platform, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}
	if len(cookies) == 0 {
		envVars := auth.EnvVarsForPlatform(platform)
		return nil, fmt.Errorf("%w: set %v or use WithCookies/WithBrowserCookies",
			profile.ErrNoCookies, envVars)
	}

	jar, err := auth.NewCookieJar("instagram.com", cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar creation failed: %w", err)
	}

	cfg.logger.InfoContext(ctx, "instagram client created", "cookie_count", len(cookies))

	return &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// Fetch retrieves an Instagram profile snapshot by username or profile URL.
// The avatar bytes are fetched best effort; a snapshot with an empty
// ProfilePic is still scoreable.
func (c *Client) Fetch(ctx context.Context, usernameOrURL string) (*profile.Snapshot, error) {
	username := extractUsername(usernameOrURL)
	if !IsValidUsername(username) {
		return nil, fmt.Errorf("%w: bad username %q", profile.ErrInvalidProfile, username)
	}

	c.logger.InfoContext(ctx, "fetching instagram profile", "username", username)

	apiURL := "https://i.instagram.com/api/v1/users/web_profile_info/?username=" + username
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	setHeaders(req)

	body, err := httpcache.FetchURLWithValidator(ctx, c.cache, c.httpClient, req, c.logger, looksLikeProfileJSON)
	if err != nil {
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, username)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, fmt.Errorf("%w: session cookies rejected", profile.ErrAuthRequired)
			}
		}
		return nil, fmt.Errorf("%w: %w", profile.ErrNetworkFailure, err)
	}

	snap, err := parseProfileResponse(body, username)
	if err != nil {
		return nil, err
	}

	if snap.ProfilePicURL != "" {
		pic, picErr := c.FetchImage(ctx, snap.ProfilePicURL)
		if picErr != nil {
			c.logger.Debug("avatar download failed", "username", username, "error", picErr)
		} else {
			snap.ProfilePic = pic
		}
	}

	return snap, nil
}

// FetchImage downloads raw image bytes, typically for avatar comparison.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)

	data, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", profile.ErrNetworkFailure, err)
	}
	return data, nil
}

func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("X-IG-App-ID", appID)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", "https://www.instagram.com/")
}

// looksLikeProfileJSON rejects login walls and consent pages so they are never
// cached as profile data.
func looksLikeProfileJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && bytes.Contains(trimmed, []byte(`"user"`))
}

func parseProfileResponse(body []byte, username string) (*profile.Snapshot, error) {
	var resp struct {
		Data struct {
			User *struct {
				Username      string `json:"username"`
				FullName      string `json:"full_name"`
				Biography     string `json:"biography"`
				ExternalURL   string `json:"external_url"`
				IsPrivate     bool   `json:"is_private"`
				ProfilePicURL string `json:"profile_pic_url_hd"`
				Media         struct {
					Count int `json:"count"`
				} `json:"edge_owner_to_timeline_media"`
				FollowedBy struct {
					Count int `json:"count"`
				} `json:"edge_followed_by"`
				Follow struct {
					Count int `json:"count"`
				} `json:"edge_follow"`
			} `json:"user"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse profile response: %w", profile.ErrNetworkFailure, err)
	}

	user := resp.Data.User
	if user == nil || user.Username == "" {
		return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, username)
	}

	return &profile.Snapshot{
		Username:      user.Username,
		FullName:      user.FullName,
		Biography:     user.Biography,
		ExternalURL:   user.ExternalURL,
		IsPrivate:     user.IsPrivate,
		MediaCount:    user.Media.Count,
		Followers:     user.FollowedBy.Count,
		Followees:     user.Follow.Count,
		ProfilePicURL: user.ProfilePicURL,
	}, nil
}

var usernamePattern = regexp.MustCompile(`instagram\.com/([^/?#]+)`)

func extractUsername(s string) string {
	if strings.Contains(s, "/") {
		if m := usernamePattern.FindStringSubmatch(strings.ToLower(s)); len(m) > 1 {
			return m[1]
		}
	}
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}
