// Package presence probes well-known platforms for accounts matching a
// username. A hit is supporting evidence that a handle belongs to a real
// person; it never feeds the classifier directly.
package presence

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/imposter/httpcache"
)

// Result represents a platform where the username was found.
type Result struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// markerRule decides what a 200 response means for a probe.
type markerRule int

const (
	// markerAbsent: the account exists unless the page carries the
	// platform's not-found marker text.
	markerAbsent markerRule = iota
	// markerPresent: the account exists only when the marker text appears.
	markerPresent
	// markerAlways: a 200 always counts.
	markerAlways
)

// Probe describes one platform check.
type Probe struct {
	Platform string
	URL      string // %s is replaced with the username
	Marker   string
	Rule     markerRule
}

// DefaultProbes covers the platforms checked by default. Markers are the
// literal strings each platform renders on its soft-404 page and break
// whenever a platform rewords that page.
var DefaultProbes = []Probe{
	{Platform: "Facebook", URL: "https://www.facebook.com/%s", Marker: "This content isn't available at the moment", Rule: markerAbsent},
	{Platform: "Twitter", URL: "https://x.com/%s", Marker: "This account doesn’t exist", Rule: markerAbsent},
	{Platform: "Instagram", URL: "https://www.instagram.com/%s", Marker: "Follow", Rule: markerPresent},
	{Platform: "Pinterest", URL: "https://www.pinterest.com/%s", Marker: "Here’s how it works.", Rule: markerAbsent},
	{Platform: "YouTube", URL: "https://www.youtube.com/@%s", Marker: "This page isn't available.", Rule: markerAbsent},
	{Platform: "Tumblr", URL: "https://%s.tumblr.com/", Marker: "There's nothing here.", Rule: markerAbsent},
	// TODO: skip suspended Reddit accounts; the suspension page still
	// returns 200 with a live-looking profile shell.
	{Platform: "Reddit", URL: "https://www.reddit.com/user/%s", Rule: markerAlways},
	{Platform: "Medium", URL: "https://medium.com/@%s", Marker: "Out of nothing, something.", Rule: markerAbsent},
	{Platform: "GitHub", URL: "https://github.com/%s", Marker: "Find code, projects, and people on GitHub:", Rule: markerAbsent},
	{Platform: "Bitbucket", URL: "https://bitbucket.org/%s/", Marker: "Resource not found", Rule: markerAbsent},
	{Platform: "Quora", URL: "https://www.quora.com/profile/%s", Marker: "Page Not Found", Rule: markerAbsent},
}

// Checker probes platforms for a username.
type Checker struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	probes     []Probe
}

// Option configures a Checker.
type Option func(*config)

type config struct {
	cache  httpcache.Cacher
	logger *slog.Logger
	probes []Probe
}

// WithHTTPCache sets a shared response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithProbes overrides the default probe table.
func WithProbes(probes []Probe) Option {
	return func(c *config) { c.probes = probes }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	cfg := &config{logger: slog.Default(), probes: DefaultProbes}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Checker{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		probes:     cfg.probes,
	}
}

// Check probes all platforms concurrently and returns hits in probe-table
// order. Probe failures are logged and skipped.
func (c *Checker) Check(ctx context.Context, username string) []Result {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil
	}

	hits := make([]*Result, len(c.probes))
	var wg sync.WaitGroup
	for i, probe := range c.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r := c.runProbe(ctx, probe, username); r != nil {
				hits[i] = r
			}
		}()
	}
	wg.Wait()

	var results []Result
	for _, r := range hits {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

func (c *Checker) runProbe(ctx context.Context, probe Probe, username string) *Result {
	probeURL := fmt.Sprintf(probe.URL, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		c.logger.Debug("presence probe failed", "platform", probe.Platform, "url", probeURL, "error", err)
		return nil
	}

	if !probe.matches(string(body)) {
		return nil
	}
	return &Result{Platform: probe.Platform, URL: probeURL}
}

func (p Probe) matches(body string) bool {
	switch p.Rule {
	case markerPresent:
		return strings.Contains(body, p.Marker)
	case markerAbsent:
		return !strings.Contains(body, p.Marker)
	case markerAlways:
		return true
	default:
		return false
	}
}
