// Package websearch finds profile links for a query across a fixed set of
// social domains, using the Brave Search API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/imposter/htmlutil"
	"github.com/codeGROOVE-dev/imposter/httpcache"
)

// SearchCacheTTL is the cache duration for search results.
const SearchCacheTTL = 7 * 24 * time.Hour

// Domains are the sites the fan-out scopes its queries to.
var Domains = []string{"x.com", "github.com", "instagram.com", "linkedin.com"}

// resultsPerDomain caps each scoped query's contribution to the fan-out.
const resultsPerDomain = 5

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher performs a web search for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ScopedQuery builds the query string for one domain. x.com is special-cased:
// site-scoping it returns mostly login redirects, a plain "twitter" keyword
// works better.
func ScopedQuery(query, domain string) string {
	if domain == "x.com" {
		return query + " twitter"
	}
	return query + " site:" + domain
}

// FanOut runs the query against every domain in Domains and aggregates the
// hits. A failing domain is logged and skipped; the other domains still
// contribute.
func FanOut(ctx context.Context, searcher Searcher, query string, logger *slog.Logger) []SearchResult {
	if logger == nil {
		logger = slog.Default()
	}

	var all []SearchResult
	for _, domain := range Domains {
		results, err := searcher.Search(ctx, ScopedQuery(query, domain))
		if err != nil {
			logger.Warn("scoped search failed", "domain", domain, "error", err)
			continue
		}
		if len(results) > resultsPerDomain {
			results = results[:resultsPerDomain]
		}
		all = append(all, results...)
	}
	return all
}

// BraveSearcher implements Searcher using the Brave Search API.
// Free tier: 2,000 queries/month, 1 query/second.
type BraveSearcher struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	apiKey     string
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// BraveOption configures a BraveSearcher.
type BraveOption func(*BraveSearcher)

// WithBraveCache sets a cache for storing search results.
func WithBraveCache(cache httpcache.Cacher) BraveOption {
	return func(b *BraveSearcher) { b.cache = cache }
}

// WithBraveLogger sets a logger for the searcher.
func WithBraveLogger(logger *slog.Logger) BraveOption {
	return func(b *BraveSearcher) { b.logger = logger }
}

// NewBraveSearcher creates a new Brave Search API client.
func NewBraveSearcher(apiKey string, opts ...BraveOption) *BraveSearcher {
	b := &BraveSearcher{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadBraveAPIKey loads the Brave API key from BRAVE_API_KEY or ~/.brave.
// Returns empty string if no key is found.
func LoadBraveAPIKey() string {
	if key := os.Getenv("BRAVE_API_KEY"); key != "" {
		return key
	}

	if home, err := os.UserHomeDir(); err == nil {
		braveFile := filepath.Join(home, ".brave")
		if data, err := os.ReadFile(braveFile); err == nil {
			if key := strings.TrimSpace(string(data)); key != "" {
				return key
			}
		}
	}

	return ""
}

// Search performs a web search using the Brave Search API.
func (b *BraveSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if b.cache != nil {
		cacheKey := "brave:" + httpcache.URLToKey(query)
		data, err := b.cache.GetSet(ctx, cacheKey, func(ctx context.Context) ([]byte, error) {
			return b.doSearch(ctx, query)
		}, SearchCacheTTL)
		if err != nil {
			return nil, err
		}
		return b.parseResults(data)
	}

	data, err := b.doSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return b.parseResults(data)
}

func (b *BraveSearcher) doSearch(ctx context.Context, query string) ([]byte, error) {
	endpoint := "https://api.search.brave.com/res/v1/web/search"

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("count", "10")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	if b.logger != nil {
		b.logger.DebugContext(ctx, "brave search", "query", query)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best effort cleanup

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return nil, fmt.Errorf("brave API returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("brave API returned %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func (*BraveSearcher) parseResults(data []byte) ([]SearchResult, error) {
	var br braveResponse
	if err := json.Unmarshal(data, &br); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		results = append(results, SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		})
	}

	return results, nil
}

// Enrich fills in missing titles and snippets by fetching each result page
// and extracting its metadata. Fetch failures leave the result unchanged.
func Enrich(ctx context.Context, cache httpcache.Cacher, results []SearchResult, logger *slog.Logger) []SearchResult {
	client := &http.Client{Timeout: 10 * time.Second}

	for i, r := range results {
		if r.Title != "" && r.Snippet != "" {
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, http.NoBody)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", httpcache.UserAgent)

		body, err := httpcache.FetchURL(ctx, cache, client, req, logger)
		if err != nil {
			if logger != nil {
				logger.Debug("result enrichment failed", "url", r.URL, "error", err)
			}
			continue
		}

		page := string(body)
		if results[i].Title == "" {
			results[i].Title = htmlutil.Title(page)
		}
		if results[i].Snippet == "" {
			results[i].Snippet = htmlutil.Description(page)
		}
	}

	return results
}
