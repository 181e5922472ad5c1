// Command imposter scores a social media profile for fakeness.
//
// Usage:
//
//	imposter -platform instagram janedoe        # requires INSTAGRAM_* env vars
//	imposter https://instagram.com/janedoe
//	imposter https://x.com/janedoe              # scraped via mirror, no auth
//	imposter -presence -search janedoe
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/imposter"
	"github.com/codeGROOVE-dev/imposter/config"
	"github.com/codeGROOVE-dev/imposter/httpcache"
	"github.com/codeGROOVE-dev/imposter/instagram"
	"github.com/codeGROOVE-dev/imposter/nitter"
	"github.com/codeGROOVE-dev/imposter/presence"
	"github.com/codeGROOVE-dev/imposter/profile"
	"github.com/codeGROOVE-dev/imposter/websearch"
)

// output is the CLI's JSON envelope. Presence and search results are only
// present when their flags are set.
type output struct {
	Report   *profile.Report          `json:"report"`
	Presence []presence.Result        `json:"presence,omitempty"`
	Search   []websearch.SearchResult `json:"search_results,omitempty"`
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	configPath := flag.String("config", "", "path to YAML config file")
	modelPath := flag.String("model", "", "path to classifier artifact (overrides config)")
	avatarRefs := flag.String("avatars", "", "comma-separated default avatar reference images")
	platform := flag.String("platform", "", "force platform: instagram or twitter (default: detect from URL)")
	mirrorURL := flag.String("mirror", "", "mirror base URL for the twitter scrape path")
	noBrowser := flag.Bool("no-browser", false, "disable reading cookies from browser stores")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching")
	cacheTTL := flag.Duration("cache-ttl", config.DefaultCacheTTL, "cache time-to-live")
	checkPresence := flag.Bool("presence", false, "also probe other platforms for the username")
	runSearch := flag.Bool("search", false, "also run a site-scoped web search for the username")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: imposter [options] <username-or-url>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nScoring paths:")
		fmt.Fprintln(os.Stderr, "  - Instagram: classifier over API profile data (requires cookies and -model)")
		fmt.Fprintln(os.Stderr, "  - Twitter/X: heuristic over a scraped mirror page (no auth)")
		os.Exit(1)
	}

	input := flag.Arg(0)

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlags(&cfg, *modelPath, *avatarRefs, *mirrorURL)

	var httpCache *httpcache.Cache
	if !*noCache && !cfg.Cache.Disabled {
		ttl := *cacheTTL
		if *configPath != "" && ttl == config.DefaultCacheTTL {
			ttl = cfg.CacheTTL()
		}
		var err error
		httpCache, err = newCache(ttl, cfg.Cache.Dir)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", ttl.String())
		}
	}

	ctx := context.Background()

	report, err := score(ctx, input, &cfg, httpCache, logger, *platform, *noBrowser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	out := output{Report: report}
	username := bareUsername(input)

	if *checkPresence {
		var presenceOpts []presence.Option
		presenceOpts = append(presenceOpts, presence.WithLogger(logger))
		if httpCache != nil {
			presenceOpts = append(presenceOpts, presence.WithHTTPCache(httpCache))
		}
		out.Presence = presence.New(presenceOpts...).Check(ctx, username)
	}

	if *runSearch {
		apiKey := cfg.Search.BraveAPIKey
		if apiKey == "" {
			apiKey = websearch.LoadBraveAPIKey()
		}
		if apiKey == "" {
			logger.Warn("no Brave API key configured, skipping search")
		} else {
			var braveOpts []websearch.BraveOption
			braveOpts = append(braveOpts, websearch.WithBraveLogger(logger))
			if httpCache != nil {
				braveOpts = append(braveOpts, websearch.WithBraveCache(httpCache))
			}
			searcher := websearch.NewBraveSearcher(apiKey, braveOpts...)
			out.Search = websearch.FanOut(ctx, searcher, username, logger)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, modelPath, avatarRefs, mirrorURL string) {
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if avatarRefs != "" {
		cfg.Avatar.ReferencePaths = strings.Split(avatarRefs, ",")
	}
	if mirrorURL != "" {
		cfg.Mirror.BaseURL = mirrorURL
	}
}

func newCache(ttl time.Duration, dir string) (*httpcache.Cache, error) {
	if dir != "" {
		return httpcache.NewWithPath(ttl, dir)
	}
	return httpcache.New(ttl)
}

func score(
	ctx context.Context,
	input string,
	cfg *config.Config,
	httpCache *httpcache.Cache,
	logger *slog.Logger,
	platform string,
	noBrowser bool,
) (*profile.Report, error) {
	var opts []imposter.Option
	opts = append(opts, imposter.WithLogger(logger))
	if httpCache != nil {
		opts = append(opts, imposter.WithHTTPCache(httpCache))
	}
	if !noBrowser {
		opts = append(opts, imposter.WithBrowserCookies())
	}

	engineOpts := []imposter.EngineOption{imposter.WithEngineLogger(logger)}
	if len(cfg.Heuristic.SuspiciousKeywords) > 0 {
		engineOpts = append(engineOpts, imposter.WithSuspiciousKeywords(cfg.Heuristic.SuspiciousKeywords))
	}

	switch resolvePlatform(input, platform) {
	case "twitter":
		engine := imposter.NewFromArtifact(nil, nil, engineOpts...)
		if cfg.Mirror.BaseURL != "" {
			opts = append(opts, imposter.WithMirrorBaseURL(cfg.Mirror.BaseURL))
		}
		return engine.ScoreTwitterUser(ctx, input, opts...)
	default:
		engine, err := imposter.New(cfg.Model.Path, cfg.Avatar.ReferencePaths, engineOpts...)
		if err != nil {
			return nil, err
		}
		return engine.ScoreInstagramUser(ctx, input, opts...)
	}
}

func resolvePlatform(input, forced string) string {
	if forced != "" {
		return forced
	}
	switch {
	case nitter.Match(input):
		return "twitter"
	case instagram.Match(input):
		return "instagram"
	default:
		return "instagram"
	}
}

func bareUsername(input string) string {
	s := strings.TrimSpace(input)
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.IndexAny(s, "?#"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimPrefix(s, "@")
}
