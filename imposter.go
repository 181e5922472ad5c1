// Package imposter estimates the probability that a social media account is
// fake.
//
// Two scoring paths converge on the same report contract. The structured path
// runs a fixed feature extraction over an API-sourced snapshot and applies a
// pretrained classifier:
//
//	engine, err := imposter.New("model.json", []string{"default_avatar.png"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := engine.ScoreSnapshot(snap)
//
// The scrape path parses a mirror profile page and applies an additive
// heuristic that tolerates missing fields:
//
//	report := engine.ScoreMirror(mirrorSnap)
//
// Convenience methods fetch and score in one call:
//
//	report, err := engine.ScoreInstagramUser(ctx, "janedoe",
//	    imposter.WithBrowserCookies())
//	report, err = engine.ScoreTwitterUser(ctx, "janedoe")
package imposter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeGROOVE-dev/imposter/avatar"
	"github.com/codeGROOVE-dev/imposter/classifier"
	"github.com/codeGROOVE-dev/imposter/feature"
	"github.com/codeGROOVE-dev/imposter/heuristic"
	"github.com/codeGROOVE-dev/imposter/httpcache"
	"github.com/codeGROOVE-dev/imposter/instagram"
	"github.com/codeGROOVE-dev/imposter/nitter"
	"github.com/codeGROOVE-dev/imposter/profile"
	"golang.org/x/net/html"
)

type (
	// Snapshot re-exports profile.Snapshot for convenience.
	Snapshot = profile.Snapshot
	// MirrorSnapshot re-exports profile.MirrorSnapshot for convenience.
	MirrorSnapshot = profile.MirrorSnapshot
	// Report re-exports profile.Report for convenience.
	Report = profile.Report
)

// Re-export common errors.
var (
	ErrProfileNotFound = profile.ErrProfileNotFound
	ErrInvalidProfile  = profile.ErrInvalidProfile
	ErrSchemaMismatch  = profile.ErrSchemaMismatch
	ErrInference       = profile.ErrInference
	ErrNoCookies       = profile.ErrNoCookies
)

// Engine scores profiles against a loaded classifier artifact and avatar
// reference set. It is immutable after New and safe for concurrent use.
type Engine struct {
	artifact *classifier.Artifact
	avatars  *avatar.Set
	logger   *slog.Logger
	keywords []string
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger   *slog.Logger
	keywords []string
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) { c.logger = logger }
}

// WithSuspiciousKeywords overrides the keyword list the heuristic checks
// against screen names and descriptions.
func WithSuspiciousKeywords(keywords []string) EngineOption {
	return func(c *engineConfig) { c.keywords = keywords }
}

// New loads the classifier artifact and avatar references. Both must load
// cleanly: a process that cannot score correctly should not come up at all.
// avatarPaths may be empty, then every profile picture counts as custom.
func New(modelPath string, avatarPaths []string, opts ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	artifact, err := classifier.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier artifact: %w", err)
	}

	avatars, err := avatar.Load(avatarPaths...)
	if err != nil {
		return nil, fmt.Errorf("load avatar references: %w", err)
	}

	cfg.logger.Info("scoring engine ready",
		"model_version", artifact.Version(),
		"decision_threshold", artifact.Threshold(),
		"avatar_refs", avatars.Len())

	return &Engine{
		artifact: artifact,
		avatars:  avatars,
		logger:   cfg.logger,
		keywords: cfg.keywords,
	}, nil
}

// NewFromArtifact builds an Engine from already-loaded components.
func NewFromArtifact(artifact *classifier.Artifact, avatars *avatar.Set, opts ...EngineOption) *Engine {
	cfg := &engineConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if avatars == nil {
		avatars = &avatar.Set{}
	}
	return &Engine{artifact: artifact, avatars: avatars, logger: cfg.logger, keywords: cfg.keywords}
}

// ScoreSnapshot scores a structured profile snapshot through the classifier.
// The returned report's label comes from the artifact's own decision
// threshold, so it may disagree with a naive 0.5 cut on the probability.
func (e *Engine) ScoreSnapshot(snap *profile.Snapshot) (*profile.Report, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", profile.ErrInvalidProfile)
	}
	customPic := !e.avatars.IsDefault(snap.ProfilePic)

	vec, err := feature.Extract(snap, customPic)
	if err != nil {
		return nil, err
	}

	scaled, err := e.artifact.Transform(vec)
	if err != nil {
		return nil, err
	}

	p, err := e.artifact.PredictProbability(scaled)
	if err != nil {
		return nil, err
	}

	label, err := e.artifact.PredictLabel(scaled)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("snapshot scored",
		"username", snap.Username,
		"fake_probability", p,
		"is_fake", label,
		"custom_pic", customPic)

	return &profile.Report{
		FakeProbability: p,
		IsFake:          label,
		ProfileInfo:     snap,
	}, nil
}

// ScoreMirror scores a scraped mirror snapshot through the heuristic. It
// never fails: an unusable snapshot degrades to the neutral probability.
func (e *Engine) ScoreMirror(snap *profile.MirrorSnapshot) *profile.Report {
	keywords := e.keywords
	if len(keywords) == 0 {
		keywords = heuristic.DefaultKeywords
	}
	p := heuristic.ScoreWithKeywords(snap, keywords)

	e.logger.Debug("mirror snapshot scored",
		"screen_name", screenName(snap),
		"fake_probability", p)

	return &profile.Report{
		FakeProbability: p,
		IsFake:          p > profile.Neutral,
		ProfileInfo:     snap,
	}
}

// ScoreDocument extracts a mirror snapshot from a parsed profile page and
// scores it. Pages missing fields are scored on whatever was extracted.
func (e *Engine) ScoreDocument(doc *html.Node) *profile.Report {
	return e.ScoreMirror(nitter.ParseProfile(doc))
}

func screenName(snap *profile.MirrorSnapshot) string {
	if snap == nil {
		return ""
	}
	return snap.ScreenName
}

// Option configures a fetch-and-score call.
type Option func(*config)

type config struct {
	cookies        map[string]string
	cache          httpcache.Cacher
	logger         *slog.Logger
	mirrorBaseURL  string
	browserCookies bool
}

// WithCookies sets explicit cookie values for authenticated platforms.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithHTTPCache sets the HTTP cache for responses.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger for the fetch.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMirrorBaseURL overrides the mirror instance used for the scrape path.
func WithMirrorBaseURL(baseURL string) Option {
	return func(c *config) { c.mirrorBaseURL = baseURL }
}

// ScoreInstagramUser fetches an Instagram profile and scores it through the
// classifier. Fetch errors surface to the caller; this path has a trained
// model behind it and silently degrading its input would poison the output.
func (e *Engine) ScoreInstagramUser(ctx context.Context, username string, opts ...Option) (*profile.Report, error) {
	cfg := &config{logger: e.logger}
	for _, opt := range opts {
		opt(cfg)
	}

	var igOpts []instagram.Option
	if len(cfg.cookies) > 0 {
		igOpts = append(igOpts, instagram.WithCookies(cfg.cookies))
	}
	if cfg.browserCookies {
		igOpts = append(igOpts, instagram.WithBrowserCookies())
	}
	if cfg.cache != nil {
		igOpts = append(igOpts, instagram.WithHTTPCache(cfg.cache))
	}
	igOpts = append(igOpts, instagram.WithLogger(cfg.logger))

	client, err := instagram.New(ctx, igOpts...)
	if err != nil {
		return nil, err
	}

	snap, err := client.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	return e.ScoreSnapshot(snap)
}

// ScoreTwitterUser fetches a profile page from the mirror and scores it
// through the heuristic. A fetch failure is an error; a fetched page with
// missing fields is scored on whatever was extracted.
func (e *Engine) ScoreTwitterUser(ctx context.Context, username string, opts ...Option) (*profile.Report, error) {
	cfg := &config{logger: e.logger}
	for _, opt := range opts {
		opt(cfg)
	}

	var mirrorOpts []nitter.Option
	if cfg.cache != nil {
		mirrorOpts = append(mirrorOpts, nitter.WithHTTPCache(cfg.cache))
	}
	if cfg.mirrorBaseURL != "" {
		mirrorOpts = append(mirrorOpts, nitter.WithBaseURL(cfg.mirrorBaseURL))
	}
	mirrorOpts = append(mirrorOpts, nitter.WithLogger(cfg.logger))

	client, err := nitter.New(ctx, mirrorOpts...)
	if err != nil {
		return nil, err
	}

	snap, err := client.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	return e.ScoreMirror(snap), nil
}
