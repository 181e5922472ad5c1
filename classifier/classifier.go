// Package classifier consumes a pretrained normalization + classification
// artifact as an opaque, versioned dependency.
//
// The artifact is a JSON bundle produced offline by the training pipeline:
// standardization parameters and logistic-regression weights keyed to a fixed
// list of fitted feature names, plus the model's own decision threshold.
// Training is out of scope here; the artifact is loaded once before traffic
// and never mutated or reloaded.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/codeGROOVE-dev/imposter/feature"
	"github.com/codeGROOVE-dev/imposter/profile"
)

// Artifact is a loaded scaler + classifier pair. Immutable after Load and
// safe for concurrent use without locking.
type Artifact struct {
	version   string
	features  []string
	mean      []float64
	scale     []float64
	coef      []float64
	intercept float64
	threshold float64
}

// Scaled is a normalized feature vector. Values are not guaranteed bounded
// but are always finite.
type Scaled []float64

// bundle is the on-disk artifact layout.
type bundle struct {
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Scaler   struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Model struct {
		Type              string    `json:"type"`
		Coefficients      []float64 `json:"coefficients"`
		Intercept         float64   `json:"intercept"`
		DecisionThreshold float64   `json:"decision_threshold"`
	} `json:"model"`
}

// Load reads and validates an artifact bundle from disk.
// A corrupt bundle is a startup-fatal condition for callers.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return a, nil
}

// Parse validates an artifact bundle from memory.
func Parse(data []byte) (*Artifact, error) {
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	if b.Model.Type != "logistic_regression" {
		return nil, fmt.Errorf("unsupported model type %q", b.Model.Type)
	}

	n := len(b.Features)
	if n == 0 {
		return nil, fmt.Errorf("artifact has no features")
	}
	if len(b.Scaler.Mean) != n || len(b.Scaler.Scale) != n || len(b.Model.Coefficients) != n {
		return nil, fmt.Errorf("artifact parameter arity disagrees with %d features", n)
	}
	for i, s := range b.Scaler.Scale {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("scaler scale[%d] = %v is unusable", i, s)
		}
	}
	if b.Model.DecisionThreshold <= 0 || b.Model.DecisionThreshold >= 1 {
		return nil, fmt.Errorf("decision threshold %v outside (0,1)", b.Model.DecisionThreshold)
	}

	return &Artifact{
		version:   b.Version,
		features:  b.Features,
		mean:      b.Scaler.Mean,
		scale:     b.Scaler.Scale,
		coef:      b.Model.Coefficients,
		intercept: b.Model.Intercept,
		threshold: b.Model.DecisionThreshold,
	}, nil
}

// Version returns the artifact's version string.
func (a *Artifact) Version() string { return a.version }

// Threshold returns the model's fitted decision threshold.
// The discrete label uses this, NOT a fixed 0.5, so label and probability can
// legitimately disagree near the boundary.
func (a *Artifact) Threshold() float64 { return a.threshold }

// Transform applies the fitted standardization to a feature vector.
// The vector's schema is checked by NAME against the fitted schema; any
// disagreement is a deployment error, never a silent column misalignment.
func (a *Artifact) Transform(v feature.Vector) (Scaled, error) {
	if err := a.checkSchema(); err != nil {
		return nil, err
	}

	out := make(Scaled, len(a.features))
	for i := range a.features {
		out[i] = (v[i] - a.mean[i]) / a.scale[i]
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, fmt.Errorf("%w: non-finite value for %q", profile.ErrInference, a.features[i])
		}
	}
	return out, nil
}

// PredictProbability returns the model's fake probability for a scaled vector.
func (a *Artifact) PredictProbability(s Scaled) (float64, error) {
	if len(s) != len(a.coef) {
		return 0, fmt.Errorf("%w: got %d values, artifact expects %d",
			profile.ErrSchemaMismatch, len(s), len(a.coef))
	}

	z := a.intercept
	for i, x := range s {
		z += a.coef[i] * x
	}
	p := sigmoid(z)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: probability is NaN", profile.ErrInference)
	}
	return p, nil
}

// PredictLabel returns the model's own discrete label for a scaled vector.
func (a *Artifact) PredictLabel(s Scaled) (bool, error) {
	p, err := a.PredictProbability(s)
	if err != nil {
		return false, err
	}
	return p >= a.threshold, nil
}

func (a *Artifact) checkSchema() error {
	if len(a.features) != feature.Count {
		return fmt.Errorf("%w: artifact fitted with %d features, extractor produces %d",
			profile.ErrSchemaMismatch, len(a.features), feature.Count)
	}
	for i, name := range a.features {
		if name != feature.Names[i] {
			return fmt.Errorf("%w: position %d is %q in artifact but %q in extractor",
				profile.ErrSchemaMismatch, i, name, feature.Names[i])
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
