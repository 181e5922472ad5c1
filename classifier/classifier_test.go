package classifier

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/codeGROOVE-dev/imposter/feature"
	"github.com/codeGROOVE-dev/imposter/profile"
)

// testBundle returns a valid artifact document with the given overrides.
func testBundle(t *testing.T, mutate func(m map[string]any)) []byte {
	t.Helper()

	names := make([]any, feature.Count)
	mean := make([]any, feature.Count)
	scale := make([]any, feature.Count)
	coef := make([]any, feature.Count)
	for i, n := range feature.Names {
		names[i] = n
		mean[i] = 0.0
		scale[i] = 1.0
		coef[i] = 0.0
	}

	m := map[string]any{
		"version":  "test-1",
		"features": names,
		"scaler":   map[string]any{"mean": mean, "scale": scale},
		"model": map[string]any{
			"type":               "logistic_regression",
			"coefficients":       coef,
			"intercept":          0.0,
			"decision_threshold": 0.5,
		},
	}
	if mutate != nil {
		mutate(m)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestLoadFromDisk(t *testing.T) {
	a, err := Load("testdata/model.json")
	if err != nil {
		t.Fatal(err)
	}
	if a.Version() == "" {
		t.Error("artifact version should not be empty")
	}
	if a.Threshold() <= 0 || a.Threshold() >= 1 {
		t.Errorf("Threshold() = %v, want within (0,1)", a.Threshold())
	}
}

func TestParseRejectsCorruptBundles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"wrong model type", func(m map[string]any) {
			m["model"].(map[string]any)["type"] = "random_forest"
		}},
		{"arity disagreement", func(m map[string]any) {
			m["scaler"].(map[string]any)["mean"] = []any{0.0}
		}},
		{"zero scale", func(m map[string]any) {
			scale := m["scaler"].(map[string]any)["scale"].([]any)
			scale[3] = 0.0
		}},
		{"threshold out of range", func(m map[string]any) {
			m["model"].(map[string]any)["decision_threshold"] = 1.5
		}},
		{"no features", func(m map[string]any) {
			m["features"] = []any{}
			m["scaler"] = map[string]any{"mean": []any{}, "scale": []any{}}
			m["model"].(map[string]any)["coefficients"] = []any{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(testBundle(t, tt.mutate)); err == nil {
				t.Error("Parse should reject corrupt bundle")
			}
		})
	}

	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse should reject malformed JSON")
	}
}

func TestTransformIsFinite(t *testing.T) {
	a, err := Parse(testBundle(t, func(m map[string]any) {
		mean := m["scaler"].(map[string]any)["mean"].([]any)
		scale := m["scaler"].(map[string]any)["scale"].([]any)
		for i := range mean {
			mean[i] = 10.5
			scale[i] = 0.25
		}
	}))
	if err != nil {
		t.Fatal(err)
	}

	vectors := []feature.Vector{
		{},
		{1, 0.5, 3, 0, 1, 120, 1, 0, 9000, 1e6, 42, 0.01, 1},
		{0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0},
	}
	for _, v := range vectors {
		scaled, err := a.Transform(v)
		if err != nil {
			t.Fatal(err)
		}
		if len(scaled) != feature.Count {
			t.Fatalf("Transform arity = %d, want %d", len(scaled), feature.Count)
		}
		for i, x := range scaled {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Errorf("scaled[%d] = %v, want finite", i, x)
			}
		}
	}
}

func TestTransformSchemaMismatch(t *testing.T) {
	a, err := Parse(testBundle(t, func(m map[string]any) {
		names := m["features"].([]any)
		// Swap two fitted names: same arity, wrong identity.
		names[0], names[1] = names[1], names[0]
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Transform(feature.Vector{}); !errors.Is(err, profile.ErrSchemaMismatch) {
		t.Errorf("Transform with renamed schema = %v, want ErrSchemaMismatch", err)
	}
}

func TestPredictProbabilityArityMismatch(t *testing.T) {
	a, err := Parse(testBundle(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.PredictProbability(Scaled{1, 2, 3}); !errors.Is(err, profile.ErrSchemaMismatch) {
		t.Errorf("PredictProbability with short vector = %v, want ErrSchemaMismatch", err)
	}
}

func TestLabelUsesModelThresholdNotHalf(t *testing.T) {
	// Zero coefficients with intercept -0.2 put every probability at
	// sigmoid(-0.2) ≈ 0.45: below 0.5, above the fitted threshold of 0.4.
	a, err := Parse(testBundle(t, func(m map[string]any) {
		model := m["model"].(map[string]any)
		model["intercept"] = -0.2
		model["decision_threshold"] = 0.4
	}))
	if err != nil {
		t.Fatal(err)
	}

	scaled, err := a.Transform(feature.Vector{})
	if err != nil {
		t.Fatal(err)
	}
	p, err := a.PredictProbability(scaled)
	if err != nil {
		t.Fatal(err)
	}
	label, err := a.PredictLabel(scaled)
	if err != nil {
		t.Fatal(err)
	}

	if p >= 0.5 {
		t.Fatalf("probability = %v, want below 0.5 for this fixture", p)
	}
	if !label {
		t.Error("label should be true: probability exceeds the fitted threshold")
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	a, err := Parse(testBundle(t, func(m map[string]any) {
		coef := m["model"].(map[string]any)["coefficients"].([]any)
		for i := range coef {
			coef[i] = 0.1 * float64(i)
		}
	}))
	if err != nil {
		t.Fatal(err)
	}

	v := feature.Vector{1, 0.2, 2, 0, 0, 30, 1, 0, 12, 340, 90, 0.04, 1}
	scaled, err := a.Transform(v)
	if err != nil {
		t.Fatal(err)
	}

	first, err := a.PredictProbability(scaled)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := a.PredictProbability(scaled)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("probability changed between runs: %v then %v", first, again)
		}
	}
	if first < 0 || first > 1 {
		t.Errorf("probability = %v, want within [0,1]", first)
	}
}
