// Package heuristic estimates fake probability for platforms that have no
// trained classifier.
//
// The scorer is a hand-tuned additive rule table: each rule inspects one
// snapshot field and contributes at most once. It is an explicit, auditable
// substitute for a model, not a placeholder.
package heuristic

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/imposter/profile"
)

// maxPoints normalizes the accumulated score to a probability.
const maxPoints = 20

// DefaultKeywords are the suspicious substrings checked against screen names
// and descriptions.
var DefaultKeywords = []string{"bot", "promo", "cheap", "follow", "like"}

// Score returns the fake probability for a mirror snapshot, in [0,1].
// Rules whose field is absent abstain; an unexpected internal failure yields
// the neutral 0.5 rather than an error, since a best-effort estimate beats a
// hard failure on the no-model platform.
func Score(snap *profile.MirrorSnapshot) float64 {
	return ScoreWithKeywords(snap, DefaultKeywords)
}

// ScoreWithKeywords is Score with a caller-supplied keyword list.
func ScoreWithKeywords(snap *profile.MirrorSnapshot, keywords []string) (p float64) {
	if snap == nil {
		return profile.Neutral
	}
	defer func() {
		if recover() != nil {
			p = profile.Neutral
		}
	}()
	return probability(points(snap, time.Now(), keywords))
}

func probability(score int) float64 {
	return min(float64(score)/maxPoints, 1.0)
}

// points applies the rule table. Kept separate from Score so tests can pin
// the clock.
func points(snap *profile.MirrorSnapshot, now time.Time, keywords []string) int {
	if snap == nil {
		return 0
	}

	var score int

	if snap.CreatedAt != nil {
		switch age := int(now.Sub(*snap.CreatedAt).Hours() / 24); {
		case age < 30:
			score += 3
		case age < 90:
			score++
		}
	}

	if snap.FollowersCount != nil {
		switch {
		case *snap.FollowersCount < 10:
			score += 3
		case *snap.FollowersCount < 100:
			score++
		}
	}

	if snap.FriendsCount != nil {
		switch {
		case *snap.FriendsCount > 1000:
			score += 2
		case *snap.FriendsCount > 500:
			score++
		}
	}

	if snap.StatusesCount != nil {
		switch {
		case *snap.StatusesCount < 10:
			score += 3
		case *snap.StatusesCount < 50:
			score++
		}
	}

	if snap.DefaultProfileImage {
		score += 2
	}

	if snap.Description == nil || utf8.RuneCountInString(*snap.Description) < 10 {
		score += 2
	}

	if snap.FollowersCount != nil && snap.FriendsCount != nil && *snap.FriendsCount > 0 {
		if float64(*snap.FollowersCount)/float64(*snap.FriendsCount) < 0.1 {
			score += 2
		}
	}

	if containsKeyword(snap.ScreenName, keywords) {
		score += 2
	}
	if snap.Description != nil && containsKeyword(*snap.Description, keywords) {
		score++
	}

	return score
}

func containsKeyword(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
