package heuristic

import (
	"testing"
	"time"

	"github.com/codeGROOVE-dev/imposter/profile"
)

func intp(v int) *int          { return &v }
func strp(v string) *string    { return &v }
func timep(v time.Time) *time.Time { return &v }

func TestHighRiskProfile(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap := &profile.MirrorSnapshot{
		ScreenName:          "someuser",
		Description:         strp(""),
		FollowersCount:      intp(5),
		FriendsCount:        intp(2000),
		StatusesCount:       intp(5),
		CreatedAt:           timep(now.AddDate(0, 0, -10)),
		DefaultProfileImage: true,
	}

	// age(+3) + followers(+3) + friends(+2) + statuses(+3) +
	// default image(+2) + description(+2) + follower ratio(+2) = 17.
	got := points(snap, now, DefaultKeywords)
	if got != 17 {
		t.Fatalf("points = %d, want 17", got)
	}
	p := probability(got)
	if p != 0.85 {
		t.Errorf("probability = %v, want 0.85", p)
	}
	if p <= 0.5 {
		t.Error("high-risk profile should score as fake")
	}
}

func TestNoRiskFactors(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap := &profile.MirrorSnapshot{
		ScreenName:     "jane_doe",
		Description:    strp("Photographer and hiker. Views are my own, mostly about mountains."),
		FollowersCount: intp(5000),
		FriendsCount:   intp(200),
		StatusesCount:  intp(3000),
		CreatedAt:      timep(now.AddDate(0, 0, -500)),
	}

	if got := points(snap, now, DefaultKeywords); got != 0 {
		t.Fatalf("points = %d, want 0", got)
	}
	if p := Score(snap); p != 0 {
		t.Errorf("Score = %v, want 0", p)
	}
}

func TestRulesAbstainOnAbsentFields(t *testing.T) {
	// Only the description rule can fire when everything else is absent.
	snap := &profile.MirrorSnapshot{ScreenName: "someone"}
	if got := points(snap, time.Now(), DefaultKeywords); got != 2 {
		t.Errorf("points = %d, want 2 (absent description only)", got)
	}
}

func TestAgeBrackets(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		days int
		want int
	}{
		{"brand new", 10, 3},
		{"under ninety days", 60, 1},
		{"established", 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &profile.MirrorSnapshot{
				ScreenName:  "u",
				Description: strp("a perfectly ordinary bio"),
				CreatedAt:   timep(now.AddDate(0, 0, -tt.days)),
			}
			if got := points(snap, now, DefaultKeywords); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountBrackets(t *testing.T) {
	desc := strp("a perfectly ordinary bio")
	tests := []struct {
		name string
		snap profile.MirrorSnapshot
		want int
	}{
		{"few followers", profile.MirrorSnapshot{FollowersCount: intp(3)}, 3},
		{"under a hundred followers", profile.MirrorSnapshot{FollowersCount: intp(50)}, 1},
		{"many followers", profile.MirrorSnapshot{FollowersCount: intp(5000)}, 0},
		{"aggressive following", profile.MirrorSnapshot{FriendsCount: intp(1500)}, 2},
		{"heavy following", profile.MirrorSnapshot{FriendsCount: intp(800)}, 1},
		{"boundary thousand friends", profile.MirrorSnapshot{FriendsCount: intp(1000)}, 1},
		{"few statuses", profile.MirrorSnapshot{StatusesCount: intp(2)}, 3},
		{"under fifty statuses", profile.MirrorSnapshot{StatusesCount: intp(20)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.snap.ScreenName = "u"
			tt.snap.Description = desc
			if got := points(&tt.snap, time.Now(), DefaultKeywords); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFollowerRatioRule(t *testing.T) {
	desc := strp("a perfectly ordinary bio")
	tests := []struct {
		name      string
		followers *int
		friends   *int
		want      int
	}{
		{"lopsided ratio", intp(200), intp(3000), 2},
		{"healthy ratio", intp(200), intp(300), 0},
		{"zero friends abstains", intp(200), intp(0), 0},
		{"absent friends abstains", intp(2), nil, 3}, // follower bracket only
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &profile.MirrorSnapshot{
				ScreenName:     "u",
				Description:    desc,
				FollowersCount: tt.followers,
				FriendsCount:   tt.friends,
			}
			if got := points(snap, time.Now(), DefaultKeywords); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeywordRules(t *testing.T) {
	desc := strp("a perfectly ordinary bio")
	tests := []struct {
		name string
		snap profile.MirrorSnapshot
		want int
	}{
		{"keyword in screen name", profile.MirrorSnapshot{ScreenName: "FreeFollowerBot", Description: desc}, 2},
		{"keyword in description", profile.MirrorSnapshot{ScreenName: "jane", Description: strp("cheap likes here, best promo in town")}, 1},
		{"keyword in both", profile.MirrorSnapshot{ScreenName: "promo_king", Description: strp("follow for follow, always")}, 3},
		{"no keywords", profile.MirrorSnapshot{ScreenName: "jane", Description: desc}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := points(&tt.snap, time.Now(), DefaultKeywords); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProbabilityCapped(t *testing.T) {
	if p := probability(40); p != 1.0 {
		t.Errorf("probability(40) = %v, want capped at 1.0", p)
	}
}

func TestScoreNilSnapshot(t *testing.T) {
	// Not a precondition violation on this path: degrade to neutral.
	if p := Score(nil); p != profile.Neutral {
		t.Errorf("Score(nil) = %v, want %v", p, profile.Neutral)
	}
}

func TestShortDescriptionCountsCharacters(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want int
	}{
		{"short multibyte bio", "こんにちは", 2},
		{"long multibyte bio", "写真家です。山と旅行について呟きます。", 0},
		{"short ascii bio", "hi there", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &profile.MirrorSnapshot{ScreenName: "u", Description: strp(tt.desc)}
			if got := points(snap, time.Now(), DefaultKeywords); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCustomKeywords(t *testing.T) {
	snap := &profile.MirrorSnapshot{
		ScreenName:  "crypto_giveaway",
		Description: strp("a perfectly ordinary bio"),
	}
	if got := points(snap, time.Now(), DefaultKeywords); got != 0 {
		t.Fatalf("points with defaults = %d, want 0", got)
	}
	if got := points(snap, time.Now(), []string{"giveaway"}); got != 2 {
		t.Errorf("points with custom list = %d, want 2", got)
	}
}
