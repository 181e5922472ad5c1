package nitter

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

const profilePage = `<!DOCTYPE html>
<html><head>
<meta property="og:image" content="https://mirror.example/pic/pbs.twimg.com%2Fprofile_images%2F123%2Favatar_400x400.jpg">
</head><body>
<div class="profile-card">
  <div class="profile-card-info">
    <a class="profile-card-avatar" href="/photo">
      <img src="/pic/pbs.twimg.com%2Fprofile_images%2F123%2Favatar_400x400.jpg">
    </a>
    <a class="profile-card-fullname">Jack Dorsey<span class="verified-icon"></span></a>
    <a class="profile-card-username">@jack</a>
  </div>
  <div class="profile-bio"><p>bluesky and other things</p></div>
  <div class="profile-location"><span class="icon-location"></span> <span>San Francisco</span></div>
  <div class="profile-joindate"><span title="2:18 PM - 26 Jun 2006">Joined June 2006</span></div>
  <ul class="profile-statlist">
    <li class="posts"><span class="profile-stat-header">Tweets</span> <span class="profile-stat-num">29,576</span></li>
    <li class="following"><span class="profile-stat-header">Following</span> <span class="profile-stat-num">4,587</span></li>
    <li class="followers"><span class="profile-stat-header">Followers</span> <span class="profile-stat-num">6,470,397</span></li>
    <li class="likes"><span class="profile-stat-header">Likes</span> <span class="profile-stat-num">35,172</span></li>
  </ul>
</div>
<div class="profile-banner"><a href="#"><img src="/pic/banner.jpg"></a></div>
<div class="timeline">
  <div class="timeline-item">
    <div class="tweet-body"><div class="tweet-content media-body">just setting up my twttr</div></div>
  </div>
</div>
</body></html>`

func parsePage(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestParseProfile(t *testing.T) {
	snap := ParseProfile(parsePage(t, profilePage))

	if snap.ScreenName != "jack" {
		t.Errorf("ScreenName = %q, want %q", snap.ScreenName, "jack")
	}
	if snap.Name != "Jack Dorsey" {
		t.Errorf("Name = %q, want %q", snap.Name, "Jack Dorsey")
	}
	if snap.Location != "San Francisco" {
		t.Errorf("Location = %q, want %q", snap.Location, "San Francisco")
	}
	if snap.Description == nil || *snap.Description != "bluesky and other things" {
		t.Errorf("Description = %v, want %q", snap.Description, "bluesky and other things")
	}
	if !snap.Verified {
		t.Error("Verified = false, want true")
	}
	if snap.Website != "https://x.com/jack" {
		t.Errorf("Website = %q, want canonical profile URL", snap.Website)
	}
	wantCounts := map[string]struct {
		got  *int
		want int
	}{
		"followers": {snap.FollowersCount, 6470397},
		"friends":   {snap.FriendsCount, 4587},
		"statuses":  {snap.StatusesCount, 29576},
		"favorites": {snap.FavoritesCount, 35172},
	}
	for name, c := range wantCounts {
		if c.got == nil {
			t.Errorf("%s count absent, want %d", name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s count = %d, want %d", name, *c.got, c.want)
		}
	}
	wantJoined := time.Date(2006, time.June, 26, 14, 18, 0, 0, time.UTC)
	if snap.CreatedAt == nil || !snap.CreatedAt.Equal(wantJoined) {
		t.Errorf("CreatedAt = %v, want %v", snap.CreatedAt, wantJoined)
	}
	if snap.DefaultProfileImage {
		t.Error("DefaultProfileImage = true for a custom avatar")
	}
	if !strings.Contains(snap.AvatarImage, "avatar_400x400") {
		t.Errorf("AvatarImage = %q, want og:image content", snap.AvatarImage)
	}
	if snap.BannerImage != "/pic/banner.jpg" {
		t.Errorf("BannerImage = %q, want %q", snap.BannerImage, "/pic/banner.jpg")
	}
	if snap.RecentPost == nil || *snap.RecentPost != "just setting up my twttr" {
		t.Errorf("RecentPost = %v, want first timeline entry", snap.RecentPost)
	}
}

func TestParseProfileSparsePage(t *testing.T) {
	page := `<html><body>
<a class="profile-card-username">@ghost</a>
</body></html>`
	snap := ParseProfile(parsePage(t, page))

	if snap.ScreenName != "ghost" {
		t.Errorf("ScreenName = %q, want %q", snap.ScreenName, "ghost")
	}
	if snap.Name != "" || snap.Location != "" {
		t.Errorf("Name/Location = %q/%q, want empty", snap.Name, snap.Location)
	}
	if snap.Description != nil {
		t.Errorf("Description = %q, want absent", *snap.Description)
	}
	for name, got := range map[string]*int{
		"followers": snap.FollowersCount,
		"friends":   snap.FriendsCount,
		"statuses":  snap.StatusesCount,
		"favorites": snap.FavoritesCount,
	} {
		if got != nil {
			t.Errorf("%s count = %d, want absent", name, *got)
		}
	}
	if snap.CreatedAt != nil {
		t.Errorf("CreatedAt = %v, want absent", snap.CreatedAt)
	}
	if snap.Verified {
		t.Error("Verified = true on a page with no badge")
	}
	if snap.RecentPost != nil {
		t.Errorf("RecentPost = %q, want absent", *snap.RecentPost)
	}
}

func TestParseProfileDefaultAvatar(t *testing.T) {
	page := `<html><body>
<a class="profile-card-username">@egg</a>
<a class="profile-card-avatar" href="#">
  <img src="` + defaultAvatarPath + `">
</a>
</body></html>`
	snap := ParseProfile(parsePage(t, page))

	if !snap.DefaultProfileImage {
		t.Error("DefaultProfileImage = false for the placeholder source")
	}
}

func TestParseProfileBadJoinDate(t *testing.T) {
	page := `<html><body>
<div class="profile-joindate"><span title="sometime in 2006">Joined</span></div>
</body></html>`
	snap := ParseProfile(parsePage(t, page))

	if snap.CreatedAt != nil {
		t.Errorf("CreatedAt = %v, want absent for unparseable title", snap.CreatedAt)
	}
}

func TestParseProfileNilDocument(t *testing.T) {
	snap := ParseProfile(nil)
	if snap == nil {
		t.Fatal("ParseProfile(nil) returned nil")
	}
	if snap.ScreenName != "" {
		t.Errorf("ScreenName = %q, want empty", snap.ScreenName)
	}
}

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"janedoe", "janedoe"},
		{"@janedoe", "janedoe"},
		{"https://x.com/janedoe", "janedoe"},
		{"https://twitter.com/janedoe?lang=en", "janedoe"},
		{"https://nitter.privacydev.net/janedoe", "janedoe"},
		{"https://example.com/janedoe", ""},
	}
	for _, tt := range tests {
		if got := ExtractUsername(tt.in); got != tt.want {
			t.Errorf("ExtractUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://twitter.com/jack", true},
		{"https://x.com/jack", true},
		{"https://nitter.privacydev.net/jack", true},
		{"https://github.com/jack", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Match(tt.url); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
