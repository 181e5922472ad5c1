package nitter

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/imposter/profile"
)

// defaultAvatarPath is the mirror's literal placeholder avatar source.
// Default-picture detection on this path is string equality against it (the
// scrape path never sees decoded image bytes).
const defaultAvatarPath = "/pic/abs.twimg.com%2Fsticky%2Fdefault_profile_images%2Fdefault_profile_400x400.png"

// joinDateLayout is the mirror's literal join-date format, e.g.
// "2:18 PM - 26 Jun 2015". Anything else leaves the field absent.
const joinDateLayout = "3:04 PM - 2 Jan 2006"

// fieldRules maps each snapshot field to its extraction rule. Re-targeting a
// changed mirror layout means editing this table, nothing else; scoring never
// looks at HTML.
var fieldRules = []struct {
	field string
	apply func(doc *html.Node, snap *profile.MirrorSnapshot)
}{
	{"screen_name", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if s, ok := classText(doc, "profile-card-username"); ok {
			snap.ScreenName = strings.TrimPrefix(s, "@")
		}
	}},
	{"name", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.Name, _ = classText(doc, "profile-card-fullname")
	}},
	{"location", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if loc := findClass(doc, "profile-location"); loc != nil {
			if span := lastChildElement(loc, "span"); span != nil {
				snap.Location = strings.TrimSpace(text(span))
			}
		}
	}},
	{"description", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if bio := findClass(doc, "profile-bio"); bio != nil {
			if p := findElement(bio, "p"); p != nil {
				s := strings.TrimSpace(text(p))
				snap.Description = &s
			}
		}
	}},
	{"url", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if snap.ScreenName != "" {
			snap.Website = "https://x.com/" + snap.ScreenName
		}
	}},
	{"followers_count", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.FollowersCount = statValue(doc, "Followers")
	}},
	{"friends_count", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.FriendsCount = statValue(doc, "Following")
	}},
	{"statuses_count", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.StatusesCount = statValue(doc, "Tweets")
	}},
	{"favorites_count", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.FavoritesCount = statValue(doc, "Likes")
	}},
	{"created_at", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		join := findClass(doc, "profile-joindate")
		if join == nil {
			return
		}
		span := findWithAttr(join, "span", "title")
		if span == nil {
			return
		}
		ts, err := time.Parse(joinDateLayout, attr(span, "title"))
		if err != nil {
			return
		}
		snap.CreatedAt = &ts
	}},
	{"verified", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		snap.Verified = findClass(doc, "verified-icon") != nil
	}},
	{"avatar_image", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if meta := findMetaProperty(doc, "og:image"); meta != nil {
			snap.AvatarImage = attr(meta, "content")
		}
	}},
	{"default_profile_image", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		card := findClass(doc, "profile-card-avatar")
		if card == nil {
			return
		}
		// The card element itself may be the <a>; the placeholder test is
		// exact string equality against the mirror's literal path.
		if img := findElement(card, "img"); img != nil {
			snap.DefaultProfileImage = attr(img, "src") == defaultAvatarPath
		}
	}},
	{"banner_image", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		if banner := findClass(doc, "profile-banner"); banner != nil {
			if img := findElement(banner, "img"); img != nil {
				snap.BannerImage = attr(img, "src")
			}
		}
	}},
	{"status", func(doc *html.Node, snap *profile.MirrorSnapshot) {
		item := findClass(doc, "timeline-item")
		if item == nil {
			return
		}
		content := findClass(item, "tweet-content")
		if content == nil {
			return
		}
		s := strings.TrimSpace(text(content))
		snap.RecentPost = &s
	}},
}

// ParseProfile extracts a mirror snapshot from a parsed document.
// It is total: a missing element leaves its field absent, never an error.
func ParseProfile(doc *html.Node) *profile.MirrorSnapshot {
	snap := &profile.MirrorSnapshot{}
	if doc == nil {
		return snap
	}
	for _, rule := range fieldRules {
		rule.apply(doc, snap)
	}
	return snap
}

// statValue finds a stat label span ("Followers", "Tweets", ...) and parses
// the adjacent .profile-stat-num sibling. Thousands separators are stripped.
// Returns nil when the label, the number node, or the parse is missing.
func statValue(doc *html.Node, label string) *int {
	span := findSpanWithText(doc, label)
	if span == nil {
		return nil
	}
	num := nextClass(span, "profile-stat-num")
	if num == nil {
		return nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(text(num)), ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
