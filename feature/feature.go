// Package feature builds the fixed numeric encoding of a structured profile.
//
// The 13 features and their order are FIXED: they must match the order the
// classifier artifact was fitted with. The artifact records the fitted names
// and the classifier package refuses vectors whose schema differs, so any
// accidental reordering here fails loudly instead of silently misaligning
// columns.
package feature

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/imposter/profile"
)

// Count is the arity of a feature vector.
const Count = 13

// Names lists the features in fitted order.
var Names = [Count]string{
	"profile_pic",
	"nums/length_username",
	"fullname_words",
	"nums/length_fullname",
	"name==username",
	"description_length",
	"external_url",
	"private",
	"num_posts",
	"num_followers",
	"num_follows",
	"activity_ratio",
	"followers_gt_follows",
}

// Vector is an ordered feature vector in fitted order.
type Vector [Count]float64

// Values returns the vector as a slice.
func (v Vector) Values() []float64 {
	return v[:]
}

// Extract computes the feature vector for a snapshot.
// customPic is the Default-Avatar Comparator's verdict: true when the profile
// picture is a custom image rather than a stock placeholder.
// A snapshot with an empty username violates the extractor's precondition.
func Extract(snap *profile.Snapshot, customPic bool) (Vector, error) {
	var v Vector

	if snap == nil || snap.Username == "" {
		return v, fmt.Errorf("%w: empty username", profile.ErrInvalidProfile)
	}

	posts := max(snap.MediaCount, 0)
	followers := max(snap.Followers, 0)
	follows := max(snap.Followees, 0)

	v[0] = boolFeature(customPic)
	v[1] = digitRatio(snap.Username, utf8.RuneCountInString(snap.Username))
	v[2] = float64(len(strings.Fields(snap.FullName)))
	v[3] = digitRatio(snap.FullName, max(utf8.RuneCountInString(snap.FullName), 1))
	v[4] = boolFeature(nameEqualsUsername(snap.FullName, snap.Username))
	v[5] = float64(utf8.RuneCountInString(snap.Biography))
	v[6] = boolFeature(snap.ExternalURL != "")
	v[7] = boolFeature(snap.IsPrivate)
	v[8] = float64(posts)
	v[9] = float64(followers)
	v[10] = float64(follows)
	v[11] = activityRatio(posts, followers)
	v[12] = boolFeature(followers > follows)

	return v, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// digitRatio returns the share of digit characters in s, over the given
// denominator. Lengths are counted in runes so the ratio matches what the
// model saw at fit time. Callers clamp the denominator to 1 for empty strings.
func digitRatio(s string, length int) float64 {
	if length <= 0 {
		return 0
	}
	var digits int
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(length)
}

// nameEqualsUsername reports whether the full name, with all whitespace
// removed and case folded, equals the case-folded username.
func nameEqualsUsername(fullName, username string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, fullName)
	return stripped != "" && strings.EqualFold(stripped, username)
}

// activityRatio is posts/followers rounded to two decimal places.
// Zero followers collapses to 0 rather than dividing by zero.
func activityRatio(posts, followers int) float64 {
	if followers <= 0 {
		return 0
	}
	return math.Round(float64(posts)/float64(followers)*100) / 100
}
