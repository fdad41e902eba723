// internal/matching/matching.go
package matching

import (
	"math"
	"strings"
)

const (
	// LocationBonus is added to the tag-coverage score when the job and
	// the applicant's desired location line up.
	LocationBonus = 5

	// RemoteLocation always counts as a location match.
	RemoteLocation = "Remote"
)

// NormalizeTags canonicalizes a free-text comma-separated skill string into
// a set of lowercase tokens. Empty and whitespace-only tokens are dropped.
// Total over all inputs; an empty string yields an empty set.
func NormalizeTags(tags string) map[string]struct{} {
	out := make(map[string]struct{})
	if tags == "" {
		return out
	}
	for _, t := range strings.Split(tags, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

// Score computes the 0-100 compatibility score between an applicant and a
// job posting. The denominator is the job's own tag list: the score is the
// fraction of the job's required tags the applicant covers. A job with no
// tags scores 0 regardless of location. When sameLocation is set a flat +5
// bonus is added before rounding; the result is clamped to 100. Rounding is
// half-away-from-zero (math.Round).
func Score(applicantTags, jobTags string, sameLocation bool) int {
	a := NormalizeTags(applicantTags)
	j := NormalizeTags(jobTags)
	if len(j) == 0 {
		return 0
	}

	inter := 0
	for t := range j {
		if _, ok := a[t]; ok {
			inter++
		}
	}

	score := float64(inter) / float64(len(j)) * 100
	if sameLocation {
		score += LocationBonus
	}

	rounded := int(math.Round(score))
	if rounded > 100 {
		return 100
	}
	return rounded
}

// SameLocation implements the location-match rule used by the recommender:
// an applicant with no stated desired location never matches, a job located
// "Remote" always matches.
func SameLocation(desiredLocation, jobLocation string) bool {
	if desiredLocation == "" {
		return false
	}
	return jobLocation == desiredLocation || jobLocation == RemoteLocation
}
