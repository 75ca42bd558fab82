// Package consensus aggregates community reviews into a verdict. "Consensus"
// here means summarizing human judgments, not replicated-log agreement; the
// computation is pure and recomputed on demand because the reviewer pool is
// open-ended.
package consensus

import (
	"math"

	"tapestry/internal/curation/models"
)

// Verdict is the aggregated outcome of community review.
type Verdict string

const (
	VerdictApproved         Verdict = "approved"
	VerdictRejected         Verdict = "rejected"
	VerdictMixed            Verdict = "mixed"
	VerdictInsufficientData Verdict = "insufficient_data"
)

// Thresholds for the verdict. A record is approved only when both the general
// community and reviewers from the subject's own cultural community average
// at or above the approval bar; a low average from either side rejects it.
const (
	approveThreshold = 7.0
	rejectThreshold  = 4.0
)

// Result carries the aggregated verdict plus the averages it was derived
// from. Confidence is a sample-size proxy: 10 points per review, capped at
// 100. A proper interval estimate could replace it without moving the verdict
// thresholds.
type Result struct {
	Verdict         Verdict `json:"verdict"`
	OverallAverage  float64 `json:"overall_average"`
	CulturalAverage float64 `json:"cultural_average"`
	ReviewCount     int     `json:"review_count"`
	CulturalCount   int     `json:"cultural_count"`
	Confidence      float64 `json:"confidence"`
}

// Compute derives the consensus result from the record's reviews.
func Compute(record *models.CurationRecord) Result {
	reviews := record.CommunityReviews
	if len(reviews) == 0 {
		return Result{Verdict: VerdictInsufficientData}
	}

	var overallSum, culturalSum float64
	var culturalCount int
	for _, review := range reviews {
		overallSum += float64(review.Rating)
		if review.CulturalMember {
			culturalSum += float64(review.Rating)
			culturalCount++
		}
	}

	overallAvg := overallSum / float64(len(reviews))
	culturalAvg := 0.0
	if culturalCount > 0 {
		culturalAvg = culturalSum / float64(culturalCount)
	}

	verdict := VerdictMixed
	switch {
	case overallAvg >= approveThreshold && culturalAvg >= approveThreshold:
		verdict = VerdictApproved
	case overallAvg <= rejectThreshold || culturalAvg <= rejectThreshold:
		verdict = VerdictRejected
	}

	return Result{
		Verdict:         verdict,
		OverallAverage:  overallAvg,
		CulturalAverage: culturalAvg,
		ReviewCount:     len(reviews),
		CulturalCount:   culturalCount,
		Confidence:      math.Min(100, 10*float64(len(reviews))),
	}
}
