package models

import (
	"time"

	id "tapestry/pkg/domain"
)

// PrimarySourceReliability is the reliability floor above which a historical
// source counts as primary. Classification is derived from reliability alone;
// callers never set it directly.
const PrimarySourceReliability = 8

// TraditionalElement is one element of the subject's traditional content,
// tagged with how its authenticity was established.
type TraditionalElement struct {
	Element         string `json:"element"`
	AuthenticityTag string `json:"authenticity_tag"`
}

// HistoricalSource is one documented source supporting a record.
type HistoricalSource struct {
	SourceID    string    `json:"source_id"`
	Reliability int       `json:"reliability"` // 0-10
	IsPrimary   bool      `json:"is_primary"`  // derived: Reliability >= PrimarySourceReliability
	AddedAt     time.Time `json:"added_at"`
}

// KnowledgeKeeperConsultation records a consultation with a traditional
// knowledge keeper from the subject's community.
type KnowledgeKeeperConsultation struct {
	KeeperID    id.UserID `json:"keeper_id"`
	Community   string    `json:"community"`
	Notes       string    `json:"notes"`
	ConsultedAt time.Time `json:"consulted_at"`
}

// ExpertConsultation is one expert's confidence-scored finding.
type ExpertConsultation struct {
	ExpertID    id.UserID     `json:"expert_id"`
	ExpertType  ValidatorRole `json:"expert_type"`
	Confidence  float64       `json:"confidence"` // 0-100
	Findings    string        `json:"findings"`
	ConsultedAt time.Time     `json:"consulted_at"`
}

// CommunityReview is one reviewer's rating. At most one per reviewer per
// record; resubmission is rejected, not merged.
type CommunityReview struct {
	ReviewerID     id.ReviewerID `json:"reviewer_id"`
	Rating         int           `json:"rating"` // 1-10
	ReviewType     string        `json:"review_type"`
	CulturalMember bool          `json:"cultural_member"`
	SubmittedAt    time.Time     `json:"submitted_at"`
}

// ValidationRequest is an outstanding ask for a validator of a given role to
// weigh in on a record.
type ValidationRequest struct {
	Role        ValidatorRole `json:"role"`
	Criteria    []string      `json:"criteria"`
	RequestedAt time.Time     `json:"requested_at"`
}
