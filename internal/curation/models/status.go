package models

// Status is the lifecycle state of a curation record.
//
// Transitions follow a fixed directed graph:
//
//	draft -> pending_validation -> community_review -> published
//	                                                -> archived
//
// with revision looping any non-terminal state back to draft. Terminal states
// (published, archived) accept no further events; records there are retained
// for audit, never deleted.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPendingValidation Status = "pending_validation"
	StatusCommunityReview   Status = "community_review"
	StatusPublished         Status = "published"
	StatusArchived          Status = "archived"
)

// legalTransitions is the explicit edge set. Anything not listed is rejected;
// there is no string-comparison fallback.
var legalTransitions = map[Status]map[Status]struct{}{
	StatusDraft: {
		StatusPendingValidation: {},
		StatusCommunityReview:   {},
	},
	StatusPendingValidation: {
		StatusCommunityReview: {},
		StatusDraft:           {},
	},
	StatusCommunityReview: {
		StatusPublished: {},
		StatusArchived:  {},
		StatusDraft:     {},
	},
	StatusPublished: {},
	StatusArchived:  {},
}

// CanTransitionTo reports whether the edge from s to next exists.
func (s Status) CanTransitionTo(next Status) bool {
	_, ok := legalTransitions[s][next]
	return ok
}

// IsTerminal reports whether the status accepts no further events.
func (s Status) IsTerminal() bool {
	return s == StatusPublished || s == StatusArchived
}

func (s Status) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// Decision is a publication decision made while a record is under review.
type Decision string

const (
	DecisionApprove         Decision = "approve"
	DecisionReject          Decision = "reject"
	DecisionRequestRevision Decision = "request_revision"
)

func (d Decision) IsValid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRequestRevision:
		return true
	}
	return false
}

// VerificationLevel classifies how well historical evidence supports a
// record. It only ever upgrades within a record's lifetime.
type VerificationLevel string

const (
	VerificationPreliminary        VerificationLevel = "preliminary"
	VerificationValidated          VerificationLevel = "validated"
	VerificationExpertVerified     VerificationLevel = "expert_verified"
	VerificationCulturallyEndorsed VerificationLevel = "culturally_endorsed"
)

var verificationRank = map[VerificationLevel]int{
	VerificationPreliminary:        0,
	VerificationValidated:          1,
	VerificationExpertVerified:     2,
	VerificationCulturallyEndorsed: 3,
}

// AtLeast reports whether l ranks at or above other on the upgrade ladder.
func (l VerificationLevel) AtLeast(other VerificationLevel) bool {
	return verificationRank[l] >= verificationRank[other]
}
