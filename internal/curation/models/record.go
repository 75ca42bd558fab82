package models

import (
	"math"
	"time"

	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
)

// CurationRecord is the aggregate root for one subject's validation and
// publication journey. It is exclusively owned by the curation registry; all
// mutation goes through the store's Execute callback so at most one mutation
// per record is ever in flight.
//
// Invariants:
//   - ID, SubjectID, SubmitterID, SubmittedAt are immutable after construction
//   - Sensitivity is settable only while Status is draft; frozen afterwards
//   - ValidationScore is always the arithmetic mean of expert-consultation
//     confidences (0 when there are none); no other write path exists
//   - CommunityReviews holds at most one entry per reviewer
//   - VerificationLevel only ever upgrades
//   - Status moves only along the explicit transition graph; nothing is
//     mutated after a terminal state is reached
//   - Restricted and sacred records cannot be published without at least one
//     knowledge-keeper consultation; the gate is re-checked at decision time
type CurationRecord struct {
	ID          id.RecordID  `json:"id"`
	SubjectID   id.SubjectID `json:"subject_id"`
	SubmitterID id.UserID    `json:"submitter_id"`
	SubmittedAt time.Time    `json:"submitted_at"`

	Sensitivity Sensitivity `json:"sensitivity"`
	Culture     string      `json:"culture"`

	TraditionalElements          []TraditionalElement          `json:"traditional_elements"`
	HistoricalSources            []HistoricalSource            `json:"historical_sources"`
	KnowledgeKeeperConsultations []KnowledgeKeeperConsultation `json:"knowledge_keeper_consultations"`
	ExpertConsultations          []ExpertConsultation          `json:"expert_consultations"`
	CommunityReviews             []CommunityReview             `json:"community_reviews"`
	ValidationRequests           []ValidationRequest           `json:"validation_requests"`

	ValidationScore    float64           `json:"validation_score"`    // derived, 0-100
	AccuracyConfidence float64           `json:"accuracy_confidence"` // derived, 0-100
	VerificationLevel  VerificationLevel `json:"verification_level"`

	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Visibility  string     `json:"visibility,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`

	// FrozenAccuracyConfidence snapshots AccuracyConfidence at publication for
	// downstream reporting; evidence arriving later can no longer change it.
	FrozenAccuracyConfidence *float64 `json:"frozen_accuracy_confidence,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewCurationRecord constructs a draft record. Callers apply Submit in the
// same operation to move it into the pipeline.
func NewCurationRecord(recordID id.RecordID, subjectID id.SubjectID, submitterID id.UserID, culture string, sensitivity Sensitivity, elements []TraditionalElement, now time.Time) (*CurationRecord, error) {
	if !sensitivity.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidSensitivityLevel, "unknown sensitivity level %q", sensitivity)
	}
	if subjectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "subject id is required")
	}
	if submitterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "submitter id is required")
	}
	return &CurationRecord{
		ID:                  recordID,
		SubjectID:           subjectID,
		SubmitterID:         submitterID,
		SubmittedAt:         now,
		Sensitivity:         sensitivity,
		Culture:             culture,
		TraditionalElements: append([]TraditionalElement(nil), elements...),
		VerificationLevel:   VerificationPreliminary,
		Status:              StatusDraft,
		UpdatedAt:           now,
	}, nil
}

// guardMutable rejects any mutation once a terminal state is reached.
func (r *CurationRecord) guardMutable() error {
	if r.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeTerminalState, "record is %s and accepts no further changes", r.Status)
	}
	return nil
}

// SetSensitivity changes the declared sensitivity. Allowed only in draft.
func (r *CurationRecord) SetSensitivity(level Sensitivity, now time.Time) error {
	if !level.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidSensitivityLevel, "unknown sensitivity level %q", level)
	}
	if r.Status != StatusDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "sensitivity is frozen once the record leaves draft")
	}
	r.Sensitivity = level
	r.UpdatedAt = now
	return nil
}

// ApplySubmit moves a draft into the pipeline. Records needing validator
// consultation go to pending_validation; the rest go straight to community
// review.
func (r *CurationRecord) ApplySubmit(requiresConsultation bool, now time.Time) error {
	if err := r.guardMutable(); err != nil {
		return err
	}
	if r.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot submit record in status %s", r.Status)
	}
	next := StatusCommunityReview
	if requiresConsultation {
		next = StatusPendingValidation
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// AddHistoricalSource appends a source, classifying it primary or secondary
// from its reliability alone, then recomputes accuracy confidence and the
// verification level.
func (r *CurationRecord) AddHistoricalSource(sourceID string, reliability int, now time.Time) error {
	if err := r.guardMutable(); err != nil {
		return err
	}
	if reliability < 0 || reliability > 10 {
		return dErrors.Newf(dErrors.CodeInvalidScoreRange, "source reliability %d outside [0,10]", reliability)
	}
	r.HistoricalSources = append(r.HistoricalSources, HistoricalSource{
		SourceID:    sourceID,
		Reliability: reliability,
		IsPrimary:   reliability >= PrimarySourceReliability,
		AddedAt:     now,
	})
	r.recomputeAccuracyFromEvidence()
	r.upgradeVerificationLevel()
	r.UpdatedAt = now
	return nil
}

// AddKnowledgeKeeperConsultation appends a keeper consultation. Each one lifts
// accuracy confidence by a fixed 20 points, capped at 100.
func (r *CurationRecord) AddKnowledgeKeeperConsultation(keeperID id.UserID, community, notes string, now time.Time) error {
	if err := r.guardMutable(); err != nil {
		return err
	}
	if keeperID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "keeper id is required")
	}
	r.KnowledgeKeeperConsultations = append(r.KnowledgeKeeperConsultations, KnowledgeKeeperConsultation{
		KeeperID:    keeperID,
		Community:   community,
		Notes:       notes,
		ConsultedAt: now,
	})
	r.AccuracyConfidence = math.Min(100, r.AccuracyConfidence+20)
	r.upgradeVerificationLevel()
	r.UpdatedAt = now
	return nil
}

// AddExpertConsultation appends an expert finding and recomputes the
// validation score as the mean of all confidences. Accuracy confidence mirrors
// the validation score at this point; historical appends re-derive it from
// evidence counts independently.
func (r *CurationRecord) AddExpertConsultation(c ExpertConsultation, now time.Time) error {
	if err := r.guardMutable(); err != nil {
		return err
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		return dErrors.Newf(dErrors.CodeInvalidScoreRange, "expert confidence %.1f outside [0,100]", c.Confidence)
	}
	if c.ExpertID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "expert id is required")
	}
	c.ConsultedAt = now
	r.ExpertConsultations = append(r.ExpertConsultations, c)
	r.recomputeValidationScore()
	r.AccuracyConfidence = r.ValidationScore
	r.upgradeVerificationLevel()
	r.UpdatedAt = now
	return nil
}

// SubmitReview appends a community review, rejecting resubmission by the same
// reviewer. The record stays unchanged on rejection.
func (r *CurationRecord) SubmitReview(review CommunityReview, now time.Time) error {
	if err := r.guardMutable(); err != nil {
		return err
	}
	if review.Rating < 1 || review.Rating > 10 {
		return dErrors.Newf(dErrors.CodeInvalidScoreRange, "rating %d outside [1,10]", review.Rating)
	}
	for _, existing := range r.CommunityReviews {
		if existing.ReviewerID == review.ReviewerID {
			return dErrors.Newf(dErrors.CodeDuplicateReview, "reviewer %s already reviewed this record", review.ReviewerID)
		}
	}
	review.SubmittedAt = now
	r.CommunityReviews = append(r.CommunityReviews, review)
	r.UpdatedAt = now
	return nil
}

// RoleSatisfied reports whether a validator of the given role has already
// weighed in. Knowledge keepers satisfy their role through keeper
// consultations as well as typed expert consultations.
func (r *CurationRecord) RoleSatisfied(role ValidatorRole) bool {
	if role == RoleTraditionalKnowledgeKeeper && len(r.KnowledgeKeeperConsultations) > 0 {
		return true
	}
	for _, c := range r.ExpertConsultations {
		if c.ExpertType == role {
			return true
		}
	}
	return false
}

// RequestPending reports whether an outstanding validation request already
// names the role.
func (r *CurationRecord) RequestPending(role ValidatorRole) bool {
	for _, req := range r.ValidationRequests {
		if req.Role == role {
			return true
		}
	}
	return false
}

// AppendValidationRequest records an issued request so reassignment stays
// idempotent.
func (r *CurationRecord) AppendValidationRequest(req ValidationRequest) {
	r.ValidationRequests = append(r.ValidationRequests, req)
}

// AdvanceIfValidated moves pending_validation to community_review once every
// required role is satisfied. A no-op in any other state.
func (r *CurationRecord) AdvanceIfValidated(required []ValidatorRole, now time.Time) bool {
	if r.Status != StatusPendingValidation {
		return false
	}
	for _, role := range required {
		if !r.RoleSatisfied(role) {
			return false
		}
	}
	r.Status = StatusCommunityReview
	r.UpdatedAt = now
	return true
}

// CanDecide validates a publication decision against the transition graph and
// the sensitivity gate without mutating the record.
func (r *CurationRecord) CanDecide(decision Decision) error {
	if r.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeTerminalState, "record is %s; no further decisions accepted", r.Status)
	}
	switch decision {
	case DecisionApprove:
		if r.Status != StatusCommunityReview {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot approve record in status %s", r.Status)
		}
		if r.Sensitivity.RequiresKeeperApproval() && len(r.KnowledgeKeeperConsultations) == 0 {
			return dErrors.Newf(dErrors.CodeSensitivityGateUnmet,
				"%s records require at least one knowledge-keeper consultation before publication", r.Sensitivity)
		}
	case DecisionReject:
		if r.Status != StatusCommunityReview {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot reject record in status %s", r.Status)
		}
	case DecisionRequestRevision:
		// Allowed from any non-terminal state.
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown decision %q", decision)
	}
	return nil
}

// ApplyDecision performs the transition validated by CanDecide. On approval
// the record freezes its accuracy confidence for downstream reporting.
func (r *CurationRecord) ApplyDecision(decision Decision, visibility string, now time.Time) {
	switch decision {
	case DecisionApprove:
		r.Status = StatusPublished
		published := now
		r.PublishedAt = &published
		if visibility == "" {
			visibility = string(r.Sensitivity)
		}
		r.Visibility = visibility
		frozen := r.AccuracyConfidence
		r.FrozenAccuracyConfidence = &frozen
	case DecisionReject:
		r.Status = StatusArchived
		archived := now
		r.ArchivedAt = &archived
	case DecisionRequestRevision:
		r.Status = StatusDraft
	}
	r.UpdatedAt = now
}

func (r *CurationRecord) recomputeValidationScore() {
	if len(r.ExpertConsultations) == 0 {
		r.ValidationScore = 0
		return
	}
	var sum float64
	for _, c := range r.ExpertConsultations {
		sum += c.Confidence
	}
	r.ValidationScore = sum / float64(len(r.ExpertConsultations))
}

// recomputeAccuracyFromEvidence derives accuracy confidence from evidence
// counts. Runs on historical-source appends; keeper appends use the fixed
// increment instead.
func (r *CurationRecord) recomputeAccuracyFromEvidence() {
	primary, secondary := r.sourceCounts()
	score := 20*float64(primary) + 10*float64(secondary) +
		15*float64(len(r.ExpertConsultations)) + 25*float64(len(r.KnowledgeKeeperConsultations))
	r.AccuracyConfidence = math.Min(100, score)
}

func (r *CurationRecord) sourceCounts() (primary, secondary int) {
	for _, s := range r.HistoricalSources {
		if s.IsPrimary {
			primary++
		} else {
			secondary++
		}
	}
	return primary, secondary
}

// upgradeVerificationLevel re-derives the verification level from current
// evidence. The level is a one-way ladder; a derivation below the current
// level leaves it unchanged.
func (r *CurationRecord) upgradeVerificationLevel() {
	primary, secondary := r.sourceCounts()
	keepers := len(r.KnowledgeKeeperConsultations)
	experts := len(r.ExpertConsultations)

	derived := VerificationPreliminary
	switch {
	case keepers >= 1 && primary > 2 && experts > 1:
		derived = VerificationCulturallyEndorsed
	case primary > 1 && experts > 0:
		derived = VerificationExpertVerified
	case primary > 0 || secondary > 1:
		derived = VerificationValidated
	}
	if derived.AtLeast(r.VerificationLevel) {
		r.VerificationLevel = derived
	}
}

// Clone returns a deep copy so readers observe a consistent snapshot while a
// mutation is in flight.
func (r *CurationRecord) Clone() *CurationRecord {
	cp := *r
	cp.TraditionalElements = append([]TraditionalElement(nil), r.TraditionalElements...)
	cp.HistoricalSources = append([]HistoricalSource(nil), r.HistoricalSources...)
	cp.KnowledgeKeeperConsultations = append([]KnowledgeKeeperConsultation(nil), r.KnowledgeKeeperConsultations...)
	cp.ExpertConsultations = append([]ExpertConsultation(nil), r.ExpertConsultations...)
	cp.CommunityReviews = append([]CommunityReview(nil), r.CommunityReviews...)
	cp.ValidationRequests = make([]ValidationRequest, len(r.ValidationRequests))
	for i, req := range r.ValidationRequests {
		cp.ValidationRequests[i] = req
		cp.ValidationRequests[i].Criteria = append([]string(nil), req.Criteria...)
	}
	if r.PublishedAt != nil {
		published := *r.PublishedAt
		cp.PublishedAt = &published
	}
	if r.ArchivedAt != nil {
		archived := *r.ArchivedAt
		cp.ArchivedAt = &archived
	}
	if r.FrozenAccuracyConfidence != nil {
		frozen := *r.FrozenAccuracyConfidence
		cp.FrozenAccuracyConfidence = &frozen
	}
	return &cp
}
