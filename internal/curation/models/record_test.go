package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
)

// =============================================================================
// Curation Record Test Suite
// =============================================================================
// Justification for unit tests: the record aggregate carries the full state
// machine, the derived-score formulas, and the sensitivity gate. These are
// exercised far more precisely here than through HTTP round trips.

type CurationRecordSuite struct {
	suite.Suite
	now time.Time
}

func TestCurationRecordSuite(t *testing.T) {
	suite.Run(t, new(CurationRecordSuite))
}

func (s *CurationRecordSuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
}

func (s *CurationRecordSuite) newRecord(sensitivity Sensitivity) *CurationRecord {
	record, err := NewCurationRecord(
		id.NewRecordID(),
		id.SubjectID(mustUUID(s.T(), "6f1c8a52-09a4-4c2d-9f49-0d4e83f2a111")),
		id.UserID(mustUUID(s.T(), "b2f0d5c1-63f7-4f4a-8a5e-2a9c1e7d4222")),
		"anishinaabe",
		sensitivity,
		[]TraditionalElement{{Element: "winter teaching", AuthenticityTag: "oral_tradition"}},
		s.now,
	)
	s.Require().NoError(err)
	return record
}

// =============================================================================
// Construction
// =============================================================================

func (s *CurationRecordSuite) TestNewCurationRecord() {
	s.Run("starts in draft at preliminary verification", func() {
		record := s.newRecord(SensitivityPublic)
		s.Equal(StatusDraft, record.Status)
		s.Equal(VerificationPreliminary, record.VerificationLevel)
		s.Zero(record.ValidationScore)
		s.Zero(record.AccuracyConfidence)
	})

	s.Run("rejects unknown sensitivity", func() {
		_, err := NewCurationRecord(id.NewRecordID(),
			id.SubjectID(mustUUID(s.T(), "6f1c8a52-09a4-4c2d-9f49-0d4e83f2a111")),
			id.UserID(mustUUID(s.T(), "b2f0d5c1-63f7-4f4a-8a5e-2a9c1e7d4222")),
			"", Sensitivity("secret"), nil, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSensitivityLevel))
	})

	s.Run("rejects nil subject and submitter", func() {
		_, err := NewCurationRecord(id.NewRecordID(), id.SubjectID{},
			id.UserID(mustUUID(s.T(), "b2f0d5c1-63f7-4f4a-8a5e-2a9c1e7d4222")),
			"", SensitivityPublic, nil, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = NewCurationRecord(id.NewRecordID(),
			id.SubjectID(mustUUID(s.T(), "6f1c8a52-09a4-4c2d-9f49-0d4e83f2a111")),
			id.UserID{}, "", SensitivityPublic, nil, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Submission and Sensitivity
// =============================================================================

func (s *CurationRecordSuite) TestApplySubmit() {
	s.Run("consultation routes to pending validation", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.ApplySubmit(true, s.now))
		s.Equal(StatusPendingValidation, record.Status)
	})

	s.Run("no consultation goes straight to community review", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		s.Equal(StatusCommunityReview, record.Status)
	})

	s.Run("resubmission of a submitted record fails", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		err := record.ApplySubmit(false, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *CurationRecordSuite) TestSetSensitivity() {
	s.Run("settable in draft", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.SetSensitivity(SensitivitySacred, s.now))
		s.Equal(SensitivitySacred, record.Sensitivity)
	})

	s.Run("frozen once submitted", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		err := record.SetSensitivity(SensitivityRestricted, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(SensitivityPublic, record.Sensitivity)
	})

	s.Run("rejects unknown level", func() {
		record := s.newRecord(SensitivityPublic)
		err := record.SetSensitivity(Sensitivity("secret"), s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSensitivityLevel))
	})
}

// =============================================================================
// Historical Sources
// =============================================================================

func (s *CurationRecordSuite) TestAddHistoricalSource() {
	s.Run("reliability at the floor classifies primary", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("archive-001", 8, s.now))
		s.Require().Len(record.HistoricalSources, 1)
		s.True(record.HistoricalSources[0].IsPrimary)
	})

	s.Run("reliability below the floor classifies secondary", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("archive-002", 7, s.now))
		s.Require().Len(record.HistoricalSources, 1)
		s.False(record.HistoricalSources[0].IsPrimary)
	})

	s.Run("reliability outside range is rejected without mutation", func() {
		record := s.newRecord(SensitivityPublic)
		s.True(dErrors.HasCode(record.AddHistoricalSource("x", -1, s.now), dErrors.CodeInvalidScoreRange))
		s.True(dErrors.HasCode(record.AddHistoricalSource("x", 11, s.now), dErrors.CodeInvalidScoreRange))
		s.Empty(record.HistoricalSources)
	})

	s.Run("accuracy confidence derives from evidence counts", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))
		s.InDelta(20.0, record.AccuracyConfidence, 1e-9)
		s.NoError(record.AddHistoricalSource("s1", 5, s.now))
		s.InDelta(30.0, record.AccuracyConfidence, 1e-9)
	})

	s.Run("accuracy confidence caps at 100", func() {
		record := s.newRecord(SensitivityPublic)
		for i := 0; i < 6; i++ {
			s.NoError(record.AddHistoricalSource("p", 10, s.now))
		}
		s.InDelta(100.0, record.AccuracyConfidence, 1e-9)
	})
}

// =============================================================================
// Knowledge Keeper Consultations
// =============================================================================

func (s *CurationRecordSuite) TestAddKnowledgeKeeperConsultation() {
	keeper := id.UserID(mustUUID(s.T(), "7a3b9c44-1d2e-4f50-8b6a-9c0d1e2f3555"))

	s.Run("each consultation lifts accuracy by 20 capped at 100", func() {
		record := s.newRecord(SensitivitySacred)
		for i := 1; i <= 6; i++ {
			s.NoError(record.AddKnowledgeKeeperConsultation(keeper, "anishinaabe", "", s.now))
			want := float64(i * 20)
			if want > 100 {
				want = 100
			}
			s.InDelta(want, record.AccuracyConfidence, 1e-9)
		}
	})

	s.Run("nil keeper id is rejected", func() {
		record := s.newRecord(SensitivitySacred)
		err := record.AddKnowledgeKeeperConsultation(id.UserID{}, "anishinaabe", "", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("satisfies the keeper validator role", func() {
		record := s.newRecord(SensitivitySacred)
		s.False(record.RoleSatisfied(RoleTraditionalKnowledgeKeeper))
		s.NoError(record.AddKnowledgeKeeperConsultation(keeper, "anishinaabe", "", s.now))
		s.True(record.RoleSatisfied(RoleTraditionalKnowledgeKeeper))
	})
}

// =============================================================================
// Expert Consultations
// =============================================================================

func (s *CurationRecordSuite) TestAddExpertConsultation() {
	expert := id.UserID(mustUUID(s.T(), "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5666"))

	s.Run("validation score is the mean of confidences", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 80,
		}, s.now))
		s.InDelta(80.0, record.ValidationScore, 1e-9)

		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleHistorian, Confidence: 92,
		}, s.now))
		s.InDelta(86.0, record.ValidationScore, 1e-9)
	})

	s.Run("accuracy confidence mirrors the validation score", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 64,
		}, s.now))
		s.InDelta(64.0, record.AccuracyConfidence, 1e-9)
	})

	s.Run("confidence outside range is rejected without mutation", func() {
		record := s.newRecord(SensitivityPublic)
		err := record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 101,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidScoreRange))
		s.Empty(record.ExpertConsultations)
		s.Zero(record.ValidationScore)
	})

	s.Run("nil expert id is rejected", func() {
		record := s.newRecord(SensitivityPublic)
		err := record.AddExpertConsultation(ExpertConsultation{
			ExpertType: RoleCulturalExpert, Confidence: 50,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Verification Level Ladder
// =============================================================================

func (s *CurationRecordSuite) TestVerificationLevelUpgrades() {
	keeper := id.UserID(mustUUID(s.T(), "7a3b9c44-1d2e-4f50-8b6a-9c0d1e2f3555"))
	expert := id.UserID(mustUUID(s.T(), "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5666"))

	s.Run("one primary source reaches validated", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))
		s.Equal(VerificationValidated, record.VerificationLevel)
	})

	s.Run("two secondary sources reach validated", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("s1", 5, s.now))
		s.Equal(VerificationPreliminary, record.VerificationLevel)
		s.NoError(record.AddHistoricalSource("s2", 5, s.now))
		s.Equal(VerificationValidated, record.VerificationLevel)
	})

	s.Run("two primaries plus one expert reach expert_verified", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))
		s.NoError(record.AddHistoricalSource("p2", 8, s.now))
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 75,
		}, s.now))
		s.Equal(VerificationExpertVerified, record.VerificationLevel)
	})

	s.Run("keeper plus three primaries plus two experts reach culturally_endorsed", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))
		s.NoError(record.AddHistoricalSource("p2", 9, s.now))
		s.NoError(record.AddHistoricalSource("p3", 8, s.now))
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 85,
		}, s.now))
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleHistorian, Confidence: 90,
		}, s.now))
		s.NoError(record.AddKnowledgeKeeperConsultation(keeper, "anishinaabe", "", s.now))
		s.Equal(VerificationCulturallyEndorsed, record.VerificationLevel)
	})

	s.Run("level never downgrades", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))
		s.NoError(record.AddHistoricalSource("p2", 9, s.now))
		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 85,
		}, s.now))
		s.Equal(VerificationExpertVerified, record.VerificationLevel)

		// More secondary evidence derives a lower rung; the record keeps its level.
		s.NoError(record.AddHistoricalSource("s1", 3, s.now))
		s.Equal(VerificationExpertVerified, record.VerificationLevel)
	})
}

// =============================================================================
// Community Reviews
// =============================================================================

func (s *CurationRecordSuite) TestSubmitReview() {
	reviewer := id.ReviewerID(mustUUID(s.T(), "9e8d7c6b-5a49-4837-9261-0f1e2d3c4777"))

	s.Run("accepts one review per reviewer", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 8}, s.now))
		s.Len(record.CommunityReviews, 1)
	})

	s.Run("resubmission by the same reviewer is rejected unchanged", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 8}, s.now))
		err := record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 3}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateReview))
		s.Require().Len(record.CommunityReviews, 1)
		s.Equal(8, record.CommunityReviews[0].Rating)
	})

	s.Run("rating outside range is rejected", func() {
		record := s.newRecord(SensitivityPublic)
		s.True(dErrors.HasCode(record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 0}, s.now), dErrors.CodeInvalidScoreRange))
		s.True(dErrors.HasCode(record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 11}, s.now), dErrors.CodeInvalidScoreRange))
		s.Empty(record.CommunityReviews)
	})
}

// =============================================================================
// Validator Progress
// =============================================================================

func (s *CurationRecordSuite) TestAdvanceIfValidated() {
	keeper := id.UserID(mustUUID(s.T(), "7a3b9c44-1d2e-4f50-8b6a-9c0d1e2f3555"))
	expert := id.UserID(mustUUID(s.T(), "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5666"))
	required := []ValidatorRole{RoleCulturalExpert, RoleHistorian, RoleTraditionalKnowledgeKeeper}

	s.Run("advances only when every required role is satisfied", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.ApplySubmit(true, s.now))

		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 80,
		}, s.now))
		s.False(record.AdvanceIfValidated(required, s.now))
		s.Equal(StatusPendingValidation, record.Status)

		s.NoError(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleHistorian, Confidence: 85,
		}, s.now))
		s.NoError(record.AddKnowledgeKeeperConsultation(keeper, "anishinaabe", "", s.now))
		s.True(record.AdvanceIfValidated(required, s.now))
		s.Equal(StatusCommunityReview, record.Status)
	})

	s.Run("no-op outside pending validation", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		s.False(record.AdvanceIfValidated(nil, s.now))
		s.Equal(StatusCommunityReview, record.Status)
	})
}

// =============================================================================
// Publication Decisions
// =============================================================================

func (s *CurationRecordSuite) TestDecisions() {
	keeper := id.UserID(mustUUID(s.T(), "7a3b9c44-1d2e-4f50-8b6a-9c0d1e2f3555"))

	s.Run("approve publishes and freezes accuracy confidence", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		s.NoError(record.AddHistoricalSource("p1", 9, s.now))

		s.NoError(record.CanDecide(DecisionApprove))
		record.ApplyDecision(DecisionApprove, "", s.now)

		s.Equal(StatusPublished, record.Status)
		s.Require().NotNil(record.PublishedAt)
		s.Equal(string(SensitivityPublic), record.Visibility)
		s.Require().NotNil(record.FrozenAccuracyConfidence)
		s.InDelta(record.AccuracyConfidence, *record.FrozenAccuracyConfidence, 1e-9)
	})

	s.Run("explicit visibility overrides the sensitivity default", func() {
		record := s.newRecord(SensitivityCommunityOnly)
		s.NoError(record.ApplySubmit(false, s.now))
		record.ApplyDecision(DecisionApprove, "community_members_only", s.now)
		s.Equal("community_members_only", record.Visibility)
	})

	s.Run("sacred record without keeper consultation cannot be approved", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.ApplySubmit(false, s.now))
		err := record.CanDecide(DecisionApprove)
		s.True(dErrors.HasCode(err, dErrors.CodeSensitivityGateUnmet))
	})

	s.Run("sacred record with keeper consultation can be approved", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.ApplySubmit(false, s.now))
		s.NoError(record.AddKnowledgeKeeperConsultation(keeper, "anishinaabe", "", s.now))
		s.NoError(record.CanDecide(DecisionApprove))
	})

	s.Run("restricted records carry the same gate", func() {
		record := s.newRecord(SensitivityRestricted)
		s.NoError(record.ApplySubmit(false, s.now))
		err := record.CanDecide(DecisionApprove)
		s.True(dErrors.HasCode(err, dErrors.CodeSensitivityGateUnmet))
	})

	s.Run("approve outside community review is an invariant violation", func() {
		record := s.newRecord(SensitivityPublic)
		err := record.CanDecide(DecisionApprove)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("reject archives the record", func() {
		record := s.newRecord(SensitivityPublic)
		s.NoError(record.ApplySubmit(false, s.now))
		s.NoError(record.CanDecide(DecisionReject))
		record.ApplyDecision(DecisionReject, "", s.now)
		s.Equal(StatusArchived, record.Status)
		s.NotNil(record.ArchivedAt)
	})

	s.Run("request revision loops back to draft from pending validation", func() {
		record := s.newRecord(SensitivitySacred)
		s.NoError(record.ApplySubmit(true, s.now))
		s.NoError(record.CanDecide(DecisionRequestRevision))
		record.ApplyDecision(DecisionRequestRevision, "", s.now)
		s.Equal(StatusDraft, record.Status)
	})

	s.Run("unknown decision is rejected", func() {
		record := s.newRecord(SensitivityPublic)
		err := record.CanDecide(Decision("defer"))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// =============================================================================
// Terminal State Safety
// =============================================================================

func (s *CurationRecordSuite) TestTerminalStateRejectsEverything() {
	keeper := id.UserID(mustUUID(s.T(), "7a3b9c44-1d2e-4f50-8b6a-9c0d1e2f3555"))
	expert := id.UserID(mustUUID(s.T(), "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5666"))
	reviewer := id.ReviewerID(mustUUID(s.T(), "9e8d7c6b-5a49-4837-9261-0f1e2d3c4777"))

	record := s.newRecord(SensitivityPublic)
	s.Require().NoError(record.ApplySubmit(false, s.now))
	record.ApplyDecision(DecisionApprove, "", s.now)
	s.Require().Equal(StatusPublished, record.Status)

	frozen := *record.FrozenAccuracyConfidence

	s.Run("evidence appends fail", func() {
		s.True(dErrors.HasCode(record.AddHistoricalSource("p", 9, s.now), dErrors.CodeTerminalState))
		s.True(dErrors.HasCode(record.AddKnowledgeKeeperConsultation(keeper, "x", "", s.now), dErrors.CodeTerminalState))
		s.True(dErrors.HasCode(record.AddExpertConsultation(ExpertConsultation{
			ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 50,
		}, s.now), dErrors.CodeTerminalState))
		s.True(dErrors.HasCode(record.SubmitReview(CommunityReview{ReviewerID: reviewer, Rating: 5}, s.now), dErrors.CodeTerminalState))
	})

	s.Run("further decisions fail", func() {
		s.True(dErrors.HasCode(record.CanDecide(DecisionApprove), dErrors.CodeTerminalState))
		s.True(dErrors.HasCode(record.CanDecide(DecisionRequestRevision), dErrors.CodeTerminalState))
	})

	s.Run("frozen accuracy confidence is untouched", func() {
		s.InDelta(frozen, *record.FrozenAccuracyConfidence, 1e-9)
	})
}

// =============================================================================
// Clone
// =============================================================================

func (s *CurationRecordSuite) TestClone() {
	expert := id.UserID(mustUUID(s.T(), "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5666"))

	record := s.newRecord(SensitivityPublic)
	s.Require().NoError(record.AddHistoricalSource("p1", 9, s.now))
	s.Require().NoError(record.AddExpertConsultation(ExpertConsultation{
		ExpertID: expert, ExpertType: RoleCulturalExpert, Confidence: 70,
	}, s.now))
	record.AppendValidationRequest(ValidationRequest{
		Role: RoleHistorian, Criteria: []string{"historical_accuracy"}, RequestedAt: s.now,
	})

	clone := record.Clone()
	clone.HistoricalSources[0].SourceID = "mutated"
	clone.ValidationRequests[0].Criteria[0] = "mutated"
	clone.ExpertConsultations[0].Confidence = 1

	s.Equal("p1", record.HistoricalSources[0].SourceID)
	s.Equal("historical_accuracy", record.ValidationRequests[0].Criteria[0])
	s.InDelta(70.0, record.ExpertConsultations[0].Confidence, 1e-9)
}
