package service

import (
	"context"

	"tapestry/internal/curation/consensus"
	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
	"tapestry/pkg/platform/audit"
	"tapestry/pkg/requestcontext"
)

// AddHistoricalSource appends a historical source to a record. The source is
// classified primary or secondary from its reliability; verification level
// and accuracy confidence are recomputed as part of the same mutation.
func (s *Service) AddHistoricalSource(ctx context.Context, recordID id.RecordID, sourceID string, reliability int) (*models.CurationRecord, error) {
	now := requestcontext.Now(ctx)

	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		return r.AddHistoricalSource(sourceID, reliability, now)
	})
	if err != nil {
		return nil, wrapRecordErr(err)
	}

	s.emitAudit(ctx, recordID, audit.EventHistoricalSourceAdded, "", sourceID)
	return record, nil
}

// ConsultKnowledgeKeeper records a knowledge-keeper consultation. This lifts
// accuracy confidence, can satisfy the keeper validator role, and may advance
// the record out of pending validation.
func (s *Service) ConsultKnowledgeKeeper(ctx context.Context, recordID id.RecordID, keeperID id.UserID, community, notes string) (*models.CurationRecord, error) {
	now := requestcontext.Now(ctx)

	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		if err := r.AddKnowledgeKeeperConsultation(keeperID, community, notes, now); err != nil {
			return err
		}
		r.AdvanceIfValidated(requiredRoles(r), now)
		return nil
	})
	if err != nil {
		return nil, wrapRecordErr(err)
	}

	s.emitAudit(ctx, recordID, audit.EventKnowledgeKeeperConsulted, "", community)
	return record, nil
}

// SubmitExpertValidation records an expert consultation and recomputes the
// validation score. When the consultation satisfies the last outstanding
// validator role the record advances to community review.
func (s *Service) SubmitExpertValidation(ctx context.Context, recordID id.RecordID, consultation models.ExpertConsultation) (*models.CurationRecord, error) {
	now := requestcontext.Now(ctx)

	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		if err := r.AddExpertConsultation(consultation, now); err != nil {
			return err
		}
		r.AdvanceIfValidated(requiredRoles(r), now)
		return nil
	})
	if err != nil {
		return nil, wrapRecordErr(err)
	}

	s.metrics.IncrementExpertValidations()
	s.emitAudit(ctx, recordID, audit.EventExpertValidationRecorded, "", string(consultation.ExpertType))
	return record, nil
}

// SubmitCommunityReview appends one reviewer's rating. A reviewer gets
// exactly one entry per record; resubmission fails and changes nothing.
// CulturalMember comes from the identity directory, resolved by the caller —
// the pipeline never decides membership itself.
func (s *Service) SubmitCommunityReview(ctx context.Context, recordID id.RecordID, review models.CommunityReview) (*models.CurationRecord, error) {
	now := requestcontext.Now(ctx)

	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		return r.SubmitReview(review, now)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeDuplicateReview) {
			s.metrics.IncrementDuplicateReviews()
		}
		return nil, wrapRecordErr(err)
	}

	s.metrics.IncrementReviewsSubmitted()
	s.emitAudit(ctx, recordID, audit.EventCommunityReviewSubmitted, "", review.ReviewType)
	return record, nil
}

// ComputeConsensus derives the current community verdict for a record. Pure
// read; recomputed per call because the reviewer pool is open-ended.
func (s *Service) ComputeConsensus(ctx context.Context, recordID id.RecordID) (consensus.Result, error) {
	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return consensus.Result{}, wrapRecordErr(err)
	}
	return consensus.Compute(record), nil
}
