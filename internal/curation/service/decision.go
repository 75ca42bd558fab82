package service

import (
	"context"
	"time"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
	"tapestry/pkg/platform/audit"
	"tapestry/pkg/requestcontext"
)

// DecisionInput carries one publication decision.
type DecisionInput struct {
	Decision   models.Decision
	Visibility string
	Notes      string
}

// DecisionResult is the outcome of a publication decision.
type DecisionResult struct {
	Record   *models.CurationRecord
	Warnings []string
}

// MakePublicationDecision is the only entry point that can move a record to
// published or archived. The sensitivity gate is re-validated here, at
// decision time, because evidence or sensitivity may have changed since
// submission.
func (s *Service) MakePublicationDecision(ctx context.Context, recordID id.RecordID, input DecisionInput) (*DecisionResult, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	if !input.Decision.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown decision %q", input.Decision)
	}

	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		if err := r.CanDecide(input.Decision); err != nil {
			return err
		}
		r.ApplyDecision(input.Decision, input.Visibility, now)
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeSensitivityGateUnmet) {
			s.metrics.IncrementGateRejections()
		}
		return nil, wrapRecordErr(err)
	}

	s.metrics.IncrementDecision(string(input.Decision))
	s.metrics.ObserveDecision(start)
	s.emitAudit(ctx, recordID, audit.EventPublicationDecisionMade, string(input.Decision), input.Notes)

	return &DecisionResult{Record: record}, nil
}
