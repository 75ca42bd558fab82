package service

import (
	"context"

	"tapestry/internal/curation/assignment"
	"tapestry/internal/curation/models"
	"tapestry/internal/curation/policy"
	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
	"tapestry/pkg/platform/audit"
	"tapestry/pkg/requestcontext"
)

// SubmitCurationInput carries everything needed to open a curation record.
type SubmitCurationInput struct {
	SubjectID            id.SubjectID
	SubmitterID          id.UserID
	Sensitivity          models.Sensitivity
	Culture              string
	TraditionalElements  []models.TraditionalElement
	RequiresConsultation bool
}

// SubmitResult is the outcome of a submission: the created record, any
// validation requests issued for it, and non-fatal collaborator warnings.
type SubmitResult struct {
	Record   *models.CurationRecord
	Requests []models.ValidationRequest
	Warnings []string
}

// SubmitCurationRequest creates a record, moves it into the pipeline, and
// when consultation is required issues the initial validation requests per
// the sensitivity policy.
func (s *Service) SubmitCurationRequest(ctx context.Context, input SubmitCurationInput) (*SubmitResult, error) {
	now := requestcontext.Now(ctx)

	record, err := models.NewCurationRecord(
		id.NewRecordID(), input.SubjectID, input.SubmitterID,
		input.Culture, input.Sensitivity, input.TraditionalElements, now,
	)
	if err != nil {
		return nil, err
	}
	if err := record.ApplySubmit(input.RequiresConsultation, now); err != nil {
		return nil, err
	}

	var requests []models.ValidationRequest
	if record.Status == models.StatusPendingValidation {
		requests = assignment.Assign(record, now)
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, wrapRecordErr(err)
	}

	warnings := s.broadcast(ctx, record, requests)
	s.metrics.IncrementRecordsSubmitted()
	s.emitAudit(ctx, record.ID, audit.EventRecordSubmitted, string(record.Status), "")

	return &SubmitResult{Record: record, Requests: requests, Warnings: warnings}, nil
}

// AssignResult is the outcome of a validator assignment pass.
type AssignResult struct {
	Record   *models.CurationRecord
	Requests []models.ValidationRequest
	Warnings []string
}

// AssignValidators recomputes the outstanding validator roles for a record
// and broadcasts requests for them. Idempotent: roles already satisfied or
// already requested are skipped, so invoking it twice issues nothing new.
func (s *Service) AssignValidators(ctx context.Context, recordID id.RecordID) (*AssignResult, error) {
	now := requestcontext.Now(ctx)

	var issued []models.ValidationRequest
	record, err := s.records.Execute(ctx, recordID, func(r *models.CurationRecord) error {
		if r.Status.IsTerminal() {
			return dErrors.Newf(dErrors.CodeTerminalState, "record is %s; no validators to assign", r.Status)
		}
		issued = assignment.Assign(r, now)
		return nil
	})
	if err != nil {
		return nil, wrapRecordErr(err)
	}

	warnings := s.broadcast(ctx, record, issued)
	if len(issued) > 0 {
		s.emitAudit(ctx, record.ID, audit.EventValidatorsAssigned, "", "")
	}
	return &AssignResult{Record: record, Requests: issued, Warnings: warnings}, nil
}

// requiredRoles resolves the validator roles a record's sensitivity demands.
func requiredRoles(record *models.CurationRecord) []models.ValidatorRole {
	return policy.RequiredRoles(record.Sensitivity)
}
