// Package service implements the curation registry: the aggregate root that
// owns curation records, serializes mutations per record through the store's
// Execute path, and composes policy resolution, validator assignment,
// evidence accumulation, consensus, and the publication state machine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tapestry/internal/curation/metrics"
	"tapestry/internal/curation/models"
	"tapestry/internal/curation/notify"
	"tapestry/internal/curation/store"
	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
	"tapestry/pkg/platform/audit"
	"tapestry/pkg/platform/sentinel"
	"tapestry/pkg/requestcontext"
)

// AuditPublisher emits audit events for pipeline operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the curation registry. All exposed pipeline operations live
// here; handlers stay thin and stores stay dumb.
type Service struct {
	records  store.RecordStore
	notifier notify.Notifier
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func New(records store.RecordStore, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	s := &Service{records: records, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetRecord returns a snapshot of one curation record.
func (s *Service) GetRecord(ctx context.Context, recordID id.RecordID) (*models.CurationRecord, error) {
	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, wrapRecordErr(err)
	}
	return record, nil
}

// wrapRecordErr translates store sentinels into coded domain errors and
// passes already-coded errors through untouched.
func wrapRecordErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "curation record not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "curation record already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "curation store failure")
}

// broadcast delivers validation requests to the validator directory. Failures
// become warnings on the result, never errors: the mutation that produced the
// requests has already committed.
func (s *Service) broadcast(ctx context.Context, record *models.CurationRecord, requests []models.ValidationRequest) []string {
	if s.notifier == nil || len(requests) == 0 {
		return nil
	}
	var warnings []string
	for _, req := range requests {
		err := s.notifier.NotifyValidationRequested(ctx, notify.ValidationRequested{
			RecordID:    record.ID,
			SubjectID:   record.SubjectID,
			Sensitivity: record.Sensitivity,
			Culture:     record.Culture,
			Role:        req.Role,
			Criteria:    req.Criteria,
			RequestedAt: req.RequestedAt,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "validator notification failed",
				"record_id", record.ID,
				"role", req.Role,
				"error", err,
			)
			s.metrics.IncrementNotifyFailures()
			warnings = append(warnings, fmt.Sprintf("validator notification for role %s failed", req.Role))
		}
	}
	return warnings
}

// emitAudit is nil-safe and never fails the calling operation.
func (s *Service) emitAudit(ctx context.Context, recordID id.RecordID, event audit.AuditEvent, decision, reason string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		RecordID:  recordID,
		ActorID:   requestcontext.ActorID(ctx).String(),
		Action:    string(event),
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event, "error", err)
	}
}
