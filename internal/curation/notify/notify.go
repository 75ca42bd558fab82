// Package notify broadcasts validation requests to the external validator
// directory. Delivery is fire-and-forget: a failure is reported to the caller
// as a warning, never as a failure of the state mutation that produced the
// request. Redelivery, if any, belongs to the directory side.
package notify

import (
	"context"
	"time"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
)

// ValidationRequested is the broadcast payload for one outstanding validator
// role on one record.
type ValidationRequested struct {
	RecordID    id.RecordID          `json:"record_id"`
	SubjectID   id.SubjectID         `json:"subject_id"`
	Sensitivity models.Sensitivity   `json:"sensitivity"`
	Culture     string               `json:"culture"`
	Role        models.ValidatorRole `json:"role"`
	Criteria    []string             `json:"criteria"`
	RequestedAt time.Time            `json:"requested_at"`
}

// Notifier delivers validation-request broadcasts to the validator directory.
type Notifier interface {
	NotifyValidationRequested(ctx context.Context, req ValidationRequested) error
}
