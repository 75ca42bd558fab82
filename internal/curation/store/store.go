// Package store defines the persistence port for curation records and its
// implementations. The registry owns records exclusively through this
// boundary; the schema that round-trips here is the full aggregate.
package store

import (
	"context"
	"time"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
)

// PublishedFilter narrows ListPublished results. Zero values match
// everything.
type PublishedFilter struct {
	Sensitivity models.Sensitivity
	Culture     string
}

// RecordStore persists curation records.
//
// Execute is the only mutation path after Create. It loads the record, runs
// fn against a working copy while holding the per-record write lock, and
// commits the copy only when fn returns nil. Concurrent mutations on the same
// id serialize; mutations on different ids do not contend. Readers always
// observe the last committed state, never a partially-applied mutation.
type RecordStore interface {
	// Create inserts a new record. Returns sentinel.ErrConflict when the id
	// already exists.
	Create(ctx context.Context, record *models.CurationRecord) error

	// Get returns a snapshot of the record, or sentinel.ErrNotFound.
	Get(ctx context.Context, recordID id.RecordID) (*models.CurationRecord, error)

	// Execute runs fn under the record's write lock and commits the result
	// when fn succeeds. The returned record is a snapshot of the committed
	// state. Returns sentinel.ErrNotFound for unknown ids.
	Execute(ctx context.Context, recordID id.RecordID, fn func(*models.CurationRecord) error) (*models.CurationRecord, error)

	// ListPublished returns snapshots of published records matching the
	// filter, ordered by publication time descending.
	ListPublished(ctx context.Context, filter PublishedFilter) ([]*models.CurationRecord, error)

	// ListSubmittedBetween returns snapshots of records submitted in
	// [from, to), for report aggregation.
	ListSubmittedBetween(ctx context.Context, from, to time.Time) ([]*models.CurationRecord, error)
}
