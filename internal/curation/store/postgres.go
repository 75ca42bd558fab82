package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
	"tapestry/pkg/platform/sentinel"
)

// Postgres persists curation records in PostgreSQL. The aggregate round-trips
// as a JSONB document; frequently-filtered fields are mirrored into indexed
// columns maintained on every write. Per-record serialization comes from
// SELECT ... FOR UPDATE inside the Execute transaction.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is applied by EnsureSchema. Kept in source so the store and its
// migrations never drift.
const Schema = `
CREATE TABLE IF NOT EXISTS curation_records (
    id           UUID PRIMARY KEY,
    subject_id   UUID        NOT NULL,
    sensitivity  TEXT        NOT NULL,
    culture      TEXT        NOT NULL DEFAULT '',
    status       TEXT        NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL,
    published_at TIMESTAMPTZ,
    updated_at   TIMESTAMPTZ NOT NULL,
    data         JSONB       NOT NULL
);
CREATE INDEX IF NOT EXISTS curation_records_status_idx ON curation_records (status);
CREATE INDEX IF NOT EXISTS curation_records_submitted_idx ON curation_records (submitted_at);
`

// EnsureSchema creates the backing table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure curation schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, record *models.CurationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal curation record: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO curation_records (id, subject_id, sensitivity, culture, status, submitted_at, published_at, updated_at, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID.String(), record.SubjectID.String(), string(record.Sensitivity), record.Culture,
		string(record.Status), record.SubmittedAt, record.PublishedAt, record.UpdatedAt, data,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert curation record: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, recordID id.RecordID) (*models.CurationRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM curation_records WHERE id = $1`, recordID.String(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get curation record: %w", err)
	}
	return unmarshalRecord(data)
}

func (s *Postgres) Execute(ctx context.Context, recordID id.RecordID, fn func(*models.CurationRecord) error) (*models.CurationRecord, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin curation tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var data []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM curation_records WHERE id = $1 FOR UPDATE`, recordID.String(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock curation record: %w", err)
	}

	record, err := unmarshalRecord(data)
	if err != nil {
		return nil, err
	}

	if err := fn(record); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal curation record: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE curation_records
		SET sensitivity = $2, culture = $3, status = $4, published_at = $5, updated_at = $6, data = $7
		WHERE id = $1`,
		record.ID.String(), string(record.Sensitivity), record.Culture,
		string(record.Status), record.PublishedAt, record.UpdatedAt, updated,
	)
	if err != nil {
		return nil, fmt.Errorf("update curation record: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit curation tx: %w", err)
	}
	return record, nil
}

func (s *Postgres) ListPublished(ctx context.Context, filter PublishedFilter) ([]*models.CurationRecord, error) {
	query := `SELECT data FROM curation_records WHERE status = 'published'`
	args := []any{}
	if filter.Sensitivity != "" {
		args = append(args, string(filter.Sensitivity))
		query += fmt.Sprintf(" AND sensitivity = $%d", len(args))
	}
	if filter.Culture != "" {
		args = append(args, filter.Culture)
		query += fmt.Sprintf(" AND culture = $%d", len(args))
	}
	query += " ORDER BY published_at DESC"
	return s.queryRecords(ctx, query, args...)
}

func (s *Postgres) ListSubmittedBetween(ctx context.Context, from, to time.Time) ([]*models.CurationRecord, error) {
	return s.queryRecords(ctx, `
		SELECT data FROM curation_records
		WHERE submitted_at >= $1 AND submitted_at < $2
		ORDER BY submitted_at ASC`, from, to)
}

func (s *Postgres) queryRecords(ctx context.Context, query string, args ...any) ([]*models.CurationRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query curation records: %w", err)
	}
	defer rows.Close()

	var records []*models.CurationRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan curation record: %w", err)
		}
		record, err := unmarshalRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func unmarshalRecord(data []byte) (*models.CurationRecord, error) {
	var record models.CurationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal curation record: %w", err)
	}
	return &record, nil
}
