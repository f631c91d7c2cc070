// Package database provides the Postgres-backed audit trail for refill checks.
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refill-eligibility/internal/models"
)

// CheckRepository handles refill_checks database operations.
type CheckRepository struct {
	db *DB
}

// NewCheckRepository creates a new check repository.
func NewCheckRepository(db *DB) *CheckRepository {
	return &CheckRepository{db: db}
}

// Record inserts a check record. It satisfies eligibility.Recorder.
func (r *CheckRepository) Record(ctx context.Context, record models.CheckRecord) error {
	query := `
		INSERT INTO refill_checks (id, email, shop_domain, status_code, eligible, reason, customer_id, error, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.pool.Exec(ctx, query,
		record.ID,
		record.Email,
		record.ShopDomain,
		record.StatusCode,
		record.Eligible,
		record.Reason,
		record.CustomerID,
		record.Error,
		record.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refill check: %w", err)
	}

	return nil
}

// GetByID loads a single check record.
func (r *CheckRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckRecord, error) {
	query := `
		SELECT id, email, shop_domain, status_code, eligible, reason, customer_id, error, checked_at
		FROM refill_checks
		WHERE id = $1`

	rows, err := r.db.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query refill check: %w", err)
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.CheckRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan refill check: %w", err)
	}

	return record, nil
}
