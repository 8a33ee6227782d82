package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// PostgresRepository persists the medication catalog and replenishment
// requests to PostgreSQL
type PostgresRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresRepository creates a new PostgreSQL-backed inventory repository
func NewPostgresRepository(db *database.DB, log *logger.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: log}
}

// SaveMedication inserts or updates a medication row
func (r *PostgresRepository) SaveMedication(ctx context.Context, med *types.Medication) error {
	query := `
		INSERT INTO medications (id, name, current_stock, low_stock_alert, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			current_stock = EXCLUDED.current_stock,
			low_stock_alert = EXCLUDED.low_stock_alert,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		med.ID, med.Name, med.CurrentStock, med.LowStockAlert, med.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save medication: %w", err)
	}
	return nil
}

// SaveReplenishmentRequest inserts or updates a replenishment request row
func (r *PostgresRepository) SaveReplenishmentRequest(ctx context.Context, req *types.ReplenishmentRequest) error {
	var resolvedAt sql.NullTime
	if !req.ResolvedAt.IsZero() {
		resolvedAt = sql.NullTime{Time: req.ResolvedAt, Valid: true}
	}
	var resolvedBy sql.NullString
	if req.ResolvedBy != "" {
		resolvedBy = sql.NullString{String: req.ResolvedBy, Valid: true}
	}

	query := `
		INSERT INTO replenishment_requests (id, medication_id, quantity, requested_by, status, created_at, resolved_at, resolved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.MedicationID, req.Quantity, req.RequestedBy,
		req.Status, req.CreatedAt, resolvedAt, resolvedBy)
	if err != nil {
		return fmt.Errorf("failed to save replenishment request: %w", err)
	}
	return nil
}

// LoadMedications loads the medication catalog
func (r *PostgresRepository) LoadMedications(ctx context.Context) ([]*types.Medication, error) {
	query := `
		SELECT id, name, current_stock, low_stock_alert, updated_at
		FROM medications
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}
	defer rows.Close()

	var medications []*types.Medication
	for rows.Next() {
		var med types.Medication
		if err := rows.Scan(&med.ID, &med.Name, &med.CurrentStock, &med.LowStockAlert, &med.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		medications = append(medications, &med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medications: %w", err)
	}
	return medications, nil
}

// LoadReplenishmentRequests loads all replenishment requests
func (r *PostgresRepository) LoadReplenishmentRequests(ctx context.Context) ([]*types.ReplenishmentRequest, error) {
	query := `
		SELECT id, medication_id, quantity, requested_by, status, created_at, resolved_at, resolved_by
		FROM replenishment_requests
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load replenishment requests: %w", err)
	}
	defer rows.Close()

	var requests []*types.ReplenishmentRequest
	for rows.Next() {
		var req types.ReplenishmentRequest
		var resolvedAt sql.NullTime
		var resolvedBy sql.NullString
		if err := rows.Scan(&req.ID, &req.MedicationID, &req.Quantity, &req.RequestedBy,
			&req.Status, &req.CreatedAt, &resolvedAt, &resolvedBy); err != nil {
			return nil, fmt.Errorf("failed to scan replenishment request: %w", err)
		}
		if resolvedAt.Valid {
			req.ResolvedAt = resolvedAt.Time
		}
		if resolvedBy.Valid {
			req.ResolvedBy = resolvedBy.String
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate replenishment requests: %w", err)
	}
	return requests, nil
}
