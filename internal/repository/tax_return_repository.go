package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lgardea/tax-intake-service/internal/domain"
)

// taxReturnRepository implements TaxReturnRepository interface
type taxReturnRepository struct {
	db DBTX
}

// NewTaxReturnRepository creates a new tax return repository
func NewTaxReturnRepository(db DBTX) TaxReturnRepository {
	return &taxReturnRepository{db: db}
}

// Create creates a new tax return in the database
func (r *taxReturnRepository) Create(ctx context.Context, taxReturn *domain.TaxReturn) error {
	query := `
		INSERT INTO tax_returns (id, client_id, year, status, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if taxReturn.ID == "" {
		taxReturn.ID = uuid.New().String()
	}
	if taxReturn.Status == "" {
		taxReturn.Status = domain.ReturnStatusInvited
	}

	now := time.Now().UTC()
	if taxReturn.CreatedAt.IsZero() {
		taxReturn.CreatedAt = now
	}
	if taxReturn.UpdatedAt.IsZero() {
		taxReturn.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		taxReturn.ID,
		taxReturn.ClientID,
		taxReturn.Year,
		taxReturn.Status,
		taxReturn.SubmittedAt,
		taxReturn.CreatedAt,
		taxReturn.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation on (client_id, year)
				return fmt.Errorf("tax return for client %s year %d already exists: %w",
					taxReturn.ClientID, taxReturn.Year, ErrDuplicateReturn)
			}
		}
		return fmt.Errorf("failed to create tax return: %w", err)
	}

	return nil
}

// GetByClientYear retrieves a tax return by its unique (client, year) pair
func (r *taxReturnRepository) GetByClientYear(ctx context.Context, clientID string, year int) (*domain.TaxReturn, error) {
	query := `
		SELECT id, client_id, year, status, submitted_at, created_at, updated_at
		FROM tax_returns
		WHERE client_id = $1 AND year = $2
	`

	return r.scanReturn(r.db.QueryRowContext(ctx, query, clientID, year))
}

// GetByID retrieves a tax return by ID
func (r *taxReturnRepository) GetByID(ctx context.Context, id string) (*domain.TaxReturn, error) {
	query := `
		SELECT id, client_id, year, status, submitted_at, created_at, updated_at
		FROM tax_returns
		WHERE id = $1
	`

	return r.scanReturn(r.db.QueryRowContext(ctx, query, id))
}

func (r *taxReturnRepository) scanReturn(row *sql.Row) (*domain.TaxReturn, error) {
	taxReturn := &domain.TaxReturn{}
	var submittedAt sql.NullTime

	err := row.Scan(
		&taxReturn.ID,
		&taxReturn.ClientID,
		&taxReturn.Year,
		&taxReturn.Status,
		&submittedAt,
		&taxReturn.CreatedAt,
		&taxReturn.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tax return not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tax return: %w", err)
	}

	if submittedAt.Valid {
		taxReturn.SubmittedAt = &submittedAt.Time
	}

	return taxReturn, nil
}

// UpdateStatus sets the return's status
func (r *taxReturnRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE tax_returns
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update tax return status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tax return with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

// MarkSubmitted sets status to submitted and stamps the submission time.
// Resubmission overwrites the stamp on purpose.
func (r *taxReturnRepository) MarkSubmitted(ctx context.Context, id string) error {
	query := `
		UPDATE tax_returns
		SET status = $2, submitted_at = $3, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.ReturnStatusSubmitted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark tax return submitted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tax return with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}
