package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lgardea/tax-intake-service/internal/domain"
)

// intakeRepository implements IntakeRepository interface
type intakeRepository struct {
	db DBTX
}

// NewIntakeRepository creates a new intake repository
func NewIntakeRepository(db DBTX) IntakeRepository {
	return &intakeRepository{db: db}
}

// UpsertRecord inserts the intake record or fully replaces every field of
// the existing one. There is never more than one row per tax return.
func (r *intakeRepository) UpsertRecord(ctx context.Context, record *domain.IntakeRecord) error {
	query := `
		INSERT INTO intake_records (
			id, tax_return_id, filing_status, first_name, last_name, ssn_last4, dob,
			email, phone, occupation, address_line1, address_line2, city, state, zip,
			bank_name, routing_number, account_number, account_type, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (tax_return_id) DO UPDATE SET
			filing_status = EXCLUDED.filing_status,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			ssn_last4 = EXCLUDED.ssn_last4,
			dob = EXCLUDED.dob,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			occupation = EXCLUDED.occupation,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			bank_name = EXCLUDED.bank_name,
			routing_number = EXCLUDED.routing_number,
			account_number = EXCLUDED.account_number,
			account_type = EXCLUDED.account_type,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.TaxReturnID,
		record.FilingStatus,
		record.FirstName,
		record.LastName,
		record.SSNLast4,
		record.DOB,
		record.Email,
		record.Phone,
		record.Occupation,
		record.AddressLine1,
		record.AddressLine2,
		record.City,
		record.State,
		record.Zip,
		record.BankName,
		record.RoutingNum,
		record.AccountNum,
		record.AccountType,
		record.Notes,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert intake record: %w", err)
	}

	return nil
}

// GetRecord retrieves the intake record for a tax return
func (r *intakeRepository) GetRecord(ctx context.Context, taxReturnID string) (*domain.IntakeRecord, error) {
	query := `
		SELECT id, tax_return_id, filing_status, first_name, last_name, ssn_last4, dob,
		       email, phone, occupation, address_line1, address_line2, city, state, zip,
		       bank_name, routing_number, account_number, account_type, notes, created_at, updated_at
		FROM intake_records
		WHERE tax_return_id = $1
	`

	record := &domain.IntakeRecord{}

	err := r.db.QueryRowContext(ctx, query, taxReturnID).Scan(
		&record.ID,
		&record.TaxReturnID,
		&record.FilingStatus,
		&record.FirstName,
		&record.LastName,
		&record.SSNLast4,
		&record.DOB,
		&record.Email,
		&record.Phone,
		&record.Occupation,
		&record.AddressLine1,
		&record.AddressLine2,
		&record.City,
		&record.State,
		&record.Zip,
		&record.BankName,
		&record.RoutingNum,
		&record.AccountNum,
		&record.AccountType,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("intake record for tax return %s not found: %w", taxReturnID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get intake record: %w", err)
	}

	return record, nil
}

// UpsertSpouse inserts or fully replaces the spouse row for a tax return
func (r *intakeRepository) UpsertSpouse(ctx context.Context, spouse *domain.Spouse) error {
	query := `
		INSERT INTO spouses (id, tax_return_id, first_name, last_name, ssn_last4, dob, occupation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tax_return_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			ssn_last4 = EXCLUDED.ssn_last4,
			dob = EXCLUDED.dob,
			occupation = EXCLUDED.occupation
	`

	if spouse.ID == "" {
		spouse.ID = uuid.New().String()
	}
	if spouse.CreatedAt.IsZero() {
		spouse.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		spouse.ID,
		spouse.TaxReturnID,
		spouse.FirstName,
		spouse.LastName,
		spouse.SSNLast4,
		spouse.DOB,
		spouse.Occupation,
		spouse.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert spouse: %w", err)
	}

	return nil
}

// DeleteSpouse removes the spouse row for a tax return if present. A
// missing row is not an error: the filing status may simply never have
// been a married variant.
func (r *intakeRepository) DeleteSpouse(ctx context.Context, taxReturnID string) error {
	query := `DELETE FROM spouses WHERE tax_return_id = $1`

	if _, err := r.db.ExecContext(ctx, query, taxReturnID); err != nil {
		return fmt.Errorf("failed to delete spouse: %w", err)
	}

	return nil
}

// ReplaceDependents deletes the full dependent set of a tax return and
// reinserts the given one, never diffing.
func (r *intakeRepository) ReplaceDependents(ctx context.Context, taxReturnID string, dependents []domain.Dependent) error {
	deleteQuery := `DELETE FROM dependents WHERE tax_return_id = $1`

	if _, err := r.db.ExecContext(ctx, deleteQuery, taxReturnID); err != nil {
		return fmt.Errorf("failed to delete dependents: %w", err)
	}

	insertQuery := `
		INSERT INTO dependents (id, tax_return_id, first_name, last_name, relationship, dob, ssn_last4, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now().UTC()
	for i := range dependents {
		dep := &dependents[i]
		if dep.ID == "" {
			dep.ID = uuid.New().String()
		}
		dep.TaxReturnID = taxReturnID
		if dep.CreatedAt.IsZero() {
			dep.CreatedAt = now
		}

		_, err := r.db.ExecContext(ctx, insertQuery,
			dep.ID,
			dep.TaxReturnID,
			dep.FirstName,
			dep.LastName,
			dep.Relationship,
			dep.DOB,
			dep.SSNLast4,
			dep.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dependent: %w", err)
		}
	}

	return nil
}

// ListDependents retrieves all dependents of a tax return
func (r *intakeRepository) ListDependents(ctx context.Context, taxReturnID string) ([]domain.Dependent, error) {
	query := `
		SELECT id, tax_return_id, first_name, last_name, relationship, dob, ssn_last4, created_at
		FROM dependents
		WHERE tax_return_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, taxReturnID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependents: %w", err)
	}
	defer rows.Close()

	var dependents []domain.Dependent
	for rows.Next() {
		var dep domain.Dependent

		err := rows.Scan(
			&dep.ID,
			&dep.TaxReturnID,
			&dep.FirstName,
			&dep.LastName,
			&dep.Relationship,
			&dep.DOB,
			&dep.SSNLast4,
			&dep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependent: %w", err)
		}

		dependents = append(dependents, dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dependents: %w", err)
	}

	return dependents, nil
}
