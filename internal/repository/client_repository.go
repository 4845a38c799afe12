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

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db DBTX
}

// NewClientRepository creates a new client repository
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client in the database
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, mobile, occupation, locale, ssn_last4, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Mobile,
		client.Occupation,
		client.Locale,
		client.SSNLast4,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("client with email %s already exists: %w", client.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByEmail retrieves a client by email. The caller is expected to have
// lowercased and trimmed the email already.
func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `
		SELECT id, name, email, mobile, occupation, locale, ssn_last4, created_at, updated_at
		FROM clients
		WHERE email = $1
	`

	return r.scanClient(r.db.QueryRowContext(ctx, query, email), "email", email)
}

// GetByID retrieves a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `
		SELECT id, name, email, mobile, occupation, locale, ssn_last4, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	return r.scanClient(r.db.QueryRowContext(ctx, query, id), "id", id)
}

func (r *clientRepository) scanClient(row *sql.Row, field, value string) (*domain.Client, error) {
	client := &domain.Client{}

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Mobile,
		&client.Occupation,
		&client.Locale,
		&client.SSNLast4,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client with %s %s not found: %w", field, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client by %s: %w", field, err)
	}

	return client, nil
}

// Update updates an existing client's identity fields
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, mobile = $3, occupation = $4, locale = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Mobile,
		client.Occupation,
		client.Locale,
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client with id %s not found: %w", client.ID, ErrNotFound)
	}

	return nil
}

// UpdateSSNLast4 stores the redacted SSN digits for a client. Only the
// submission flow calls this.
func (r *clientRepository) UpdateSSNLast4(ctx context.Context, clientID, ssnLast4 string) error {
	query := `
		UPDATE clients
		SET ssn_last4 = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, clientID, ssnLast4, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update client ssn: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client with id %s not found: %w", clientID, ErrNotFound)
	}

	return nil
}
