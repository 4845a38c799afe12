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

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db DBTX
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db DBTX) TokenRepository {
	return &tokenRepository{db: db}
}

// Create creates a new intake token in the database
func (r *tokenRepository) Create(ctx context.Context, token *domain.IntakeToken) error {
	query := `
		INSERT INTO intake_tokens (id, tax_return_id, token_hash, expires_at, one_time, used_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.TaxReturnID,
		token.TokenHash,
		token.ExpiresAt,
		token.OneTime,
		token.UsedAt,
		token.RevokedAt,
		token.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("token with hash already exists: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByTokenHash retrieves an intake token by its peppered hash
func (r *tokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.IntakeToken, error) {
	query := `
		SELECT id, tax_return_id, token_hash, expires_at, one_time, used_at, revoked_at, created_at
		FROM intake_tokens
		WHERE token_hash = $1
	`

	token := &domain.IntakeToken{}
	var usedAt, revokedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TaxReturnID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.OneTime,
		&usedAt,
		&revokedAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token with hash not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token by hash: %w", err)
	}

	if usedAt.Valid {
		token.UsedAt = &usedAt.Time
	}
	if revokedAt.Valid {
		token.RevokedAt = &revokedAt.Time
	}

	return token, nil
}

// GetSessionByTokenHash resolves a token hash to its tax return and
// client context in one joined query.
func (r *tokenRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*IntakeSession, error) {
	query := `
		SELECT t.id, t.tax_return_id, t.token_hash, t.expires_at, t.one_time, t.used_at, t.revoked_at, t.created_at,
		       tr.id, tr.client_id, tr.year, tr.status, tr.submitted_at, tr.created_at, tr.updated_at,
		       c.id, c.name, c.email, c.mobile, c.occupation, c.locale, c.ssn_last4, c.created_at, c.updated_at
		FROM intake_tokens t
		JOIN tax_returns tr ON tr.id = t.tax_return_id
		JOIN clients c ON c.id = tr.client_id
		WHERE t.token_hash = $1
	`

	session := &IntakeSession{}
	var usedAt, revokedAt, submittedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.Token.ID,
		&session.Token.TaxReturnID,
		&session.Token.TokenHash,
		&session.Token.ExpiresAt,
		&session.Token.OneTime,
		&usedAt,
		&revokedAt,
		&session.Token.CreatedAt,
		&session.TaxReturn.ID,
		&session.TaxReturn.ClientID,
		&session.TaxReturn.Year,
		&session.TaxReturn.Status,
		&submittedAt,
		&session.TaxReturn.CreatedAt,
		&session.TaxReturn.UpdatedAt,
		&session.Client.ID,
		&session.Client.Name,
		&session.Client.Email,
		&session.Client.Mobile,
		&session.Client.Occupation,
		&session.Client.Locale,
		&session.Client.SSNLast4,
		&session.Client.CreatedAt,
		&session.Client.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token with hash not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by token hash: %w", err)
	}

	if usedAt.Valid {
		session.Token.UsedAt = &usedAt.Time
	}
	if revokedAt.Valid {
		session.Token.RevokedAt = &revokedAt.Time
	}
	if submittedAt.Valid {
		session.TaxReturn.SubmittedAt = &submittedAt.Time
	}

	return session, nil
}

// Consume stamps used_at with a conditional write keyed on used_at still
// being null, so two racing submissions cannot both spend the same
// one-time token.
func (r *tokenRepository) Consume(ctx context.Context, tokenID string) error {
	query := `
		UPDATE intake_tokens
		SET used_at = $2
		WHERE id = $1 AND used_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, tokenID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to consume token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("token with id %s: %w", tokenID, ErrTokenConsumed)
	}

	return nil
}

// RevokeByTaxReturn permanently revokes every active token of a tax
// return and reports how many rows were touched.
func (r *tokenRepository) RevokeByTaxReturn(ctx context.Context, taxReturnID string) (int, error) {
	query := `
		UPDATE intake_tokens
		SET revoked_at = $2
		WHERE tax_return_id = $1 AND revoked_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, taxReturnID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// DeleteExpired deletes all expired intake tokens
func (r *tokenRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM intake_tokens WHERE expires_at < $1`

	_, err := r.db.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return nil
}
