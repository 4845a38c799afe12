package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/lgardea/tax-intake-service/internal/domain"
)

func newTestTokenRepo(t *testing.T) (TokenRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewTokenRepository(db), mock, db
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

func TestTokenCreate_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	token := &domain.IntakeToken{
		TaxReturnID: "return-1",
		TokenHash:   "abc123",
		ExpiresAt:   time.Now().Add(72 * time.Hour),
		OneTime:     true,
	}

	mock.ExpectExec("INSERT INTO intake_tokens").
		WithArgs(sqlmock.AnyArg(), token.TaxReturnID, token.TokenHash, token.ExpiresAt, true, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.ID == "" {
		t.Error("expected generated token ID")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTokenCreate_DuplicateHash(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO intake_tokens").
		WillReturnError(uniqueViolation())

	err := repo.Create(context.Background(), &domain.IntakeToken{TaxReturnID: "return-1"})
	if !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestTokenGetByTokenHash_NotFound(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM intake_tokens").
		WithArgs("missing-hash").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByTokenHash(context.Background(), "missing-hash")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenGetSessionByTokenHash(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{
		"id", "tax_return_id", "token_hash", "expires_at", "one_time", "used_at", "revoked_at", "created_at",
		"tr_id", "client_id", "year", "status", "submitted_at", "tr_created_at", "tr_updated_at",
		"c_id", "name", "email", "mobile", "occupation", "locale", "ssn_last4", "c_created_at", "c_updated_at",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		"token-1", "return-1", "hash-1", now.Add(time.Hour), true, nil, nil, now,
		"return-1", "client-1", 2025, domain.ReturnStatusInvited, nil, now, now,
		"client-1", "Jane Doe", "jane@example.com", "555-0100", "Nurse", "en", "", now, now,
	)

	mock.ExpectQuery("FROM intake_tokens t").
		WithArgs("hash-1").
		WillReturnRows(rows)

	session, err := repo.GetSessionByTokenHash(context.Background(), "hash-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Token.ID != "token-1" {
		t.Errorf("expected token id token-1, got %s", session.Token.ID)
	}
	if session.TaxReturn.Status != domain.ReturnStatusInvited {
		t.Errorf("expected status invited, got %s", session.TaxReturn.Status)
	}
	if session.Client.Email != "jane@example.com" {
		t.Errorf("expected client email jane@example.com, got %s", session.Client.Email)
	}
	if session.Token.UsedAt != nil {
		t.Error("expected UsedAt to be nil for unused token")
	}
}

func TestTokenConsume_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE intake_tokens").
		WithArgs("token-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Consume(context.Background(), "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenConsume_AlreadySpent(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	// used_at already set, so the conditional update touches no rows
	mock.ExpectExec("UPDATE intake_tokens").
		WithArgs("token-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Consume(context.Background(), "token-1")
	if !errors.Is(err, ErrTokenConsumed) {
		t.Fatalf("expected ErrTokenConsumed, got %v", err)
	}
}

func TestTokenRevokeByTaxReturn(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE intake_tokens").
		WithArgs("return-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.RevokeByTaxReturn(context.Background(), "return-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 revoked tokens, got %d", count)
	}
}
