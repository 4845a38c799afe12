package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lgardea/tax-intake-service/internal/domain"
)

func newTestClientRepo(t *testing.T) (ClientRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewClientRepository(db), mock, db
}

func TestClientCreate_Success(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	client := &domain.Client{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Locale: domain.LocaleEnglish,
	}

	mock.ExpectExec("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), client.Name, client.Email, "", "", client.Locale, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.ID == "" {
		t.Error("expected generated client ID")
	}
}

func TestClientCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO clients").
		WillReturnError(uniqueViolation())

	err := repo.Create(context.Background(), &domain.Client{Email: "jane@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestClientGetByEmail(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.
		NewRows([]string{"id", "name", "email", "mobile", "occupation", "locale", "ssn_last4", "created_at", "updated_at"}).
		AddRow("client-1", "Jane Doe", "jane@example.com", "555-0100", "Nurse", "en", "6789", now, now)

	mock.ExpectQuery("SELECT (.+) FROM clients").
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	client, err := repo.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ID != "client-1" {
		t.Errorf("expected client-1, got %s", client.ID)
	}
	if client.SSNLast4 != "6789" {
		t.Errorf("expected ssn_last4 6789, got %s", client.SSNLast4)
	}
}

func TestClientGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM clients").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientUpdate_NotFound(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE clients").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Client{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientUpdateSSNLast4(t *testing.T) {
	repo, mock, db := newTestClientRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE clients").
		WithArgs("client-1", "6789", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateSSNLast4(context.Background(), "client-1", "6789"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
