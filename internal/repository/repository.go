package repository

import (
	"context"
	"database/sql"

	"github.com/lgardea/tax-intake-service/pkg/database"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx. It
// lets every repository run either directly against the pool or inside
// the submission transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories holds all repository interfaces
type Repositories struct {
	Client    ClientRepository
	TaxReturn TaxReturnRepository
	Token     TokenRepository
	Intake    IntakeRepository
	Audit     AuditRepository
}

// NewRepositories creates all repositories bound to the connection pool
func NewRepositories(db *database.Postgres) *Repositories {
	return newRepositories(db.DB)
}

func newRepositories(db DBTX) *Repositories {
	return &Repositories{
		Client:    &clientRepository{db: db},
		TaxReturn: &taxReturnRepository{db: db},
		Token:     &tokenRepository{db: db},
		Intake:    &intakeRepository{db: db},
		Audit:     &auditRepository{db: db},
	}
}

// WithTx returns repositories bound to the given transaction
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return newRepositories(tx)
}
