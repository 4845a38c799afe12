package repository

import (
	"context"

	"github.com/lgardea/tax-intake-service/internal/domain"
)

// ClientRepository defines methods for client operations
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	UpdateSSNLast4(ctx context.Context, clientID, ssnLast4 string) error
}

// TaxReturnRepository defines methods for tax return operations
type TaxReturnRepository interface {
	Create(ctx context.Context, taxReturn *domain.TaxReturn) error
	GetByClientYear(ctx context.Context, clientID string, year int) (*domain.TaxReturn, error)
	GetByID(ctx context.Context, id string) (*domain.TaxReturn, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkSubmitted(ctx context.Context, id string) error
}

// TokenRepository defines methods for intake token operations
type TokenRepository interface {
	Create(ctx context.Context, token *domain.IntakeToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.IntakeToken, error)
	// GetSessionByTokenHash resolves a token hash to the token joined
	// with its tax return and client in a single query.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*IntakeSession, error)
	// Consume stamps used_at on a token whose used_at is still null.
	// Returns ErrTokenConsumed if another submission got there first.
	Consume(ctx context.Context, tokenID string) error
	RevokeByTaxReturn(ctx context.Context, taxReturnID string) (int, error)
	DeleteExpired(ctx context.Context) error
}

// IntakeSession is a token row joined to its tax return and client.
type IntakeSession struct {
	Token     domain.IntakeToken
	TaxReturn domain.TaxReturn
	Client    domain.Client
}

// IntakeRepository defines methods for intake record, spouse and
// dependent operations
type IntakeRepository interface {
	UpsertRecord(ctx context.Context, record *domain.IntakeRecord) error
	GetRecord(ctx context.Context, taxReturnID string) (*domain.IntakeRecord, error)
	UpsertSpouse(ctx context.Context, spouse *domain.Spouse) error
	DeleteSpouse(ctx context.Context, taxReturnID string) error
	ReplaceDependents(ctx context.Context, taxReturnID string, dependents []domain.Dependent) error
	ListDependents(ctx context.Context, taxReturnID string) ([]domain.Dependent, error)
}

// AuditRepository appends lifecycle events; nothing is ever updated or
// deleted through it
type AuditRepository interface {
	Append(ctx context.Context, event *domain.AuditEvent) error
}
