package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lgardea/tax-intake-service/internal/domain"
)

// auditRepository implements AuditRepository interface
type auditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DBTX) AuditRepository {
	return &auditRepository{db: db}
}

// Append writes one audit event. The table is append-only; there are no
// update or delete paths.
func (r *auditRepository) Append(ctx context.Context, event *domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (id, tax_return_id, event, ip, user_agent, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.TaxReturnID,
		event.Event,
		event.IP,
		event.UserAgent,
		event.Detail,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}

	return nil
}
