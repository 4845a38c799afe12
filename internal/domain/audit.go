package domain

import "time"

// Audit event kinds recorded by this service.
const (
	AuditInviteCreated   = "invite_created"
	AuditTokenRevoked    = "token_revoked"
	AuditIntakeSubmitted = "intake_submitted"
)

// AuditEvent is an append-only record of a lifecycle event on a tax
// return. Events are never updated or deleted.
type AuditEvent struct {
	ID          string    `json:"id" db:"id"`
	TaxReturnID string    `json:"tax_return_id" db:"tax_return_id"`
	Event       string    `json:"event" db:"event"`
	IP          string    `json:"ip" db:"ip"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
	Detail      string    `json:"detail" db:"detail"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
