package domain

import "time"

// IntakeToken is an opaque capability credential bound to exactly one tax
// return. Only the peppered SHA-256 hash of the raw secret is persisted;
// the raw value is handed to the caller once at mint time and never again.
type IntakeToken struct {
	ID          string     `json:"id" db:"id"`
	TaxReturnID string     `json:"tax_return_id" db:"tax_return_id"`
	TokenHash   string     `json:"-" db:"token_hash"`
	ExpiresAt   time.Time  `json:"expires_at" db:"expires_at"`
	OneTime     bool       `json:"one_time" db:"one_time"`
	UsedAt      *time.Time `json:"used_at" db:"used_at"`
	RevokedAt   *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the token's expiry lies before now. Both sides
// are compared in UTC.
func (t IntakeToken) Expired(now time.Time) bool {
	return now.UTC().After(t.ExpiresAt.UTC())
}

// Revoked reports whether the token has been permanently revoked.
func (t IntakeToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Consumed reports whether a one-time token has already been spent.
// Reusable tokens are never considered consumed.
func (t IntakeToken) Consumed() bool {
	return t.OneTime && t.UsedAt != nil
}
