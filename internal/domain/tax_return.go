package domain

import "time"

// Tax return lifecycle statuses.
const (
	ReturnStatusInvited    = "invited"
	ReturnStatusInProgress = "in_progress"
	ReturnStatusSubmitted  = "submitted"
	// ReturnStatusArchived is set by back-office tooling, never by this
	// service.
	ReturnStatusArchived = "archived"
)

// Supported portal locales.
const (
	LocaleSpanish = "es"
	LocaleEnglish = "en"
)

// ValidLocale reports whether l is one of the supported portal locales.
func ValidLocale(l string) bool {
	return l == LocaleSpanish || l == LocaleEnglish
}

// TaxReturn is one client's filing for one tax year. A client has at most
// one return per year.
type TaxReturn struct {
	ID          string     `json:"id" db:"id"`
	ClientID    string     `json:"client_id" db:"client_id"`
	Year        int        `json:"year" db:"year"`
	Status      string     `json:"status" db:"status"`
	SubmittedAt *time.Time `json:"submitted_at" db:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
