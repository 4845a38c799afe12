package domain

import "time"

// Filing statuses accepted on an intake submission.
const (
	FilingSingle          = "single"
	FilingMarriedJoint    = "married_joint"
	FilingMarriedSeparate = "married_separate"
	FilingHeadOfHousehold = "head_of_household"
	FilingQualifyingWidow = "qualifying_widow"
)

// RequiresSpouse reports whether the filing status implies a spouse record.
func RequiresSpouse(filingStatus string) bool {
	return filingStatus == FilingMarriedJoint || filingStatus == FilingMarriedSeparate
}

// IntakeRecord is the filing content for one tax return, 1:1 with
// TaxReturn. It is replaced wholesale on every submission.
type IntakeRecord struct {
	ID           string    `json:"id" db:"id"`
	TaxReturnID  string    `json:"tax_return_id" db:"tax_return_id"`
	FilingStatus string    `json:"filing_status" db:"filing_status"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	SSNLast4     string    `json:"-" db:"ssn_last4"`
	DOB          string    `json:"dob" db:"dob"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Occupation   string    `json:"occupation" db:"occupation"`
	AddressLine1 string    `json:"address_line1" db:"address_line1"`
	AddressLine2 string    `json:"address_line2" db:"address_line2"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	Zip          string    `json:"zip" db:"zip"`
	BankName     string    `json:"bank_name" db:"bank_name"`
	RoutingNum   string    `json:"-" db:"routing_number"`
	AccountNum   string    `json:"-" db:"account_number"`
	AccountType  string    `json:"account_type" db:"account_type"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Spouse exists only while the return's filing status is a married
// variant; otherwise the row is deleted.
type Spouse struct {
	ID          string    `json:"id" db:"id"`
	TaxReturnID string    `json:"tax_return_id" db:"tax_return_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	SSNLast4    string    `json:"-" db:"ssn_last4"`
	DOB         string    `json:"dob" db:"dob"`
	Occupation  string    `json:"occupation" db:"occupation"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Dependent rows are replaced as a full set on every submission.
type Dependent struct {
	ID           string    `json:"id" db:"id"`
	TaxReturnID  string    `json:"tax_return_id" db:"tax_return_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Relationship string    `json:"relationship" db:"relationship"`
	DOB          string    `json:"dob" db:"dob"`
	SSNLast4     string    `json:"-" db:"ssn_last4"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
