package dto

// IntakeSubmission is the full intake payload posted by a client. Field
// presence is validated by the service so that the first missing required
// field can be named in the error; binding tags stay loose on purpose.
type IntakeSubmission struct {
	FilingStatus string `json:"filing_status"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	SSN          string `json:"ssn"`
	DOB          string `json:"dob"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Occupation   string `json:"occupation"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`

	BankName    string `json:"bank_name"`
	RoutingNum  string `json:"routing_number"`
	AccountNum  string `json:"account_number"`
	AccountType string `json:"account_type"`

	Notes string `json:"notes"`

	Spouse     *SpouseInput     `json:"spouse"`
	Dependents []DependentInput `json:"dependents"`
}

// SpouseInput is required whenever the filing status is a married variant.
type SpouseInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	SSN        string `json:"ssn"`
	DOB        string `json:"dob"`
	Occupation string `json:"occupation"`
}

// DependentInput entries missing first/last name, relationship or DOB are
// skipped silently rather than failing the submission.
type DependentInput struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Relationship string `json:"relationship"`
	DOB          string `json:"dob"`
	SSN          string `json:"ssn"`
}
