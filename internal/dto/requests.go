package dto

// AdminLoginRequest represents an operator login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse carries the operator session token
type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// InviteRequest represents an invitation issuance request
type InviteRequest struct {
	Year        int    `json:"year" binding:"required"`
	Locale      string `json:"locale" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Mobile      string `json:"mobile"`
	Occupation  string `json:"occupation"`
	ExpiryHours int    `json:"expiry_hours"`
	OneTime     *bool  `json:"one_time"`
	// SendEmail asks the service to mail the intake link to the client.
	SendEmail bool `json:"send_email"`
}

// InviteResponse carries the shareable intake URL. The raw token inside
// the URL is shown exactly once and cannot be recovered later.
type InviteResponse struct {
	URL         string `json:"url"`
	TaxReturnID string `json:"tax_return_id"`
	ExpiresAt   string `json:"expires_at"`
	OneTime     bool   `json:"one_time"`
}

// SessionResponse is returned by a successful token validation and holds
// everything the intake form needs for prefill.
type SessionResponse struct {
	TaxReturnID string        `json:"tax_return_id"`
	Year        int           `json:"year"`
	Locale      string        `json:"locale"`
	Status      string        `json:"status"`
	ExpiresAt   string        `json:"expires_at"`
	OneTime     bool          `json:"one_time"`
	Client      ClientProfile `json:"client"`
}

// ClientProfile represents client prefill fields in a session response
type ClientProfile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Occupation string `json:"occupation"`
}

// SubmitResponse acknowledges a processed intake submission
type SubmitResponse struct {
	TaxReturnID string `json:"tax_return_id"`
	Status      string `json:"status"`
}

// RevokeResponse reports how many tokens a revocation touched
type RevokeResponse struct {
	TaxReturnID string `json:"tax_return_id"`
	Revoked     int    `json:"revoked"`
}

// ContactRequest represents a public contact-form relay request. Website
// is a honeypot field: humans never see it, bots fill it.
type ContactRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Message      string `json:"message" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
	Website      string `json:"website"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
