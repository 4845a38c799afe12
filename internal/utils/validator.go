package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeEmail sanitizes an email address for lookup and storage
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RedactSSN reduces an SSN to its last four digits. Non-digits are
// stripped first; if fewer than four digits remain it returns "0000".
func RedactSSN(ssn string) string {
	var digits []rune
	for _, r := range ssn {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return "0000"
	}
	return string(digits[len(digits)-4:])
}
