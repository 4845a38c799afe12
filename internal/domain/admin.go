package domain

import "time"

// AdminClaims represents claims carried by an operator session JWT.
type AdminClaims struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
}

// IsExpired checks if the session is expired
func (c AdminClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}
