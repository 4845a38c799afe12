package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lgardea/tax-intake-service/internal/domain"
)

// JWTManager issues and validates operator session tokens
type JWTManager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, sessionTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
	}
}

// GenerateSessionToken generates a signed session token for the operator
func (j *JWTManager) GenerateSessionToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   now.Add(j.sessionTTL).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken validates a session token and returns its claims
func (j *JWTManager) ValidateSessionToken(tokenString string) (*domain.AdminClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid email in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp in token")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat in token")
	}

	adminClaims := &domain.AdminClaims{
		Email: email,
		Exp:   int64(exp),
		Iat:   int64(iat),
	}

	if adminClaims.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}

	return adminClaims, nil
}

// GetSessionTTL returns the session lifetime in seconds
func (j *JWTManager) GetSessionTTL() int {
	return int(j.sessionTTL.Seconds())
}
