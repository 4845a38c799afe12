package service

import (
	"context"
	"fmt"

	"github.com/lgardea/tax-intake-service/internal/domain"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/utils"
)

// adminService implements AdminService for the single configured
// operator account.
type adminService struct {
	email        string
	passwordHash string
	jwtManager   *utils.JWTManager
}

// NewAdminService creates a new admin service
func NewAdminService(email, passwordHash string, jwtManager *utils.JWTManager) AdminService {
	return &adminService{
		email:        utils.SanitizeEmail(email),
		passwordHash: passwordHash,
		jwtManager:   jwtManager,
	}
}

// Login authenticates the operator and issues a session token
func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	email := utils.SanitizeEmail(req.Email)

	if email != s.email || !utils.CheckPasswordHash(req.Password, s.passwordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateSessionToken(email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &dto.AdminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtManager.GetSessionTTL(),
	}, nil
}

// ValidateSession validates an operator session token
func (s *adminService) ValidateSession(ctx context.Context, token string) (*domain.AdminClaims, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	return claims, nil
}
