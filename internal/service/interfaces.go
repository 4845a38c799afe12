package service

import (
	"context"

	"github.com/lgardea/tax-intake-service/internal/domain"
	"github.com/lgardea/tax-intake-service/internal/dto"
)

// Actor carries requester metadata recorded in audit events.
type Actor struct {
	IP        string
	UserAgent string
}

// InvitationService mints token-gated intake links for clients
type InvitationService interface {
	Issue(ctx context.Context, req *dto.InviteRequest, actor Actor) (*dto.InviteResponse, error)
	Revoke(ctx context.Context, taxReturnID string, actor Actor) (*dto.RevokeResponse, error)
}

// IntakeService validates intake sessions and processes submissions
type IntakeService interface {
	ValidateSession(ctx context.Context, rawToken string) (*dto.SessionResponse, error)
	Submit(ctx context.Context, rawToken string, payload *dto.IntakeSubmission, actor Actor) (*dto.SubmitResponse, error)
}

// AdminService authenticates the operator account
type AdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ValidateSession(ctx context.Context, token string) (*domain.AdminClaims, error)
}

// ContactService relays contact-form messages after abuse checks
type ContactService interface {
	Relay(ctx context.Context, req *dto.ContactRequest, actor Actor) error
}
