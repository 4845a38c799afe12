package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lgardea/tax-intake-service/internal/domain"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/repository"
	"github.com/lgardea/tax-intake-service/internal/utils"
	"github.com/lgardea/tax-intake-service/pkg/mailer"
	"go.uber.org/zap"
)

// invitationService implements InvitationService interface
type invitationService struct {
	repos              *repository.Repositories
	mailer             mailer.Sender
	logger             *zap.Logger
	pepper             string
	originURL          string
	defaultTokenExpiry time.Duration
	defaultOneTime     bool
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	repos *repository.Repositories,
	sender mailer.Sender,
	logger *zap.Logger,
	pepper string,
	originURL string,
	defaultTokenExpiry time.Duration,
	defaultOneTime bool,
) InvitationService {
	return &invitationService{
		repos:              repos,
		mailer:             sender,
		logger:             logger,
		pepper:             pepper,
		originURL:          originURL,
		defaultTokenExpiry: defaultTokenExpiry,
		defaultOneTime:     defaultOneTime,
	}
}

// Issue creates or refreshes the client and tax return, mints a fresh
// token and returns the shareable intake URL. Re-inviting an existing
// (client, year) pair never duplicates the return row but always mints a
// brand-new token.
func (s *invitationService) Issue(ctx context.Context, req *dto.InviteRequest, actor Actor) (*dto.InviteResponse, error) {
	if err := validateInvite(req); err != nil {
		return nil, err
	}

	client, err := s.upsertClient(ctx, req)
	if err != nil {
		return nil, err
	}

	taxReturn, err := s.findOrCreateReturn(ctx, client.ID, req.Year)
	if err != nil {
		return nil, err
	}

	rawToken, err := utils.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint token: %w", err)
	}

	expiry := s.defaultTokenExpiry
	if req.ExpiryHours > 0 {
		expiry = time.Duration(req.ExpiryHours) * time.Hour
	}

	oneTime := s.defaultOneTime
	if req.OneTime != nil {
		oneTime = *req.OneTime
	}

	token := &domain.IntakeToken{
		TaxReturnID: taxReturn.ID,
		TokenHash:   utils.HashToken(rawToken, s.pepper),
		ExpiresAt:   time.Now().UTC().Add(expiry),
		OneTime:     oneTime,
	}

	if err := s.repos.Token.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	intakeURL := fmt.Sprintf("%s/%s/intake?token=%s", s.originURL, req.Locale, rawToken)

	audit := &domain.AuditEvent{
		TaxReturnID: taxReturn.ID,
		Event:       domain.AuditInviteCreated,
		IP:          actor.IP,
		UserAgent:   actor.UserAgent,
		Detail:      fmt.Sprintf(`{"year":%d,"one_time":%t}`, req.Year, oneTime),
	}
	if err := s.repos.Audit.Append(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to record audit event: %w", err)
	}

	if req.SendEmail {
		s.emailInvite(client, req.Locale, intakeURL, req.Year)
	}

	return &dto.InviteResponse{
		URL:         intakeURL,
		TaxReturnID: taxReturn.ID,
		ExpiresAt:   token.ExpiresAt.UTC().Format(time.RFC3339),
		OneTime:     oneTime,
	}, nil
}

// Revoke permanently revokes all active tokens of a tax return
func (s *invitationService) Revoke(ctx context.Context, taxReturnID string, actor Actor) (*dto.RevokeResponse, error) {
	taxReturn, err := s.repos.TaxReturn.GetByID(ctx, taxReturnID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("tax return %s not found", taxReturnID)
		}
		return nil, fmt.Errorf("failed to get tax return: %w", err)
	}

	revoked, err := s.repos.Token.RevokeByTaxReturn(ctx, taxReturn.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	audit := &domain.AuditEvent{
		TaxReturnID: taxReturn.ID,
		Event:       domain.AuditTokenRevoked,
		IP:          actor.IP,
		UserAgent:   actor.UserAgent,
		Detail:      fmt.Sprintf(`{"revoked":%d}`, revoked),
	}
	if err := s.repos.Audit.Append(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to record audit event: %w", err)
	}

	return &dto.RevokeResponse{TaxReturnID: taxReturn.ID, Revoked: revoked}, nil
}

func validateInvite(req *dto.InviteRequest) error {
	if req.Year == 0 {
		return NewValidationError("year is required")
	}
	if req.Name == "" {
		return NewValidationError("name is required")
	}
	if req.Email == "" {
		return NewValidationError("email is required")
	}
	if !utils.ValidateEmail(utils.SanitizeEmail(req.Email)) {
		return NewValidationError("email %q is not a valid address", req.Email)
	}
	if !domain.ValidLocale(req.Locale) {
		return NewValidationError("locale must be %q or %q", domain.LocaleSpanish, domain.LocaleEnglish)
	}
	return nil
}

// upsertClient looks the client up by email and either creates it or
// merges the non-empty incoming fields into the stored row.
func (s *invitationService) upsertClient(ctx context.Context, req *dto.InviteRequest) (*domain.Client, error) {
	email := utils.SanitizeEmail(req.Email)

	incoming := domain.Client{
		Name:       req.Name,
		Email:      email,
		Mobile:     req.Mobile,
		Occupation: req.Occupation,
		Locale:     req.Locale,
	}

	client, err := s.repos.Client.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up client: %w", err)
		}

		if err := s.repos.Client.Create(ctx, &incoming); err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		return &incoming, nil
	}

	client.Merge(incoming)
	if err := s.repos.Client.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (s *invitationService) findOrCreateReturn(ctx context.Context, clientID string, year int) (*domain.TaxReturn, error) {
	taxReturn, err := s.repos.TaxReturn.GetByClientYear(ctx, clientID, year)
	if err == nil {
		return taxReturn, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up tax return: %w", err)
	}

	taxReturn = &domain.TaxReturn{
		ClientID: clientID,
		Year:     year,
		Status:   domain.ReturnStatusInvited,
	}
	if err := s.repos.TaxReturn.Create(ctx, taxReturn); err != nil {
		return nil, fmt.Errorf("failed to create tax return: %w", err)
	}

	return taxReturn, nil
}

// emailInvite sends the intake link to the client. Delivery is best
// effort: the invitation already exists, so a mail outage only costs the
// operator a copy-paste.
func (s *invitationService) emailInvite(client *domain.Client, locale, intakeURL string, year int) {
	subject := fmt.Sprintf("Your %d tax intake form", year)
	body := fmt.Sprintf("Hello %s,\n\nPlease complete your %d tax intake form here:\n%s\n", client.Name, year, intakeURL)
	if locale == domain.LocaleSpanish {
		subject = fmt.Sprintf("Su formulario de impuestos %d", year)
		body = fmt.Sprintf("Hola %s:\n\nComplete su formulario de impuestos %d aqu\u00ed:\n%s\n", client.Name, year, intakeURL)
	}

	if err := s.mailer.Send(client.Email, subject, body); err != nil {
		s.logger.Warn("Failed to email intake link",
			zap.String("email", client.Email),
			zap.Error(err),
		)
	}
}
