package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lgardea/tax-intake-service/internal/captcha"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/pkg/mailer"
	"go.uber.org/zap"
)

// Field clamps applied before relaying a contact message.
const (
	maxContactName    = 200
	maxContactEmail   = 320
	maxContactMessage = 5000
)

// contactService implements ContactService interface
type contactService struct {
	verifier  captcha.Verifier
	mailer    mailer.Sender
	blocklist IPBlocklist
	logger    *zap.Logger
	contactTo string
	banTTL    time.Duration
}

// NewContactService creates a new contact relay service
func NewContactService(
	verifier captcha.Verifier,
	sender mailer.Sender,
	blocklist IPBlocklist,
	logger *zap.Logger,
	contactTo string,
	banTTL time.Duration,
) ContactService {
	return &contactService{
		verifier:  verifier,
		mailer:    sender,
		blocklist: blocklist,
		logger:    logger,
		contactTo: contactTo,
		banTTL:    banTTL,
	}
}

// Relay verifies the captcha verdict and forwards the message over SMTP.
// A filled honeypot field bans the source IP and drops the message.
func (s *contactService) Relay(ctx context.Context, req *dto.ContactRequest, actor Actor) error {
	banned, err := s.blocklist.IsBanned(ctx, actor.IP)
	if err != nil {
		// Redis being down should not take the contact form with it.
		s.logger.Warn("Blocklist check failed", zap.Error(err))
	}
	if banned {
		return ErrSpam
	}

	if req.Website != "" {
		if err := s.blocklist.Ban(ctx, actor.IP, s.banTTL); err != nil {
			s.logger.Warn("Failed to ban honeypot ip", zap.Error(err))
		}
		s.logger.Info("Honeypot tripped", zap.String("ip", actor.IP))
		return ErrSpam
	}

	ok, err := s.verifier.Verify(ctx, req.CaptchaToken, actor.IP)
	if err != nil {
		return fmt.Errorf("failed to verify captcha: %w", err)
	}
	if !ok {
		return ErrCaptchaFailed
	}

	name := clamp(req.Name, maxContactName)
	email := clamp(req.Email, maxContactEmail)
	message := clamp(req.Message, maxContactMessage)

	subject := fmt.Sprintf("Contact form: %s", name)
	body := fmt.Sprintf("From: %s <%s>\nIP: %s\n\n%s\n", name, email, actor.IP, message)

	if err := s.mailer.Send(s.contactTo, subject, body); err != nil {
		return fmt.Errorf("failed to relay contact message: %w", err)
	}

	return nil
}

func clamp(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
