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
	"github.com/lgardea/tax-intake-service/pkg/database"
	"go.uber.org/zap"
)

// intakeService implements IntakeService interface
type intakeService struct {
	db     *database.Postgres
	repos  *repository.Repositories
	logger *zap.Logger
	pepper string
}

// NewIntakeService creates a new intake service
func NewIntakeService(db *database.Postgres, repos *repository.Repositories, logger *zap.Logger, pepper string) IntakeService {
	return &intakeService{
		db:     db,
		repos:  repos,
		logger: logger,
		pepper: pepper,
	}
}

// ValidateSession resolves a raw token to its tax return and client
// context. A return still in invited state is promoted to in_progress as
// a side effect; the promotion is idempotent, so concurrent validations
// are harmless. Validation never consumes the token.
func (s *intakeService) ValidateSession(ctx context.Context, rawToken string) (*dto.SessionResponse, error) {
	session, err := s.resolveToken(ctx, s.repos, rawToken)
	if err != nil {
		return nil, err
	}

	if session.TaxReturn.Status == domain.ReturnStatusInvited {
		if err := s.repos.TaxReturn.UpdateStatus(ctx, session.TaxReturn.ID, domain.ReturnStatusInProgress); err != nil {
			return nil, fmt.Errorf("failed to promote tax return: %w", err)
		}
		session.TaxReturn.Status = domain.ReturnStatusInProgress
	}

	return &dto.SessionResponse{
		TaxReturnID: session.TaxReturn.ID,
		Year:        session.TaxReturn.Year,
		Locale:      session.Client.Locale,
		Status:      session.TaxReturn.Status,
		ExpiresAt:   session.Token.ExpiresAt.UTC().Format(time.RFC3339),
		OneTime:     session.Token.OneTime,
		Client: dto.ClientProfile{
			Name:       session.Client.Name,
			Email:      session.Client.Email,
			Mobile:     session.Client.Mobile,
			Occupation: session.Client.Occupation,
		},
	}, nil
}

// Submit validates the payload, re-resolves the token from scratch and
// runs the whole multi-entity write as one transaction. Either every step
// commits or none does, and a one-time token is only consumed by a fully
// committed submission.
func (s *intakeService) Submit(ctx context.Context, rawToken string, payload *dto.IntakeSubmission, actor Actor) (*dto.SubmitResponse, error) {
	if err := validateSubmission(payload); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin submission transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txRepos := s.repos.WithTx(tx)

	// A prior ValidateSession call is not trusted: every token failure
	// condition is re-checked inside the transaction.
	session, err := s.resolveToken(ctx, txRepos, rawToken)
	if err != nil {
		return nil, err
	}

	if err := s.applySubmission(ctx, txRepos, session, payload, actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	s.logger.Info("Intake submitted",
		zap.String("tax_return_id", session.TaxReturn.ID),
		zap.Int("year", session.TaxReturn.Year),
	)

	return &dto.SubmitResponse{
		TaxReturnID: session.TaxReturn.ID,
		Status:      domain.ReturnStatusSubmitted,
	}, nil
}

// resolveToken applies the full failure ladder: missing, unknown hash,
// revoked, expired, already used. Order matters: revocation beats expiry
// beats consumption.
func (s *intakeService) resolveToken(ctx context.Context, repos *repository.Repositories, rawToken string) (*repository.IntakeSession, error) {
	if rawToken == "" {
		return nil, ErrMissingToken
	}

	session, err := repos.Token.GetSessionByTokenHash(ctx, utils.HashToken(rawToken, s.pepper))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	switch {
	case session.Token.Revoked():
		return nil, ErrTokenRevoked
	case session.Token.Expired(time.Now()):
		return nil, ErrTokenExpired
	case session.Token.Consumed():
		return nil, ErrTokenAlreadyUsed
	}

	return session, nil
}

func (s *intakeService) applySubmission(
	ctx context.Context,
	repos *repository.Repositories,
	session *repository.IntakeSession,
	payload *dto.IntakeSubmission,
	actor Actor,
) error {
	taxReturnID := session.TaxReturn.ID
	ssnLast4 := utils.RedactSSN(payload.SSN)

	client := session.Client
	client.Merge(domain.Client{
		Name:       fmt.Sprintf("%s %s", payload.FirstName, payload.LastName),
		Mobile:     payload.Phone,
		Occupation: payload.Occupation,
	})
	if err := repos.Client.Update(ctx, &client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if err := repos.Client.UpdateSSNLast4(ctx, client.ID, ssnLast4); err != nil {
		return fmt.Errorf("failed to update client ssn: %w", err)
	}

	record := &domain.IntakeRecord{
		TaxReturnID:  taxReturnID,
		FilingStatus: payload.FilingStatus,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		SSNLast4:     ssnLast4,
		DOB:          payload.DOB,
		Email:        utils.SanitizeEmail(payload.Email),
		Phone:        payload.Phone,
		Occupation:   payload.Occupation,
		AddressLine1: payload.AddressLine1,
		AddressLine2: payload.AddressLine2,
		City:         payload.City,
		State:        payload.State,
		Zip:          payload.Zip,
		BankName:     payload.BankName,
		RoutingNum:   payload.RoutingNum,
		AccountNum:   payload.AccountNum,
		AccountType:  payload.AccountType,
		Notes:        payload.Notes,
	}
	if err := repos.Intake.UpsertRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to upsert intake record: %w", err)
	}

	if domain.RequiresSpouse(payload.FilingStatus) {
		spouse := &domain.Spouse{
			TaxReturnID: taxReturnID,
			FirstName:   payload.Spouse.FirstName,
			LastName:    payload.Spouse.LastName,
			SSNLast4:    utils.RedactSSN(payload.Spouse.SSN),
			DOB:         payload.Spouse.DOB,
			Occupation:  payload.Spouse.Occupation,
		}
		if err := repos.Intake.UpsertSpouse(ctx, spouse); err != nil {
			return fmt.Errorf("failed to upsert spouse: %w", err)
		}
	} else {
		// Covers filing-status changes away from married as well as a
		// stray spouse object on a single filing.
		if err := repos.Intake.DeleteSpouse(ctx, taxReturnID); err != nil {
			return fmt.Errorf("failed to delete spouse: %w", err)
		}
	}

	if err := repos.Intake.ReplaceDependents(ctx, taxReturnID, collectDependents(payload.Dependents, taxReturnID)); err != nil {
		return fmt.Errorf("failed to replace dependents: %w", err)
	}

	if err := repos.TaxReturn.MarkSubmitted(ctx, taxReturnID); err != nil {
		return fmt.Errorf("failed to mark tax return submitted: %w", err)
	}

	if session.Token.OneTime {
		if err := repos.Token.Consume(ctx, session.Token.ID); err != nil {
			if errors.Is(err, repository.ErrTokenConsumed) {
				return ErrTokenAlreadyUsed
			}
			return fmt.Errorf("failed to consume token: %w", err)
		}
	}

	audit := &domain.AuditEvent{
		TaxReturnID: taxReturnID,
		Event:       domain.AuditIntakeSubmitted,
		IP:          actor.IP,
		UserAgent:   actor.UserAgent,
		Detail:      fmt.Sprintf(`{"year":%d}`, session.TaxReturn.Year),
	}
	if err := repos.Audit.Append(ctx, audit); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	return nil
}

// validateSubmission names the first missing required field, in the
// order clients see them on the form.
func validateSubmission(payload *dto.IntakeSubmission) error {
	required := []struct {
		name  string
		value string
	}{
		{"filing_status", payload.FilingStatus},
		{"first_name", payload.FirstName},
		{"last_name", payload.LastName},
		{"ssn", payload.SSN},
		{"dob", payload.DOB},
		{"email", payload.Email},
		{"address_line1", payload.AddressLine1},
		{"city", payload.City},
		{"state", payload.State},
		{"zip", payload.Zip},
	}

	for _, field := range required {
		if field.value == "" {
			return NewValidationError("missing required field: %s", field.name)
		}
	}

	if domain.RequiresSpouse(payload.FilingStatus) {
		if payload.Spouse == nil {
			return NewValidationError("spouse is required for filing status %s", payload.FilingStatus)
		}
		spouseRequired := []struct {
			name  string
			value string
		}{
			{"spouse.first_name", payload.Spouse.FirstName},
			{"spouse.last_name", payload.Spouse.LastName},
			{"spouse.ssn", payload.Spouse.SSN},
			{"spouse.dob", payload.Spouse.DOB},
		}
		for _, field := range spouseRequired {
			if field.value == "" {
				return NewValidationError("missing required field: %s", field.name)
			}
		}
	}

	return nil
}

// collectDependents keeps only entries carrying first/last name,
// relationship and DOB. Incomplete entries are skipped silently, a
// deliberate leniency rather than an error path.
func collectDependents(inputs []dto.DependentInput, taxReturnID string) []domain.Dependent {
	var dependents []domain.Dependent
	for _, in := range inputs {
		if in.FirstName == "" || in.LastName == "" || in.Relationship == "" || in.DOB == "" {
			continue
		}

		ssnLast4 := ""
		if in.SSN != "" {
			ssnLast4 = utils.RedactSSN(in.SSN)
		}

		dependents = append(dependents, domain.Dependent{
			TaxReturnID:  taxReturnID,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Relationship: in.Relationship,
			DOB:          in.DOB,
			SSNLast4:     ssnLast4,
		})
	}
	return dependents
}
