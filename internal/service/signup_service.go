package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/auth"
	"github.com/PUZZ-INC/puzzle/internal/config"
	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/mailer"
	"github.com/PUZZ-INC/puzzle/internal/repository"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

// RegisterInput carries the raw registration form fields.
type RegisterInput struct {
	Handle          string
	Password        string
	PasswordConfirm string
	Email           string
}

// SignupService drives the two-phase registration flow: stage a verification
// request, mail its code, and materialize the account once the code checks out.
type SignupService struct {
	accounts      repository.AccountRepository
	verifications repository.VerificationRepository
	mailer        mailer.Sender
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	codeTTL       time.Duration
	bcryptCost    int
	now           func() time.Time
}

// NewSignupService constructs the service.
func NewSignupService(
	accounts repository.AccountRepository,
	verifications repository.VerificationRepository,
	sender mailer.Sender,
	dispatcher events.Dispatcher,
	cfg config.VerificationConfig,
	logger *zap.Logger,
) *SignupService {
	return &SignupService{
		accounts:      accounts,
		verifications: verifications,
		mailer:        sender,
		dispatcher:    dispatcher,
		logger:        logger,
		codeTTL:       cfg.TTL(),
		bcryptCost:    cfg.BcryptCost,
		now:           time.Now,
	}
}

// Register validates the form, stages a verification request and mails its
// code. No account row exists after this call; the staged request id must be
// carried in the caller's session until VerifyCode completes the flow.
// Re-registering with the same email invalidates any earlier pending request.
func (s *SignupService) Register(ctx context.Context, in RegisterInput) (*domain.VerificationRequest, error) {
	in.Handle = strings.TrimSpace(in.Handle)
	in.Email = strings.TrimSpace(in.Email)

	if problems := validateRegistration(in); len(problems) > 0 {
		return nil, util.NewValidationError("registration input invalid", problems)
	}

	taken, err := s.accounts.HandleExists(ctx, in.Handle)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if taken {
		return nil, util.NewDuplicateHandle(in.Handle)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	req, err := s.verifications.Stage(ctx, in.Email, in.Handle, hash, s.codeTTL)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	if !s.mailer.SendVerificationCode(ctx, req.Email, req.Code, req.Handle) {
		// no undeliverable request may linger; the user has to start over
		if delErr := s.verifications.Delete(ctx, req.ID); delErr != nil {
			s.logger.Error("failed to discard staged verification",
				zap.Int64("verification_id", req.ID), zap.Error(delErr))
		}
		return nil, util.NewMailDeliveryFailed(req.Email)
	}

	_ = s.dispatcher.Publish(ctx, events.NewEmailSent(0, req.Handle, req.Email, "verification_code"))

	s.logger.Info("verification staged",
		zap.Int64("verification_id", req.ID),
		zap.String("handle", req.Handle))
	return req, nil
}

// VerifyCode checks the submitted code against the staged request and, on
// match, consumes the request and creates the account atomically. An expired
// request is deleted on sight; a wrong code leaves the request intact so the
// user can retry.
func (s *SignupService) VerifyCode(ctx context.Context, verificationID int64, code string, meta events.RequestMeta) (*domain.Account, error) {
	req, err := s.verifications.GetByID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("verification request", map[string]any{"verification_id": verificationID})
		}
		return nil, util.NewInternalError(err)
	}

	if req.Consumed {
		return nil, util.NewConflict("verification already consumed", map[string]any{"verification_id": req.ID})
	}

	if req.Expired(s.now()) {
		if delErr := s.verifications.Delete(ctx, req.ID); delErr != nil {
			s.logger.Error("failed to delete expired verification",
				zap.Int64("verification_id", req.ID), zap.Error(delErr))
		}
		return nil, util.NewExpiredCode()
	}

	code = strings.TrimSpace(code)
	if len(code) != domain.CodeLength || !isDigits(code) {
		return nil, util.NewInvalidCode("code must be 4 digits")
	}
	if !req.Matches(code, s.now()) {
		return nil, util.NewInvalidCode("wrong verification code")
	}

	account, err := s.accounts.CreateFromVerification(ctx, req)
	if err != nil {
		return nil, util.MapError(err)
	}

	// best effort; the account exists regardless of whether the letter lands
	if !s.mailer.SendWelcome(ctx, account.Email, account.Handle) {
		s.logger.Warn("welcome mail not delivered", zap.String("handle", account.Handle))
	}

	_ = s.dispatcher.Publish(ctx, events.NewRegistration(account.ID, account.Handle, account.Email, meta))
	_ = s.dispatcher.Publish(ctx, events.NewEmailVerified(account.ID, account.Handle, account.Email))

	s.logger.Info("account created",
		zap.Int64("account_id", account.ID),
		zap.String("handle", account.Handle))
	return account, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
