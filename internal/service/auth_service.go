package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/auth"
	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/repository"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

// AuthService authenticates accounts against stored credentials.
type AuthService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(accounts repository.AccountRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, dispatcher: dispatcher, logger: logger}
}

// Login verifies the handle/password pair. Unknown handles, inactive accounts
// and wrong passwords all produce the same unauthorized error so the response
// does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, handle, password string, meta events.RequestMeta) (*domain.Account, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("invalid handle or password")
		}
		return nil, util.NewInternalError(err)
	}
	if !account.Active {
		return nil, util.NewUnauthorized("invalid handle or password")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("invalid handle or password")
	}

	_ = s.dispatcher.Publish(ctx, events.NewLogin(account.ID, account.Handle, meta))

	s.logger.Info("login", zap.Int64("account_id", account.ID), zap.String("handle", account.Handle))
	return account, nil
}

// Logout records the logout event. Session destruction is the caller's job.
func (s *AuthService) Logout(ctx context.Context, accountID int64, handle string, meta events.RequestMeta) {
	_ = s.dispatcher.Publish(ctx, events.NewLogout(accountID, handle, meta))
	s.logger.Info("logout", zap.Int64("account_id", accountID), zap.String("handle", handle))
}
