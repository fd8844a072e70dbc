package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/analytics"
	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/repository"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const birthDateLayout = "2006-01-02"

// ProfileUpdateInput carries the submitted profile form. AvatarURL is the
// already-stored public URL of a newly uploaded file; nil leaves the current
// avatar untouched.
type ProfileUpdateInput struct {
	FirstName string
	LastName  string
	Bio       string
	Phone     string
	City      string
	BirthDate string
	AvatarURL *string
}

// ProfileService reads and edits account profiles.
type ProfileService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(accounts repository.AccountRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ProfileService {
	return &ProfileService{accounts: accounts, dispatcher: dispatcher, logger: logger}
}

// Get returns the account by id. Deactivated accounts are indistinguishable
// from missing ones, so a live session cannot keep serving a disabled account.
func (s *ProfileService) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("account", map[string]any{"account_id": accountID})
		}
		return nil, util.NewInternalError(err)
	}
	if !account.Active {
		return nil, util.NewNotFound("account", map[string]any{"account_id": accountID})
	}
	return account, nil
}

// Update overwrites the editable fields and emits a profile_update event
// describing exactly what changed. Submitting identical values emits nothing.
// An unparseable birth date clears the stored one instead of failing the
// whole update.
func (s *ProfileService) Update(ctx context.Context, accountID int64, in ProfileUpdateInput, meta events.RequestMeta) (*domain.Account, error) {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	before := account.ProfileOf()

	next := domain.Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Bio:       strings.TrimSpace(in.Bio),
		Phone:     strings.TrimSpace(in.Phone),
		City:      strings.TrimSpace(in.City),
		BirthDate: parseBirthDate(in.BirthDate),
		AvatarURL: before.AvatarURL,
	}
	if in.AvatarURL != nil {
		next.AvatarURL = *in.AvatarURL
	}

	updated, err := s.accounts.UpdateProfile(ctx, accountID, next)
	if err != nil {
		return nil, util.MapError(err)
	}

	changes := analytics.DiffProfiles(before, updated.ProfileOf())
	if !changes.Empty() {
		_ = s.dispatcher.Publish(ctx,
			events.NewProfileUpdate(updated.ID, updated.Handle, changes.Describe(), meta))
	}

	s.logger.Info("profile updated",
		zap.Int64("account_id", updated.ID),
		zap.Int("changed_fields", len(changes)))
	return updated, nil
}

func parseBirthDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
