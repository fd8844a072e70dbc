package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/events"
)

func newProfileFixture(t *testing.T) (*ProfileService, *signupFixture) {
	t.Helper()
	f := newSignupFixture()
	completeRegistration(t, f, validInput())
	return NewProfileService(f.accounts, f.dispatcher, zap.NewNop()), f
}

func TestProfileUpdateDescribesOnlyChangedFields(t *testing.T) {
	svc, f := newProfileFixture(t)

	account, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		FirstName: "Alice",
	}, events.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Alice", account.FirstName)

	updates := f.dispatcher.ofType(events.EventProfileUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, "first_name: Alice", updates[0].Payload)
	assert.NotContains(t, updates[0].Payload, "last_name")
}

func TestProfileUpdateIdenticalSubmissionEmitsNothing(t *testing.T) {
	svc, f := newProfileFixture(t)

	_, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		FirstName: "Alice",
		City:      "Riga",
	}, events.RequestMeta{})
	require.NoError(t, err)
	require.Len(t, f.dispatcher.ofType(events.EventProfileUpdate), 1)

	// same values again: nothing changed, nothing emitted
	_, err = svc.Update(context.Background(), 1, ProfileUpdateInput{
		FirstName: "Alice",
		City:      "Riga",
	}, events.RequestMeta{})
	require.NoError(t, err)
	assert.Len(t, f.dispatcher.ofType(events.EventProfileUpdate), 1)
}

func TestProfileUpdateParsesBirthDate(t *testing.T) {
	svc, _ := newProfileFixture(t)

	account, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		BirthDate: "1990-04-15",
	}, events.RequestMeta{})
	require.NoError(t, err)
	require.NotNil(t, account.BirthDate)
	assert.Equal(t, time.Date(1990, 4, 15, 0, 0, 0, 0, time.UTC), account.BirthDate.UTC())
}

func TestProfileUpdateInvalidBirthDateClearsStoredOne(t *testing.T) {
	svc, f := newProfileFixture(t)

	_, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		BirthDate: "1990-04-15",
	}, events.RequestMeta{})
	require.NoError(t, err)

	account, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		BirthDate: "not-a-date",
	}, events.RequestMeta{})
	require.NoError(t, err)
	assert.Nil(t, account.BirthDate)

	updates := f.dispatcher.ofType(events.EventProfileUpdate)
	require.Len(t, updates, 2)
	assert.Contains(t, updates[1].Payload, "birth_date cleared")
}

func TestProfileUpdateKeepsAvatarWhenNotProvided(t *testing.T) {
	svc, f := newProfileFixture(t)

	url := "/media/avatars/abc.png"
	_, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		AvatarURL: &url,
	}, events.RequestMeta{})
	require.NoError(t, err)

	account, err := svc.Update(context.Background(), 1, ProfileUpdateInput{
		FirstName: "Alice",
	}, events.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, url, account.AvatarURL)

	updates := f.dispatcher.ofType(events.EventProfileUpdate)
	require.Len(t, updates, 2)
	assert.Contains(t, updates[0].Payload, "avatar uploaded: abc.png")
	assert.NotContains(t, updates[1].Payload, "avatar")
}

func TestProfileGetUnknownAccount(t *testing.T) {
	svc, _ := newProfileFixture(t)

	_, err := svc.Get(context.Background(), 99)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestProfileRejectsDeactivatedAccount(t *testing.T) {
	svc, f := newProfileFixture(t)
	f.accounts.byID[1].Active = false

	_, err := svc.Get(context.Background(), 1)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	_, err = svc.Update(context.Background(), 1, ProfileUpdateInput{
		FirstName: "Alice",
	}, events.RequestMeta{})
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	assert.Empty(t, f.dispatcher.ofType(events.EventProfileUpdate))
}
