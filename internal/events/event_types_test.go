package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSentPayloadCarriesEmailType(t *testing.T) {
	e := NewEmailSent(0, "alice", "a@x.com", "verification_code")
	assert.Equal(t, EventEmailSent, e.Type)
	assert.Zero(t, e.SubjectID)

	var payload EmailSentPayload
	require.NoError(t, json.Unmarshal([]byte(e.Payload), &payload))
	assert.Equal(t, "verification_code", payload.EmailType)
	assert.Equal(t, "puzzle_accounts", payload.Source)
}

func TestEventSerializesMeta(t *testing.T) {
	raw, err := json.Marshal(NewLogin(1, "alice", RequestMeta{IP: "10.0.0.1", UserAgent: "ua"}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"meta":{"ip":"10.0.0.1","user_agent":"ua"}`)
}

func TestProfileUpdatePayloadIsDescription(t *testing.T) {
	e := NewProfileUpdate(3, "alice", "first_name: Alice", RequestMeta{IP: "10.0.0.1"})
	assert.Equal(t, "first_name: Alice", e.Payload)
	assert.Equal(t, "10.0.0.1", e.Meta.IP)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventLogin, func(context.Context, Event) error {
		calls++
		return errors.New("handler failed")
	})
	d.Subscribe(EventLogin, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewLogin(1, "alice", RequestMeta{}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAllEventTypesCoversEveryKind(t *testing.T) {
	assert.ElementsMatch(t, []EventType{
		EventRegistration,
		EventLogin,
		EventLogout,
		EventEmailSent,
		EventEmailVerified,
		EventProfileUpdate,
	}, AllEventTypes())
}
