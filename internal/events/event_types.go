package events

import (
	"encoding/json"
	"time"
)

// EventType enumerates supported account event identifiers.
type EventType string

const (
	EventRegistration  EventType = "registration"
	EventLogin         EventType = "login"
	EventLogout        EventType = "logout"
	EventEmailSent     EventType = "email_sent"
	EventEmailVerified EventType = "email_verified"
	EventProfileUpdate EventType = "profile_update"
)

// AllEventTypes lists every account event kind.
func AllEventTypes() []EventType {
	return []EventType{
		EventRegistration,
		EventLogin,
		EventLogout,
		EventEmailSent,
		EventEmailVerified,
		EventProfileUpdate,
	}
}

// RequestMeta carries client attribution captured from the HTTP layer.
type RequestMeta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}

// Event represents an account event emitted by services. SubjectID is zero
// when the account does not exist yet (e.g. verification code sent).
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id"`
	Handle    string      `json:"handle"`
	Email     string      `json:"email"`
	Meta      RequestMeta `json:"meta"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   string      `json:"payload"`
}

// SourcePayload is the default event payload.
type SourcePayload struct {
	Source string `json:"source"`
}

// EmailSentPayload describes which kind of mail went out.
type EmailSentPayload struct {
	EmailType string `json:"email_type"`
	Source    string `json:"source"`
}

const payloadSource = "puzzle_accounts"

// NewRegistration builds a registration event for a freshly created account.
func NewRegistration(subjectID int64, handle, email string, meta RequestMeta) Event {
	return Event{
		Type:      EventRegistration,
		SubjectID: subjectID,
		Handle:    handle,
		Email:     email,
		Meta:      meta,
		Payload:   marshalPayload(SourcePayload{Source: payloadSource}),
	}
}

// NewLogin builds a login event.
func NewLogin(subjectID int64, handle string, meta RequestMeta) Event {
	return Event{
		Type:      EventLogin,
		SubjectID: subjectID,
		Handle:    handle,
		Meta:      meta,
		Payload:   marshalPayload(SourcePayload{Source: payloadSource}),
	}
}

// NewLogout builds a logout event.
func NewLogout(subjectID int64, handle string, meta RequestMeta) Event {
	return Event{
		Type:      EventLogout,
		SubjectID: subjectID,
		Handle:    handle,
		Meta:      meta,
		Payload:   marshalPayload(SourcePayload{Source: payloadSource}),
	}
}

// NewEmailSent builds an email_sent event. SubjectID is zero for verification
// codes that go out before the account exists.
func NewEmailSent(subjectID int64, handle, email, emailType string) Event {
	return Event{
		Type:      EventEmailSent,
		SubjectID: subjectID,
		Handle:    handle,
		Email:     email,
		Payload:   marshalPayload(EmailSentPayload{EmailType: emailType, Source: payloadSource}),
	}
}

// NewEmailVerified builds an email_verified event.
func NewEmailVerified(subjectID int64, handle, email string) Event {
	return Event{
		Type:      EventEmailVerified,
		SubjectID: subjectID,
		Handle:    handle,
		Email:     email,
		Payload:   marshalPayload(SourcePayload{Source: payloadSource}),
	}
}

// NewProfileUpdate builds a profile_update event whose payload is the
// human-readable change description.
func NewProfileUpdate(subjectID int64, handle, description string, meta RequestMeta) Event {
	return Event{
		Type:      EventProfileUpdate,
		SubjectID: subjectID,
		Handle:    handle,
		Meta:      meta,
		Payload:   description,
	}
}

func marshalPayload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
