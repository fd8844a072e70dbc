package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Session is the opaque per-visitor state. A visitor mid-registration holds
// only VerificationID; a signed-in visitor holds AccountID and Handle.
type Session struct {
	ID             string `json:"-"`
	AccountID      int64  `json:"account_id,omitempty"`
	Handle         string `json:"handle,omitempty"`
	VerificationID int64  `json:"verification_id,omitempty"`
}

// Authenticated reports whether the session belongs to a signed-in account.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccountID > 0
}

// Store keeps sessions in Redis under an opaque random id.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore constructs the session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get loads the session for id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

// Save persists the session, generating an id for new sessions, and refreshes
// the TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		id, err := newSessionID()
		if err != nil {
			return err
		}
		sess.ID = id
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+sess.ID, raw, s.ttl).Err()
}

// Delete removes the session, ending the visitor's state.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
