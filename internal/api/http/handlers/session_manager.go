package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/config"
	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/session"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const sessionLocalsKey = "session"

// AccountGetter resolves the account backing a signed-in session. Deactivated
// or deleted accounts surface as NOT_FOUND.
type AccountGetter interface {
	Get(ctx context.Context, id int64) (*domain.Account, error)
}

// SessionManager bridges the Redis session store and the session cookie.
type SessionManager struct {
	store      *session.Store
	accounts   AccountGetter
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager constructs the manager.
func NewSessionManager(store *session.Store, accounts AccountGetter, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{
		store:      store,
		accounts:   accounts,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL(),
		secure:     cfg.Secure,
	}
}

// Load returns the visitor's session, or nil when the cookie is absent or
// references a dead session.
func (m *SessionManager) Load(c *fiber.Ctx) (*session.Session, error) {
	sess, err := m.store.Get(c.UserContext(), c.Cookies(m.cookieName))
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return sess, nil
}

// Save persists the session and refreshes the cookie.
func (m *SessionManager) Save(c *fiber.Ctx, sess *session.Session) error {
	if err := m.store.Save(c.UserContext(), sess); err != nil {
		return util.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Destroy deletes the session and expires the cookie.
func (m *SessionManager) Destroy(c *fiber.Ctx) error {
	if id := c.Cookies(m.cookieName); id != "" {
		if err := m.store.Delete(c.UserContext(), id); err != nil {
			return util.NewInternalError(err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// RequireAuth rejects requests without a signed-in session and stores the
// session in request locals for downstream handlers. A session whose account
// no longer exists or was deactivated is destroyed on sight.
func (m *SessionManager) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.Load(c)
		if err != nil {
			return err
		}
		if !sess.Authenticated() {
			return util.NewUnauthorized("authentication required")
		}
		if _, err := m.accounts.Get(c.UserContext(), sess.AccountID); err != nil {
			if util.ToDomainError(err).Code == "NOT_FOUND" {
				if derr := m.Destroy(c); derr != nil {
					return derr
				}
				return util.NewUnauthorized("authentication required")
			}
			return err
		}
		c.Locals(sessionLocalsKey, sess)
		return c.Next()
	}
}

// SessionFrom returns the session stored by RequireAuth.
func SessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocalsKey).(*session.Session)
	return sess
}
