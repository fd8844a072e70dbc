package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/PUZZ-INC/puzzle/internal/api/http"
	"github.com/PUZZ-INC/puzzle/internal/api/http/handlers"
	"github.com/PUZZ-INC/puzzle/internal/config"
	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/observability"
	"github.com/PUZZ-INC/puzzle/internal/session"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const testCookieName = "puzzle_sid"

type fakeAccounts struct {
	byID map[int64]*domain.Account
}

func (f *fakeAccounts) Get(_ context.Context, id int64) (*domain.Account, error) {
	account, ok := f.byID[id]
	if !ok {
		return nil, util.NewNotFound("account", map[string]any{"account_id": id})
	}
	return account, nil
}

type managerFixture struct {
	app      *fiber.App
	store    *session.Store
	redis    *miniredis.Miniredis
	accounts *fakeAccounts
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := session.NewStore(rdb, time.Hour)
	accounts := &fakeAccounts{byID: map[int64]*domain.Account{}}
	mgr := handlers.NewSessionManager(store, accounts, config.SessionConfig{
		CookieName: testCookieName,
		TTLMinutes: 60,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/private", mgr.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return &managerFixture{app: app, store: store, redis: mr, accounts: accounts}
}

func (f *managerFixture) signedInRequest(t *testing.T, accountID int64) (*http.Request, *session.Session) {
	t.Helper()
	sess := &session.Session{AccountID: accountID, Handle: "alice"}
	require.NoError(t, f.store.Save(context.Background(), sess))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: sess.ID})
	return req, sess
}

func TestRequireAuthAdmitsLiveAccount(t *testing.T) {
	f := newManagerFixture(t)
	f.accounts.byID[7] = &domain.Account{ID: 7, Handle: "alice", Active: true}

	req, _ := f.signedInRequest(t, 7)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAuthRejectsMissingSession(t *testing.T) {
	f := newManagerFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// A session whose account vanished or was deactivated must be destroyed, not
// kept alive until its TTL runs out.
func TestRequireAuthDestroysSessionForDeadAccount(t *testing.T) {
	f := newManagerFixture(t)

	req, sess := f.signedInRequest(t, 7)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.False(t, f.redis.Exists("sess:"+sess.ID))
	_, err = f.store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
