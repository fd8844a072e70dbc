package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/api/dto"
	"github.com/PUZZ-INC/puzzle/internal/service"
	"github.com/PUZZ-INC/puzzle/internal/session"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *SessionManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *SessionManager) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// Login handles POST /api/auth/login. A fresh session id is issued on every
// successful login; any prior session for the cookie is discarded.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Handle == "" || req.Password == "" {
		return util.NewValidationError("handle and password required", nil)
	}

	existing, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if existing.Authenticated() {
		return util.NewConflict("already signed in", nil)
	}

	account, err := h.auth.Login(c.UserContext(), req.Handle, req.Password, requestMeta(c))
	if err != nil {
		return err
	}

	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	sess := &session.Session{AccountID: account.ID, Handle: account.Handle}
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewAccountResponse(account),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := SessionFrom(c)
	h.auth.Logout(c.UserContext(), sess.AccountID, sess.Handle, requestMeta(c))
	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"status": "signed_out"},
	})
}
