package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/api/dto"
	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/service"
	"github.com/PUZZ-INC/puzzle/internal/session"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

// SignupHandler exposes the two-phase registration flow. The staged
// verification id lives only in the visitor's session, never in the response.
type SignupHandler struct {
	signup   *service.SignupService
	sessions *SessionManager
}

// NewSignupHandler constructs handler.
func NewSignupHandler(signup *service.SignupService, sessions *SessionManager) *SignupHandler {
	return &SignupHandler{signup: signup, sessions: sessions}
}

// Register handles POST /api/auth/register.
func (h *SignupHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if sess.Authenticated() {
		return util.NewConflict("already signed in", nil)
	}

	staged, err := h.signup.Register(c.UserContext(), service.RegisterInput{
		Handle:          req.Handle,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Email:           req.Email,
	})
	if err != nil {
		return err
	}

	if sess == nil {
		sess = &session.Session{}
	}
	sess.VerificationID = staged.ID
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.VerificationStagedResponse{
			Email:     staged.Email,
			ExpiresAt: staged.ExpiresAt,
			Message:   "verification code sent",
		},
	})
}

// Verify handles POST /api/auth/verify. On success the visitor is signed in;
// on an expired or missing request the pending state is dropped so the next
// attempt starts from scratch.
func (h *SignupHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if sess == nil || sess.VerificationID == 0 {
		return util.NewNotFound("verification request", nil)
	}

	account, err := h.signup.VerifyCode(c.UserContext(), sess.VerificationID, req.Code, requestMeta(c))
	if err != nil {
		if isRestartable(err) {
			sess.VerificationID = 0
			_ = h.sessions.Save(c, sess)
		}
		return err
	}

	sess.VerificationID = 0
	sess.AccountID = account.ID
	sess.Handle = account.Handle
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewAccountResponse(account),
	})
}

// isRestartable reports whether the verification attempt left nothing to
// retry against.
func isRestartable(err error) bool {
	code := util.ToDomainError(err).Code
	return code == "EXPIRED_CODE" || code == "NOT_FOUND" || code == "CONFLICT"
}

func requestMeta(c *fiber.Ctx) events.RequestMeta {
	return events.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
