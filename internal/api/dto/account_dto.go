package dto

import (
	"time"

	"github.com/PUZZ-INC/puzzle/internal/domain"
)

// RegisterRequest payload for staging a registration.
type RegisterRequest struct {
	Handle          string `json:"handle"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Email           string `json:"email"`
}

// VerifyRequest payload carrying the emailed code.
type VerifyRequest struct {
	Code string `json:"code"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// VerificationStagedResponse acknowledges a staged registration.
type VerificationStagedResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Message   string    `json:"message"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	BirthDate string    `json:"birth_date,omitempty"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse maps the domain account, never exposing the password hash.
func NewAccountResponse(a *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:        a.ID,
		Handle:    a.Handle,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Bio:       a.Bio,
		Phone:     a.Phone,
		City:      a.City,
		AvatarURL: a.AvatarURL,
		CreatedAt: a.CreatedAt,
	}
	if a.BirthDate != nil {
		resp.BirthDate = a.BirthDate.Format("2006-01-02")
	}
	return resp
}
