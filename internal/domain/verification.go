package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 4

// VerificationRequest stages a registration until its email code is confirmed.
type VerificationRequest struct {
	ID           int64
	Email        string
	Code         string
	Handle       string
	PasswordHash string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Consumed     bool
}

// Expired reports whether the code is past its expiry.
func (v *VerificationRequest) Expired(now time.Time) bool {
	return now.UTC().After(v.ExpiresAt)
}

// Matches reports whether the entered code can consume this request.
func (v *VerificationRequest) Matches(code string, now time.Time) bool {
	return !v.Expired(now) && !v.Consumed && v.Code == code
}

// GenerateCode returns four independent uniform random digits. Codes are not
// unique across outstanding requests; lookup is by request id.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
