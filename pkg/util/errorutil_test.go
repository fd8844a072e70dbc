package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	err := NewDuplicateHandle("alice")
	de := ToDomainError(err)
	assert.Equal(t, "DUPLICATE_HANDLE", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "alice", de.Details["handle"])
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	de := ToDomainError(cause)
	require.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.ErrorIs(t, de, cause)
	// the raw cause stays out of the client-facing message
	assert.Equal(t, "internal server error", de.Message)
}

func TestErrorTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewInvalidCode("wrong verification code"), "INVALID_CODE", http.StatusBadRequest},
		{NewExpiredCode(), "EXPIRED_CODE", http.StatusGone},
		{NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewNotFound("account", nil), "NOT_FOUND", http.StatusNotFound},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewMailDeliveryFailed("a@x.com"), "MAIL_DELIVERY_FAILED", http.StatusBadGateway},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.err)
		assert.Equal(t, tc.code, de.Code)
		assert.Equal(t, tc.status, de.HTTPStatus, tc.code)
	}
}
