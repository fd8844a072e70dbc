package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PUZZ-INC/puzzle/internal/domain"
)

// VerificationRepository manages staged email verification requests.
type VerificationRepository interface {
	// Stage invalidates prior unconsumed requests for the email and inserts a
	// fresh one with a generated code, all in one transaction. The last
	// request created is the only authoritative one per email.
	Stage(ctx context.Context, email, handle, passwordHash string, ttl time.Duration) (*domain.VerificationRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error)
	Delete(ctx context.Context, id int64) error
}

type verificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository constructs repository.
func NewVerificationRepository(pool *pgxpool.Pool) VerificationRepository {
	return &verificationRepository{pool: pool}
}

func (r *verificationRepository) Stage(ctx context.Context, email, handle, passwordHash string, ttl time.Duration) (*domain.VerificationRequest, error) {
	code, err := domain.GenerateCode()
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM email_verifications WHERE email = $1 AND consumed = FALSE`, email,
	); err != nil {
		return nil, err
	}

	req := &domain.VerificationRequest{
		Email:        email,
		Code:         code,
		Handle:       handle,
		PasswordHash: passwordHash,
	}
	const insert = `
        INSERT INTO email_verifications (email, code, handle, password_hash, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, expires_at`
	if err := tx.QueryRow(ctx, insert,
		req.Email,
		req.Code,
		req.Handle,
		req.PasswordHash,
		time.Now().UTC().Add(ttl),
	).Scan(&req.ID, &req.CreatedAt, &req.ExpiresAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *verificationRepository) GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	const query = `
        SELECT id, email, code, handle, password_hash, created_at, expires_at, consumed
        FROM email_verifications WHERE id = $1`

	var req domain.VerificationRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.Email,
		&req.Code,
		&req.Handle,
		&req.PasswordHash,
		&req.CreatedAt,
		&req.ExpiresAt,
		&req.Consumed,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM email_verifications WHERE id = $1`, id)
	return err
}
