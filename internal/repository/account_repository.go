package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PUZZ-INC/puzzle/internal/domain"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const accountColumns = `id, handle, password_hash, email, first_name, last_name,
        bio, phone, city, birth_date, avatar_url, is_active, created_at, updated_at`

// AccountRepository defines persistence access for player accounts.
type AccountRepository interface {
	CreateFromVerification(ctx context.Context, req *domain.VerificationRequest) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// CreateFromVerification consumes the staged request and materializes the
// account in a single transaction. Consuming an already consumed request
// fails, so a second submission cannot create a second account.
func (r *accountRepository) CreateFromVerification(ctx context.Context, req *domain.VerificationRequest) (*domain.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx,
		`UPDATE email_verifications SET consumed = TRUE WHERE id = $1 AND consumed = FALSE`,
		req.ID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, util.NewConflict("verification already consumed", map[string]any{"verification_id": req.ID})
	}

	account := &domain.Account{
		Handle:       req.Handle,
		PasswordHash: req.PasswordHash,
		Email:        req.Email,
	}
	const insert = `
        INSERT INTO accounts (handle, password_hash, email)
        VALUES ($1, $2, $3)
        RETURNING id, is_active, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		account.Handle,
		account.PasswordHash,
		account.Email,
	).Scan(&account.ID, &account.Active, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, mapHandleConflict(err, account.Handle)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	req.Consumed = true
	return account, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE handle = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, handle))
}

func (r *accountRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE handle = $1)`, handle,
	).Scan(&exists)
	return exists, err
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, profile domain.Profile) (*domain.Account, error) {
	const query = `
        UPDATE accounts
        SET first_name = $1, last_name = $2, bio = $3, phone = $4, city = $5,
            birth_date = $6, avatar_url = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING ` + accountColumns

	return r.scanAccount(r.pool.QueryRow(ctx, query,
		profile.FirstName,
		profile.LastName,
		profile.Bio,
		profile.Phone,
		profile.City,
		profile.BirthDate,
		profile.AvatarURL,
		id,
	))
}

func (r *accountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Handle,
		&account.PasswordHash,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Bio,
		&account.Phone,
		&account.City,
		&account.BirthDate,
		&account.AvatarURL,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func mapHandleConflict(err error, handle string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return util.NewDuplicateHandle(handle)
	}
	return err
}
