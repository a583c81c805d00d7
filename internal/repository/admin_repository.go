package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

// AdminRepository stores accounts for the admin HTTP API.
type AdminRepository interface {
	Create(ctx context.Context, account *domain.AdminAccount) error
	GetByUsername(ctx context.Context, username string) (*domain.AdminAccount, error)
	Count(ctx context.Context) (int, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, account *domain.AdminAccount) error {
	const query = `
        INSERT INTO admin_accounts (username, display_name, password_hash)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		account.Username,
		account.DisplayName,
		account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	const query = `
        SELECT id, username, display_name, password_hash, created_at
        FROM admin_accounts WHERE username=$1`
	var account domain.AdminAccount
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.DisplayName,
		&account.PasswordHash,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_accounts`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
