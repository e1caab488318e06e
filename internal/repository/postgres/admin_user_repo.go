package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-contact-backend/internal/domain"
)

type adminUserRepo struct {
	db *pgxpool.Pool
}

func NewAdminUserRepository(db *pgxpool.Pool) domain.AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	if r.db == nil {
		return nil, domain.ErrPrimaryStoreUnavailable
	}
	query := `SELECT id, username, email, password_hash, created_at FROM admin_users WHERE username = $1`
	var u domain.AdminUser
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Create inserts the admin unless the username is already taken, in which
// case it is left untouched.
func (r *adminUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	if r.db == nil {
		return domain.ErrPrimaryStoreUnavailable
	}
	query := `INSERT INTO admin_users (username, email, password_hash)
              VALUES ($1, $2, $3)
              ON CONFLICT (username) DO NOTHING
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}
