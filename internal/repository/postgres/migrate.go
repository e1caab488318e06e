package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id           BIGSERIAL PRIMARY KEY,
		name         VARCHAR(255) NOT NULL,
		email        VARCHAR(254) NOT NULL,
		phone_number VARCHAR(30),
		message      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_read      BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(150) NOT NULL UNIQUE,
		email         VARCHAR(254) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id            BIGSERIAL PRIMARY KEY,
		event_type    VARCHAR(64) NOT NULL,
		service       VARCHAR(128) NOT NULL,
		environment   VARCHAR(32) NOT NULL,
		severity      VARCHAR(16) NOT NULL,
		subject_type  VARCHAR(32),
		subject_value VARCHAR(255),
		ip_address    INET,
		user_agent    TEXT,
		request_id    VARCHAR(64),
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events (created_at DESC)`,
}

// AdminSeed describes the admin account created on first migration.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Migrate creates missing tables and seeds the admin user when seed has
// credentials and the username does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, seed AdminSeed) error {
	if pool == nil {
		return domain.ErrPrimaryStoreUnavailable
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Log.Info("Database schema is up to date")

	if seed.Username == "" || seed.Password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("migrate: hash admin password: %w", err)
	}
	admin := &domain.AdminUser{Username: seed.Username, Email: seed.Email, PasswordHash: string(hash)}
	if err := NewAdminUserRepository(pool).Create(ctx, admin); err != nil {
		return fmt.Errorf("migrate: seed admin: %w", err)
	}
	if admin.ID != 0 {
		logger.Log.Info("Seeded admin user", "username", admin.Username)
	}
	return nil
}
