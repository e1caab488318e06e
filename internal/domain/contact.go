package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPrimaryStoreUnavailable is returned by the primary store when no database is configured.
	ErrPrimaryStoreUnavailable = errors.New("primary store unavailable")
	ErrNotFound                = errors.New("not found")
)

// ContactRequest represents a contact form submission as sent by the client.
type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// ValidatedContact is a trimmed ContactRequest that passed every field rule.
type ValidatedContact struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,max=254,email"`
	PhoneNumber string `json:"phone_number" validate:"max=30"`
	Message     string `json:"message" validate:"required,min=10,max=5000"`
}

// ContactRecord is the canonical record of one submission. DBSaved implies
// ID is set and CreatedAt came from the database.
type ContactRecord struct {
	ID          *int64    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	DBSaved     bool      `json:"db_saved"`
	IsRead      bool      `json:"is_read"`
}

// BackupEntry is one element of the JSON backup log.
type BackupEntry struct {
	ContactRecord
	BackupTimestamp time.Time `json:"backup_timestamp"`
}

// ContactRepository is the primary store for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg ValidatedContact) (*ContactRecord, error)
	List(ctx context.Context) ([]ContactRecord, error)
	GetByID(ctx context.Context, id int64) (*ContactRecord, error)
	UpdateReadStatus(ctx context.Context, id int64, isRead bool) (*ContactRecord, error)
	MarkRead(ctx context.Context, ids []int64, isRead bool) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// BackupStore is the append-only fallback log.
type BackupStore interface {
	Append(ctx context.Context, rec ContactRecord) error
}

// Notifier sends best-effort notifications. Dispatch must not block on delivery.
type Notifier interface {
	Dispatch(rec ContactRecord)
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit runs the durability pipeline for one submission
	Submit(ctx context.Context, req *ContactRequest) (*ContactRecord, error)
}
