package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles persistence of audit events to the audit_events table
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository for audit events
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// PersistEvent inserts an audit event into the database
func (r *Repository) PersistEvent(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (
			event_type, service, environment, severity,
			subject_type, subject_value, ip_address, user_agent,
			request_id, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var detailsJSON []byte
	if len(event.Details) > 0 {
		detailsJSON, _ = json.Marshal(event.Details)
	} else {
		detailsJSON = []byte("null")
	}

	// Handle IP address - use nil for empty strings
	var ipAddr interface{}
	if event.IP != "" {
		ipAddr = event.IP
	}

	_, err := r.db.Exec(ctx, query,
		string(event.Event),
		event.Service,
		event.Environment,
		string(event.Severity),
		event.SubjectType,
		event.SubjectValue,
		ipAddr,
		event.UserAgent,
		event.RequestID,
		detailsJSON,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to persist audit event: %w", err)
	}
	return nil
}

// CreatePersistFunc creates a persist function for the Logger
func (r *Repository) CreatePersistFunc() func(context.Context, Event) error {
	return r.PersistEvent
}
