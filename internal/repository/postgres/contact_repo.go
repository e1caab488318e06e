package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"portfolio-contact-backend/internal/domain"
)

const contactColumns = `id, name, email, phone_number, message, created_at, is_read`

type contactRepo struct {
	db *pgxpool.Pool
}

// NewContactRepository returns the primary store. A nil pool makes every call
// fail with domain.ErrPrimaryStoreUnavailable.
func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, msg domain.ValidatedContact) (*domain.ContactRecord, error) {
	if r.db == nil {
		return nil, domain.ErrPrimaryStoreUnavailable
	}
	query := `INSERT INTO contact_messages (name, email, phone_number, message)
              VALUES ($1, $2, $3, $4)
              RETURNING ` + contactColumns
	rec, err := scanContact(r.db.QueryRow(ctx, query, msg.Name, msg.Email, msg.PhoneNumber, msg.Message))
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	return rec, nil
}

func (r *contactRepo) List(ctx context.Context) ([]domain.ContactRecord, error) {
	if r.db == nil {
		return nil, domain.ErrPrimaryStoreUnavailable
	}
	query := `SELECT ` + contactColumns + ` FROM contact_messages ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ContactRecord, 0)
	for rows.Next() {
		rec, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *contactRepo) GetByID(ctx context.Context, id int64) (*domain.ContactRecord, error) {
	if r.db == nil {
		return nil, domain.ErrPrimaryStoreUnavailable
	}
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`
	rec, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

func (r *contactRepo) UpdateReadStatus(ctx context.Context, id int64, isRead bool) (*domain.ContactRecord, error) {
	if r.db == nil {
		return nil, domain.ErrPrimaryStoreUnavailable
	}
	query := `UPDATE contact_messages SET is_read = $2 WHERE id = $1 RETURNING ` + contactColumns
	rec, err := scanContact(r.db.QueryRow(ctx, query, id, isRead))
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

func (r *contactRepo) MarkRead(ctx context.Context, ids []int64, isRead bool) (int64, error) {
	if r.db == nil {
		return 0, domain.ErrPrimaryStoreUnavailable
	}
	query := `UPDATE contact_messages SET is_read = $2 WHERE id = ANY($1::bigint[])`
	tag, err := r.db.Exec(ctx, query, pq.Array(ids), isRead)
	if err != nil {
		return 0, fmt.Errorf("mark contact messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *contactRepo) Delete(ctx context.Context, id int64) error {
	if r.db == nil {
		return domain.ErrPrimaryStoreUnavailable
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*domain.ContactRecord, error) {
	var (
		rec   domain.ContactRecord
		id    int64
		phone *string
	)
	if err := row.Scan(&id, &rec.Name, &rec.Email, &phone, &rec.Message, &rec.CreatedAt, &rec.IsRead); err != nil {
		return nil, err
	}
	rec.ID = &id
	if phone != nil {
		rec.PhoneNumber = *phone
	}
	rec.DBSaved = true
	return &rec, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
