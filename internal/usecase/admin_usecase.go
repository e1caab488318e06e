package usecase

import (
	"context"
	"errors"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
	"portfolio-contact-backend/pkg/audit"
)

type adminUsecase struct {
	contactRepo domain.ContactRepository
	audit       *audit.Logger
}

func NewAdminUsecase(contactRepo domain.ContactRepository, auditLog *audit.Logger) domain.AdminUsecase {
	return &adminUsecase{contactRepo: contactRepo, audit: auditLog}
}

// ListMessages returns every stored message, newest first
func (u *adminUsecase) ListMessages(ctx context.Context) (*domain.ContactMessageList, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	records, err := u.contactRepo.List(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &domain.ContactMessageList{Count: len(records), Results: records}, nil
}

func (u *adminUsecase) GetMessage(ctx context.Context, id int64) (*domain.ContactRecord, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	rec, err := u.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return rec, nil
}

func (u *adminUsecase) SetRead(ctx context.Context, id int64, isRead bool) (*domain.ContactRecord, error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := u.contactRepo.UpdateReadStatus(ctx, id, isRead)
	if err != nil {
		return nil, mapStoreError(err)
	}
	u.audit.ContactUpdated(ctx, admin, []int64{id}, isRead)
	return rec, nil
}

// BulkSetRead updates the read flag on every listed message and returns how
// many rows changed.
func (u *adminUsecase) BulkSetRead(ctx context.Context, ids []int64, isRead bool) (int64, error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperror.BadRequest("No message ids provided.")
	}

	updated, err := u.contactRepo.MarkRead(ctx, ids, isRead)
	if err != nil {
		return 0, mapStoreError(err)
	}
	u.audit.ContactUpdated(ctx, admin, ids, isRead)
	return updated, nil
}

func (u *adminUsecase) DeleteMessage(ctx context.Context, id int64) error {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	if err := u.contactRepo.Delete(ctx, id); err != nil {
		return mapStoreError(err)
	}
	u.audit.ContactDeleted(ctx, admin, id)
	return nil
}

// requireAdmin returns the authenticated admin username from ctx.
func requireAdmin(ctx context.Context) (string, error) {
	username, _ := ctx.Value(domain.KeyAdminUsername).(string)
	if username == "" {
		return "", apperror.Unauthorized("Authentication required.")
	}
	return username, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Message not found.")
	case errors.Is(err, domain.ErrPrimaryStoreUnavailable):
		return apperror.Unavailable("The message database is unavailable.", err)
	default:
		return apperror.Internal(err)
	}
}
