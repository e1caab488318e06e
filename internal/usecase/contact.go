package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"

	"portfolio-contact-backend/config"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
	"portfolio-contact-backend/pkg/audit"
	"portfolio-contact-backend/pkg/logger"
	"portfolio-contact-backend/pkg/metrics"
	"portfolio-contact-backend/pkg/validation"
)

// storeTimeout bounds each store write once the request itself may be gone.
const storeTimeout = 10 * time.Second

type contactUsecase struct {
	repo         domain.ContactRepository
	backup       domain.BackupStore
	notifier     domain.Notifier
	validate     *validator.Validate
	audit        *audit.Logger
	policy       config.DurabilityPolicy
	now          func() time.Time
	storeTimeout time.Duration
}

// NewContactUsecase creates the submission pipeline
func NewContactUsecase(
	repo domain.ContactRepository,
	backup domain.BackupStore,
	notifier domain.Notifier,
	validate *validator.Validate,
	auditLog *audit.Logger,
	policy config.DurabilityPolicy,
) domain.ContactUsecase {
	return &contactUsecase{
		repo:         repo,
		backup:       backup,
		notifier:     notifier,
		validate:     validate,
		audit:        auditLog,
		policy:       policy,
		now:          time.Now,
		storeTimeout: storeTimeout,
	}
}

// Submit validates req, writes it to the primary store, always appends it to
// the backup log and dispatches the owner notification. Store and
// notification failures degrade the outcome but do not fail the request,
// unless the strict policy is active and neither store accepted it.
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest) (rec *domain.ContactRecord, err error) {
	requestID := domain.RequestIDFrom(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Contact pipeline panicked",
				"panic", r,
				"request_id", requestID,
				"stack", string(debug.Stack()),
			)
			uc.audit.InternalError(ctx, requestID, r)
			metrics.Submission(metrics.OutcomeError)
			rec, err = nil, apperror.Internal(fmt.Errorf("contact pipeline panic: %v", r))
		}
	}()

	if req == nil {
		req = &domain.ContactRequest{}
	}
	contact, fields := validation.ValidateContact(uc.validate, *req)
	if fields != nil {
		uc.audit.ContactRejected(ctx, requestID, fields)
		metrics.Submission(metrics.OutcomeRejected)
		return nil, apperror.Validation(fields)
	}
	uc.audit.ContactReceived(ctx, requestID, contact.Email)

	// A client that disconnects must not abort the writes. Each store gets its
	// own deadline so a hung primary store cannot starve the backup append.
	dbCtx, cancelDB := context.WithTimeout(context.WithoutCancel(ctx), uc.storeTimeout)
	record, dbErr := uc.persist(dbCtx, requestID, contact)
	cancelDB()

	backupCtx, cancelBackup := context.WithTimeout(context.WithoutCancel(ctx), uc.storeTimeout)
	backupErr := uc.backup.Append(backupCtx, record)
	cancelBackup()
	if backupErr != nil {
		logger.Log.Error("Failed to append contact message to backup log",
			"error", backupErr,
			"request_id", requestID,
			"db_saved", record.DBSaved,
		)
		uc.audit.BackupFailed(ctx, requestID, record.Email, record.DBSaved, backupErr)
	} else {
		uc.audit.BackupWritten(ctx, requestID, record.DBSaved)
	}
	metrics.StoreWrite(metrics.StoreBackup, backupErr == nil)

	uc.notifier.Dispatch(record)

	if dbErr != nil && backupErr != nil {
		logger.Log.Error("Contact message was not stored by any store",
			"request_id", requestID,
			"policy", string(uc.policy),
		)
		if uc.policy == config.PolicyStrict {
			metrics.Submission(metrics.OutcomeUnavailable)
			return nil, apperror.Unavailable(
				"Your message could not be saved. Please try again later.",
				errors.Join(dbErr, backupErr),
			)
		}
	}

	metrics.Submission(metrics.OutcomeAccepted)
	return &record, nil
}

// persist writes to the primary store. On failure it returns an unsaved
// record stamped with the attempt time together with the cause.
func (uc *contactUsecase) persist(ctx context.Context, requestID string, contact domain.ValidatedContact) (domain.ContactRecord, error) {
	attempt := uc.now().UTC()

	saved, err := uc.repo.Create(ctx, contact)
	if err == nil && (saved == nil || saved.ID == nil) {
		err = errors.New("primary store returned no record id")
	}
	if err != nil {
		logger.Log.Warn("Primary store write failed, relying on backup log",
			"error", err,
			"request_id", requestID,
		)
		uc.audit.PrimaryStoreFailed(ctx, requestID, contact.Email, err)
		metrics.StoreWrite(metrics.StorePrimary, false)
		return domain.ContactRecord{
			Name:        contact.Name,
			Email:       contact.Email,
			PhoneNumber: contact.PhoneNumber,
			Message:     contact.Message,
			CreatedAt:   attempt,
			DBSaved:     false,
		}, err
	}

	record := *saved
	record.DBSaved = true
	uc.audit.ContactPersisted(ctx, requestID, *record.ID)
	metrics.StoreWrite(metrics.StorePrimary, true)
	return record, nil
}
