package usecase

import (
	"time"

	"portfolio-contact-backend/internal/domain"
)

// SetStoreTimeout shortens the per-store write deadline of a contact usecase.
func SetStoreTimeout(uc domain.ContactUsecase, d time.Duration) {
	uc.(*contactUsecase).storeTimeout = d
}
