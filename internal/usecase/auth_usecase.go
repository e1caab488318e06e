package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
	"portfolio-contact-backend/pkg/audit"
	"portfolio-contact-backend/pkg/logger"
)

// TokenIssuer signs access tokens for authenticated admins.
type TokenIssuer interface {
	Issue(adminID int64, username string) (string, error)
}

// LoginGuard tracks failed logins per username. Errors from a guard never
// block a login; the guard fails open.
type LoginGuard interface {
	IsBlocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) (attempts int, blocked bool, err error)
	Reset(ctx context.Context, username string) error
	BlockDuration() time.Duration
}

// dummyHash is compared against when the username is unknown so both paths
// cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type authUsecase struct {
	adminRepo domain.AdminUserRepository
	tokens    TokenIssuer
	guard     LoginGuard
	audit     *audit.Logger
}

// NewAuthUsecase builds the login flow. guard may be nil.
func NewAuthUsecase(adminRepo domain.AdminUserRepository, tokens TokenIssuer, guard LoginGuard, auditLog *audit.Logger) domain.AuthUsecase {
	return &authUsecase{adminRepo: adminRepo, tokens: tokens, guard: guard, audit: auditLog}
}

// Login checks the admin password and returns a signed access token.
func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	requestID := domain.RequestIDFrom(ctx)

	if u.blocked(ctx, req.Username) {
		u.audit.AdminLoginFailed(ctx, req.Username, requestID, "blocked")
		return nil, apperror.New(http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil)
	}

	admin, err := u.adminRepo.GetByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, domain.ErrPrimaryStoreUnavailable):
		return nil, apperror.Unavailable("Admin login is unavailable while the database is down.", err)
	case errors.Is(err, domain.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		u.audit.AdminLoginFailed(ctx, req.Username, requestID, "unknown_user")
		u.recordFailure(ctx, req.Username, requestID)
		return nil, apperror.Unauthorized("Invalid credentials.")
	case err != nil:
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		u.audit.AdminLoginFailed(ctx, req.Username, requestID, "bad_password")
		u.recordFailure(ctx, req.Username, requestID)
		return nil, apperror.Unauthorized("Invalid credentials.")
	}

	token, err := u.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		logger.Log.Error("Failed to issue admin token", "error", err)
		return nil, apperror.Internal(err)
	}

	if u.guard != nil {
		if err := u.guard.Reset(ctx, req.Username); err != nil {
			logger.Log.Warn("Failed to clear login failures", "error", err)
		}
	}

	u.audit.AdminLoginSuccess(ctx, admin.Username, requestID)
	return &domain.LoginResponse{Token: token, Username: admin.Username}, nil
}

func (u *authUsecase) blocked(ctx context.Context, username string) bool {
	if u.guard == nil {
		return false
	}
	blocked, err := u.guard.IsBlocked(ctx, username)
	if err != nil {
		logger.Log.Warn("Login block check failed", "error", err)
		return false
	}
	return blocked
}

func (u *authUsecase) recordFailure(ctx context.Context, username, requestID string) {
	if u.guard == nil {
		return
	}
	attempts, blocked, err := u.guard.RecordFailure(ctx, username)
	if err != nil {
		logger.Log.Warn("Failed to record login failure", "error", err)
		return
	}
	if blocked {
		u.audit.AdminLoginBlocked(ctx, username, requestID, attempts, u.guard.BlockDuration())
	}
}
