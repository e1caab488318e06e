package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/internal/usecase"
	"portfolio-contact-backend/pkg/apperror"
	"portfolio-contact-backend/pkg/auth"
)

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.AdminUser{ID: 1, Username: "admin", PasswordHash: string(hash)}

	t.Run("Should issue a token for valid credentials", func(t *testing.T) {
		repo := new(MockAdminUserRepo)
		tokens := new(MockTokenIssuer)
		repo.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
		tokens.On("Issue", int64(1), "admin").Return("signed-token", nil)
		uc := usecase.NewAuthUsecase(repo, tokens, nil, nil)

		resp, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "s3cret-pass"})

		require.NoError(t, err)
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "admin", resp.Username)
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		repo := new(MockAdminUserRepo)
		tokens := new(MockTokenIssuer)
		repo.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
		uc := usecase.NewAuthUsecase(repo, tokens, nil, nil)

		_, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "wrong"})

		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("Should give the same answer for unknown users", func(t *testing.T) {
		repo := new(MockAdminUserRepo)
		repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
		uc := usecase.NewAuthUsecase(repo, new(MockTokenIssuer), nil, nil)

		_, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "ghost", Password: "whatever"})

		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
		assert.Equal(t, "Invalid credentials.", err.Error())
	})

	t.Run("Should lock out a username after repeated failures", func(t *testing.T) {
		s, err := miniredis.Run()
		require.NoError(t, err)
		defer s.Close()
		client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
		defer client.Close()

		repo := new(MockAdminUserRepo)
		tokens := new(MockTokenIssuer)
		repo.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
		guard := auth.NewLoginTracker(client, auth.LoginTrackerConfig{MaxAttempts: 2})
		uc := usecase.NewAuthUsecase(repo, tokens, guard, nil)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			_, err := uc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "wrong"})
			assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
		}

		_, err = uc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "s3cret-pass"})
		assert.Equal(t, http.StatusTooManyRequests, appCode(t, err))
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("Should report 503 when the database is down", func(t *testing.T) {
		repo := new(MockAdminUserRepo)
		repo.On("GetByUsername", mock.Anything, "admin").Return(nil, domain.ErrPrimaryStoreUnavailable)
		uc := usecase.NewAuthUsecase(repo, new(MockTokenIssuer), nil, nil)

		_, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "x"})

		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
	})
}

func TestAdminMessages(t *testing.T) {
	t.Run("Should require an authenticated admin", func(t *testing.T) {
		repo := new(MockContactRepo)
		uc := usecase.NewAdminUsecase(repo, nil)

		_, err := uc.ListMessages(context.Background())

		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
		repo.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("Should list messages with a count", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("List", mock.Anything).Return([]domain.ContactRecord{*savedRecord(2), *savedRecord(1)}, nil)
		uc := usecase.NewAdminUsecase(repo, nil)

		list, err := uc.ListMessages(adminContext("admin"))

		require.NoError(t, err)
		assert.Equal(t, 2, list.Count)
		assert.Equal(t, int64(2), *list.Results[0].ID)
	})

	t.Run("Should map missing messages to 404", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)
		repo.On("Delete", mock.Anything, int64(99)).Return(domain.ErrNotFound)
		uc := usecase.NewAdminUsecase(repo, nil)

		_, err := uc.GetMessage(adminContext("admin"), 99)
		assert.Equal(t, http.StatusNotFound, appCode(t, err))

		err = uc.DeleteMessage(adminContext("admin"), 99)
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})

	t.Run("Should update read status", func(t *testing.T) {
		repo := new(MockContactRepo)
		updated := savedRecord(5)
		updated.IsRead = true
		repo.On("UpdateReadStatus", mock.Anything, int64(5), true).Return(updated, nil)
		uc := usecase.NewAdminUsecase(repo, nil)

		rec, err := uc.SetRead(adminContext("admin"), 5, true)

		require.NoError(t, err)
		assert.True(t, rec.IsRead)
	})

	t.Run("Should bulk mark messages", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("MarkRead", mock.Anything, []int64{1, 2, 3}, true).Return(int64(3), nil)
		uc := usecase.NewAdminUsecase(repo, nil)

		n, err := uc.BulkSetRead(adminContext("admin"), []int64{1, 2, 3}, true)

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("Should reject an empty bulk update", func(t *testing.T) {
		uc := usecase.NewAdminUsecase(new(MockContactRepo), nil)

		_, err := uc.BulkSetRead(adminContext("admin"), nil, true)

		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should hide unexpected store errors", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("List", mock.Anything).Return(nil, errors.New("syntax error at or near"))
		uc := usecase.NewAdminUsecase(repo, nil)

		_, err := uc.ListMessages(adminContext("admin"))

		assert.Equal(t, http.StatusInternalServerError, appCode(t, err))
		assert.NotContains(t, err.Error(), "syntax")
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Should report database states", func(t *testing.T) {
		down := usecase.NewHealthUsecase(func(ctx context.Context) error { return errors.New("down") }, "smtp", "b.json")
		assert.Equal(t, "unavailable", down.Check(context.Background())["database"])

		up := usecase.NewHealthUsecase(func(ctx context.Context) error { return nil }, "smtp", "b.json")
		status := up.Check(context.Background())
		assert.Equal(t, "ok", status["database"])
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "smtp", status["email_transport"])

		none := usecase.NewHealthUsecase(nil, "unconfigured", "b.json")
		assert.Equal(t, "not_configured", none.Check(context.Background())["database"])
	})
}
