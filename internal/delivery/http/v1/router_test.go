package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact-backend/config"
	v1 "portfolio-contact-backend/internal/delivery/http/v1"
	"portfolio-contact-backend/internal/repository/postgres"
	"portfolio-contact-backend/internal/usecase"
	"portfolio-contact-backend/pkg/auth"
	"portfolio-contact-backend/pkg/backup"
	"portfolio-contact-backend/pkg/email"
	"portfolio-contact-backend/pkg/validation"
)

type testServer struct {
	router     *gin.Engine
	backupPath string
	tokens     *auth.TokenManager
	notifier   *email.Notifier
}

// newTestServer wires the real pipeline without a database or mail
// transport, which is the degraded mode the service must survive.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		FrontendURL:              "https://portfolio.example.com",
		BackupPath:               filepath.Join(t.TempDir(), "contact_backups", "contact_messages.json"),
		DurabilityPolicy:         config.PolicyLenient,
		EmailTransport:           config.TransportUnconfigured,
		NotifyTimezone:           "UTC",
		NotifyTimeout:            time.Second,
		ContactRateLimit:         100,
		ContactRateWindowSeconds: 60,
	}

	contactRepo := postgres.NewContactRepository(nil)
	notifier := email.NewNotifier(cfg, nil, nil)
	tokens := auth.NewTokenManager("router-test-secret", time.Hour)

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: usecase.NewContactUsecase(contactRepo, backup.NewFileStore(cfg.BackupPath), notifier, validation.New(), nil, cfg.DurabilityPolicy),
		AuthUC:    usecase.NewAuthUsecase(postgres.NewAdminUserRepository(nil), tokens, nil, nil),
		AdminUC:   usecase.NewAdminUsecase(contactRepo, nil),
		HealthUC:  usecase.NewHealthUsecase(nil, string(notifier.Transport()), cfg.BackupPath),
		Tokens:    tokens,
		Config:    cfg,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifier.Wait(ctx)
	})

	return &testServer{router: router, backupPath: cfg.BackupPath, tokens: tokens, notifier: notifier}
}

func (s *testServer) do(method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestContactEndpoint(t *testing.T) {
	t.Run("Should accept a submission when the database is unavailable", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(http.MethodPost, "/v1/contact",
			`{"name":"Jo","email":"a@b.com","message":"1234567890"}`, nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["request_id"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, false, data["db_saved"])
		assert.Nil(t, data["id"])
		assert.Equal(t, "Jo", data["name"])

		entries, err := backup.Load(s.backupPath)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].DBSaved)
	})

	t.Run("Should accept the trailing slash route", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(http.MethodPost, "/v1/contact/",
			`{"name":"Jo","email":"a@b.com","phone_number":"+91 98765 43210","message":"1234567890"}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Should reject invalid fields with a field map", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(http.MethodPost, "/v1/contact",
			`{"name":"J","email":"a@b.com","message":"short"}`, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
		errs := body["errors"].(map[string]interface{})
		assert.Len(t, errs, 2)
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "message")

		_, err := os.Stat(s.backupPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(http.MethodPost, "/v1/contact", `{"name":`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body.", body["message"])
	})

	t.Run("Should reject oversized bodies", func(t *testing.T) {
		s := newTestServer(t)
		huge := `{"name":"Jo","email":"a@b.com","message":"` + strings.Repeat("x", 2<<20) + `"}`

		rec, _ := s.do(http.MethodPost, "/v1/contact", huge, nil)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodGet, "/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "not_configured", data["database"])
	assert.Equal(t, "unconfigured", data["email_transport"])

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("Should require a bearer token", func(t *testing.T) {
		rec, _ := s.do(http.MethodGet, "/v1/admin/contact-messages", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Should report the database as unavailable", func(t *testing.T) {
		token, err := s.tokens.Issue(1, "admin")
		require.NoError(t, err)
		auth := map[string]string{"Authorization": "Bearer " + token}

		rec, _ := s.do(http.MethodGet, "/v1/admin/contact-messages", "", auth)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		rec, _ = s.do(http.MethodGet, "/v1/admin/contact-messages/abc", "", auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should reject login without credentials", func(t *testing.T) {
		rec, _ := s.do(http.MethodPost, "/v1/admin/login", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should report login as unavailable without a database", func(t *testing.T) {
		rec, _ := s.do(http.MethodPost, "/v1/admin/login", `{"username":"admin","password":"x"}`, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
