package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"portfolio-contact-backend/internal/domain"
)

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg domain.ValidatedContact) (*domain.ContactRecord, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactRecord), args.Error(1)
}

func (m *MockContactRepo) List(ctx context.Context) ([]domain.ContactRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactRecord), args.Error(1)
}

func (m *MockContactRepo) GetByID(ctx context.Context, id int64) (*domain.ContactRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactRecord), args.Error(1)
}

func (m *MockContactRepo) UpdateReadStatus(ctx context.Context, id int64, isRead bool) (*domain.ContactRecord, error) {
	args := m.Called(ctx, id, isRead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactRecord), args.Error(1)
}

func (m *MockContactRepo) MarkRead(ctx context.Context, ids []int64, isRead bool) (int64, error) {
	args := m.Called(ctx, ids, isRead)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockBackupStore struct {
	mock.Mock
}

func (m *MockBackupStore) Append(ctx context.Context, rec domain.ContactRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type MockAdminUserRepo struct {
	mock.Mock
}

func (m *MockAdminUserRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(adminID int64, username string) (string, error) {
	args := m.Called(adminID, username)
	return args.String(0), args.Error(1)
}

// recordingNotifier captures dispatched records.
type recordingNotifier struct {
	mu      sync.Mutex
	records []domain.ContactRecord
	panic   bool
}

func (n *recordingNotifier) Dispatch(rec domain.ContactRecord) {
	if n.panic {
		panic("notifier exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rec)
}

func (n *recordingNotifier) dispatched() []domain.ContactRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.ContactRecord(nil), n.records...)
}

func adminContext(username string) context.Context {
	return context.WithValue(context.Background(), domain.KeyAdminUsername, username)
}
