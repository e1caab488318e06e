package domain

import (
	"context"
	"time"
)

// AdminUser is an operator allowed to read and manage contact messages.
type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type UpdateReadRequest struct {
	IsRead bool `json:"is_read"`
}

type BulkReadRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	IsRead bool    `json:"is_read"`
}

type ContactMessageList struct {
	Count   int             `json:"count"`
	Results []ContactRecord `json:"results"`
}

type AdminUserRepository interface {
	GetByUsername(ctx context.Context, username string) (*AdminUser, error)
	Create(ctx context.Context, user *AdminUser) error
}

type AuthUsecase interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
}

// AdminUsecase covers the operator-only message management endpoints.
type AdminUsecase interface {
	ListMessages(ctx context.Context) (*ContactMessageList, error)
	GetMessage(ctx context.Context, id int64) (*ContactRecord, error)
	SetRead(ctx context.Context, id int64, isRead bool) (*ContactRecord, error)
	BulkSetRead(ctx context.Context, ids []int64, isRead bool) (int64, error)
	DeleteMessage(ctx context.Context, id int64) error
}
