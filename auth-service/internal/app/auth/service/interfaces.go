package service

import (
	"context"

	"sweetshop/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
	ValidateToken(ctx context.Context, accessToken string) (*entity.TokenValidationResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
