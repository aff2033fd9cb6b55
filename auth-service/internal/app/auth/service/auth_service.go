package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sweetshop/auth-service/internal/app/auth/entity"
	"sweetshop/auth-service/internal/app/auth/repository"
	"sweetshop/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

// AuthService обрабатывает бизнес-логику аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
	}
}

// Register регистрирует нового пользователя с ролью user
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	if err := util.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         entity.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	// Уникальность email гарантирует индекс, предварительная
	// проверка существования только создала бы гонку
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{User: *user, Tokens: *tokens}, nil
}

// Login выполняет вход пользователя
// Неизвестный email и неверный пароль дают одинаковую ошибку,
// чтобы по ответу нельзя было перебирать зарегистрированные адреса
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{User: *user, Tokens: *tokens}, nil
}

// RefreshToken обменивает refresh токен на новую пару токенов
// Токен одноразовый: удаляется до выдачи новой пары
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout отзывает access токен и удаляет все refresh токены пользователя
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err == nil {
		if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	return nil
}

// ValidateToken проверяет access токен с учетом черного списка
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (*entity.TokenValidationResponse, error) {
	isBlacklisted, err := s.tokenRepo.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, ErrInvalidToken
	}

	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	return &entity.TokenValidationResponse{
		Valid:     true,
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetCurrentUser получает профиль текущего пользователя
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// issueTokens генерирует пару токенов и сохраняет refresh токен
func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}
