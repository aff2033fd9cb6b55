package service

import (
	"context"
	"testing"
	"time"

	"sweetshop/auth-service/internal/app/auth/entity"
	"sweetshop/auth-service/internal/app/auth/repository"
	"sweetshop/auth-service/internal/app/auth/repository/mocks"
	"sweetshop/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthServiceWithMocks() (*AuthService, *mocks.MockUserRepository, *mocks.MockTokenRepository) {
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(userRepo, tokenRepo, jwtManager), userRepo, tokenRepo
}

func testUser() *entity.User {
	hash, _ := util.HashPassword("Str0ng!pass")
	return &entity.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		Role:         entity.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

// ===================== Register Tests =====================

func TestRegister_Success(t *testing.T) {
	// Arrange
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	req := &entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "Str0ng!pass",
		Name:     "New User",
	}

	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "new@example.com" && u.Role == entity.RoleUser && u.PasswordHash != "Str0ng!pass"
	})).Return(nil)
	tokenRepo.On("SaveRefreshToken", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	resp, err := service.Register(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, entity.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.Tokens.ExpiresIn)
	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	req := &entity.RegisterRequest{
		Email:    "taken@example.com",
		Password: "Str0ng!pass",
		Name:     "Someone",
	}

	userRepo.On("Create", ctx, mock.Anything).Return(repository.ErrEmailTaken)

	_, err := service.Register(ctx, req)

	assert.ErrorIs(t, err, ErrUserExists)
	tokenRepo.AssertNotCalled(t, "SaveRefreshToken")
}

func TestRegister_WeakPassword(t *testing.T) {
	service, userRepo, _ := newAuthServiceWithMocks()
	ctx := context.Background()

	weak := []string{
		"alllower1!",
		"ALLUPPER1!",
		"NoDigits!!",
		"NoSpecial1",
		"Ab1!",
	}

	for _, password := range weak {
		_, err := service.Register(ctx, &entity.RegisterRequest{
			Email:    "user@example.com",
			Password: password,
			Name:     "User",
		})
		assert.ErrorIs(t, err, ErrWeakPassword, "password %q", password)
	}

	userRepo.AssertNotCalled(t, "Create")
}

// ===================== Login Tests =====================

func TestLogin_Success(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
	tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "Str0ng!pass",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

	_, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokenRepo.AssertNotCalled(t, "SaveRefreshToken")
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, userRepo, _ := newAuthServiceWithMocks()
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Str0ng!pass",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ErrorsAreIndistinguishable(t *testing.T) {
	// Неизвестный email и неверный пароль дают одну и ту же ошибку
	service, userRepo, _ := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound)
	userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

	_, errUnknown := service.Login(ctx, &entity.LoginRequest{Email: "ghost@example.com", Password: "Str0ng!pass"})
	_, errWrongPass := service.Login(ctx, &entity.LoginRequest{Email: "user@example.com", Password: "bad-password"})

	assert.Equal(t, errUnknown, errWrongPass)
}

// ===================== RefreshToken Tests =====================

func TestRefreshToken_Success(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	stored := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     "old-refresh-token",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	tokenRepo.On("GetRefreshToken", ctx, "old-refresh-token").Return(stored, nil)
	tokenRepo.On("DeleteRefreshToken", ctx, "old-refresh-token").Return(nil)
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)

	tokens, err := service.RefreshToken(ctx, "old-refresh-token")

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, "old-refresh-token", tokens.RefreshToken)
	// Использованный токен удален до выдачи нового
	tokenRepo.AssertCalled(t, "DeleteRefreshToken", ctx, "old-refresh-token")
}

func TestRefreshToken_Unknown(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	tokenRepo.On("GetRefreshToken", ctx, "unknown-token").Return(nil, repository.ErrNotFound)

	_, err := service.RefreshToken(ctx, "unknown-token")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	tokenRepo.AssertNotCalled(t, "SaveRefreshToken")
}

func TestRefreshToken_SingleUse(t *testing.T) {
	// Второе использование того же токена должно быть отвергнуто:
	// после первого обмена токен удален из хранилища
	service, userRepo, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	stored := &entity.RefreshToken{UserID: user.ID, Token: "one-shot", ExpiresAt: time.Now().Add(time.Hour)}

	tokenRepo.On("GetRefreshToken", ctx, "one-shot").Return(stored, nil).Once()
	tokenRepo.On("DeleteRefreshToken", ctx, "one-shot").Return(nil).Once()
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)
	tokenRepo.On("GetRefreshToken", ctx, "one-shot").Return(nil, repository.ErrNotFound)

	_, err := service.RefreshToken(ctx, "one-shot")
	require.NoError(t, err)

	_, err = service.RefreshToken(ctx, "one-shot")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

// ===================== Logout Tests =====================

func TestLogout_Success(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	userID := uuid.New()

	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	accessToken, err := jwtManager.GenerateAccessToken(userID, "user@example.com", "user")
	require.NoError(t, err)

	tokenRepo.On("AddToBlacklist", ctx, accessToken, mock.Anything).Return(nil)
	tokenRepo.On("DeleteUserRefreshTokens", ctx, userID).Return(nil)

	err = service.Logout(ctx, userID, accessToken)

	assert.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}

func TestLogout_InvalidTokenStillDeletesRefreshTokens(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	userID := uuid.New()

	tokenRepo.On("DeleteUserRefreshTokens", ctx, userID).Return(nil)

	err := service.Logout(ctx, userID, "garbage-token")

	assert.NoError(t, err)
	tokenRepo.AssertNotCalled(t, "AddToBlacklist")
	tokenRepo.AssertCalled(t, "DeleteUserRefreshTokens", ctx, userID)
}

// ===================== ValidateToken Tests =====================

func TestValidateToken_Success(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()
	userID := uuid.New()

	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	accessToken, err := jwtManager.GenerateAccessToken(userID, "user@example.com", "admin")
	require.NoError(t, err)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(false, nil)

	resp, err := service.ValidateToken(ctx, accessToken)

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "user@example.com", resp.Email)
	assert.Equal(t, "admin", resp.Role)
}

func TestValidateToken_Blacklisted(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	accessToken, err := jwtManager.GenerateAccessToken(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(true, nil)

	_, err = service.ValidateToken(ctx, accessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	tokenRepo.On("IsBlacklisted", ctx, "garbage").Return(false, nil)

	_, err := service.ValidateToken(ctx, "garbage")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	service, _, tokenRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	expiredManager := util.NewJWTManager("test-secret-key", -time.Minute, 7*24*time.Hour)
	accessToken, err := expiredManager.GenerateAccessToken(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(false, nil)

	_, err = service.ValidateToken(ctx, accessToken)

	assert.ErrorIs(t, err, ErrTokenExpired)
}

// ===================== GetCurrentUser Tests =====================

func TestGetCurrentUser_Success(t *testing.T) {
	service, userRepo, _ := newAuthServiceWithMocks()
	ctx := context.Background()
	user := testUser()

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	got, err := service.GetCurrentUser(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	service, userRepo, _ := newAuthServiceWithMocks()
	ctx := context.Background()
	unknownID := uuid.New()

	userRepo.On("GetByID", ctx, unknownID).Return(nil, repository.ErrNotFound)

	_, err := service.GetCurrentUser(ctx, unknownID)

	assert.ErrorIs(t, err, ErrUserNotFound)
}
