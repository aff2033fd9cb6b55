package entity

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Роль хранится строкой прямо на пользователе:
// админов назначают руками, отдельная таблица ролей здесь не нужна
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя в системе
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RefreshToken хранит refresh токены для обновления JWT
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}
