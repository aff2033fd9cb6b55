package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrWeakPassword        = errors.New("password does not meet requirements")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidToken        = errors.New("invalid token")
)
