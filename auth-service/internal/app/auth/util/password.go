package util

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper   = errors.New("password must contain an uppercase letter")
	ErrPasswordNoLower   = errors.New("password must contain a lowercase letter")
	ErrPasswordNoDigit   = errors.New("password must contain a digit")
	ErrPasswordNoSpecial = errors.New("password must contain a special character")
)

// HashPassword хэширует пароль с использованием bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword проверяет, соответствует ли пароль хэшу
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет требования к паролю: минимум 8 символов,
// заглавная и строчная буквы, цифра и спецсимвол
// Возвращает ошибку с именем первого недостающего класса символов
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}

	return nil
}
