package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== HashPassword Tests =====================

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Str0ng!pass", hash)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	// bcrypt использует случайную соль
	hash1, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)

	hash2, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

// ===================== CheckPassword Tests =====================

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)

	assert.True(t, CheckPassword("Str0ng!pass", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
	assert.False(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("Str0ng!pass", "not-a-hash"))
}

// ===================== ValidatePassword Tests =====================

func TestValidatePassword_Valid(t *testing.T) {
	valid := []string{
		"Str0ng!pass",
		"Abcdef1!",
		"P@ssw0rd with spaces",
		"Дл1нный-Pass",
	}

	for _, password := range valid {
		assert.NoError(t, ValidatePassword(password), "password %q", password)
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	err := ValidatePassword("Ab1!xyz")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestValidatePassword_MissingCharacterClasses(t *testing.T) {
	cases := []struct {
		password string
		wantErr  error
	}{
		{"alllower1!", ErrPasswordNoUpper},
		{"ALLUPPER1!", ErrPasswordNoLower},
		{"NoDigits!!", ErrPasswordNoDigit},
		{"NoSpecial1", ErrPasswordNoSpecial},
	}

	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		assert.ErrorIs(t, err, tc.wantErr, "password %q", tc.password)
	}
}
