package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const PasswordMinLength = 8

func HashPassword(password string) (string, error) {
	if len(password) < PasswordMinLength {
		return "", fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

func VerifyPassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return errors.New("password not set")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return errors.New("invalid email or password")
	}

	return nil
}
