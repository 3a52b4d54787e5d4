// Package common defines shared constants and sentinel errors used across
// FakEye components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository/cache-level errors.
	ErrorNotFound = errors.New("not found")

	// Auth errors.
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorNotOwner           = errors.New("not the owner")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
