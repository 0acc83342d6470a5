package model

import "errors"

var (
	// User related errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already taken")

	// Role related errors
	ErrRoleNotFound      = errors.New("role not found")
	ErrDuplicateRoleName = errors.New("role name already taken")

	// Token related errors
	ErrInvalidToken = errors.New("invalid or expired token")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
)
