package domain

import "errors"

var (
	ErrEmailRequired  = errors.New("email is required")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)
