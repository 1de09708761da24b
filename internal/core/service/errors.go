package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrItemUnavailable  = errors.New("menu item unavailable")
	ErrOutOfStock       = errors.New("out of stock")
	ErrDuplicateRequest = errors.New("duplicate request")

	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidToken    = errors.New("token must be 4 digits")
	ErrTokenNotFound   = errors.New("token not found")
	ErrTokensExhausted = errors.New("no free pickup token")

	ErrUnknownAccountKind = errors.New("unknown account kind")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidMobile      = errors.New("mobile number must be 10 digits")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError lists every rejected field. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
