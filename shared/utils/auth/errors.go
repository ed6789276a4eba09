package utils

import "errors"

// Authentication failure taxonomy. Every rejection collapses to a single
// generic response at the HTTP boundary; handlers and middleware log the
// specific cause so server-side audits can tell them apart.
var (
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrWeakCredential     = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredential  = errors.New("authorization token missing")
	ErrInvalidToken       = errors.New("token invalid or malformed")
	ErrExpiredToken       = errors.New("token expired")
	ErrRevokedToken       = errors.New("token revoked")
)
