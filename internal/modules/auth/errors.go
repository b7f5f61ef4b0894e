package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyVerified     = errors.New("user already exists and is verified")
	ErrPendingVerification = errors.New("user already registered and awaiting verification")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrNotAdmin            = errors.New("email belongs to a non-company account")
)
