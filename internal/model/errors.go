package model

import "errors"

var (
	// Account related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationClosed = errors.New("registration disabled")

	// Token related errors
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")

	// Access related errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Candidate related errors
	ErrCandidateNotFound = errors.New("candidate not found")

	// Store related errors
	ErrUnavailable = errors.New("store unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
