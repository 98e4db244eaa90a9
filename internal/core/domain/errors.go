package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Work proposal errors
var (
	ErrProposalNotFound  = errors.New("work proposal not found")
	ErrInvalidStatus     = errors.New("invalid work status")
	ErrTooManyImages     = errors.New("too many images attached")
	ErrFileTooLarge      = errors.New("uploaded file exceeds size limit")
	ErrProgressIncomplete = errors.New("progress report incomplete")
)
