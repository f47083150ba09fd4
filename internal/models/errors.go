package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows                 = errors.New("no rows")
	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
	ErrFailedToAddUser        = errors.New("failed to add user")
	ErrInternal               = errors.New("internal server error")
	ErrMethodNotAllowed       = errors.New("method not allowed")
	ErrForbidden              = errors.New("forbidden")
	ErrAccessDenied           = errors.New("access denied")
	ErrInvalidParams          = errors.New("invalid params")
	ErrInvalidRole            = errors.New("invalid role")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrShareNotFound          = errors.New("share not found")
	ErrTagNotFound            = errors.New("tag not found")
	ErrTagExists              = errors.New("tag already exists")
	ErrFileNotFound           = errors.New("file not found")
	ErrUnsupportedType        = errors.New("unsupported content type")
	ErrFileTooLarge           = errors.New("file too large")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}
