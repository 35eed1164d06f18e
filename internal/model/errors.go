package model

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email is already taken")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("authorization token is missing")
	ErrInvalidToken       = errors.New("authorization token is invalid")
	ErrForbidden          = errors.New("forbidden")
	ErrLinkTokenTaken     = errors.New("link token is already taken")

	// ErrBlobMissing means a file record exists but its bytes do not.
	ErrBlobMissing = errors.New("file content is missing")

	// ErrAccessDenied is the only outcome untrusted callers see for files
	// they cannot read, whether the file is missing or not theirs.
	ErrAccessDenied = errors.New("no access")
)
