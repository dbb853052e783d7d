package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the unique email constraint rejected a write.
	ErrDuplicateEmail = errors.New("repository: email already registered")
	// ErrDuplicateKey indicates a validation rule key is already configured.
	ErrDuplicateKey = errors.New("repository: rule key already exists")
)
