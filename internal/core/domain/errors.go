package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotAuthorized = errors.New("not authorized")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// Book errors
var (
	ErrBookNotFound = errors.New("book not found")

	// ErrBookUnavailable covers both a nonexistent and a deactivated book.
	// Callers must not be able to tell the two apart.
	ErrBookUnavailable = errors.New("book not available")

	// ErrBookAlreadyReserved means the book exists and is active but its
	// availability flag is already down.
	ErrBookAlreadyReserved = errors.New("book not available for reservation")
)

// DuplicateBookError reports a catalog conflict together with the record
// that owns the identity (titulo, autor, casa_editorial).
type DuplicateBookError struct {
	ExistingID        string
	ExistingTitle     string
	ExistingAuthor    string
	ExistingPublisher string
}

func (e *DuplicateBookError) Error() string {
	return fmt.Sprintf("duplicate book: %q by %q (%s)", e.ExistingTitle, e.ExistingAuthor, e.ExistingID)
}
