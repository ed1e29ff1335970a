package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches the requested ID
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert collides with an existing primary key
	ErrDuplicate = errors.New("entity already exists")

	// ErrConnection is returned when the database cannot be reached
	ErrConnection = errors.New("database connection error")
)

// RepositoryError carries the failed operation alongside the underlying error
type RepositoryError struct {
	Op      string
	Entity  string
	ID      int
	Err     error
	Message string
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != 0 {
		return fmt.Sprintf("%s %s operation failed for ID %d: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity string, id int, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity string, id int) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %d not found", entity, id),
	}
}

// DuplicateError creates an "already exists" repository error
func DuplicateError(entity string, id int) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  entity,
		ID:      id,
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("%s with ID %d already exists", entity, id),
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  "database",
		Err:     fmt.Errorf("%w: %v", ErrConnection, err),
		Message: fmt.Sprintf("database connection failed: %v", err),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConnection checks if an error is a "connection" error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsDuplicate checks if an error is an "already exists" error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
