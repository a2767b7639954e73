package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches errors by code so callers can use errors.Is with the
// sentinel values below.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrNotFound - referenced project/task/sprint/comment/member does not exist
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}

	// ErrForbidden - actor lacks the required membership or role
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "you do not have access to this resource",
	}

	// ErrValidation - request rejected before any persistence attempt
	ErrValidation = &DomainError{
		Code:    "VALIDATION",
		Message: "invalid request",
	}

	// ErrConflict - duplicate unique key (project key, task key, membership pair)
	ErrConflict = &DomainError{
		Code:    "CONFLICT",
		Message: "resource already exists",
	}
)

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewForbiddenError creates a FORBIDDEN error with a specific message
func NewForbiddenError(message string) *DomainError {
	return &DomainError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

// NewValidationError creates a VALIDATION error with a specific message
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION",
		Message: message,
	}
}

// NewConflictError creates a CONFLICT error with a specific message
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Code:    "CONFLICT",
		Message: message,
	}
}
