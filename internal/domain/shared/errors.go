package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError
type ErrorKind string

const (
	// KindValidation is malformed or missing input caught before a transition runs
	KindValidation ErrorKind = "validation"
	// KindGuard is a transition attempted from a state that does not permit it
	KindGuard ErrorKind = "guard"
	// KindReferential is a reference to a document that does not exist
	KindReferential ErrorKind = "referential"
	// KindConsistency is a violated cross-field or cross-document rule
	KindConsistency ErrorKind = "consistency"
	// KindConflict is a failed optimistic version check
	KindConflict ErrorKind = "conflict"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindConsistency,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindValidation}
}

// NewGuardError creates a guard violation error
func NewGuardError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindGuard}
}

// NewConsistencyError creates a consistency error
func NewConsistencyError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindConsistency}
}

// NewNotFoundError creates a referential error reported as "<Entity> not found"
func NewNotFoundError(entity string) *DomainError {
	return &DomainError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s not found", entity), Kind: KindReferential}
}

// NewConflictError creates an optimistic locking conflict error
func NewConflictError(entity string) *DomainError {
	return &DomainError{
		Code:    "CONCURRENT_MODIFICATION",
		Message: fmt.Sprintf("The %s has been modified by another user", entity),
		Kind:    KindConflict,
	}
}

// IsKind reports whether err is a DomainError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// Common domain errors
var (
	ErrNotFound            = &DomainError{Code: "NOT_FOUND", Message: "Resource not found", Kind: KindReferential}
	ErrAlreadyExists       = NewConsistencyError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = &DomainError{Code: "CONCURRENT_MODIFICATION", Message: "Resource was modified by another process", Kind: KindConflict}
	ErrInvalidState        = NewGuardError("INVALID_STATE", "Operation not allowed in current state")
)
