package service

import "fmt"

// The services return typed errors; translating them into HTTP statuses is
// the handler layer's job. One status per kind: NotFoundError -> 404,
// ForbiddenError -> 403, ValidationError and InsufficientFundsError -> 400.

// NotFoundError reports an absent user, stock, order or watchlist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFound(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ForbiddenError reports an ownership violation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func forbidden(format string, args ...interface{}) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports a client mistake: a missing type-required field, a
// malformed enum, or an illegal state transition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError reports buying power or account balance below the
// required total cost.
type InsufficientFundsError struct {
	Message string
}

func (e *InsufficientFundsError) Error() string { return e.Message }

func insufficientFunds(format string, args ...interface{}) error {
	return &InsufficientFundsError{Message: fmt.Sprintf(format, args...)}
}
