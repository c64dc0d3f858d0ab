package domain

import "errors"

var (
	// ErrNotFound reports a query that succeeded but matched no rows.
	ErrNotFound = errors.New("domain: not found")
	// ErrInvalidInput reports a request parameter the catalog cannot use.
	ErrInvalidInput = errors.New("domain: invalid input")
)

// NotFoundError carries the client-facing message for an empty result.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return ErrNotFound.Error()
	}
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidInputError carries the client-facing message for a rejected parameter.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Message == "" {
		return ErrInvalidInput.Error()
	}
	return e.Message
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
