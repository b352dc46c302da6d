package database

import (
	"context"
	"errors"
	"strings"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

// ErrorMapper maps unit-of-work and connection errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error for the named operation
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.NewPersistenceError(operation, errors.Join(errs.ErrDatabaseConnection, err))

	case strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no connection") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout"):
		return errs.NewPersistenceError(operation, errors.Join(errs.ErrDatabaseConnection, err))

	default:
		return errs.NewPersistenceError(operation, err)
	}
}
