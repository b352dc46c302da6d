package error

import (
	"errors"
	"fmt"
)

// Error codes attached to log entries and apology pages
const (
	// 4xxx - Client errors
	CodeValidation         = 4001
	CodeSymbolNotFound     = 4002
	CodeQuoteUnavailable   = 4003
	CodeInsufficientFunds  = 4004
	CodeInvalidQuantity    = 4005
	CodeDuplicateUsername  = 4006
	CodeInvalidCredentials = 4030
	CodeNotFound           = 4040

	// 5xxx - Server errors
	CodePersistence    = 5001
	CodeInternalServer = 5000
)

// Base error kinds
var (
	// ErrValidation is returned for missing or malformed user input
	ErrValidation = errors.New("invalid input")

	// ErrSymbolNotFound is returned when a ticker cannot be resolved or is not held
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrQuoteUnavailable is returned when the quote provider fails or times out
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrInsufficientFunds is returned when a purchase costs more than the available cash
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidQuantity is returned when a sell quantity is outside 1..held
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrDuplicateUsername is returned when registering a taken username
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned for any failed authentication attempt
	ErrInvalidCredentials = errors.New("invalid username and/or password")

	// ErrNotFound is returned for missing or foreign-owned resources
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when a user id does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrPersistence is returned when the store rejects a read or write
	ErrPersistence = errors.New("persistence error")

	// ErrDatabaseConnection is returned when the database cannot be reached
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrQuoteUnavailable):
		return CodeQuoteUnavailable
	case errors.Is(err, ErrSymbolNotFound):
		return CodeSymbolNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrDuplicateUsername):
		return CodeDuplicateUsername
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return CodeNotFound
	case errors.Is(err, ErrPersistence), errors.Is(err, ErrDatabaseConnection):
		return CodePersistence
	default:
		return CodeInternalServer
	}
}

// PublicMessage returns the text that may be shown to an end user.
// Server-side failures collapse to a generic message.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var qerr *QuoteError
	if errors.As(err, &qerr) {
		return fmt.Sprintf("could not look up price for %s", qerr.Symbol)
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	var qe *InvalidQuantityError
	if errors.As(err, &qe) {
		return qe.Error()
	}
	switch ErrorCode(err) {
	case CodePersistence, CodeInternalServer:
		return "internal error, please try again"
	case CodeNotFound:
		return ErrNotFound.Error()
	}
	for _, kind := range []error{
		ErrValidation, ErrSymbolNotFound, ErrQuoteUnavailable, ErrInsufficientFunds,
		ErrInvalidQuantity, ErrDuplicateUsername, ErrInvalidCredentials,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal error, please try again"
}

// DomainError carries a user-facing message for one of the base error kinds
type DomainError struct {
	Kind    error
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is the error kind
func (e *DomainError) Is(target error) bool {
	return target == e.Kind
}

// LogFields returns a map of fields for structured logging
func (e *DomainError) LogFields() map[string]any {
	return map[string]any{
		"error_type": e.Kind.Error(),
		"error":      e.Message,
		"error_code": ErrorCode(e.Kind),
	}
}

// Validation builds a validation error with a user-facing message
func Validation(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// SymbolNotFound builds a symbol-not-found error with a user-facing message
func SymbolNotFound(format string, args ...any) error {
	return &DomainError{Kind: ErrSymbolNotFound, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error with a user-facing message
func NotFound(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidCredentials builds an authentication failure with a specific message
func InvalidCredentials(message string) error {
	return &DomainError{Kind: ErrInvalidCredentials, Message: message}
}

// InsufficientFundsError provides detailed error information for an unaffordable purchase
type InsufficientFundsError struct {
	UserID    uint64
	Required  string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return "insufficient funds"
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID uint64, required, available string) error {
	return &InsufficientFundsError{UserID: userID, Required: required, Available: available}
}

// InvalidQuantityError reports a sell request outside the range 1..Held
type InvalidQuantityError struct {
	Symbol    string
	Requested int64
	Held      int64
}

// Error implements the error interface
func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("allowed shares between 1 - %d", e.Held)
}

// Is checks if the target error is an ErrInvalidQuantity
func (e *InvalidQuantityError) Is(target error) bool {
	return target == ErrInvalidQuantity
}

// LogFields returns a map of fields for structured logging
func (e *InvalidQuantityError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_quantity",
		"symbol":     e.Symbol,
		"requested":  e.Requested,
		"held":       e.Held,
		"error_code": CodeInvalidQuantity,
	}
}

// NewInvalidQuantityError creates a new invalid quantity error
func NewInvalidQuantityError(symbol string, requested, held int64) error {
	return &InvalidQuantityError{Symbol: symbol, Requested: requested, Held: held}
}

// QuoteError wraps a provider failure for one symbol
type QuoteError struct {
	Symbol string
	Err    error
}

// Error implements the error interface
func (e *QuoteError) Error() string {
	return fmt.Sprintf("quote for %s unavailable: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying error
func (e *QuoteError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrQuoteUnavailable
func (e *QuoteError) Is(target error) bool {
	return target == ErrQuoteUnavailable
}

// LogFields returns a map of fields for structured logging
func (e *QuoteError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "quote_unavailable",
		"symbol":     e.Symbol,
		"error":      e.Err.Error(),
		"error_code": CodeQuoteUnavailable,
	}
}

// NewQuoteError creates a new quote unavailable error
func NewQuoteError(symbol string, err error) error {
	return &QuoteError{Symbol: symbol, Err: err}
}

// PersistenceError wraps a store failure for one operation
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrPersistence
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// LogFields returns a map of fields for structured logging
func (e *PersistenceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "persistence_error",
		"operation":  e.Op,
		"error":      e.Err.Error(),
		"error_code": CodePersistence,
	}
}

// NewPersistenceError creates a persistence error for the named operation
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// LogFields extracts structured fields from err when it provides them
func LogFields(err error) map[string]any {
	var lf interface{ LogFields() map[string]any }
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsClientError reports whether err is caused by the request rather than the server
func IsClientError(err error) bool {
	code := ErrorCode(err)
	return code >= 4000 && code < 5000
}
