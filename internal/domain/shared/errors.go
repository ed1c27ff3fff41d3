package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match contextual errors against the sentinel values
// below with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists                 = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput                  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict           = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState                  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock             = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDocumentNotInDraft            = NewDomainError("DOCUMENT_NOT_IN_DRAFT", "Document is not in draft status")
	ErrInvalidDeductionConfiguration = NewDomainError("INVALID_DEDUCTION_CONFIGURATION", "Deduction definition is misconfigured")
	ErrDepositLimitExceeded          = NewDomainError("DEPOSIT_LIMIT_EXCEEDED", "Crate holding limit exceeded")
	ErrOverReturn                    = NewDomainError("OVER_RETURN", "Return exceeds current crate holding")
	ErrNotificationDeliveryFailed    = NewDomainError("NOTIFICATION_DELIVERY_FAILED", "Notification delivery failed")
	ErrNotificationPermanentlyFailed = NewDomainError("NOTIFICATION_PERMANENTLY_FAILED", "Notification failed permanently after retry ceiling")
)

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error naming the
// offending product so the presentation layer can render it.
func NewInsufficientStockError(productName, required, available string) *DomainError {
	return NewDomainError(ErrInsufficientStock.Code,
		fmt.Sprintf("Insufficient stock for product %q: required %s, available %s", productName, required, available))
}

// NewNotFoundError builds a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource, identifier string) *DomainError {
	return NewDomainError(ErrNotFound.Code,
		fmt.Sprintf("%s %q not found", resource, identifier))
}

// NewInvalidInputError builds an INVALID_INPUT error naming the offending field
func NewInvalidInputError(field, reason string) *DomainError {
	return NewDomainError(ErrInvalidInput.Code,
		fmt.Sprintf("Invalid %s: %s", field, reason))
}

// NewDepositLimitExceededError names the party and container type that hit the limit
func NewDepositLimitExceededError(partyName, containerType string, current, requested, limit int64) *DomainError {
	return NewDomainError(ErrDepositLimitExceeded.Code,
		fmt.Sprintf("Deposit limit exceeded for party %q on container type %q: holding %d, requested %d, limit %d",
			partyName, containerType, current, requested, limit))
}

// NewOverReturnError names the party and container type for an over-return
func NewOverReturnError(partyName, containerType string, held, requested int64) *DomainError {
	return NewDomainError(ErrOverReturn.Code,
		fmt.Sprintf("Party %q holds %d containers of type %q, cannot return %d",
			partyName, held, containerType, requested))
}
