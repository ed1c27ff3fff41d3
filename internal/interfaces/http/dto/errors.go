package dto

import (
	"net/http"

	"github.com/halmarket/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Unknown codes fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	shared.ErrNotFound.Code:      http.StatusNotFound,
	shared.ErrAlreadyExists.Code: http.StatusConflict,
	shared.ErrInvalidInput.Code:  http.StatusBadRequest,

	shared.ErrConcurrencyConflict.Code: http.StatusConflict,

	// business rule violations -> 422 Unprocessable Entity
	shared.ErrInvalidState.Code:                  http.StatusUnprocessableEntity,
	shared.ErrInsufficientStock.Code:             http.StatusUnprocessableEntity,
	shared.ErrDocumentNotInDraft.Code:            http.StatusUnprocessableEntity,
	shared.ErrInvalidDeductionConfiguration.Code: http.StatusUnprocessableEntity,
	shared.ErrDepositLimitExceeded.Code:          http.StatusUnprocessableEntity,
	shared.ErrOverReturn.Code:                    http.StatusUnprocessableEntity,
	shared.ErrNotificationDeliveryFailed.Code:    http.StatusUnprocessableEntity,
	shared.ErrNotificationPermanentlyFailed.Code: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
