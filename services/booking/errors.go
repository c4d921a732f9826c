package booking

import (
	"errors"
	"fmt"
)

// Error codes forming the service taxonomy. Handlers branch on these instead
// of inspecting error strings.
const (
	CodeValidation      = "validationError"
	CodeRateLimited     = "rateLimitExceeded"
	CodeSlotConflict    = "slotConflict"
	CodeNotFound        = "notFound"
	CodePayment         = "paymentError"
	CodeExternalService = "externalServiceError"
	CodeSignature       = "signatureError"
)

type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func NewRateLimitError(msg string) error {
	return &ServiceError{Code: CodeRateLimited, Message: msg}
}

func NewSlotConflictError(msg string) error {
	return &ServiceError{Code: CodeSlotConflict, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewPaymentError(msg string) error {
	return &ServiceError{Code: CodePayment, Message: msg}
}

// CodeOf extracts the taxonomy code from err, or "" for unclassified errors.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
