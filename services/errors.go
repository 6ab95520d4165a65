package services

import "net/http"

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

// The storefront's error taxonomy. Validation failures are caught before
// any network call; access denials must never be confused with emptiness;
// operation failures surface once with no automatic retry.
func NewValidationError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewAccessDeniedError(err error) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Message: "Access denied", Err: err}
}

func NewOperationFailedError(message string, err error) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadGateway, Message: message, Err: err}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Message: message}
}

func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Message: message}
}
