package usecase

import (
	"errors"
	"net/http"
)

const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeLeadNotFound            = "LEAD_NOT_FOUND"
	CodeNotificationNotFound    = "NOTIFICATION_NOT_FOUND"
	CodeLeadAlreadyAssigned     = "LEAD_ALREADY_ASSIGNED"
	CodeLeadNotAssigned         = "LEAD_NOT_ASSIGNED"
	CodeLostConfirmationMissing = "LOST_HISTORY_CONFIRMATION_REQUIRED"
	CodeDuplicateLead           = "DUPLICATE_LEAD"
	CodeNoAgentsAvailable       = "NO_AGENTS_AVAILABLE"

	CodeDatabase = "DATABASE_ERROR"
	CodeUpstream = "UPSTREAM_ERROR"
)

// DomainError is a business rule failure the caller can act on.
type DomainError struct {
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps infrastructure failures (database, upstream APIs).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func dbError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}

func upstreamError(msg string, err error) error {
	return &TechnicalError{Code: CodeUpstream, Message: msg, Err: err}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeLeadNotFound, Message: msg}
}

// HTTPStatus maps an error from this package to a response status.
func HTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeValidation:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeLeadNotFound, CodeNotificationNotFound:
			return http.StatusNotFound
		default:
			return http.StatusConflict
		}
	}

	var te *TechnicalError
	if errors.As(err, &te) && te.Code == CodeUpstream {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ErrorCode returns the code carried by err, INTERNAL_ERROR otherwise.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return "INTERNAL_ERROR"
}
