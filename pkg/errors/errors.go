package catalog_errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failure so transports can map it without inspecting messages.
type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindAuthentication Kind = "AUTHENTICATION_FAILED"
	KindAuthorization  Kind = "ACCESS_DENIED"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindPersistence    Kind = "DATABASE_ERROR"
	KindPublish        Kind = "PUBLISH_FAILED"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindInternal       Kind = "INTERNAL_SERVER_ERROR"
)

// Sentinels usable with errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrPersistence    = errors.New("persistence failure")
	ErrPublish        = errors.New("publish failure")
	ErrRateLimited    = errors.New("rate limited")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotInitialized = errors.New("not initialized")
)

var sentinels = map[Kind]error{
	KindValidation:     ErrValidation,
	KindAuthentication: ErrUnauthorized,
	KindAuthorization:  ErrForbidden,
	KindNotFound:       ErrNotFound,
	KindConflict:       ErrConflict,
	KindPersistence:    ErrPersistence,
	KindPublish:        ErrPublish,
	KindRateLimited:    ErrRateLimited,
}

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type returned by catalog operations.
type Error struct {
	Kind     Kind
	Code     string
	Message  string
	Resource string
	ID       string
	Action   string
	Fields   []FieldError
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if s, ok := sentinels[e.Kind]; ok && s == target {
		return true
	}
	return false
}

func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    string(KindValidation),
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func ValidationFields(message string, fields ...FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    string(KindValidation),
		Message: message,
		Fields:  fields,
	}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: string(KindAuthentication), Message: message}
}

func Authorization(resource, action, message string) *Error {
	return &Error{
		Kind:     KindAuthorization,
		Code:     string(KindAuthorization),
		Message:  message,
		Resource: resource,
		Action:   action,
	}
}

func NotFound(resource string, id any) *Error {
	return &Error{
		Kind:     KindNotFound,
		Code:     string(KindNotFound),
		Message:  fmt.Sprintf("%s with ID '%v' was not found.", resource, id),
		Resource: resource,
		ID:       fmt.Sprint(id),
	}
}

// Conflict carries a conflict type such as "DuplicateCategoryName" as its code.
func Conflict(conflictType, message string) *Error {
	return &Error{Kind: KindConflict, Code: conflictType, Message: message}
}

func Persistence(operation, resource string, cause error) *Error {
	return &Error{
		Kind:     KindPersistence,
		Code:     string(KindPersistence),
		Message:  fmt.Sprintf("%s %s failed", operation, resource),
		Resource: resource,
		Action:   operation,
		Cause:    cause,
	}
}

func PublishFailed(eventType string, cause error) *Error {
	return &Error{
		Kind:     KindPublish,
		Code:     string(KindPublish),
		Message:  fmt.Sprintf("failed to publish %s", eventType),
		Resource: eventType,
		Cause:    cause,
	}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Code: string(KindRateLimited), Message: message}
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As is a shorthand for errors.As with *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindPublish:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NowUTC returns the current time truncated to microseconds, the precision postgres stores.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
