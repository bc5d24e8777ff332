package httpdto

import (
	"net/http"

	catalog_errors "service-catalog/pkg/errors"
)

type Response[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

type ErrorBody struct {
	Code         string                      `json:"code"`
	Message      string                      `json:"message"`
	ResourceType string                      `json:"resourceType,omitempty"`
	ResourceID   string                      `json:"resourceId,omitempty"`
	Field        string                      `json:"field,omitempty"`
	Details      []catalog_errors.FieldError `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func NewErrorResponse(message string, code string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	}
}

// FromError maps err to its status code and response body. Errors that are
// not catalog errors are reported without their message.
func FromError(err error) (int, ErrorResponse) {
	e, ok := catalog_errors.As(err)
	if !ok {
		return http.StatusInternalServerError,
			NewErrorResponse("An unexpected error occurred.", string(catalog_errors.KindInternal))
	}

	body := ErrorBody{
		Code:         e.Code,
		Message:      e.Message,
		ResourceType: e.Resource,
		ResourceID:   e.ID,
	}
	switch e.Kind {
	case catalog_errors.KindPersistence:
		body.Message = "A database error occurred."
	case catalog_errors.KindValidation:
		if len(e.Fields) > 0 {
			body.Field = e.Fields[0].Field
		}
		if len(e.Fields) > 1 {
			body.Details = e.Fields
		}
	}
	return catalog_errors.HTTPStatus(err), ErrorResponse{Error: body}
}

// Page is the envelope of every paginated listing.
type Page[T any] struct {
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	Data       []T `json:"data"`
}
