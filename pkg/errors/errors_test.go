package catalog_errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinelOfItsKind(t *testing.T) {
	err := fmt.Errorf("list categories: %w", Validation("tenantId", "TenantId is required for customers"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindValidation, KindOf(err))

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "tenantId", e.Fields[0].Field)
}

func TestPersistenceUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("Update", "Tenant", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("limit", "bad"), http.StatusBadRequest},
		{Authentication("missing role"), http.StatusUnauthorized},
		{Authorization("Service", "filter", "denied"), http.StatusForbidden},
		{NotFound("Category", "42"), http.StatusNotFound},
		{Conflict("DuplicateCategoryName", "dup"), http.StatusConflict},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{PublishFailed("CategoryCreatedEvent", errors.New("timeout")), http.StatusBadGateway},
		{Persistence("Create", "Service", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestConflictKeepsConflictTypeAsCode(t *testing.T) {
	err := Conflict("DuplicateCategoryName", "A category with name 'Haircuts' already exists in this tenant.")
	assert.Equal(t, "DuplicateCategoryName", err.Code)
	assert.ErrorIs(t, err, ErrConflict)
}
