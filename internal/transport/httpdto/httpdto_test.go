package httpdto

import (
	"errors"
	"net/http"
	"testing"

	catalog_errors "service-catalog/pkg/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorHidesPersistenceDetails(t *testing.T) {
	status, body := FromError(catalog_errors.Persistence("List", "Service", errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DATABASE_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "password")
}

func TestFromErrorCarriesResourceAndField(t *testing.T) {
	status, body := FromError(catalog_errors.NotFound("Category", "42"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category", body.Error.ResourceType)
	assert.Equal(t, "42", body.Error.ResourceID)

	status, body = FromError(catalog_errors.Validation("tenantId", "TenantId is required for customers"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "tenantId", body.Error.Field)
	assert.Empty(t, body.Error.Details)

	status, body = FromError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
}

func TestCategoryNameValidation(t *testing.T) {
	require.NoError(t, RegisterValidators())

	ok := CreateCategoryRequest{Name: "Hair-Cuts 2.0"}
	assert.NoError(t, binding.Validator.ValidateStruct(&ok))

	bad := CreateCategoryRequest{Name: "Hair & Beauty"}
	err := binding.Validator.ValidateStruct(&bad)
	require.Error(t, err)

	verr, isCatalog := catalog_errors.As(BindingError(err))
	require.True(t, isCatalog)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Contains(t, verr.Fields[0].Message, "letters, numbers")
}

func TestListServicesQueryParsesTypedParameters(t *testing.T) {
	req, err := ListServicesQuery{
		TenantID: "7d4b1c9e-6d1f-4a58-9a43-55c7f0d7f0a1",
		MinPrice: "10.50",
	}.ToFilterRequest()
	require.NoError(t, err)
	require.NotNil(t, req.TenantID)
	assert.Equal(t, "10.5", req.MinPrice.String())
	assert.Nil(t, req.MaxPrice)

	_, err = ListServicesQuery{MaxPrice: "cheap"}.ToFilterRequest()
	assert.ErrorIs(t, err, catalog_errors.ErrValidation)
}
