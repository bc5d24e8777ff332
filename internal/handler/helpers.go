package handler

import (
	"service-catalog/internal/access"
	"service-catalog/internal/transport/httpdto"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func callerFrom(c *gin.Context) (access.Caller, bool) {
	caller, ok := access.CallerFromContext(c.Request.Context())
	if !ok {
		fail(c, catalog_errors.Authentication("Invalid or missing user context"))
	}
	return caller, ok
}

func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, catalog_errors.Validation("id", resource+" id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, httpdto.BindingError(err))
		return false
	}
	return true
}

// queryPtr returns the query parameter key, or nil when it is absent.
func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		fail(c, httpdto.BindingError(err))
		return false
	}
	return true
}
