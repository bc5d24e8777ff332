package httpdto

import (
	"time"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/service"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Name            string           `json:"name" binding:"required,max=255"`
	Description     *string          `json:"description" binding:"omitempty,max=1000"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	DurationMinutes *int             `json:"durationMinutes" binding:"omitempty,min=1,max=480"`
	CategoryID      *uuid.UUID       `json:"categoryId"`
	IsActive        *bool            `json:"isActive"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string          `json:"description" binding:"omitempty,max=1000"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"durationMinutes" binding:"omitempty,min=1,max=480"`
	CategoryID      *uuid.UUID       `json:"categoryId"`
	IsActive        *bool            `json:"isActive"`
}

// ListServicesQuery holds the raw query string of a service listing.
type ListServicesQuery struct {
	TenantID       string  `form:"tenantId"`
	MinPrice       string  `form:"minPrice"`
	MaxPrice       string  `form:"maxPrice"`
	MaxDuration    *int    `form:"maxDuration"`
	ServiceName    *string `form:"serviceName"`
	CategoryID     string  `form:"categoryId"`
	CategoryName   *string `form:"categoryName"`
	IsActive       *bool   `form:"isActive"`
	Address        *string `form:"address"`
	BusinessName   *string `form:"businessName"`
	OrderBy        string  `form:"orderBy"`
	OrderDirection string  `form:"orderDirection"`
	Offset         *int    `form:"offset"`
	Limit          *int    `form:"limit"`
}

// ToFilterRequest parses the typed parameters. Access rules are applied later.
func (q ListServicesQuery) ToFilterRequest() (catalog.ServiceFilterRequest, error) {
	req := catalog.ServiceFilterRequest{
		MaxDuration:    q.MaxDuration,
		ServiceName:    q.ServiceName,
		CategoryName:   q.CategoryName,
		IsActive:       q.IsActive,
		Address:        q.Address,
		BusinessName:   q.BusinessName,
		OrderBy:        q.OrderBy,
		OrderDirection: q.OrderDirection,
		Offset:         q.Offset,
		Limit:          q.Limit,
	}
	var err error
	if req.TenantID, err = OptionalUUID("tenantId", q.TenantID); err != nil {
		return req, err
	}
	if req.CategoryID, err = OptionalUUID("categoryId", q.CategoryID); err != nil {
		return req, err
	}
	if req.MinPrice, err = optionalDecimal("minPrice", q.MinPrice); err != nil {
		return req, err
	}
	if req.MaxPrice, err = optionalDecimal("maxPrice", q.MaxPrice); err != nil {
		return req, err
	}
	return req, nil
}

// OptionalUUID parses a query parameter that may be absent.
func OptionalUUID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, catalog_errors.Validation(field, field+" must be a valid UUID")
	}
	return &id, nil
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, catalog_errors.Validation(field, field+" must be a number")
	}
	return &d, nil
}

type ServiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenantId"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	CategoryID      *uuid.UUID      `json:"categoryId,omitempty"`
	CategoryName    *string         `json:"categoryName,omitempty"`
	BusinessName    *string         `json:"businessName,omitempty"`
	Address         *string         `json:"address,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func FromService(l service.Listing) ServiceResponse {
	return ServiceResponse{
		ID:              l.ID,
		TenantID:        l.TenantID,
		Name:            l.Name,
		Description:     l.Description,
		Price:           l.Price,
		DurationMinutes: l.DurationMinutes,
		CategoryID:      l.CategoryID,
		CategoryName:    l.CategoryName,
		BusinessName:    l.BusinessName,
		Address:         l.Address,
		IsActive:        l.IsActive,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromServiceSlice(items []service.Listing) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(items))
	for _, l := range items {
		out = append(out, FromService(l))
	}
	return out
}
