// Package catalog turns listing requests into tenant-scoped queries.
package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"service-catalog/internal/access"
	"service-catalog/internal/domain/service"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100

	maxServiceNameFilter  = 100
	maxCategoryNameFilter = 100
	maxAddressFilter      = 500
	maxBusinessNameFilter = 200
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByDuration  SortField = "duration"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type Sort struct {
	Field     SortField
	Direction SortDirection
}

var DefaultSort = Sort{Field: SortByName, Direction: Ascending}

type Page struct {
	Offset int
	Limit  int
}

// ServiceFilter is the predicate applied to both the count and the page of a
// service listing. Empty strings and nil pointers mean "no constraint".
type ServiceFilter struct {
	TenantID     uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MaxDuration  *int
	ServiceName  string
	CategoryID   *uuid.UUID
	CategoryName string
	IsActive     *bool
	Address      string
	BusinessName string
}

type ServiceQuery struct {
	Filter ServiceFilter
	Sort   Sort
	Page   Page
}

type CategoryQuery struct {
	TenantID uuid.UUID
	Page     Page
}

// ServiceFilterRequest carries the raw listing parameters of a request.
type ServiceFilterRequest struct {
	TenantID       *uuid.UUID
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	MaxDuration    *int
	ServiceName    *string
	CategoryID     *uuid.UUID
	CategoryName   *string
	IsActive       *bool
	Address        *string
	BusinessName   *string
	OrderBy        string
	OrderDirection string
	Offset         *int
	Limit          *int
}

// BuildServiceQuery validates req against the caller's access and returns the
// query storage should run. Nothing here touches storage.
func BuildServiceQuery(caller access.Caller, req ServiceFilterRequest) (ServiceQuery, error) {
	scope, err := AuthorizeServiceFilter(caller, req.TenantID, req.Address, req.BusinessName)
	if err != nil {
		return ServiceQuery{}, err
	}

	var fields []catalog_errors.FieldError
	check := func(field string, value *string, max int) string {
		if value == nil {
			return ""
		}
		v := strings.TrimSpace(*value)
		if utf8.RuneCountInString(v) > max {
			fields = append(fields, catalog_errors.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s cannot exceed %d characters", field, max),
			})
		}
		return v
	}

	filter := ServiceFilter{
		TenantID:     scope.TenantID,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MaxDuration:  req.MaxDuration,
		ServiceName:  check("serviceName", req.ServiceName, maxServiceNameFilter),
		CategoryID:   req.CategoryID,
		CategoryName: check("categoryName", req.CategoryName, maxCategoryNameFilter),
		IsActive:     req.IsActive,
		Address:      check("address", req.Address, maxAddressFilter),
		BusinessName: check("businessName", req.BusinessName, maxBusinessNameFilter),
	}

	for _, p := range []struct {
		field string
		value *decimal.Decimal
	}{{"minPrice", req.MinPrice}, {"maxPrice", req.MaxPrice}} {
		if p.value != nil && (p.value.IsNegative() || p.value.GreaterThan(service.MaxPrice)) {
			fields = append(fields, catalog_errors.FieldError{
				Field:   p.field,
				Message: fmt.Sprintf("%s must be between 0 and %s", p.field, service.MaxPrice.StringFixed(2)),
			})
		}
	}
	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		fields = append(fields, catalog_errors.FieldError{Field: "minPrice", Message: "minPrice cannot be greater than maxPrice"})
	}
	if req.MaxDuration != nil && (*req.MaxDuration < service.MinDurationMinutes || *req.MaxDuration > service.MaxDurationMinutes) {
		fields = append(fields, catalog_errors.FieldError{
			Field:   "maxDuration",
			Message: fmt.Sprintf("maxDuration must be between %d and %d minutes", service.MinDurationMinutes, service.MaxDurationMinutes),
		})
	}

	sort, err := ParseSort(req.OrderBy, req.OrderDirection)
	if err != nil {
		return ServiceQuery{}, err
	}
	page, err := NewPage(req.Offset, req.Limit)
	if err != nil {
		return ServiceQuery{}, err
	}

	if len(fields) > 0 {
		return ServiceQuery{}, catalog_errors.ValidationFields("One or more filter parameters are invalid", fields...)
	}
	return ServiceQuery{Filter: filter, Sort: sort, Page: page}, nil
}

// AuthorizeServiceFilter applies the access rules of a service listing:
// customer-only filters first, then the tenant scope. It needs only the
// tenant and the customer-only fields, so callers can run it before parsing
// the remaining parameters.
func AuthorizeServiceFilter(caller access.Caller, tenantID *uuid.UUID, address, businessName *string) (access.Scope, error) {
	if !caller.IsCustomer() && (nonEmpty(address) || nonEmpty(businessName)) {
		return access.Scope{}, catalog_errors.Authorization("Service", access.ActionFilter,
			"Address and BusinessName filters are available only to customers.")
	}
	return access.ListScope(caller, "Service", tenantID)
}

// BuildCategoryQuery applies the same tenant rules to category listings.
func BuildCategoryQuery(caller access.Caller, tenantID *uuid.UUID, offset, limit *int) (CategoryQuery, error) {
	scope, err := access.ListScope(caller, "Category", tenantID)
	if err != nil {
		return CategoryQuery{}, err
	}
	page, err := NewPage(offset, limit)
	if err != nil {
		return CategoryQuery{}, err
	}
	return CategoryQuery{TenantID: scope.TenantID, Page: page}, nil
}

// ParseSort accepts field and direction names case-insensitively. Empty
// values fall back to name ascending.
func ParseSort(orderBy, direction string) (Sort, error) {
	sort := DefaultSort
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "":
	case "name":
		sort.Field = SortByName
	case "price":
		sort.Field = SortByPrice
	case "duration", "durationminutes":
		sort.Field = SortByDuration
	case "createdat":
		sort.Field = SortByCreatedAt
	case "updatedat":
		sort.Field = SortByUpdatedAt
	default:
		return Sort{}, catalog_errors.Validation("orderBy",
			"orderBy must be one of name, price, duration, createdAt, updatedAt")
	}
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc", "ascending":
		sort.Direction = Ascending
	case "desc", "descending":
		sort.Direction = Descending
	default:
		return Sort{}, catalog_errors.Validation("orderDirection", "orderDirection must be asc or desc")
	}
	return sort, nil
}

// NewPage clamps limit into [1, MaxLimit]. A negative offset is rejected.
func NewPage(offset, limit *int) (Page, error) {
	page := Page{Limit: DefaultLimit}
	if offset != nil {
		if *offset < 0 {
			return Page{}, catalog_errors.Validation("offset", "Offset must be greater than or equal to 0")
		}
		page.Offset = *offset
	}
	if limit != nil {
		page.Limit = min(max(*limit, 1), MaxLimit)
	}
	return page, nil
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
