package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryNamePattern is the character set allowed in category names.
var CategoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 \-.]+$`)

type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput changes only the fields that are set.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

type CreateServiceInput struct {
	Name            string
	Description     *string
	Price           decimal.Decimal
	DurationMinutes *int
	CategoryID      *uuid.UUID
	IsActive        *bool
}

// UpdateServiceInput changes only the fields that are set.
type UpdateServiceInput struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	DurationMinutes *int
	CategoryID      *uuid.UUID
	IsActive        *bool
}

type fieldErrors []catalog_errors.FieldError

func (f *fieldErrors) add(field, format string, args ...any) {
	*f = append(*f, catalog_errors.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return catalog_errors.ValidationFields("One or more validation errors occurred.", f...)
}

func checkCategoryName(errs *fieldErrors, name string) {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		errs.add("name", "Category name is required")
	case n < category.NameMinLength || n > category.NameMaxLength:
		errs.add("name", "Category name must be between %d and %d characters", category.NameMinLength, category.NameMaxLength)
	case !CategoryNamePattern.MatchString(name):
		errs.add("name", "Category name can only contain letters, numbers, spaces, hyphens and dots")
	}
}

func checkLength(errs *fieldErrors, field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		errs.add(field, "%s cannot exceed %d characters", field, max)
	}
}

func (in *CreateCategoryInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	var errs fieldErrors
	checkCategoryName(&errs, in.Name)
	checkLength(&errs, "description", in.Description, category.DescriptionMaxLength)
	return errs.err()
}

func (in *UpdateCategoryInput) Validate() error {
	var errs fieldErrors
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		checkCategoryName(&errs, name)
	}
	checkLength(&errs, "description", in.Description, category.DescriptionMaxLength)
	return errs.err()
}

func checkServiceName(errs *fieldErrors, name string) {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		errs.add("name", "Service name is required")
	} else if n > service.NameMaxLength {
		errs.add("name", "Service name cannot exceed %d characters", service.NameMaxLength)
	}
}

func checkPrice(errs *fieldErrors, price decimal.Decimal) {
	if price.IsNegative() || price.GreaterThan(service.MaxPrice) {
		errs.add("price", "Price must be between 0 and %s", service.MaxPrice.StringFixed(2))
	}
}

func checkDuration(errs *fieldErrors, d *int) {
	if d != nil && (*d < service.MinDurationMinutes || *d > service.MaxDurationMinutes) {
		errs.add("durationMinutes", "Duration must be between %d and %d minutes", service.MinDurationMinutes, service.MaxDurationMinutes)
	}
}

func (in *CreateServiceInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	var errs fieldErrors
	checkServiceName(&errs, in.Name)
	checkLength(&errs, "description", in.Description, service.DescriptionMaxLength)
	checkPrice(&errs, in.Price)
	checkDuration(&errs, in.DurationMinutes)
	return errs.err()
}

func (in *UpdateServiceInput) Validate() error {
	var errs fieldErrors
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		checkServiceName(&errs, name)
	}
	checkLength(&errs, "description", in.Description, service.DescriptionMaxLength)
	if in.Price != nil {
		checkPrice(&errs, *in.Price)
	}
	checkDuration(&errs, in.DurationMinutes)
	return errs.err()
}

// PageResult is one page of a listing together with the size of the full result.
type PageResult[T any] struct {
	Items  []T
	Total  int
	Offset int
	Limit  int
}
