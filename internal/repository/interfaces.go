package repository

import (
	"context"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"
	"service-catalog/internal/domain/tenant"

	"github.com/google/uuid"
)

// Repositories return catalog_errors.ErrNotFound for missing rows and
// catalog_errors.ErrAlreadyExists for unique violations. They perform no
// authorization: every tenant id they receive was resolved by the caller.

type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error)
	Insert(ctx context.Context, t *tenant.Tenant) error
	Update(ctx context.Context, t *tenant.Tenant) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (category.Category, error)
	FindByTenantAndName(ctx context.Context, tenantID uuid.UUID, name string) (category.Category, error)
	FindByServiceID(ctx context.Context, serviceID uuid.UUID) (category.Category, error)
	List(ctx context.Context, q catalog.CategoryQuery) ([]category.Category, int, error)
	Create(ctx context.Context, c *category.Category) error
	Update(ctx context.Context, c *category.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (service.Listing, error)
	List(ctx context.Context, q catalog.ServiceQuery) ([]service.Listing, int, error)
	Create(ctx context.Context, s *service.Service) error
	Update(ctx context.Context, s *service.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}
