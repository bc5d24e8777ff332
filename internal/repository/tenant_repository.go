package repository

import (
	"context"

	"service-catalog/internal/domain"
	"service-catalog/internal/domain/tenant"
	catalog_errors "service-catalog/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var tenantColumns = []string{"id", "business_name", "address", "created_at", "updated_at"}

type tenantRepository struct {
	db DBTX
}

func NewTenantRepository(db DBTX) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := get(ctx, r.db, &t, psql.Select(tenantColumns...).From("tenants").Where(sq.Eq{"id": id}))
	return t, err
}

func (r *tenantRepository) Insert(ctx context.Context, t *tenant.Tenant) error {
	domain.TouchForCreate(t, catalog_errors.NowUTC())
	return exec(ctx, r.db, psql.Insert("tenants").
		Columns(tenantColumns...).
		Values(t.ID, t.BusinessName, t.Address, t.CreatedAt, t.UpdatedAt))
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	domain.TouchForUpdate(t, catalog_errors.NowUTC())
	return exec(ctx, r.db, psql.Update("tenants").
		SetMap(map[string]interface{}{
			"business_name": t.BusinessName,
			"address":       t.Address,
			"updated_at":    t.UpdatedAt,
		}).
		Where(sq.Eq{"id": t.ID}))
}
