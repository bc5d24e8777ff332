package repository

import (
	"context"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain"
	"service-catalog/internal/domain/category"
	catalog_errors "service-catalog/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var categoryColumns = []string{
	"categories.id", "categories.tenant_id", "categories.name",
	"categories.description", "categories.created_at", "categories.updated_at",
}

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (category.Category, error) {
	var c category.Category
	err := get(ctx, r.db, &c, psql.Select(categoryColumns...).From("categories").Where(sq.Eq{"categories.id": id}))
	return c, err
}

func (r *categoryRepository) FindByTenantAndName(ctx context.Context, tenantID uuid.UUID, name string) (category.Category, error) {
	var c category.Category
	err := get(ctx, r.db, &c, psql.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"categories.tenant_id": tenantID, "categories.name": name}))
	return c, err
}

func (r *categoryRepository) FindByServiceID(ctx context.Context, serviceID uuid.UUID) (category.Category, error) {
	var c category.Category
	err := get(ctx, r.db, &c, psql.Select(categoryColumns...).
		From("services").
		Join("categories ON categories.id = services.category_id").
		Where(sq.Eq{"services.id": serviceID}))
	return c, err
}

func (r *categoryRepository) List(ctx context.Context, q catalog.CategoryQuery) ([]category.Category, int, error) {
	base := psql.Select().From("categories").Where(sq.Eq{"categories.tenant_id": q.TenantID})

	items := []category.Category{}
	total, err := countAndPage(ctx, r.db, &items, base, categoryColumns,
		[]string{"categories.name ASC", "categories.id ASC"}, q.Page.Offset, q.Page.Limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	domain.TouchForCreate(c, catalog_errors.NowUTC())
	return exec(ctx, r.db, psql.Insert("categories").
		Columns("id", "tenant_id", "name", "description", "created_at", "updated_at").
		Values(c.ID, c.TenantID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt))
}

// Update writes name and description. tenant_id is never changed.
func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	domain.TouchForUpdate(c, catalog_errors.NowUTC())
	return exec(ctx, r.db, psql.Update("categories").
		SetMap(map[string]interface{}{
			"name":        c.Name,
			"description": c.Description,
			"updated_at":  c.UpdatedAt,
		}).
		Where(sq.Eq{"id": c.ID, "tenant_id": c.TenantID}))
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return exec(ctx, r.db, psql.Delete("categories").Where(sq.Eq{"id": id}))
}
