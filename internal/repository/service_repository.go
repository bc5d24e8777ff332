package repository

import (
	"context"
	"strings"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain"
	"service-catalog/internal/domain/service"
	catalog_errors "service-catalog/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var listingColumns = []string{
	"s.id", "s.tenant_id", "s.name", "s.description", "s.price", "s.duration_minutes",
	"s.category_id", "s.is_active", "s.created_at", "s.updated_at",
	"c.name AS category_name", "t.business_name", "t.address",
}

var sortColumns = map[catalog.SortField]string{
	catalog.SortByName:      "s.name",
	catalog.SortByPrice:     "s.price",
	catalog.SortByDuration:  "s.duration_minutes",
	catalog.SortByCreatedAt: "s.created_at",
	catalog.SortByUpdatedAt: "s.updated_at",
}

type serviceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) ServiceRepository {
	return &serviceRepository{db: db}
}

func listingsFrom() sq.SelectBuilder {
	return psql.Select().
		From("services s").
		LeftJoin("categories c ON c.id = s.category_id").
		LeftJoin("tenants t ON t.id = s.tenant_id")
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (service.Listing, error) {
	var l service.Listing
	err := get(ctx, r.db, &l, listingsFrom().Columns(listingColumns...).Where(sq.Eq{"s.id": id}))
	return l, err
}

func (r *serviceRepository) List(ctx context.Context, q catalog.ServiceQuery) ([]service.Listing, int, error) {
	base := applyServiceFilter(listingsFrom(), q.Filter)

	items := []service.Listing{}
	total, err := countAndPage(ctx, r.db, &items, base, listingColumns, orderClause(q.Sort), q.Page.Offset, q.Page.Limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func applyServiceFilter(b sq.SelectBuilder, f catalog.ServiceFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"s.tenant_id": f.TenantID})
	if f.MinPrice != nil {
		b = b.Where(sq.GtOrEq{"s.price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		b = b.Where(sq.LtOrEq{"s.price": *f.MaxPrice})
	}
	if f.MaxDuration != nil {
		b = b.Where(sq.LtOrEq{"s.duration_minutes": *f.MaxDuration})
	}
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"s.category_id": *f.CategoryID})
	}
	if f.IsActive != nil {
		b = b.Where(sq.Eq{"s.is_active": *f.IsActive})
	}
	for _, m := range []struct{ column, value string }{
		{"s.name", f.ServiceName},
		{"c.name", f.CategoryName},
		{"t.address", f.Address},
		{"t.business_name", f.BusinessName},
	} {
		if m.value != "" {
			b = b.Where(sq.Expr(m.column+" ILIKE ?", containsPattern(m.value)))
		}
	}
	return b
}

func orderClause(s catalog.Sort) []string {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = sortColumns[catalog.SortByName]
	}
	dir := "ASC"
	if s.Direction == catalog.Descending {
		dir = "DESC"
	}
	return []string{column + " " + dir, "s.id " + dir}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches value as a literal substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

func (r *serviceRepository) Create(ctx context.Context, s *service.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	domain.TouchForCreate(s, catalog_errors.NowUTC())
	err := exec(ctx, r.db, psql.Insert("services").
		Columns("id", "tenant_id", "name", "description", "price", "duration_minutes",
			"category_id", "is_active", "created_at", "updated_at").
		Values(s.ID, s.TenantID, s.Name, s.Description, s.Price, s.DurationMinutes,
			s.CategoryID, s.IsActive, s.CreatedAt, s.UpdatedAt))
	if isForeignKeyViolation(err) {
		return catalog_errors.ErrNotFound
	}
	return err
}

func (r *serviceRepository) Update(ctx context.Context, s *service.Service) error {
	domain.TouchForUpdate(s, catalog_errors.NowUTC())
	err := exec(ctx, r.db, psql.Update("services").
		SetMap(map[string]interface{}{
			"name":             s.Name,
			"description":      s.Description,
			"price":            s.Price,
			"duration_minutes": s.DurationMinutes,
			"category_id":      s.CategoryID,
			"is_active":        s.IsActive,
			"updated_at":       s.UpdatedAt,
		}).
		Where(sq.Eq{"id": s.ID, "tenant_id": s.TenantID}))
	if isForeignKeyViolation(err) {
		return catalog_errors.ErrNotFound
	}
	return err
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return exec(ctx, r.db, psql.Delete("services").Where(sq.Eq{"id": id}))
}
