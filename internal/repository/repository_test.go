package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/tenant"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	query string
	args  []interface{}
}

type fakeDB struct {
	total    int
	affected int64
	execErr  error
	getErr   error

	execs   []call
	gets    []call
	selects []call
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.execs = append(f.execs, call{query, args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	return driver.RowsAffected(f.affected), nil
}

func (f *fakeDB) GetContext(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	f.gets = append(f.gets, call{query, args})
	if f.getErr != nil {
		return f.getErr
	}
	if n, ok := dest.(*int); ok {
		*n = f.total
	}
	return nil
}

func (f *fakeDB) SelectContext(_ context.Context, _ interface{}, query string, args ...interface{}) error {
	f.selects = append(f.selects, call{query, args})
	return nil
}

func TestServiceListUsesSamePredicateForCountAndPage(t *testing.T) {
	db := &fakeDB{total: 42}
	repo := NewServiceRepository(db)

	tenantID := uuid.New()
	minPrice := decimal.NewFromInt(10)
	active := true
	_, total, err := repo.List(context.Background(), catalog.ServiceQuery{
		Filter: catalog.ServiceFilter{
			TenantID:    tenantID,
			MinPrice:    &minPrice,
			IsActive:    &active,
			ServiceName: "fade",
		},
		Sort: catalog.Sort{Field: catalog.SortByPrice, Direction: catalog.Descending},
		Page: catalog.Page{Offset: 20, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, total)

	require.Len(t, db.gets, 1)
	require.Len(t, db.selects, 1)
	count, page := db.gets[0], db.selects[0]

	assert.Contains(t, count.query, "SELECT COUNT(*) FROM services s")
	assert.Contains(t, count.query, "WHERE s.tenant_id = $1")
	assert.Contains(t, count.query, "s.name ILIKE $4")
	require.GreaterOrEqual(t, len(page.args), len(count.args))
	assert.Equal(t, count.args, page.args[:len(count.args)])
	assert.Equal(t, tenantID.String(), count.args[0])
	assert.Equal(t, "%fade%", count.args[3])

	assert.Contains(t, page.query, "c.name AS category_name")
	assert.Contains(t, page.query, "LEFT JOIN tenants t ON t.id = s.tenant_id")
	assert.Contains(t, page.query, "ORDER BY s.price DESC, s.id DESC")
}

func TestServiceListSkipsPageQueryPastTheEnd(t *testing.T) {
	db := &fakeDB{total: 5}
	repo := NewServiceRepository(db)

	items, total, err := repo.List(context.Background(), catalog.ServiceQuery{
		Filter: catalog.ServiceFilter{TenantID: uuid.New()},
		Sort:   catalog.DefaultSort,
		Page:   catalog.Page{Offset: 5, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Empty(t, db.selects)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, containsPattern("50% off_now"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestCategoryListOrdersByName(t *testing.T) {
	db := &fakeDB{total: 1}
	repo := NewCategoryRepository(db)

	_, _, err := repo.List(context.Background(), catalog.CategoryQuery{TenantID: uuid.New(), Page: catalog.Page{Limit: 100}})
	require.NoError(t, err)
	require.Len(t, db.selects, 1)
	assert.Contains(t, db.selects[0].query, "ORDER BY categories.name ASC, categories.id ASC")
}

func TestCreateStampsTimestampsAndAssignsID(t *testing.T) {
	db := &fakeDB{affected: 1}
	repo := NewCategoryRepository(db)

	c := category.Category{TenantID: uuid.New(), Name: "Haircuts"}
	require.NoError(t, repo.Create(context.Background(), &c))

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Contains(t, db.execs[0].query, "INSERT INTO categories")
}

func TestExecMapsUniqueViolation(t *testing.T) {
	db := &fakeDB{execErr: &pgconn.PgError{Code: pgUniqueViolation}}
	repo := NewTenantRepository(db)

	err := repo.Insert(context.Background(), &tenant.Tenant{ID: uuid.New(), BusinessName: "Acme"})
	assert.ErrorIs(t, err, catalog_errors.ErrAlreadyExists)
}

func TestExecReportsNotFoundWhenNothingChanged(t *testing.T) {
	db := &fakeDB{affected: 0}
	repo := NewTenantRepository(db)

	err := repo.Update(context.Background(), &tenant.Tenant{ID: uuid.New(), BusinessName: "Acme"})
	assert.ErrorIs(t, err, catalog_errors.ErrNotFound)
}

func TestGetMapsNoRows(t *testing.T) {
	db := &fakeDB{getErr: sql.ErrNoRows}
	repo := NewServiceRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog_errors.ErrNotFound)

	db.getErr = errors.New("connection refused")
	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.NotErrorIs(t, err, catalog_errors.ErrNotFound)
}

func TestWithTxRunsDirectlyOnPlainDBTX(t *testing.T) {
	db := &fakeDB{}
	called := false
	err := WithTx(context.Background(), db, func(tx DBTX) error {
		called = true
		assert.Same(t, db, tx)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
