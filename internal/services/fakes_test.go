package services

import (
	"context"
	"sync"

	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"
	"service-catalog/internal/domain/tenant"
	"service-catalog/internal/events"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
)

type memTenants struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]tenant.Tenant
	findErr error
	// insertErr is returned once by the next Insert
	insertErr error
}

func newMemTenants() *memTenants {
	return &memTenants{rows: map[uuid.UUID]tenant.Tenant{}}
}

func (m *memTenants) FindByID(_ context.Context, id uuid.UUID) (tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return tenant.Tenant{}, m.findErr
	}
	t, ok := m.rows[id]
	if !ok {
		return tenant.Tenant{}, catalog_errors.ErrNotFound
	}
	return t, nil
}

func (m *memTenants) Insert(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertErr; err != nil {
		m.insertErr = nil
		return err
	}
	if _, ok := m.rows[t.ID]; ok {
		return catalog_errors.ErrAlreadyExists
	}
	now := catalog_errors.NowUTC()
	t.CreatedAt, t.UpdatedAt = now, now
	m.rows[t.ID] = *t
	return nil
}

func (m *memTenants) Update(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		return catalog_errors.ErrNotFound
	}
	t.UpdatedAt = catalog_errors.NowUTC()
	m.rows[t.ID] = *t
	return nil
}

type memCategories struct {
	rows     map[uuid.UUID]category.Category
	services *memServices
}

func newMemCategories() *memCategories {
	return &memCategories{rows: map[uuid.UUID]category.Category{}}
}

func (m *memCategories) add(tenantID uuid.UUID, name string) category.Category {
	c := category.Category{ID: uuid.New(), TenantID: tenantID, Name: name}
	m.rows[c.ID] = c
	return c
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (category.Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return category.Category{}, catalog_errors.ErrNotFound
	}
	return c, nil
}

func (m *memCategories) FindByTenantAndName(_ context.Context, tenantID uuid.UUID, name string) (category.Category, error) {
	for _, c := range m.rows {
		if c.TenantID == tenantID && c.Name == name {
			return c, nil
		}
	}
	return category.Category{}, catalog_errors.ErrNotFound
}

func (m *memCategories) FindByServiceID(ctx context.Context, serviceID uuid.UUID) (category.Category, error) {
	if m.services == nil {
		return category.Category{}, catalog_errors.ErrNotFound
	}
	s, ok := m.services.rows[serviceID]
	if !ok || s.CategoryID == nil {
		return category.Category{}, catalog_errors.ErrNotFound
	}
	return m.FindByID(ctx, *s.CategoryID)
}

func (m *memCategories) List(_ context.Context, q catalog.CategoryQuery) ([]category.Category, int, error) {
	items := []category.Category{}
	for _, c := range m.rows {
		if c.TenantID == q.TenantID {
			items = append(items, c)
		}
	}
	return items, len(items), nil
}

func (m *memCategories) Create(_ context.Context, c *category.Category) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Update(_ context.Context, c *category.Category) error {
	if _, ok := m.rows[c.ID]; !ok {
		return catalog_errors.ErrNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return catalog_errors.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memServices struct {
	rows      map[uuid.UUID]service.Service
	lastQuery *catalog.ServiceQuery
}

func newMemServices() *memServices {
	return &memServices{rows: map[uuid.UUID]service.Service{}}
}

func (m *memServices) FindByID(_ context.Context, id uuid.UUID) (service.Listing, error) {
	s, ok := m.rows[id]
	if !ok {
		return service.Listing{}, catalog_errors.ErrNotFound
	}
	return service.Listing{Service: s}, nil
}

func (m *memServices) List(_ context.Context, q catalog.ServiceQuery) ([]service.Listing, int, error) {
	m.lastQuery = &q
	items := []service.Listing{}
	for _, s := range m.rows {
		if s.TenantID == q.Filter.TenantID {
			items = append(items, service.Listing{Service: s})
		}
	}
	return items, len(items), nil
}

func (m *memServices) Create(_ context.Context, s *service.Service) error {
	m.rows[s.ID] = *s
	return nil
}

func (m *memServices) Update(_ context.Context, s *service.Service) error {
	if _, ok := m.rows[s.ID]; !ok {
		return catalog_errors.ErrNotFound
	}
	m.rows[s.ID] = *s
	return nil
}

func (m *memServices) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return catalog_errors.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) PublishCatalogEvent(_ context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type())
	}
	return out
}
