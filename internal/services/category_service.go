package services

import (
	"context"
	"errors"
	"fmt"

	"service-catalog/internal/access"
	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/category"
	"service-catalog/internal/events"
	"service-catalog/internal/repository"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	resourceCategory = "Category"

	ConflictDuplicateCategoryName = "DuplicateCategoryName"
)

type CategoryService struct {
	repo      repository.CategoryRepository
	publisher EventPublisher
	log       *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, publisher EventPublisher, log *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, publisher: publisher, log: log.Named("category_service")}
}

func (s *CategoryService) List(ctx context.Context, caller access.Caller, tenantID *uuid.UUID, offset, limit *int) (PageResult[category.Category], error) {
	q, err := catalog.BuildCategoryQuery(caller, tenantID, offset, limit)
	if err != nil {
		return PageResult[category.Category]{}, err
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return PageResult[category.Category]{}, catalog_errors.Persistence("List", resourceCategory, err)
	}
	return PageResult[category.Category]{Items: items, Total: total, Offset: q.Page.Offset, Limit: q.Page.Limit}, nil
}

// Get is available to providers only, and only for their own tenant.
func (s *CategoryService) Get(ctx context.Context, caller access.Caller, id uuid.UUID) (category.Category, error) {
	if _, err := access.RequireProvider(caller, resourceCategory); err != nil {
		return category.Category{}, err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return category.Category{}, err
	}
	if err := access.CheckResource(caller, resourceCategory, access.ActionRead, c.TenantID); err != nil {
		return category.Category{}, err
	}
	return c, nil
}

// GetForService returns the category a service belongs to.
func (s *CategoryService) GetForService(ctx context.Context, caller access.Caller, serviceID uuid.UUID) (category.Category, error) {
	c, err := s.repo.FindByServiceID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalog_errors.ErrNotFound) {
			e := catalog_errors.NotFound(resourceCategory, serviceID)
			e.Message = fmt.Sprintf("No category found for service %s", serviceID)
			return category.Category{}, e
		}
		return category.Category{}, catalog_errors.Persistence("Get", resourceCategory, err)
	}
	if err := access.CheckResource(caller, resourceCategory, access.ActionAccess, c.TenantID); err != nil {
		return category.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, caller access.Caller, in CreateCategoryInput) (category.Category, error) {
	tenantID, err := access.WriteScope(caller, resourceCategory, access.ActionCreate)
	if err != nil {
		return category.Category{}, err
	}
	if err := in.Validate(); err != nil {
		return category.Category{}, err
	}
	if err := s.ensureUniqueName(ctx, tenantID, in.Name, uuid.Nil); err != nil {
		return category.Category{}, err
	}

	c := category.Category{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return category.Category{}, s.writeError("Create", c, err)
	}

	if err := publish(ctx, s.publisher, events.NewCategoryCreated(c)); err != nil {
		return category.Category{}, err
	}
	s.log.Info("category created", zap.String("category_id", c.ID.String()), zap.String("tenant_id", tenantID.String()))
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, caller access.Caller, id uuid.UUID, in UpdateCategoryInput) (category.Category, error) {
	tenantID, err := access.WriteScope(caller, resourceCategory, access.ActionUpdate)
	if err != nil {
		return category.Category{}, err
	}
	if err := in.Validate(); err != nil {
		return category.Category{}, err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return category.Category{}, err
	}
	if err := access.CheckResource(caller, resourceCategory, access.ActionUpdate, c.TenantID); err != nil {
		return category.Category{}, err
	}

	if in.Name != nil && *in.Name != c.Name {
		if err := s.ensureUniqueName(ctx, tenantID, *in.Name, c.ID); err != nil {
			return category.Category{}, err
		}
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = in.Description
	}

	if err := s.repo.Update(ctx, &c); err != nil {
		return category.Category{}, s.writeError("Update", c, err)
	}

	if err := publish(ctx, s.publisher, events.NewCategoryEdited(c)); err != nil {
		return category.Category{}, err
	}
	s.log.Info("category updated", zap.String("category_id", c.ID.String()))
	return c, nil
}

// Delete removes a category. Services pointing at it keep existing with no
// category.
func (s *CategoryService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	if _, err := access.WriteScope(caller, resourceCategory, access.ActionDelete); err != nil {
		return err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckResource(caller, resourceCategory, access.ActionDelete, c.TenantID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return s.writeError("Delete", c, err)
	}

	if err := publish(ctx, s.publisher, events.NewCategoryDeleted(c)); err != nil {
		return err
	}
	s.log.Info("category deleted", zap.String("category_id", c.ID.String()))
	return nil
}

func (s *CategoryService) find(ctx context.Context, id uuid.UUID) (category.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog_errors.ErrNotFound) {
			return category.Category{}, catalog_errors.NotFound(resourceCategory, id)
		}
		return category.Category{}, catalog_errors.Persistence("Get", resourceCategory, err)
	}
	return c, nil
}

// ensureUniqueName rejects name if another category of the tenant, other
// than self, already uses it.
func (s *CategoryService) ensureUniqueName(ctx context.Context, tenantID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByTenantAndName(ctx, tenantID, name)
	switch {
	case errors.Is(err, catalog_errors.ErrNotFound):
		return nil
	case err != nil:
		return catalog_errors.Persistence("Get", resourceCategory, err)
	case existing.ID == self:
		return nil
	default:
		return duplicateName(name)
	}
}

func (s *CategoryService) writeError(op string, c category.Category, err error) error {
	switch {
	case errors.Is(err, catalog_errors.ErrAlreadyExists):
		return duplicateName(c.Name)
	case errors.Is(err, catalog_errors.ErrNotFound):
		return catalog_errors.NotFound(resourceCategory, c.ID)
	default:
		return catalog_errors.Persistence(op, resourceCategory, err)
	}
}

func duplicateName(name string) error {
	return catalog_errors.Conflict(ConflictDuplicateCategoryName,
		fmt.Sprintf("A category with name '%s' already exists in this tenant.", name))
}

// publish sends event and makes sure a failure surfaces as a publish error.
func publish(ctx context.Context, p EventPublisher, event events.Event) error {
	if err := p.PublishCatalogEvent(ctx, event); err != nil {
		if errors.Is(err, catalog_errors.ErrPublish) {
			return err
		}
		return catalog_errors.PublishFailed(event.Type(), err)
	}
	return nil
}
