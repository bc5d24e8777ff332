package services

import (
	"context"
	"errors"

	"service-catalog/internal/access"
	"service-catalog/internal/catalog"
	"service-catalog/internal/domain/service"
	"service-catalog/internal/events"
	"service-catalog/internal/repository"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceService = "Service"

// ServiceService manages the bookable services of a tenant.
type ServiceService struct {
	repo       repository.ServiceRepository
	categories repository.CategoryRepository
	publisher  EventPublisher
	log        *zap.Logger
}

func NewServiceService(repo repository.ServiceRepository, categories repository.CategoryRepository, publisher EventPublisher, log *zap.Logger) *ServiceService {
	return &ServiceService{repo: repo, categories: categories, publisher: publisher, log: log.Named("service_service")}
}

func (s *ServiceService) List(ctx context.Context, caller access.Caller, req catalog.ServiceFilterRequest) (PageResult[service.Listing], error) {
	q, err := catalog.BuildServiceQuery(caller, req)
	if err != nil {
		return PageResult[service.Listing]{}, err
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return PageResult[service.Listing]{}, catalog_errors.Persistence("List", resourceService, err)
	}
	return PageResult[service.Listing]{Items: items, Total: total, Offset: q.Page.Offset, Limit: q.Page.Limit}, nil
}

// Get lets customers read any service and providers only their own.
func (s *ServiceService) Get(ctx context.Context, caller access.Caller, id uuid.UUID) (service.Listing, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return service.Listing{}, err
	}
	if err := access.CheckResource(caller, resourceService, access.ActionRead, l.TenantID); err != nil {
		return service.Listing{}, err
	}
	return l, nil
}

func (s *ServiceService) Create(ctx context.Context, caller access.Caller, in CreateServiceInput) (service.Listing, error) {
	tenantID, err := access.WriteScope(caller, resourceService, access.ActionCreate)
	if err != nil {
		return service.Listing{}, err
	}
	if err := in.Validate(); err != nil {
		return service.Listing{}, err
	}
	if err := s.checkCategory(ctx, tenantID, in.CategoryID, access.ActionCreate); err != nil {
		return service.Listing{}, err
	}

	svc := service.Service{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            in.Name,
		Description:     in.Description,
		Price:           service.RoundPrice(in.Price),
		DurationMinutes: service.DefaultDurationMinutes,
		CategoryID:      in.CategoryID,
		IsActive:        true,
	}
	if in.DurationMinutes != nil {
		svc.DurationMinutes = *in.DurationMinutes
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, &svc); err != nil {
		return service.Listing{}, s.writeError("Create", svc, err)
	}
	if err := publish(ctx, s.publisher, events.NewServiceCreated(svc)); err != nil {
		return service.Listing{}, err
	}
	s.log.Info("service created", zap.String("service_id", svc.ID.String()), zap.String("tenant_id", tenantID.String()))
	return s.find(ctx, svc.ID)
}

func (s *ServiceService) Update(ctx context.Context, caller access.Caller, id uuid.UUID, in UpdateServiceInput) (service.Listing, error) {
	tenantID, err := access.WriteScope(caller, resourceService, access.ActionUpdate)
	if err != nil {
		return service.Listing{}, err
	}
	if err := in.Validate(); err != nil {
		return service.Listing{}, err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return service.Listing{}, err
	}
	if err := access.CheckResource(caller, resourceService, access.ActionUpdate, current.TenantID); err != nil {
		return service.Listing{}, err
	}
	if err := s.checkCategory(ctx, tenantID, in.CategoryID, access.ActionUpdate); err != nil {
		return service.Listing{}, err
	}

	svc := current.Service
	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = in.Description
	}
	if in.Price != nil {
		svc.Price = service.RoundPrice(*in.Price)
	}
	if in.DurationMinutes != nil {
		svc.DurationMinutes = *in.DurationMinutes
	}
	if in.CategoryID != nil {
		svc.CategoryID = in.CategoryID
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, &svc); err != nil {
		return service.Listing{}, s.writeError("Update", svc, err)
	}
	if err := publish(ctx, s.publisher, events.NewServiceEdited(svc)); err != nil {
		return service.Listing{}, err
	}
	s.log.Info("service updated", zap.String("service_id", svc.ID.String()))
	return s.find(ctx, svc.ID)
}

func (s *ServiceService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	if _, err := access.WriteScope(caller, resourceService, access.ActionDelete); err != nil {
		return err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckResource(caller, resourceService, access.ActionDelete, current.TenantID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.writeError("Delete", current.Service, err)
	}
	if err := publish(ctx, s.publisher, events.NewServiceDeleted(current.Service)); err != nil {
		return err
	}
	s.log.Info("service deleted", zap.String("service_id", id.String()))
	return nil
}

// checkCategory enforces that a referenced category exists and belongs to
// the writing tenant.
func (s *ServiceService) checkCategory(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID, action string) error {
	if categoryID == nil {
		return nil
	}
	c, err := s.categories.FindByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, catalog_errors.ErrNotFound) {
			return catalog_errors.NotFound(resourceCategory, *categoryID)
		}
		return catalog_errors.Persistence("Get", resourceCategory, err)
	}
	if c.TenantID != tenantID {
		return catalog_errors.Authorization(resourceService, action, "Access denied. Category belongs to a different tenant.")
	}
	return nil
}

func (s *ServiceService) find(ctx context.Context, id uuid.UUID) (service.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog_errors.ErrNotFound) {
			return service.Listing{}, catalog_errors.NotFound(resourceService, id)
		}
		return service.Listing{}, catalog_errors.Persistence("Get", resourceService, err)
	}
	return l, nil
}

func (s *ServiceService) writeError(op string, svc service.Service, err error) error {
	if errors.Is(err, catalog_errors.ErrNotFound) {
		// the row, or its category, vanished between check and write
		return catalog_errors.NotFound(resourceService, svc.ID)
	}
	return catalog_errors.Persistence(op, resourceService, err)
}
