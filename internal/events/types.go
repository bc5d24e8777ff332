package events

import (
	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names. They are the bare type names consumers switch on.
const (
	TypeCategoryCreated = "CategoryCreatedEvent"
	TypeCategoryEdited  = "CategoryEditedEvent"
	TypeCategoryDeleted = "CategoryDeletedEvent"
	TypeServiceCreated  = "ServiceCreatedEvent"
	TypeServiceEdited   = "ServiceEditedEvent"
	TypeServiceDeleted  = "ServiceDeletedEvent"
	TypeTenantCreated   = "TenantCreatedEvent"
	TypeTenantUpdated   = "TenantUpdatedEvent"
)

// Event is implemented by every domain event. Values are built once and
// never changed after being published.
type Event interface {
	ID() uuid.UUID
	Type() string
	// Discriminator is the type name fixed by the Go type, independent of
	// the eventType carried in the value.
	Discriminator() string
	// EntityID is the id of the aggregate the event is about.
	EntityID() string
}

type Base struct {
	EventID   uuid.UUID `json:"eventId"`
	EventType string    `json:"eventType"`
}

func newBase(eventType string) Base {
	return Base{EventID: uuid.New(), EventType: eventType}
}

func (b Base) ID() uuid.UUID { return b.EventID }
func (b Base) Type() string  { return b.EventType }

func (CategoryCreatedEvent) Discriminator() string { return TypeCategoryCreated }
func (CategoryEditedEvent) Discriminator() string  { return TypeCategoryEdited }
func (CategoryDeletedEvent) Discriminator() string { return TypeCategoryDeleted }
func (ServiceCreatedEvent) Discriminator() string  { return TypeServiceCreated }
func (ServiceEditedEvent) Discriminator() string   { return TypeServiceEdited }
func (ServiceDeletedEvent) Discriminator() string  { return TypeServiceDeleted }
func (TenantCreatedEvent) Discriminator() string   { return TypeTenantCreated }
func (TenantUpdatedEvent) Discriminator() string   { return TypeTenantUpdated }

// Category events

type CategoryPayload struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	TenantID    uuid.UUID `json:"tenantId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

func (p CategoryPayload) EntityID() string { return p.CategoryID.String() }

func categoryPayload(c category.Category) CategoryPayload {
	return CategoryPayload{
		CategoryID:  c.ID,
		TenantID:    c.TenantID,
		Name:        c.Name,
		Description: c.Description,
	}
}

type CategoryCreatedEvent struct {
	Base
	CategoryPayload
}

type CategoryEditedEvent struct {
	Base
	CategoryPayload
}

type CategoryDeletedEvent struct {
	Base
	CategoryID uuid.UUID `json:"categoryId"`
	TenantID   uuid.UUID `json:"tenantId"`
}

func (e CategoryDeletedEvent) EntityID() string { return e.CategoryID.String() }

func NewCategoryCreated(c category.Category) CategoryCreatedEvent {
	return CategoryCreatedEvent{Base: newBase(TypeCategoryCreated), CategoryPayload: categoryPayload(c)}
}

func NewCategoryEdited(c category.Category) CategoryEditedEvent {
	return CategoryEditedEvent{Base: newBase(TypeCategoryEdited), CategoryPayload: categoryPayload(c)}
}

func NewCategoryDeleted(c category.Category) CategoryDeletedEvent {
	return CategoryDeletedEvent{Base: newBase(TypeCategoryDeleted), CategoryID: c.ID, TenantID: c.TenantID}
}

// Service events

type ServicePayload struct {
	ServiceID       uuid.UUID       `json:"serviceId"`
	TenantID        uuid.UUID       `json:"tenantId"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	CategoryID      *uuid.UUID      `json:"categoryId,omitempty"`
	IsActive        bool            `json:"isActive"`
}

func (p ServicePayload) EntityID() string { return p.ServiceID.String() }

func servicePayload(s service.Service) ServicePayload {
	return ServicePayload{
		ServiceID:       s.ID,
		TenantID:        s.TenantID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		CategoryID:      s.CategoryID,
		IsActive:        s.IsActive,
	}
}

type ServiceCreatedEvent struct {
	Base
	ServicePayload
}

type ServiceEditedEvent struct {
	Base
	ServicePayload
}

type ServiceDeletedEvent struct {
	Base
	ServiceID uuid.UUID `json:"serviceId"`
	TenantID  uuid.UUID `json:"tenantId"`
}

func (e ServiceDeletedEvent) EntityID() string { return e.ServiceID.String() }

func NewServiceCreated(s service.Service) ServiceCreatedEvent {
	return ServiceCreatedEvent{Base: newBase(TypeServiceCreated), ServicePayload: servicePayload(s)}
}

func NewServiceEdited(s service.Service) ServiceEditedEvent {
	return ServiceEditedEvent{Base: newBase(TypeServiceEdited), ServicePayload: servicePayload(s)}
}

func NewServiceDeleted(s service.Service) ServiceDeletedEvent {
	return ServiceDeletedEvent{Base: newBase(TypeServiceDeleted), ServiceID: s.ID, TenantID: s.TenantID}
}

// Tenant events are produced upstream and only decoded here.

type TenantPayload struct {
	TenantID      uuid.UUID `json:"tenantId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	VatNumber     string    `json:"vatNumber"`
	BusinessName  string    `json:"businessName"`
	BusinessEmail *string   `json:"businessEmail,omitempty"`
	BusinessPhone *string   `json:"businessPhone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Description   *string   `json:"description,omitempty"`
}

func (p TenantPayload) EntityID() string { return p.TenantID.String() }

type TenantCreatedEvent struct {
	Base
	TenantPayload
}

type TenantUpdatedEvent struct {
	Base
	TenantPayload
}
