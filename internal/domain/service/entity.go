package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	NameMaxLength          = 255
	DescriptionMaxLength   = 1000
	MinDurationMinutes     = 1
	MaxDurationMinutes     = 480
	DefaultDurationMinutes = 30
)

// MaxPrice is the largest price the numeric(12,2) column accepts.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Service is a bookable offering of a tenant. CategoryID, when set, points at
// a category of the same tenant.
type Service struct {
	ID              uuid.UUID       `db:"id"`
	TenantID        uuid.UUID       `db:"tenant_id"`
	Name            string          `db:"name"`
	Description     *string         `db:"description"`
	Price           decimal.Decimal `db:"price"`
	DurationMinutes int             `db:"duration_minutes"`
	CategoryID      *uuid.UUID      `db:"category_id"`
	IsActive        bool            `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (s *Service) SetCreatedAt(ts time.Time) { s.CreatedAt = ts }
func (s *Service) SetUpdatedAt(ts time.Time) { s.UpdatedAt = ts }

// Listing is a service row joined with its category and tenant replica.
type Listing struct {
	Service
	CategoryName *string `db:"category_name"`
	BusinessName *string `db:"business_name"`
	Address      *string `db:"address"`
}

// RoundPrice normalizes a price to two decimal places.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}

func init() {
	// prices travel as JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}
