package category

import (
	"time"

	"github.com/google/uuid"
)

const (
	NameMinLength        = 2
	NameMaxLength        = 100
	DescriptionMaxLength = 500
)

// Category groups services of a single tenant. Name is unique per tenant.
type Category struct {
	ID          uuid.UUID `db:"id"`
	TenantID    uuid.UUID `db:"tenant_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c *Category) SetCreatedAt(ts time.Time) { c.CreatedAt = ts }
func (c *Category) SetUpdatedAt(ts time.Time) { c.UpdatedAt = ts }

