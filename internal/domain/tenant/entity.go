package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the local replica of a provider organization. Rows are written
// only by the tenant events consumer.
type Tenant struct {
	ID           uuid.UUID `db:"id"`
	BusinessName string    `db:"business_name"`
	Address      string    `db:"address"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (t *Tenant) SetCreatedAt(ts time.Time) { t.CreatedAt = ts }
func (t *Tenant) SetUpdatedAt(ts time.Time) { t.UpdatedAt = ts }

