package domain

import "time"

// Touchable is implemented by every mutable entity so storage can stamp
// audit timestamps without reflecting over its fields.
type Touchable interface {
	SetCreatedAt(t time.Time)
	SetUpdatedAt(t time.Time)
}

// TouchForCreate sets both timestamps to now.
func TouchForCreate(e Touchable, now time.Time) {
	e.SetCreatedAt(now)
	e.SetUpdatedAt(now)
}

// TouchForUpdate refreshes only the update timestamp.
func TouchForUpdate(e Touchable, now time.Time) {
	e.SetUpdatedAt(now)
}
