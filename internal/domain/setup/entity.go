package setup

import (
	"time"

	"github.com/google/uuid"
)

// Setup represents a physical gaming station. Retiring flips Active off; a
// setup referenced by bookings is never deleted.
type Setup struct {
	ID        uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
