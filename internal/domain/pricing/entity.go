package pricing

import (
	"time"

	"github.com/google/uuid"
)

// Band prices part of the operating day, as a half-open window [Start, End)
// in minutes since midnight. A slot is priced by the band containing its
// start.
type Band struct {
	Start int
	End   int
	Price float64
}

// Contains reports whether minute m falls inside the band
func (b Band) Contains(m int) bool {
	return b.Start <= m && m < b.End
}

// Rule is the base pricing for one setup, admin-owned and read-only to the
// booking path. At most one rule exists per setup.
type Rule struct {
	ID        uuid.UUID
	SetupID   uuid.UUID
	BasePrice float64
	Bands     []Band
	UpdatedAt time.Time
}
