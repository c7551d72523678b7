package override

import (
	"time"

	"github.com/google/uuid"
)

// Kind represents the override kind
type Kind string

const (
	// KindBlocked takes a setup off the grid for the date range
	KindBlocked Kind = "blocked"
	// KindPriceOverride replaces the setup price for the date range
	KindPriceOverride Kind = "price_override"
)

// Override is an admin-authored exception for a setup over an inclusive date
// range. The booking path reads overrides but never mutates them.
type Override struct {
	ID        uuid.UUID
	SetupID   uuid.UUID
	Kind      Kind
	DateFrom  string // "2006-01-02", inclusive
	DateTo    string // "2006-01-02", inclusive
	Price     *float64
	Reason    string
	CreatedAt time.Time
}

// AppliesTo reports whether the override covers the given date. ISO dates
// compare correctly as strings.
func (o *Override) AppliesTo(date string) bool {
	return o.DateFrom <= date && date <= o.DateTo
}
