package override

import "time"

// CreateOverrideRequest for POST /overrides
type CreateOverrideRequest struct {
	SetupID  string   `json:"setup_id" validate:"required,uuid"`
	Kind     string   `json:"kind" validate:"required,override_kind"`
	DateFrom string   `json:"date_from" validate:"required,date"`
	DateTo   string   `json:"date_to" validate:"required,date"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Reason   string   `json:"reason" validate:"omitempty,max=500"`
}

// OverrideResponse is the API view of an override
type OverrideResponse struct {
	ID        string    `json:"id"`
	SetupID   string    `json:"setup_id"`
	Kind      string    `json:"kind"`
	DateFrom  string    `json:"date_from"`
	DateTo    string    `json:"date_to"`
	Price     *float64  `json:"price,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OverrideResponseFromEntity maps an override entity to its response form
func OverrideResponseFromEntity(o *Override) OverrideResponse {
	return OverrideResponse{
		ID:        o.ID.String(),
		SetupID:   o.SetupID.String(),
		Kind:      string(o.Kind),
		DateFrom:  o.DateFrom,
		DateTo:    o.DateTo,
		Price:     o.Price,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt,
	}
}
