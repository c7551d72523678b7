package pricing

import (
	"time"

	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// BandRequest is one time-of-day price band in a rule update
type BandRequest struct {
	Start string  `json:"start" validate:"required,clock"`
	End   string  `json:"end" validate:"required,clock"`
	Price float64 `json:"price" validate:"gte=0"`
}

// SetRuleRequest for PUT /pricing/{setupID}
type SetRuleRequest struct {
	BasePrice float64       `json:"base_price" validate:"gte=0"`
	Bands     []BandRequest `json:"bands" validate:"omitempty,dive"`
}

// BandResponse is the API view of a price band
type BandResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Price float64 `json:"price"`
}

// RuleResponse is the API view of a pricing rule
type RuleResponse struct {
	SetupID   string         `json:"setup_id"`
	BasePrice float64        `json:"base_price"`
	Bands     []BandResponse `json:"bands,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RuleResponseFromEntity maps a rule entity to its response form
func RuleResponseFromEntity(r *Rule) RuleResponse {
	resp := RuleResponse{
		SetupID:   r.SetupID.String(),
		BasePrice: r.BasePrice,
		UpdatedAt: r.UpdatedAt,
	}
	for _, b := range r.Bands {
		resp.Bands = append(resp.Bands, BandResponse{
			Start: timegrid.FormatClock(b.Start),
			End:   timegrid.FormatClock(b.End),
			Price: b.Price,
		})
	}
	return resp
}
