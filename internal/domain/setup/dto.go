package setup

import "time"

// CreateSetupRequest for POST /setups
type CreateSetupRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateSetupRequest for PATCH /setups/{id}
type UpdateSetupRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Active *bool   `json:"active"`
}

// SetupResponse is the API view of a setup
type SetupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetupResponseFromEntity maps a setup entity to its response form
func SetupResponseFromEntity(s *Setup) SetupResponse {
	return SetupResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
