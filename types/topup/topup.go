package topup

// TopupCreateRequest defines a new extension offer.
type TopupCreateRequest struct {
	Name          string  `json:"name" validate:"required"`
	DurationHours int     `json:"duration_hours" validate:"required,gt=0"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Category      string  `json:"category"`
}

// TopupUpdateRequest updates an existing offer; nil fields are left
// untouched.
type TopupUpdateRequest struct {
	Name          *string  `json:"name,omitempty"`
	DurationHours *int     `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category      *string  `json:"category,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}
