package booking

import "time"

// BookingCreateRequest is the renter's reservation request.
type BookingCreateRequest struct {
	CarID            uint       `json:"car_id" validate:"required"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	EndDate          time.Time  `json:"end_date" validate:"required"`
	PickupDate       *time.Time `json:"pickup_date,omitempty"`
	DropoffParkingID *uint      `json:"dropoff_parking_id,omitempty"`
	DeliveryCharges  float64    `json:"delivery_charges" validate:"gte=0"`
}

// PaymentRequest carries the opaque reference of a payment made
// through an external gateway.
type PaymentRequest struct {
	PaymentReferenceID string `json:"payment_reference_id" validate:"required"`
}

// ToolRequest is one tool handed over with the car. Loosely-typed
// legacy shapes are rejected at this boundary.
type ToolRequest struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required"`
}

// ConfirmationRequest is the renter's condition evidence submission.
type ConfirmationRequest struct {
	CarConditionImages []string      `json:"car_condition_images" validate:"required,min=1,dive,required"`
	ToolImages         []string      `json:"tool_images" validate:"omitempty,dive,required"`
	Tools              []ToolRequest `json:"tools" validate:"omitempty,dive"`
}

// ReviewRequest is the PIC's approve/reject decision.
type ReviewRequest struct {
	Approve  *bool   `json:"approve" validate:"required"`
	Comments *string `json:"comments,omitempty"`
}

// VerifyCodeRequest carries the renter's one-time pickup code.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// RescheduleRequest moves the booking window.
type RescheduleRequest struct {
	StartDate  time.Time  `json:"start_date" validate:"required"`
	EndDate    time.Time  `json:"end_date" validate:"required"`
	PickupDate *time.Time `json:"pickup_date,omitempty"`
}

// TopupApplyRequest applies a paid extension to an active booking.
type TopupApplyRequest struct {
	TopupID            uint   `json:"topup_id" validate:"required"`
	PaymentReferenceID string `json:"payment_reference_id" validate:"required"`
}

// ReturnRequest is the PIC's return inspection record.
type ReturnRequest struct {
	Condition string   `json:"condition" validate:"required"`
	Images    []string `json:"images" validate:"omitempty,dive,required"`
	Comments  *string  `json:"comments,omitempty"`
}
