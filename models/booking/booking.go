package booking

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"car-rental-booking/models/car"
	"car-rental-booking/models/user"
)

// DefaultMaxRescheduleCount limits how many times a renter can move a
// booking.
const DefaultMaxRescheduleCount = 3

// Booking is the central reservation record. All mutation goes through
// the state-machine operations in services/booking.
type Booking struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNumber string `gorm:"type:varchar(64);not null;unique" json:"booking_number"`

	RenterID uint      `gorm:"not null;index" json:"renter_id"`
	Renter   user.User `gorm:"foreignKey:RenterID" json:"renter"`
	CarID    uint      `gorm:"not null;index" json:"car_id"`
	Car      car.Car   `gorm:"foreignKey:CarID" json:"car"`

	PickupParkingID  uint `gorm:"not null" json:"pickup_parking_id"`
	DropoffParkingID uint `gorm:"not null" json:"dropoff_parking_id"`

	// Schedule
	StartDate          time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate            time.Time  `gorm:"not null;index" json:"end_date"`
	PickupDate         *time.Time `json:"pickup_date,omitempty"`
	ActualPickupDate   *time.Time `json:"actual_pickup_date,omitempty"`
	ActualDropoffDate  *time.Time `json:"actual_dropoff_date,omitempty"`
	OriginalPickupDate *time.Time `json:"original_pickup_date,omitempty"`
	RescheduleCount    int        `gorm:"default:0" json:"reschedule_count"`
	MaxRescheduleCount int        `gorm:"default:3" json:"max_reschedule_count"`

	// Money
	BasePrice         float64    `gorm:"not null" json:"base_price"`
	AdvanceAmount     float64    `gorm:"not null" json:"advance_amount"`
	RemainingAmount   float64    `gorm:"not null" json:"remaining_amount"`
	TotalPrice        float64    `gorm:"not null" json:"total_price"`
	DeliveryCharges   float64    `gorm:"default:0" json:"delivery_charges"`
	ExtensionPrice    float64    `gorm:"default:0" json:"extension_price"`
	ExtensionTill     *time.Time `json:"extension_till,omitempty"`
	ExtensionTime     int        `gorm:"default:0" json:"extension_time"` // hours
	LateFees          float64    `gorm:"default:0" json:"late_fees"`
	LateFeesPaid      bool       `gorm:"default:false" json:"late_fees_paid"`
	LateFeePaymentRef *string    `gorm:"type:varchar(255)" json:"late_fee_payment_ref,omitempty"`

	// Lifecycle
	Status               Status             `gorm:"type:varchar(20);not null;index" json:"status"`
	ConfirmationStatus   ConfirmationStatus `gorm:"type:varchar(20);not null" json:"confirmation_status"`
	AdvancePaymentStatus PaymentStatus      `gorm:"type:varchar(10);not null" json:"advance_payment_status"`
	FinalPaymentStatus   PaymentStatus      `gorm:"type:varchar(10);not null" json:"final_payment_status"`
	AdvancePaymentRef    *string            `gorm:"type:varchar(255)" json:"advance_payment_ref,omitempty"`
	FinalPaymentRef      *string            `gorm:"type:varchar(255)" json:"final_payment_ref,omitempty"`

	// Pickup verification code
	OTPCode              *string    `gorm:"type:varchar(4)" json:"-"`
	OTPExpiresAt         *time.Time `json:"otp_expires_at,omitempty"`
	OTPVerified          bool       `gorm:"default:false" json:"otp_verified"`
	OTPVerifiedAt        *time.Time `json:"otp_verified_at,omitempty"`
	OTPVerifiedBy        *uint      `json:"otp_verified_by,omitempty"`
	VerifiedOTPEncrypted *string    `gorm:"type:text" json:"-"`

	// Condition evidence submitted by the renter and reviewed by the PIC
	CarConditionImages StringSlice `gorm:"type:json" json:"car_condition_images"`
	ToolImages         StringSlice `gorm:"type:json" json:"tool_images"`
	Tools              ToolList    `gorm:"type:json" json:"tools"`
	UserConfirmed      bool        `gorm:"default:false" json:"user_confirmed"`
	UserConfirmedAt    *time.Time  `json:"user_confirmed_at,omitempty"`
	PICApproved        *bool       `json:"pic_approved,omitempty"`
	PICApprovedAt      *time.Time  `json:"pic_approved_at,omitempty"`
	PICApprovedBy      *uint       `json:"pic_approved_by,omitempty"`
	PICComments        *string     `gorm:"type:text" json:"pic_comments,omitempty"`

	// Return
	ReturnCondition *string     `gorm:"type:varchar(50)" json:"return_condition,omitempty"`
	ReturnImages    StringSlice `gorm:"type:json" json:"return_images"`
	ReturnComments  *string     `gorm:"type:text" json:"return_comments,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// EffectiveEndDate is the rental end including any paid extension.
func (b *Booking) EffectiveEndDate() time.Time {
	if b.ExtensionTill != nil {
		return *b.ExtensionTill
	}
	return b.EndDate
}

// EffectivePickupDate is the explicit pickup slot when set, else the
// rental start.
func (b *Booking) EffectivePickupDate() time.Time {
	if b.PickupDate != nil {
		return *b.PickupDate
	}
	return b.StartDate
}

// ToolItem is one named tool handed over with the car, with its image
// reference. Legacy untyped tool payloads are rejected at the boundary.
type ToolItem struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ToolList stores tool entries as a JSON column.
type ToolList []ToolItem

func (tl *ToolList) Scan(value interface{}) error {
	if value == nil {
		*tl = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, tl)
}

func (tl ToolList) Value() (driver.Value, error) {
	if tl == nil {
		return nil, nil
	}
	return json.Marshal(tl)
}

// StringSlice is a custom type to handle JSON serialization for PostgreSQL
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}
