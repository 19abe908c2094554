package booking

import (
	"time"

	"car-rental-booking/models/topup"
)

// BookingTopup is an immutable usage record written once per extension
// application. Rows accumulate and are never updated or deleted,
// forming the audit trail of extensions.
type BookingTopup struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint        `gorm:"not null;index" json:"booking_id"`
	Booking   Booking     `gorm:"foreignKey:BookingID" json:"-"`
	TopupID   uint        `gorm:"not null;index" json:"topup_id"`
	Topup     topup.Topup `gorm:"foreignKey:TopupID" json:"topup"`

	AppliedAt       time.Time `gorm:"not null" json:"applied_at"`
	OriginalEndDate time.Time `gorm:"not null" json:"original_end_date"`
	NewEndDate      time.Time `gorm:"not null" json:"new_end_date"`
	Amount          float64   `gorm:"not null" json:"amount"`

	PaymentStatus      PaymentStatus `gorm:"type:varchar(10);not null" json:"payment_status"`
	PaymentReferenceID string        `gorm:"type:varchar(255);not null" json:"payment_reference_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingTopup model
func (BookingTopup) TableName() string {
	return "booking_topups"
}
