package topup

import "time"

// Topup is a purchasable time extension offer.
type Topup struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	DurationHours int     `gorm:"not null" json:"duration_hours"`
	Price         float64 `gorm:"not null" json:"price"`
	Category      string  `gorm:"type:varchar(50)" json:"category"`
	Active        bool    `gorm:"default:true" json:"active"`
	CreatedBy     string  `gorm:"type:varchar(255)" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
