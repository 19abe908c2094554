package car

import "time"

// Car carries the catalog fields the booking engine reads: daily rate,
// optional discounted rate, home site and catalog linkage.
type Car struct {
	ID             uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string   `gorm:"type:varchar(255);not null" json:"name"`
	RegistrationNo string   `gorm:"type:varchar(50);not null;unique" json:"registration_no"`
	DailyRate      float64  `gorm:"not null" json:"daily_rate"`
	DiscountedRate *float64 `json:"discounted_rate,omitempty"`

	ParkingID uint `gorm:"not null;index" json:"parking_id"`
	CatalogID uint `gorm:"not null;index" json:"catalog_id"`

	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// EffectiveDailyRate returns the discounted rate when present.
func (c *Car) EffectiveDailyRate() float64 {
	if c.DiscountedRate != nil && *c.DiscountedRate > 0 {
		return *c.DiscountedRate
	}
	return c.DailyRate
}
