package catalog

import "time"

// DefaultLateFeeRate applies when a catalog does not define one.
const DefaultLateFeeRate = 0.10

// Catalog groups cars and defines the hourly late-fee rate as a
// fraction of the daily price.
type Catalog struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	LateFeeRate *float64 `json:"late_fee_rate,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectiveLateFeeRate returns the configured rate or the default.
func (c *Catalog) EffectiveLateFeeRate() float64 {
	if c.LateFeeRate != nil && *c.LateFeeRate > 0 {
		return *c.LateFeeRate
	}
	return DefaultLateFeeRate
}
