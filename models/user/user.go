package user

import (
	"time"

	"car-rental-booking/constants"
)

// User is the engine's narrow view of the user directory: identity,
// role, verification flag and (for PICs) the assigned parking site.
type User struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid      string  `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username  string  `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName string  `gorm:"type:varchar(255);not null" json:"legal_name"`
	Phone     string  `gorm:"type:varchar(20);not null;unique" json:"phone"`
	Email     *string `gorm:"type:varchar(255);unique" json:"email,omitempty"`

	Role     string `gorm:"type:varchar(20);not null;default:renter" json:"role"`
	Verified bool   `gorm:"default:false" json:"verified"`

	// Assigned site, set only for the PIC role.
	ParkingID *uint `gorm:"index" json:"parking_id,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// IsPICForSite reports whether the user is the site controller for the
// given parking site.
func (u *User) IsPICForSite(parkingID uint) bool {
	return u.Role == constants.RolePIC && u.ParkingID != nil && *u.ParkingID == parkingID
}
