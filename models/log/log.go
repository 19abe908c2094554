package log

import "time"

// Log stores one request audit row, written asynchronously.
type Log struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Method     string        `gorm:"type:varchar(10);not null" json:"method"`
	URL        string        `gorm:"type:varchar(2048);not null" json:"url"`
	UserID     *uint         `gorm:"index" json:"user_id,omitempty"`
	StatusCode int           `gorm:"not null" json:"status_code"`
	Latency    time.Duration `json:"latency"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
