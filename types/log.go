package types

import "time"

// LogEntry is the request audit record pushed to the async logger.
type LogEntry struct {
	Method     string
	URL        string
	UserID     *uint
	StatusCode int
	Latency    time.Duration
	CreatedAt  time.Time
}
