package utils

import (
	"math"
	"os"
	"strconv"
	"time"
)

// Round2 rounds a monetary amount to 2 decimal places. All amounts are
// rounded at the point where they are persisted or reported.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CeilHours returns the number of started hours in d, never negative.
func CeilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}

// CeilDays returns the number of started 24-hour days in d.
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// GetEnvFloat reads a float from the environment, falling back to def
// when the variable is missing or malformed.
func GetEnvFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// GetEnv reads a string from the environment with a default.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
