package latefee

import (
	"time"

	"car-rental-booking/models/booking"
	"car-rental-booking/utils"
)

// Assessment is a point-in-time overdue computation. It is recomputed
// on demand and only fixed on the booking when late fees are paid or
// the car is returned.
type Assessment struct {
	IsOverdue    bool      `json:"is_overdue"`
	EffectiveEnd time.Time `json:"effective_end"`
	OverdueHours int       `json:"overdue_hours"`
	HourlyRate   float64   `json:"hourly_rate"`
	Amount       float64   `json:"amount"`
}

// Assess computes the late fee for a booking against the catalog's
// hourly rate fraction. The hourly rate is basePrice/24 scaled by the
// catalog fraction; every started hour past the effective end counts.
func Assess(b *booking.Booking, lateFeeRate float64, now time.Time) Assessment {
	effectiveEnd := b.EffectiveEndDate()

	a := Assessment{EffectiveEnd: effectiveEnd}
	if !now.After(effectiveEnd) {
		a.HourlyRate = utils.Round2(b.BasePrice / 24 * lateFeeRate)
		return a
	}

	hours := utils.CeilHours(now.Sub(effectiveEnd))
	a.IsOverdue = true
	a.OverdueHours = hours
	a.HourlyRate = utils.Round2(b.BasePrice / 24 * lateFeeRate)
	a.Amount = utils.Round2(b.BasePrice / 24 * lateFeeRate * float64(hours))
	return a
}
