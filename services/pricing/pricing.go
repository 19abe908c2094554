package pricing

import (
	"time"

	"car-rental-booking/apperrors"
	"car-rental-booking/utils"
)

// DefaultAdvanceRatio is the share of the base price collected as the
// first installment.
const DefaultAdvanceRatio = 0.30

// Calculator derives the price breakdown of a rental window.
type Calculator struct {
	AdvanceRatio float64
}

// NewCalculator reads the advance ratio from ADVANCE_PAYMENT_RATIO,
// falling back to the default.
func NewCalculator() *Calculator {
	ratio := utils.GetEnvFloat("ADVANCE_PAYMENT_RATIO", DefaultAdvanceRatio)
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultAdvanceRatio
	}
	return &Calculator{AdvanceRatio: ratio}
}

// Quote is the price breakdown for a booking window.
type Quote struct {
	Days            int     `json:"days"`
	BasePrice       float64 `json:"base_price"`
	AdvanceAmount   float64 `json:"advance_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	TotalPrice      float64 `json:"total_price"`
}

// Quote computes day count and installment split from the car's daily
// rate. Every started 24-hour period counts as a full day. The
// remaining amount is derived from the rounded advance so that
// advance + remaining equals the base price exactly.
func (c *Calculator) Quote(dailyRate float64, start, end time.Time, deliveryCharge float64) (*Quote, error) {
	if dailyRate <= 0 {
		return nil, apperrors.BadRequest("car has no valid daily rate")
	}
	if !end.After(start) {
		return nil, apperrors.BadRequest("end date must be after start date")
	}
	if deliveryCharge < 0 {
		return nil, apperrors.BadRequest("delivery charge cannot be negative")
	}

	days := utils.CeilDays(end.Sub(start))
	basePrice := utils.Round2(dailyRate * float64(days))
	advance := utils.Round2(basePrice * c.AdvanceRatio)
	remaining := utils.Round2(basePrice - advance)

	return &Quote{
		Days:            days,
		BasePrice:       basePrice,
		AdvanceAmount:   advance,
		RemainingAmount: remaining,
		TotalPrice:      utils.Round2(basePrice + deliveryCharge),
	}, nil
}
