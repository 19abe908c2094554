package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"car-rental-booking/apperrors"
	"car-rental-booking/models/booking"
)

// Expiration policy constants. A code issued close to pickup must die
// before the pickup slot itself; otherwise it gets a short fixed TTL.
const (
	NearPickupWindow = 2 * time.Hour
	NearPickupMargin = 30 * time.Minute
	DefaultTTL       = 15 * time.Minute

	// RegenerateThreshold is the expiry drift beyond which a reschedule
	// invalidates the current code.
	RegenerateThreshold = 5 * time.Minute
)

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

// Issuer generates 4-digit pickup verification codes. Collisions across
// bookings are acceptable since verification is scoped to one booking.
type Issuer struct{}

// NewIssuer creates a new code issuer
func NewIssuer() *Issuer {
	return &Issuer{}
}

// GenerateCode generates a uniformly random 4-digit code.
func (i *Issuer) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// ExpiryFor computes when a code issued now for the given pickup moment
// expires. Within two hours of pickup the code lives until 30 minutes
// before pickup; otherwise it lives 15 minutes from issuance.
func ExpiryFor(pickup, now time.Time) time.Time {
	if pickup.Sub(now) <= NearPickupWindow {
		return pickup.Add(-NearPickupMargin)
	}
	return now.Add(DefaultTTL)
}

// ShouldRegenerate decides whether a reschedule invalidates the stored
// code: always when no code exists, otherwise only when the expiry that
// would apply for the new pickup drifts more than the threshold from
// the stored one.
func ShouldRegenerate(currentExpiry *time.Time, newPickup, now time.Time) bool {
	if currentExpiry == nil {
		return true
	}
	diff := ExpiryFor(newPickup, now).Sub(*currentExpiry)
	if diff < 0 {
		diff = -diff
	}
	return diff > RegenerateThreshold
}

// Verify checks a submitted code against the booking's stored one. The
// checks run in a fixed order and the first failing condition
// determines the reported error.
func Verify(b *booking.Booking, input string, now time.Time) error {
	if b.OTPCode == nil || *b.OTPCode == "" {
		return apperrors.NotFound("verification code")
	}
	if b.OTPVerified {
		return apperrors.Conflict("verification code has already been used")
	}
	if b.OTPExpiresAt == nil || now.After(*b.OTPExpiresAt) {
		return apperrors.Conflict("verification code has expired")
	}
	if !codePattern.MatchString(input) {
		return apperrors.BadRequest("verification code must be exactly 4 digits")
	}
	if input != *b.OTPCode {
		return apperrors.BadRequest("incorrect verification code")
	}
	return nil
}
