package booking

import (
	"time"

	"car-rental-booking/apperrors"
	"car-rental-booking/logger"
	bookingModel "car-rental-booking/models/booking"
	"car-rental-booking/services/latefee"
	"car-rental-booking/services/otp"
	"car-rental-booking/utils"
)

// VerifyPickupCode checks the renter's one-time code at the pickup
// site. Verification only flips the verification fields; the status
// transition to active happens at ConfirmPickup once every gate holds.
func (s *Service) VerifyPickupCode(actorID, bookingID uint, code string) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.isPICForPickupSite() && !cap.isAdmin() {
			return apperrors.Forbidden("only the site controller can verify the pickup code")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if err := otp.Verify(b, code, now); err != nil {
			return err
		}

		b.OTPVerified = true
		b.OTPVerifiedAt = &now
		b.OTPVerifiedBy = &cap.actor.ID

		// Keep an encrypted audit copy of the accepted code.
		if encrypted, err := utils.EncryptData(code); err != nil {
			logger.Error("Failed to encrypt verified pickup code", err)
		} else {
			b.VerifiedOTPEncrypted = &encrypted
		}

		return tx.SaveBooking(b)
	})
}

// ConfirmPickup hands the car over: both installments paid, evidence
// approved, code verified, and not already picked up.
func (s *Service) ConfirmPickup(actorID, bookingID uint) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.isPICForPickupSite() && !cap.isAdmin() {
			return apperrors.Forbidden("only the site controller can confirm pickup")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.ActualPickupDate != nil {
			return apperrors.Conflict("car has already been picked up")
		}
		if b.AdvancePaymentStatus != bookingModel.PaymentPaid {
			return apperrors.Conflict("advance payment has not been confirmed")
		}
		if b.FinalPaymentStatus != bookingModel.PaymentPaid {
			return apperrors.Conflict("final payment has not been confirmed")
		}
		if b.ConfirmationStatus != bookingModel.ConfirmationApproved {
			return apperrors.Conflict("booking condition has not been approved")
		}
		if !b.OTPVerified {
			return apperrors.Conflict("pickup code has not been verified")
		}

		b.ActualPickupDate = &now
		b.Status = bookingModel.StatusActive

		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		return s.recordStatus(tx, b, actorID)
	})
}

// RescheduleParams carry the new booking window.
type RescheduleParams struct {
	StartDate  time.Time
	EndDate    time.Time
	PickupDate *time.Time
}

// Reschedule moves the booking window. The original pickup moment is
// preserved on the first reschedule, the reschedule budget is enforced,
// and the verification code is regenerated only when the new pickup
// shifts its expiry beyond the drift threshold.
func (s *Service) Reschedule(actorID, bookingID uint, params RescheduleParams) (*bookingModel.Booking, error) {
	now := s.Now()

	if !params.EndDate.After(params.StartDate) {
		return nil, apperrors.BadRequest("end date must be after start date")
	}

	newPickup := params.StartDate
	if params.PickupDate != nil {
		newPickup = *params.PickupDate
		if newPickup.Before(params.StartDate) {
			return nil, apperrors.BadRequest("pickup date cannot be before the rental start")
		}
	}
	if !newPickup.After(now) {
		return nil, apperrors.BadRequest("new pickup time must be in the future")
	}

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking can no longer be rescheduled")
		}
		if b.ActualPickupDate != nil {
			return apperrors.Conflict("booking cannot be rescheduled after pickup")
		}
		if b.RescheduleCount >= b.MaxRescheduleCount {
			return apperrors.Conflict("maximum number of reschedules reached")
		}

		if err := tx.LockCar(b.CarID); err != nil {
			return err
		}
		overlap, err := tx.HasOverlap(b.CarID, params.StartDate, params.EndDate, b.ID)
		if err != nil {
			return err
		}
		if overlap {
			return apperrors.Conflict("car is already booked for the selected dates")
		}

		if b.OriginalPickupDate == nil {
			original := b.EffectivePickupDate()
			b.OriginalPickupDate = &original
		}

		b.StartDate = params.StartDate
		b.EndDate = params.EndDate
		b.PickupDate = params.PickupDate
		b.RescheduleCount++

		// Codes exist only once the advance installment is in.
		if b.AdvancePaymentStatus == bookingModel.PaymentPaid &&
			otp.ShouldRegenerate(b.OTPExpiresAt, newPickup, now) {
			code, err := s.codes.GenerateCode()
			if err != nil {
				return apperrors.Internal("failed to issue verification code", err)
			}
			expiry := otp.ExpiryFor(newPickup, now)
			b.OTPCode = &code
			b.OTPExpiresAt = &expiry
			b.OTPVerified = false
			b.OTPVerifiedAt = nil
			b.OTPVerifiedBy = nil
			b.VerifiedOTPEncrypted = nil
		}

		return tx.SaveBooking(b)
	})
}

// ApplyTopup extends an active booking against a paid catalog add-on.
// The usage row is written once and never mutated afterward.
func (s *Service) ApplyTopup(actorID, bookingID, topupID uint, paymentRef string) (*bookingModel.Booking, error) {
	if paymentRef == "" {
		return nil, apperrors.BadRequest("payment reference is required")
	}
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.Status != bookingModel.StatusActive {
			return apperrors.Conflict("extensions can only be applied to an active booking")
		}

		t, err := tx.GetTopup(topupID)
		if err != nil {
			return err
		}
		if !t.Active {
			return apperrors.Conflict("this topup is no longer available")
		}

		originalEnd := b.EffectiveEndDate()
		newEnd := originalEnd.Add(time.Duration(t.DurationHours) * time.Hour)

		usage := &bookingModel.BookingTopup{
			BookingID:          b.ID,
			TopupID:            t.ID,
			AppliedAt:          now,
			OriginalEndDate:    originalEnd,
			NewEndDate:         newEnd,
			Amount:             t.Price,
			PaymentStatus:      bookingModel.PaymentPaid,
			PaymentReferenceID: paymentRef,
		}
		if err := tx.CreateBookingTopup(usage); err != nil {
			return err
		}

		b.EndDate = newEnd
		b.ExtensionTill = &newEnd
		b.ExtensionPrice = utils.Round2(b.ExtensionPrice + t.Price)
		b.ExtensionTime += t.DurationHours

		return tx.SaveBooking(b)
	})
}

// AssessLateFees computes the current overdue state without mutating
// the booking. Once fees are paid the persisted amount is reported.
func (s *Service) AssessLateFees(actorID, bookingID uint) (*latefee.Assessment, error) {
	now := s.Now()

	var assessment latefee.Assessment
	err := s.store.Transaction(func(tx Store) error {
		actor, err := tx.GetUser(actorID)
		if err != nil {
			return err
		}
		b, err := tx.GetBooking(bookingID)
		if err != nil {
			return err
		}
		cap := capabilityFor(actor, b)
		if !cap.canRead() {
			return apperrors.Forbidden("you are not allowed to view this booking")
		}

		rate, err := s.lateFeeRate(tx, b)
		if err != nil {
			return err
		}
		assessment = latefee.Assess(b, rate, now)
		if b.LateFeesPaid {
			assessment.Amount = b.LateFees
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// PayLateFees fixes the late fee at its current computed value and
// records the caller's payment reference.
func (s *Service) PayLateFees(actorID, bookingID uint, paymentRef string) (*bookingModel.Booking, error) {
	if paymentRef == "" {
		return nil, apperrors.BadRequest("payment reference is required")
	}
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.LateFeesPaid {
			return apperrors.Conflict("late fees have already been paid")
		}

		rate, err := s.lateFeeRate(tx, b)
		if err != nil {
			return err
		}
		assessment := latefee.Assess(b, rate, now)
		if !assessment.IsOverdue {
			return apperrors.Conflict("booking is not overdue")
		}

		b.LateFees = assessment.Amount
		b.LateFeesPaid = true
		b.LateFeePaymentRef = &paymentRef

		return tx.SaveBooking(b)
	})
}

// ReturnParams carry the PIC's return inspection record.
type ReturnParams struct {
	Condition string
	Images    []string
	Comments  *string
}

// ConfirmReturn closes the rental at the dropoff site. An overdue
// booking cannot be returned until its late fees are settled; fees are
// finalized here if they were not fixed by an earlier payment.
func (s *Service) ConfirmReturn(actorID, bookingID uint, params ReturnParams) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.isPICForDropoffSite() && !cap.isAdmin() {
			return apperrors.Forbidden("only the site controller can confirm the return")
		}
		if b.Status != bookingModel.StatusActive {
			return apperrors.Conflict("booking is not active")
		}
		if b.ActualPickupDate == nil {
			return apperrors.Conflict("car has not been picked up")
		}
		if b.ActualDropoffDate != nil {
			return apperrors.Conflict("car has already been returned")
		}

		rate, err := s.lateFeeRate(tx, b)
		if err != nil {
			return err
		}
		assessment := latefee.Assess(b, rate, now)
		if assessment.IsOverdue && !b.LateFeesPaid {
			return apperrors.Conflict("outstanding late fees must be paid before return")
		}
		if !b.LateFeesPaid {
			b.LateFees = assessment.Amount
		}

		b.ActualDropoffDate = &now
		b.Status = bookingModel.StatusCompleted
		b.ReturnCondition = &params.Condition
		b.ReturnImages = params.Images
		b.ReturnComments = params.Comments

		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		return s.recordStatus(tx, b, actorID)
	})
}

func (s *Service) lateFeeRate(tx Store, b *bookingModel.Booking) (float64, error) {
	car, err := tx.GetCar(b.CarID)
	if err != nil {
		return 0, err
	}
	cat, err := tx.GetCatalog(car.CatalogID)
	if err != nil {
		return 0, err
	}
	return cat.EffectiveLateFeeRate(), nil
}
