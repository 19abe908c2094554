package booking

import (
	"fmt"
	"time"

	"car-rental-booking/apperrors"
	"car-rental-booking/constants"
	"car-rental-booking/logger"
	bookingModel "car-rental-booking/models/booking"
	"car-rental-booking/services/otp"
	"car-rental-booking/services/pricing"
	"car-rental-booking/utils"

	"github.com/google/uuid"
)

// CodeGenerator produces pickup verification codes. otp.Issuer is the
// production implementation; tests inject a scripted one.
type CodeGenerator interface {
	GenerateCode() (string, error)
}

// Service is the booking state machine. It is stateless between calls;
// all durable state lives in the Store, and every operation is one
// atomic read-validate-write transaction.
type Service struct {
	store   Store
	pricing *pricing.Calculator
	codes   CodeGenerator

	// Now is the injected clock; tests pin it.
	Now func() time.Time
}

// NewService creates a booking service
func NewService(store Store, calc *pricing.Calculator, codes CodeGenerator) *Service {
	return &Service{
		store:   store,
		pricing: calc,
		codes:   codes,
		Now:     time.Now,
	}
}

// CreateParams are the renter-supplied creation inputs.
type CreateParams struct {
	CarID            uint
	StartDate        time.Time
	EndDate          time.Time
	PickupDate       *time.Time
	DropoffParkingID *uint
	DeliveryCharges  float64
}

// Create reserves a car for a date range. The availability check and
// the insert run under a per-car lock inside one transaction so two
// concurrent requests cannot both pass the check.
func (s *Service) Create(actorID uint, params CreateParams) (*bookingModel.Booking, error) {
	now := s.Now()

	if !params.EndDate.After(params.StartDate) {
		return nil, apperrors.BadRequest("end date must be after start date")
	}
	if params.PickupDate != nil && params.PickupDate.Before(params.StartDate) {
		return nil, apperrors.BadRequest("pickup date cannot be before the rental start")
	}

	var created *bookingModel.Booking
	err := s.store.Transaction(func(tx Store) error {
		actor, err := tx.GetUser(actorID)
		if err != nil {
			return err
		}
		if actor.Role != constants.RoleRenter && !actor.IsAdmin() {
			return apperrors.Forbidden("only renters can create bookings")
		}
		if !actor.Verified {
			return apperrors.Forbidden("renter account is not verified")
		}

		car, err := tx.GetCar(params.CarID)
		if err != nil {
			return err
		}
		if !car.Active {
			return apperrors.Conflict("car is not available for booking")
		}

		quote, err := s.pricing.Quote(car.EffectiveDailyRate(), params.StartDate, params.EndDate, params.DeliveryCharges)
		if err != nil {
			return err
		}

		if err := tx.LockCar(car.ID); err != nil {
			return err
		}
		overlap, err := tx.HasOverlap(car.ID, params.StartDate, params.EndDate, 0)
		if err != nil {
			return err
		}
		if overlap {
			return apperrors.Conflict("car is already booked for the selected dates")
		}

		dropoffID := car.ParkingID
		if params.DropoffParkingID != nil {
			dropoffID = *params.DropoffParkingID
		}

		b := &bookingModel.Booking{
			BookingNumber:    uuid.NewString(),
			RenterID:         actor.ID,
			CarID:            car.ID,
			PickupParkingID:  car.ParkingID,
			DropoffParkingID: dropoffID,

			StartDate:          params.StartDate,
			EndDate:            params.EndDate,
			PickupDate:         params.PickupDate,
			MaxRescheduleCount: bookingModel.DefaultMaxRescheduleCount,

			BasePrice:       quote.BasePrice,
			AdvanceAmount:   quote.AdvanceAmount,
			RemainingAmount: quote.RemainingAmount,
			TotalPrice:      quote.TotalPrice,
			DeliveryCharges: utils.Round2(params.DeliveryCharges),

			Status:               bookingModel.StatusPending,
			ConfirmationStatus:   bookingModel.ConfirmationPending,
			AdvancePaymentStatus: bookingModel.PaymentPending,
			FinalPaymentStatus:   bookingModel.PaymentPending,

			CreatedAt: now,
		}

		if err := tx.CreateBooking(b); err != nil {
			return err
		}
		if err := s.recordStatus(tx, b, actor.ID); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Booking %s created for car %d", created.BookingNumber, created.CarID))
	return created, nil
}

// ConfirmAdvancePayment records the first installment and issues the
// pickup verification code keyed to the pickup slot (or rental start).
func (s *Service) ConfirmAdvancePayment(actorID, bookingID uint, paymentRef string) (*bookingModel.Booking, error) {
	if paymentRef == "" {
		return nil, apperrors.BadRequest("payment reference is required")
	}
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.AdvancePaymentStatus == bookingModel.PaymentPaid {
			return apperrors.Conflict("advance payment has already been confirmed")
		}
		if b.Status != bookingModel.StatusPending {
			return apperrors.Conflict("booking is not awaiting advance payment")
		}

		code, err := s.codes.GenerateCode()
		if err != nil {
			return apperrors.Internal("failed to issue verification code", err)
		}
		expiry := otp.ExpiryFor(b.EffectivePickupDate(), now)

		b.AdvancePaymentStatus = bookingModel.PaymentPaid
		b.AdvancePaymentRef = &paymentRef
		b.Status = bookingModel.StatusAdvancePaid
		b.OTPCode = &code
		b.OTPExpiresAt = &expiry
		b.OTPVerified = false

		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		return s.recordStatus(tx, b, actorID)
	})
}

// ConfirmationEvidence is the renter-submitted handover evidence.
type ConfirmationEvidence struct {
	CarConditionImages []string
	ToolImages         []string
	Tools              []bookingModel.ToolItem
}

// SubmitConfirmation attaches condition evidence and queues the booking
// for PIC approval.
func (s *Service) SubmitConfirmation(actorID, bookingID uint, evidence ConfirmationEvidence) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.AdvancePaymentStatus != bookingModel.PaymentPaid {
			return apperrors.Conflict("advance payment is required before submitting confirmation")
		}
		if b.ConfirmationStatus != bookingModel.ConfirmationPending {
			return apperrors.Conflict("confirmation has already been submitted")
		}
		if len(evidence.CarConditionImages) == 0 {
			return apperrors.BadRequest("at least one car condition image is required")
		}

		s.applyEvidence(b, evidence, now)
		return tx.SaveBooking(b)
	})
}

// ReviewConfirmation is the PIC approve/reject decision on submitted
// evidence.
func (s *Service) ReviewConfirmation(actorID, bookingID uint, approve bool, comments *string) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.isPICForPickupSite() && !cap.isAdmin() {
			return apperrors.Forbidden("only the site controller can review this booking")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.ConfirmationStatus != bookingModel.ConfirmationPendingApproval {
			return apperrors.Conflict("booking is not awaiting approval")
		}

		if approve {
			b.ConfirmationStatus = bookingModel.ConfirmationApproved
		} else {
			b.ConfirmationStatus = bookingModel.ConfirmationRejected
		}
		approved := approve
		b.PICApproved = &approved
		b.PICApprovedAt = &now
		b.PICApprovedBy = &cap.actor.ID
		b.PICComments = comments

		return tx.SaveBooking(b)
	})
}

// ResubmitConfirmation replaces evidence after a rejection and clears
// the previous PIC decision.
func (s *Service) ResubmitConfirmation(actorID, bookingID uint, evidence ConfirmationEvidence) (*bookingModel.Booking, error) {
	now := s.Now()

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.ConfirmationStatus != bookingModel.ConfirmationRejected {
			return apperrors.Conflict("confirmation is not in a rejected state")
		}
		if b.AdvancePaymentStatus != bookingModel.PaymentPaid {
			return apperrors.Conflict("advance payment is required before submitting confirmation")
		}
		if len(evidence.CarConditionImages) == 0 {
			return apperrors.BadRequest("at least one car condition image is required")
		}

		b.PICApproved = nil
		b.PICApprovedAt = nil
		b.PICApprovedBy = nil
		b.PICComments = nil
		s.applyEvidence(b, evidence, now)
		return tx.SaveBooking(b)
	})
}

// ConfirmFinalPayment records the second installment; the booking
// becomes confirmed and is ready for pickup once the code is verified.
func (s *Service) ConfirmFinalPayment(actorID, bookingID uint, paymentRef string) (*bookingModel.Booking, error) {
	if paymentRef == "" {
		return nil, apperrors.BadRequest("payment reference is required")
	}

	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		// A cancelled booking no longer blocks the car; taking money for
		// it would resurrect a window another renter may now hold.
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.ConfirmationStatus != bookingModel.ConfirmationApproved {
			return apperrors.Conflict("booking has not been approved yet")
		}
		if b.FinalPaymentStatus == bookingModel.PaymentPaid {
			return apperrors.Conflict("final payment has already been confirmed")
		}

		b.FinalPaymentStatus = bookingModel.PaymentPaid
		b.FinalPaymentRef = &paymentRef
		b.Status = bookingModel.StatusConfirmed

		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		return s.recordStatus(tx, b, actorID)
	})
}

// Cancel releases the car before pickup. Cancelled bookings no longer
// block availability.
func (s *Service) Cancel(actorID, bookingID uint) (*bookingModel.Booking, error) {
	return s.mutate(actorID, bookingID, func(tx Store, cap capability, b *bookingModel.Booking) error {
		if !cap.canManage() {
			return apperrors.Forbidden("you do not own this booking")
		}
		if b.Status.IsFinal() {
			return apperrors.Conflict("booking is already closed")
		}
		if b.ActualPickupDate != nil {
			return apperrors.Conflict("booking cannot be cancelled after pickup")
		}

		b.Status = bookingModel.StatusCancelled
		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		return s.recordStatus(tx, b, actorID)
	})
}

// mutate wraps the shared load-actor-capability plumbing of single-row
// transitions in one transaction.
func (s *Service) mutate(actorID, bookingID uint, fn func(tx Store, cap capability, b *bookingModel.Booking) error) (*bookingModel.Booking, error) {
	var result *bookingModel.Booking
	err := s.store.Transaction(func(tx Store) error {
		actor, err := tx.GetUser(actorID)
		if err != nil {
			return err
		}
		b, err := tx.GetBooking(bookingID)
		if err != nil {
			return err
		}
		if err := fn(tx, capabilityFor(actor, b), b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) applyEvidence(b *bookingModel.Booking, evidence ConfirmationEvidence, now time.Time) {
	b.CarConditionImages = evidence.CarConditionImages
	b.ToolImages = evidence.ToolImages
	b.Tools = evidence.Tools
	b.UserConfirmed = true
	b.UserConfirmedAt = &now
	b.ConfirmationStatus = bookingModel.ConfirmationPendingApproval
}

func (s *Service) recordStatus(tx Store, b *bookingModel.Booking, actorID uint) error {
	return tx.CreateStatusEvent(&bookingModel.BookingStatusEvent{
		BookingID: b.ID,
		Status:    b.Status,
		CreatedBy: fmt.Sprintf("%d", actorID),
	})
}
