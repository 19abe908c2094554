package booking

import (
	"testing"
	"time"

	"car-rental-booking/apperrors"
	"car-rental-booking/constants"
	bookingModel "car-rental-booking/models/booking"
	carModel "car-rental-booking/models/car"
	catalogModel "car-rental-booking/models/catalog"
	topupModel "car-rental-booking/models/topup"
	userModel "car-rental-booking/models/user"
	"car-rental-booking/services/otp"
	"car-rental-booking/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	renterID         = 1
	otherRenterID    = 2
	unverifiedRenter = 3
	picSiteA         = 4
	picSiteB         = 5
	adminID          = 6

	siteA = 100
	siteB = 200

	testCarID      = 10
	dayTopupID     = 50
	retiredTopupID = 51
)

var testBase = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func uintPtr(v uint) *uint { return &v }

func setupService() (*Service, *memStore, *fakeClock) {
	store := newMemStore()

	store.users[renterID] = &userModel.User{ID: renterID, Role: constants.RoleRenter, Verified: true}
	store.users[otherRenterID] = &userModel.User{ID: otherRenterID, Role: constants.RoleRenter, Verified: true}
	store.users[unverifiedRenter] = &userModel.User{ID: unverifiedRenter, Role: constants.RoleRenter}
	store.users[picSiteA] = &userModel.User{ID: picSiteA, Role: constants.RolePIC, Verified: true, ParkingID: uintPtr(siteA)}
	store.users[picSiteB] = &userModel.User{ID: picSiteB, Role: constants.RolePIC, Verified: true, ParkingID: uintPtr(siteB)}
	store.users[adminID] = &userModel.User{ID: adminID, Role: constants.RoleAdmin, Verified: true}

	store.catalogs[1] = &catalogModel.Catalog{ID: 1, Name: "Sedan"}
	store.cars[testCarID] = &carModel.Car{
		ID: testCarID, Name: "Corolla", RegistrationNo: "DHK-1122",
		DailyRate: 1000, ParkingID: siteA, CatalogID: 1, Active: true,
	}
	store.topups[dayTopupID] = &topupModel.Topup{ID: dayTopupID, Name: "Extra Day", DurationHours: 24, Price: 800, Active: true}
	store.topups[retiredTopupID] = &topupModel.Topup{ID: retiredTopupID, Name: "Old Offer", DurationHours: 12, Price: 400}

	clk := &fakeClock{t: testBase}
	svc := NewService(store, &pricing.Calculator{AdvanceRatio: 0.30}, &scriptedCodes{codes: []string{"1234", "5678", "9012"}})
	svc.Now = clk.Now
	return svc, store, clk
}

func defaultParams() CreateParams {
	return CreateParams{
		CarID:     testCarID,
		StartDate: testBase.Add(48 * time.Hour),
		EndDate:   testBase.Add(96 * time.Hour),
	}
}

func mustCreate(t *testing.T, svc *Service) *bookingModel.Booking {
	t.Helper()
	b, err := svc.Create(renterID, defaultParams())
	require.NoError(t, err)
	return b
}

func evidence() ConfirmationEvidence {
	return ConfirmationEvidence{
		CarConditionImages: []string{"front.jpg", "rear.jpg"},
		ToolImages:         []string{"jack.jpg"},
		Tools:              []bookingModel.ToolItem{{Name: "jack", Image: "jack.jpg"}},
	}
}

func driveToApproved(t *testing.T, svc *Service, id uint) {
	t.Helper()
	_, err := svc.ConfirmAdvancePayment(renterID, id, "adv-ref-1")
	require.NoError(t, err)
	_, err = svc.SubmitConfirmation(renterID, id, evidence())
	require.NoError(t, err)
	_, err = svc.ReviewConfirmation(picSiteA, id, true, nil)
	require.NoError(t, err)
}

func driveToActive(t *testing.T, svc *Service, id uint) {
	t.Helper()
	driveToApproved(t, svc, id)
	_, err := svc.ConfirmFinalPayment(renterID, id, "fin-ref-1")
	require.NoError(t, err)
	_, err = svc.VerifyPickupCode(picSiteA, id, "1234")
	require.NoError(t, err)
	_, err = svc.ConfirmPickup(picSiteA, id)
	require.NoError(t, err)
}

func TestBookingLifecycleHappyPath(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, store, clk := setupService()

	b := mustCreate(t, svc)
	assert.NotEmpty(t, b.BookingNumber)
	assert.Equal(t, bookingModel.StatusPending, b.Status)
	assert.Equal(t, 2000.0, b.BasePrice)
	assert.Equal(t, 600.0, b.AdvanceAmount)
	assert.Equal(t, 1400.0, b.RemainingAmount)
	assert.Equal(t, 2000.0, b.TotalPrice)
	assert.Equal(t, uint(siteA), b.PickupParkingID)
	assert.Equal(t, uint(siteA), b.DropoffParkingID)

	// Advance installment issues the pickup code. Pickup is 48 hours
	// away, so the code gets the short fixed TTL.
	b, err := svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusAdvancePaid, b.Status)
	assert.Equal(t, bookingModel.PaymentPaid, b.AdvancePaymentStatus)
	require.NotNil(t, b.OTPCode)
	assert.Equal(t, "1234", *b.OTPCode)
	require.NotNil(t, b.OTPExpiresAt)
	assert.Equal(t, testBase.Add(otp.DefaultTTL), *b.OTPExpiresAt)

	b, err = svc.SubmitConfirmation(renterID, b.ID, evidence())
	require.NoError(t, err)
	assert.Equal(t, bookingModel.ConfirmationPendingApproval, b.ConfirmationStatus)
	assert.True(t, b.UserConfirmed)

	// PIC rejects, renter resubmits, decision fields reset.
	comment := "left mirror damage not photographed"
	b, err = svc.ReviewConfirmation(picSiteA, b.ID, false, &comment)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.ConfirmationRejected, b.ConfirmationStatus)
	require.NotNil(t, b.PICApproved)
	assert.False(t, *b.PICApproved)

	b, err = svc.ResubmitConfirmation(renterID, b.ID, evidence())
	require.NoError(t, err)
	assert.Equal(t, bookingModel.ConfirmationPendingApproval, b.ConfirmationStatus)
	assert.Nil(t, b.PICApproved)
	assert.Nil(t, b.PICComments)

	b, err = svc.ReviewConfirmation(picSiteA, b.ID, true, nil)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.ConfirmationApproved, b.ConfirmationStatus)

	b, err = svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-1")
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusConfirmed, b.Status)
	assert.Equal(t, bookingModel.PaymentPaid, b.FinalPaymentStatus)

	// Pickup is gated on code verification.
	_, err = svc.ConfirmPickup(picSiteA, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	clk.Advance(10 * time.Minute)
	b, err = svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	require.NoError(t, err)
	assert.True(t, b.OTPVerified)
	require.NotNil(t, b.OTPVerifiedBy)
	assert.Equal(t, uint(picSiteA), *b.OTPVerifiedBy)
	assert.NotNil(t, b.VerifiedOTPEncrypted)
	assert.Equal(t, bookingModel.StatusConfirmed, b.Status)

	// A used code cannot be verified again.
	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	b, err = svc.ConfirmPickup(picSiteA, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusActive, b.Status)
	require.NotNil(t, b.ActualPickupDate)

	_, err = svc.ConfirmPickup(picSiteA, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Return on time at the dropoff site.
	clk.t = b.EndDate.Add(-time.Hour)
	b, err = svc.ConfirmReturn(picSiteA, b.ID, ReturnParams{Condition: "good", Images: []string{"back.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusCompleted, b.Status)
	require.NotNil(t, b.ActualDropoffDate)
	assert.Equal(t, 0.0, b.LateFees)

	// pending, advance_paid, confirmed, active, completed
	assert.Len(t, store.events, 5)
}

func TestCreateValidations(t *testing.T) {
	svc, store, _ := setupService()

	_, err := svc.Create(unverifiedRenter, defaultParams())
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.Create(picSiteA, defaultParams())
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	params := defaultParams()
	params.EndDate = params.StartDate
	_, err = svc.Create(renterID, params)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	params = defaultParams()
	early := params.StartDate.Add(-time.Hour)
	params.PickupDate = &early
	_, err = svc.Create(renterID, params)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	store.cars[testCarID].Active = false
	_, err = svc.Create(renterID, defaultParams())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateOverlapConflict(t *testing.T) {
	svc, _, _ := setupService()
	first := mustCreate(t, svc)

	// Same window.
	_, err := svc.Create(otherRenterID, defaultParams())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Touching the boundary still conflicts; boundaries are inclusive.
	params := defaultParams()
	params.StartDate = first.EndDate
	params.EndDate = first.EndDate.Add(24 * time.Hour)
	_, err = svc.Create(otherRenterID, params)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// A disjoint window is fine.
	params.StartDate = first.EndDate.Add(time.Hour)
	params.EndDate = params.StartDate.Add(24 * time.Hour)
	_, err = svc.Create(otherRenterID, params)
	assert.NoError(t, err)
}

func TestCancelFreesAvailability(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	_, err := svc.Create(otherRenterID, defaultParams())
	require.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	cancelled, err := svc.Cancel(renterID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusCancelled, cancelled.Status)

	_, err = svc.Create(otherRenterID, defaultParams())
	assert.NoError(t, err)

	// A closed booking stays closed.
	_, err = svc.Cancel(renterID, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCancelledBookingCannotBeReactivated(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, store, _ := setupService()

	// Drive right up to the pickup gate, then cancel.
	b := mustCreate(t, svc)
	driveToApproved(t, svc, b.ID)
	_, err := svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	require.NoError(t, err)
	_, err = svc.Cancel(renterID, b.ID)
	require.NoError(t, err)

	// The freed window is immediately rebookable by someone else.
	second, err := svc.Create(otherRenterID, defaultParams())
	require.NoError(t, err)

	// No operation may pull the cancelled booking back to life.
	_, err = svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.ConfirmPickup(picSiteA, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.SubmitConfirmation(renterID, b.ID, evidence())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.ResubmitConfirmation(renterID, b.ID, evidence())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.ReviewConfirmation(picSiteA, b.ID, true, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The cancelled record is untouched and the new renter holds the
	// only live booking on the car.
	got, err := svc.GetBooking(renterID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusCancelled, got.Status)
	assert.Equal(t, bookingModel.PaymentPending, got.FinalPaymentStatus)
	assert.Nil(t, got.ActualPickupDate)

	live := 0
	for _, stored := range store.bookings {
		if stored.CarID == testCarID && stored.Status.BlocksAvailability() {
			live++
			assert.Equal(t, second.ID, stored.ID)
		}
	}
	assert.Equal(t, 1, live)
}

func TestAdvancePaymentGates(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	_, err := svc.ConfirmAdvancePayment(renterID, b.ID, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.ConfirmAdvancePayment(otherRenterID, b.ID, "adv-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)

	_, err = svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-2")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// An admin can operate on behalf of the renter.
	b2, err := svc.Create(renterID, CreateParams{
		CarID:     testCarID,
		StartDate: testBase.Add(200 * time.Hour),
		EndDate:   testBase.Add(224 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.ConfirmAdvancePayment(adminID, b2.ID, "adv-ref-3")
	assert.NoError(t, err)
}

func TestConfirmationGates(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	// Evidence before the advance installment is rejected.
	_, err := svc.SubmitConfirmation(renterID, b.ID, evidence())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)

	_, err = svc.SubmitConfirmation(renterID, b.ID, ConfirmationEvidence{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.SubmitConfirmation(renterID, b.ID, evidence())
	require.NoError(t, err)

	_, err = svc.SubmitConfirmation(renterID, b.ID, evidence())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Only the pickup-site PIC may review.
	_, err = svc.ReviewConfirmation(picSiteB, b.ID, true, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.ReviewConfirmation(renterID, b.ID, true, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// Resubmission is only valid from a rejected state.
	_, err = svc.ResubmitConfirmation(renterID, b.ID, evidence())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestFinalPaymentRequiresApproval(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	_, err := svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	driveToApproved(t, svc, b.ID)

	_, err = svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-1")
	require.NoError(t, err)

	_, err = svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-2")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestVerifyCodeExpiry(t *testing.T) {
	svc, _, clk := setupService()
	b := mustCreate(t, svc)
	driveToApproved(t, svc, b.ID)
	_, err := svc.ConfirmFinalPayment(renterID, b.ID, "fin-ref-1")
	require.NoError(t, err)

	clk.Advance(otp.DefaultTTL + time.Minute)
	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestVerifyCodeNearPickupExpiry(t *testing.T) {
	svc, _, clk := setupService()

	// Pickup only 90 minutes out: the code must die 30 minutes before
	// the slot rather than living the full TTL.
	pickup := testBase.Add(90 * time.Minute)
	b, err := svc.Create(renterID, CreateParams{
		CarID:      testCarID,
		StartDate:  testBase.Add(time.Hour),
		EndDate:    testBase.Add(25 * time.Hour),
		PickupDate: &pickup,
	})
	require.NoError(t, err)

	b, err = svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)
	require.NotNil(t, b.OTPExpiresAt)
	assert.Equal(t, pickup.Add(-otp.NearPickupMargin), *b.OTPExpiresAt)

	clk.Advance(70 * time.Minute)
	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestVerifyCodeWrongInput(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)
	_, err := svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)

	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "0000")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.VerifyPickupCode(picSiteA, b.ID, "12x4")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	// The renter cannot self-verify.
	_, err = svc.VerifyPickupCode(renterID, b.ID, "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRescheduleRules(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)
	originalPickup := b.EffectivePickupDate()

	// Three moves are allowed.
	for i := 1; i <= 3; i++ {
		start := testBase.Add(time.Duration(48+24*i) * time.Hour)
		updated, err := svc.Reschedule(renterID, b.ID, RescheduleParams{
			StartDate: start,
			EndDate:   start.Add(48 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, i, updated.RescheduleCount)
		require.NotNil(t, updated.OriginalPickupDate)
		assert.Equal(t, originalPickup, *updated.OriginalPickupDate)
	}

	start := testBase.Add(300 * time.Hour)
	_, err := svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestRescheduleValidations(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	// The new pickup must be in the future.
	past := testBase.Add(-time.Hour)
	_, err := svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: past,
		EndDate:   past.Add(48 * time.Hour),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	start := testBase.Add(72 * time.Hour)
	_, err = svc.Reschedule(renterID, b.ID, RescheduleParams{StartDate: start, EndDate: start})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.Reschedule(otherRenterID, b.ID, RescheduleParams{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRescheduleBlockedByOtherBooking(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	otherStart := testBase.Add(200 * time.Hour)
	_, err := svc.Create(otherRenterID, CreateParams{
		CarID:     testCarID,
		StartDate: otherStart,
		EndDate:   otherStart.Add(48 * time.Hour),
	})
	require.NoError(t, err)

	// Moving onto the other renter's window conflicts.
	_, err = svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: otherStart.Add(24 * time.Hour),
		EndDate:   otherStart.Add(72 * time.Hour),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Shifting inside its own current window is fine; the booking does
	// not collide with itself.
	_, err = svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: b.StartDate.Add(6 * time.Hour),
		EndDate:   b.EndDate.Add(6 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestRescheduleCodeRegeneration(t *testing.T) {
	svc, _, clk := setupService()
	b := mustCreate(t, svc)
	b, err := svc.ConfirmAdvancePayment(renterID, b.ID, "adv-ref-1")
	require.NoError(t, err)
	require.Equal(t, "1234", *b.OTPCode)
	firstExpiry := *b.OTPExpiresAt

	// Immediate reschedule of a distant pickup: the would-be expiry is
	// unchanged, so the stored code survives.
	start := testBase.Add(72 * time.Hour)
	b, err = svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", *b.OTPCode)
	assert.Equal(t, firstExpiry, *b.OTPExpiresAt)

	// Ten minutes later the expiry drifts past the threshold and a new
	// code is issued.
	clk.Advance(10 * time.Minute)
	start = testBase.Add(120 * time.Hour)
	b, err = svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "5678", *b.OTPCode)
	assert.False(t, b.OTPVerified)
	assert.Equal(t, clk.Now().Add(otp.DefaultTTL), *b.OTPExpiresAt)
}

func TestRescheduleAfterPickupRejected(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, _, _ := setupService()
	b := mustCreate(t, svc)
	driveToActive(t, svc, b.ID)

	start := testBase.Add(200 * time.Hour)
	_, err := svc.Reschedule(renterID, b.ID, RescheduleParams{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestApplyTopupExtendsBooking(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, store, _ := setupService()
	b := mustCreate(t, svc)
	originalEnd := b.EndDate
	driveToActive(t, svc, b.ID)

	b, err := svc.ApplyTopup(renterID, b.ID, dayTopupID, "topup-ref-1")
	require.NoError(t, err)
	require.NotNil(t, b.ExtensionTill)
	assert.Equal(t, originalEnd.Add(24*time.Hour), *b.ExtensionTill)
	assert.Equal(t, originalEnd.Add(24*time.Hour), b.EndDate)
	assert.Equal(t, 800.0, b.ExtensionPrice)
	assert.Equal(t, 24, b.ExtensionTime)

	require.Len(t, store.topupRows, 1)
	row := store.topupRows[0]
	assert.Equal(t, originalEnd, row.OriginalEndDate)
	assert.Equal(t, originalEnd.Add(24*time.Hour), row.NewEndDate)
	assert.Equal(t, 800.0, row.Amount)
	assert.Equal(t, "topup-ref-1", row.PaymentReferenceID)

	// Extensions stack on the already-extended end.
	b, err = svc.ApplyTopup(renterID, b.ID, dayTopupID, "topup-ref-2")
	require.NoError(t, err)
	assert.Equal(t, originalEnd.Add(48*time.Hour), *b.ExtensionTill)
	assert.Equal(t, 1600.0, b.ExtensionPrice)
	assert.Equal(t, 48, b.ExtensionTime)
	require.Len(t, store.topupRows, 2)
	assert.Equal(t, originalEnd.Add(24*time.Hour), store.topupRows[1].OriginalEndDate)
}

func TestApplyTopupGates(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	// Only active bookings can be extended.
	_, err := svc.ApplyTopup(renterID, b.ID, dayTopupID, "topup-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	driveToActive(t, svc, b.ID)

	_, err = svc.ApplyTopup(renterID, b.ID, retiredTopupID, "topup-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.ApplyTopup(renterID, b.ID, 999, "topup-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = svc.ApplyTopup(renterID, b.ID, dayTopupID, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestLateFeeFlow(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, _, clk := setupService()
	b := mustCreate(t, svc)
	driveToActive(t, svc, b.ID)

	// Not overdue yet: nothing to pay.
	_, err := svc.PayLateFees(renterID, b.ID, "late-ref-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Three hours past the end: 2000/24 * 0.10 * 3 = 25.00.
	clk.t = b.EndDate.Add(3 * time.Hour)
	assessment, err := svc.AssessLateFees(renterID, b.ID)
	require.NoError(t, err)
	assert.True(t, assessment.IsOverdue)
	assert.Equal(t, 3, assessment.OverdueHours)
	assert.Equal(t, 25.0, assessment.Amount)

	// Overdue return is blocked until fees are settled.
	_, err = svc.ConfirmReturn(picSiteA, b.ID, ReturnParams{Condition: "good"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	paid, err := svc.PayLateFees(renterID, b.ID, "late-ref-1")
	require.NoError(t, err)
	assert.True(t, paid.LateFeesPaid)
	assert.Equal(t, 25.0, paid.LateFees)

	_, err = svc.PayLateFees(renterID, b.ID, "late-ref-2")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The paid amount stays fixed even as the clock keeps running.
	clk.Advance(2 * time.Hour)
	assessment, err = svc.AssessLateFees(renterID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, assessment.Amount)

	returned, err := svc.ConfirmReturn(picSiteA, b.ID, ReturnParams{Condition: "good"})
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusCompleted, returned.Status)
	assert.Equal(t, 25.0, returned.LateFees)
}

func TestReturnAtWrongSiteRejected(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "unit-test-key-unit-test-key-32b!")
	svc, _, _ := setupService()

	params := defaultParams()
	params.DropoffParkingID = uintPtr(siteB)
	b, err := svc.Create(renterID, params)
	require.NoError(t, err)
	driveToActive(t, svc, b.ID)

	// The pickup-site PIC cannot close a booking dropped off elsewhere.
	_, err = svc.ConfirmReturn(picSiteA, b.ID, ReturnParams{Condition: "good"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	returned, err := svc.ConfirmReturn(picSiteB, b.ID, ReturnParams{Condition: "good"})
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusCompleted, returned.Status)
}

func TestGetBookingVisibility(t *testing.T) {
	svc, _, _ := setupService()
	b := mustCreate(t, svc)

	for _, actor := range []uint{renterID, adminID, picSiteA} {
		_, err := svc.GetBooking(actor, b.ID)
		assert.NoError(t, err)
	}

	_, err := svc.GetBooking(otherRenterID, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.GetBooking(renterID, 999)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListSiteToday(t *testing.T) {
	svc, _, clk := setupService()
	b := mustCreate(t, svc)

	// Renters cannot read the site schedule.
	_, err := svc.ListSiteToday(renterID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	today, err := svc.ListSiteToday(picSiteA)
	require.NoError(t, err)
	assert.Empty(t, today)

	// On the pickup day the booking shows up at the pickup site.
	clk.t = b.StartDate
	today, err = svc.ListSiteToday(picSiteA)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, b.ID, today[0].ID)

	today, err = svc.ListSiteToday(picSiteB)
	require.NoError(t, err)
	assert.Empty(t, today)
}

func TestListMyBookings(t *testing.T) {
	svc, _, _ := setupService()
	mustCreate(t, svc)

	mine, err := svc.ListMyBookings(renterID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListMyBookings(otherRenterID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
