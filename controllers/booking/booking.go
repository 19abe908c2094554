package booking

import (
	"strconv"

	"car-rental-booking/apperrors"
	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	bookingService "car-rental-booking/services/booking"
	"car-rental-booking/types"
	bookingTypes "car-rental-booking/types/booking"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookingController exposes the state-machine operations over HTTP.
type BookingController struct {
	Service  *bookingService.Service
	Validate *validator.Validate
}

// NewBookingController creates a new booking controller
func NewBookingController(service *bookingService.Service) *BookingController {
	return &BookingController{
		Service:  service,
		Validate: validator.New(),
	}
}

// Store creates a new booking for the authenticated renter.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}
	if err := bc.Validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}

	created, err := bc.Service.Create(actorID, bookingService.CreateParams{
		CarID:            req.CarID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		PickupDate:       req.PickupDate,
		DropoffParkingID: req.DropoffParkingID,
		DeliveryCharges:  req.DeliveryCharges,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    created,
	})
}

// Show returns a single booking.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	b, err := bc.Service.GetBooking(actorID, bookingID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    b,
	})
}

// Index lists the caller's bookings.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}

	bookings, err := bc.Service.ListMyBookings(actorID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// SiteToday lists today's pickups and returns at the acting PIC's site.
func (bc *BookingController) SiteToday(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}

	bookings, err := bc.Service.ListSiteToday(actorID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Site schedule retrieved successfully",
		Data:    bookings,
	})
}

// Cancel releases the car before pickup.
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	b, err := bc.Service.Cancel(actorID, bookingID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    b,
	})
}

// Reschedule moves the booking window.
func (bc *BookingController) Reschedule(c *fiber.Ctx) error {
	var req bookingTypes.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}
	if err := bc.Validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	b, err := bc.Service.Reschedule(actorID, bookingID, bookingService.RescheduleParams{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		PickupDate: req.PickupDate,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking rescheduled successfully",
		Data:    b,
	})
}

// ApplyTopup extends an active booking with a paid add-on.
func (bc *BookingController) ApplyTopup(c *fiber.Ctx) error {
	var req bookingTypes.TopupApplyRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}
	if err := bc.Validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	b, err := bc.Service.ApplyTopup(actorID, bookingID, req.TopupID, req.PaymentReferenceID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Topup applied successfully",
		Data:    b,
	})
}

func bookingParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Status:  fiber.StatusUnauthorized,
		Message: "Invalid user claims",
	})
}

// fail maps a typed engine failure to its HTTP status.
func fail(c *fiber.Ctx, err error) error {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal {
		logger.Error("Booking operation failed", err)
	}
	return c.Status(appErr.StatusCode()).JSON(types.ApiResponse{
		Status:  appErr.StatusCode(),
		Message: appErr.Message,
	})
}
