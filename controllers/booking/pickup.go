package booking

import (
	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	bookingService "car-rental-booking/services/booking"
	"car-rental-booking/types"
	bookingTypes "car-rental-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

// VerifyCode checks the renter's one-time pickup code at the site.
func (bc *BookingController) VerifyCode(c *fiber.Ctx) error {
	var req bookingTypes.VerifyCodeRequest
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

	b, err := bc.Service.VerifyPickupCode(actorID, bookingID, req.Code)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup code verified successfully",
		Data:    b,
	})
}

// ConfirmPickup hands the car over and activates the booking.
func (bc *BookingController) ConfirmPickup(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	b, err := bc.Service.ConfirmPickup(actorID, bookingID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup confirmed successfully",
		Data:    b,
	})
}

// ConfirmReturn closes the rental at the dropoff site.
func (bc *BookingController) ConfirmReturn(c *fiber.Ctx) error {
	var req bookingTypes.ReturnRequest
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

	b, err := bc.Service.ConfirmReturn(actorID, bookingID, bookingService.ReturnParams{
		Condition: req.Condition,
		Images:    req.Images,
		Comments:  req.Comments,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Return confirmed successfully",
		Data:    b,
	})
}
