package booking

import (
	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	"car-rental-booking/types"
	bookingTypes "car-rental-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

// ConfirmAdvancePayment records the first installment and triggers
// verification-code issuance.
func (bc *BookingController) ConfirmAdvancePayment(c *fiber.Ctx) error {
	var req bookingTypes.PaymentRequest
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

	b, err := bc.Service.ConfirmAdvancePayment(actorID, bookingID, req.PaymentReferenceID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Advance payment confirmed successfully",
		Data:    b,
	})
}

// ConfirmFinalPayment records the second installment.
func (bc *BookingController) ConfirmFinalPayment(c *fiber.Ctx) error {
	var req bookingTypes.PaymentRequest
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

	b, err := bc.Service.ConfirmFinalPayment(actorID, bookingID, req.PaymentReferenceID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Final payment confirmed successfully",
		Data:    b,
	})
}

// LateFees returns the current overdue assessment for display.
func (bc *BookingController) LateFees(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	bookingID, err := bookingParam(c)
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	assessment, err := bc.Service.AssessLateFees(actorID, bookingID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Late fees computed successfully",
		Data:    assessment,
	})
}

// PayLateFees fixes and settles the accrued late fees.
func (bc *BookingController) PayLateFees(c *fiber.Ctx) error {
	var req bookingTypes.PaymentRequest
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

	b, err := bc.Service.PayLateFees(actorID, bookingID, req.PaymentReferenceID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Late fees paid successfully",
		Data:    b,
	})
}
