package booking

import (
	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	bookingModel "car-rental-booking/models/booking"
	bookingService "car-rental-booking/services/booking"
	"car-rental-booking/types"
	bookingTypes "car-rental-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

// SubmitConfirmation attaches the renter's condition evidence.
func (bc *BookingController) SubmitConfirmation(c *fiber.Ctx) error {
	return bc.handleEvidence(c, bc.Service.SubmitConfirmation, "Confirmation submitted successfully")
}

// ResubmitConfirmation replaces evidence after a PIC rejection.
func (bc *BookingController) ResubmitConfirmation(c *fiber.Ctx) error {
	return bc.handleEvidence(c, bc.Service.ResubmitConfirmation, "Confirmation resubmitted successfully")
}

func (bc *BookingController) handleEvidence(
	c *fiber.Ctx,
	op func(actorID, bookingID uint, evidence bookingService.ConfirmationEvidence) (*bookingModel.Booking, error),
	successMessage string,
) error {
	var req bookingTypes.ConfirmationRequest
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

	tools := make([]bookingModel.ToolItem, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, bookingModel.ToolItem{Name: t.Name, Image: t.Image})
	}

	b, err := op(actorID, bookingID, bookingService.ConfirmationEvidence{
		CarConditionImages: req.CarConditionImages,
		ToolImages:         req.ToolImages,
		Tools:              tools,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: successMessage,
		Data:    b,
	})
}

// ReviewConfirmation is the PIC's approve/reject decision.
func (bc *BookingController) ReviewConfirmation(c *fiber.Ctx) error {
	var req bookingTypes.ReviewRequest
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

	b, err := bc.Service.ReviewConfirmation(actorID, bookingID, *req.Approve, req.Comments)
	if err != nil {
		return fail(c, err)
	}

	message := "Booking approved successfully"
	if !*req.Approve {
		message = "Booking rejected"
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    b,
	})
}
