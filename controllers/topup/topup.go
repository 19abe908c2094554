package topup

import (
	"errors"
	"fmt"
	"strconv"

	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	topupModel "car-rental-booking/models/topup"
	"car-rental-booking/types"
	topupTypes "car-rental-booking/types/topup"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TopupController manages the extension-offer catalog.
type TopupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

// NewTopupController creates a new topup controller
func NewTopupController(db *gorm.DB) *TopupController {
	return &TopupController{
		DB:       db,
		Validate: validator.New(),
	}
}

// Index lists active topup offers.
func (tc *TopupController) Index(c *fiber.Ctx) error {
	var topups []topupModel.Topup
	if err := tc.DB.Where("active = true").Order("duration_hours ASC").Find(&topups).Error; err != nil {
		logger.Error("Failed to list topups", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Topups retrieved successfully",
		Data:    topups,
	})
}

// Store creates a new topup offer (admin).
func (tc *TopupController) Store(c *fiber.Ctx) error {
	var req topupTypes.TopupCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := tc.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	createdBy := ""
	if actorID, ok := middleware.ActorID(c); ok {
		createdBy = fmt.Sprintf("%d", actorID)
	}

	t := topupModel.Topup{
		Name:          req.Name,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		Category:      req.Category,
		Active:        true,
		CreatedBy:     createdBy,
	}
	if err := tc.DB.Create(&t).Error; err != nil {
		logger.Error("Failed to create topup", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create topup",
		})
	}

	logger.Success(fmt.Sprintf("Topup created successfully with ID: %d", t.ID))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Topup created successfully",
		Data:    t,
	})
}

// Update changes an existing offer (admin). Usage rows are never
// touched; deactivating an offer only stops new applications.
func (tc *TopupController) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid topup id",
		})
	}

	var req topupTypes.TopupUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := tc.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var t topupModel.Topup
	if err := tc.DB.First(&t, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Topup not found",
			})
		}
		logger.Error("Failed to find topup", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.DurationHours != nil {
		t.DurationHours = *req.DurationHours
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Active != nil {
		t.Active = *req.Active
	}

	if err := tc.DB.Save(&t).Error; err != nil {
		logger.Error("Failed to update topup", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update topup",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Topup updated successfully",
		Data:    t,
	})
}
