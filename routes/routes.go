package routes

import (
	"car-rental-booking/constants"
	bookingController "car-rental-booking/controllers/booking"
	topupController "car-rental-booking/controllers/topup"
	"car-rental-booking/logger"
	"car-rental-booking/middleware"
	bookingService "car-rental-booking/services/booking"
	"car-rental-booking/services/otp"
	"car-rental-booking/services/pricing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	store := bookingService.NewGormStore(db)
	service := bookingService.NewService(store, pricing.NewCalculator(), otp.NewIssuer())
	bookings := bookingController.NewBookingController(service)
	topups := topupController.NewTopupController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()
	app.Use(middleware.RequestLogger(asyncLogger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/create", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.Store)

	bookingGroup.Get("/my", middleware.RequireAuthentication(), bookings.Index)
	bookingGroup.Get("/site/today", middleware.RequireRoles(
		constants.RolePIC,
	), bookings.SiteToday)
	bookingGroup.Get("/:id", middleware.RequireAuthentication(), bookings.Show)

	// Renter-side lifecycle
	bookingGroup.Post("/:id/advance-payment", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.ConfirmAdvancePayment)

	bookingGroup.Post("/:id/confirmation", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.SubmitConfirmation)

	bookingGroup.Post("/:id/resubmit", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.ResubmitConfirmation)

	bookingGroup.Post("/:id/final-payment", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.ConfirmFinalPayment)

	bookingGroup.Post("/:id/reschedule", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.Reschedule)

	bookingGroup.Post("/:id/cancel", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.Cancel)

	bookingGroup.Post("/:id/topup", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.ApplyTopup)

	bookingGroup.Get("/:id/late-fees", middleware.RequireAuthentication(), bookings.LateFees)
	bookingGroup.Post("/:id/late-fees/pay", middleware.RequireRoles(
		constants.RoleRenter, constants.RoleAdmin,
	), bookings.PayLateFees)

	// Site-controller lifecycle
	bookingGroup.Post("/:id/approval", middleware.RequireRoles(
		constants.RolePIC, constants.RoleAdmin,
	), bookings.ReviewConfirmation)

	bookingGroup.Post("/:id/verify-code", middleware.RequireRoles(
		constants.RolePIC, constants.RoleAdmin,
	), bookings.VerifyCode)

	bookingGroup.Post("/:id/pickup", middleware.RequireRoles(
		constants.RolePIC, constants.RoleAdmin,
	), bookings.ConfirmPickup)

	bookingGroup.Post("/:id/return", middleware.RequireRoles(
		constants.RolePIC, constants.RoleAdmin,
	), bookings.ConfirmReturn)

	/*=============================================================================
	| Topup Catalog Routes
	===============================================================================*/
	topupGroup := api.Group("/topup")

	topupGroup.Get("/", middleware.RequireAuthentication(), topups.Index)
	topupGroup.Post("/", middleware.RequireRoles(constants.CatalogAdminRoles...), topups.Store)
	topupGroup.Put("/:id", middleware.RequireRoles(constants.CatalogAdminRoles...), topups.Update)
}
