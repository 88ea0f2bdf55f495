package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/auth"
	"github.com/BruksfildServices01/venue-booking/internal/config"
	"github.com/BruksfildServices01/venue-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/venue-booking/internal/infra/repository"
	"github.com/BruksfildServices01/venue-booking/internal/middleware"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/notify"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
	"github.com/BruksfildServices01/venue-booking/internal/storage"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

// Deps are the long lived collaborators built in main. Cache and Uploader
// may be nil to disable slot caching and image uploads.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Cache    ucBooking.SlotCache
	Gateway  payment.Gateway
	Uploader storage.Uploader
	Audit    *audit.Dispatcher
	Events   handlers.EventDispatcher
	Inbox    *notify.GormStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	currency := cfg.Payments.Currency

	// ======================================================
	// USE CASES (BOOKINGS)
	// ======================================================
	bookingUC := handlers.BookingUseCases{
		Create:       ucBooking.NewCreateBooking(bookingRepo, d.Gateway, currency, d.Cache, d.Audit),
		List:         ucBooking.NewListBookings(bookingRepo),
		Get:          ucBooking.NewGetBooking(bookingRepo),
		UpdateStatus: ucBooking.NewUpdateBookingStatus(bookingRepo, d.Cache, d.Audit),
		Cancel:       ucBooking.NewCancelBooking(bookingRepo, d.Cache, d.Audit),
		PayDeposit:   ucBooking.NewPayDeposit(bookingRepo, d.Gateway, currency, d.Audit),
		PayRemaining: ucBooking.NewPayRemaining(bookingRepo, d.Gateway, currency, d.Audit),
		Refund:       ucBooking.NewRefundBooking(bookingRepo, d.Gateway, d.Cache, d.Audit),
		Update:       ucBooking.NewUpdateBooking(bookingRepo, d.Cache, d.Audit),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, issuer)
	meHandler := handlers.NewMeHandler(d.DB)

	bookingHandler := handlers.NewBookingHandler(bookingUC, d.Events)
	availabilityHandler := handlers.NewAvailabilityHandler(
		ucBooking.NewGetVenueSlots(bookingRepo, d.Cache),
		ucBooking.NewCheckServiceAvailability(bookingRepo),
	)
	catalogHandler := handlers.NewCatalogHandler(d.DB)
	cardHandler := handlers.NewCardHandler(d.DB)
	notificationHandler := handlers.NewNotificationHandler(d.Inbox)
	reviewHandler := handlers.NewReviewHandler(d.DB, d.Audit)
	categoryHandler := handlers.NewCategoryHandler(d.DB, d.Audit)
	providerHandler := handlers.NewProviderHandler(d.DB, d.Audit)

	adminVenueHandler := handlers.NewAdminVenueHandler(d.DB, d.Audit)
	adminServiceHandler := handlers.NewAdminServiceHandler(d.DB, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	holidayHandler := handlers.NewHolidayHandler(d.DB, d.Cache, d.Audit)
	imageHandler := handlers.NewImageHandler(d.DB, d.Uploader, cfg.UploadLimit, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/venues", catalogHandler.ListVenues)
		api.GET("/venues/:id", catalogHandler.GetVenue)
		api.GET("/venues/:id/available-slots", availabilityHandler.VenueSlots)

		api.GET("/services", catalogHandler.ListServices)
		api.GET("/services/:id", catalogHandler.GetService)
		api.GET("/services/:id/availability", availabilityHandler.ServiceAvailability)

		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:id", categoryHandler.Get)

		api.GET("/reviews", reviewHandler.List)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("")
		secured.Use(middleware.AuthMiddleware(issuer))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.POST("/bookings/:id/pay-deposit", bookingHandler.PayDeposit)
			secured.PATCH("/bookings/:id/pay-deposit", bookingHandler.PayDeposit)
			secured.POST("/bookings/:id/pay-remaining", bookingHandler.PayRemaining)
			secured.PATCH("/bookings/:id/pay-remaining", bookingHandler.PayRemaining)
			secured.POST("/bookings/:id/refund", bookingHandler.Refund)

			secured.GET("/cards", cardHandler.List)
			secured.POST("/cards", cardHandler.Add)
			secured.DELETE("/cards/:id", cardHandler.Delete)

			secured.GET("/notifications", notificationHandler.List)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

			secured.POST("/reviews", reviewHandler.Create)
			secured.DELETE("/reviews/:id", reviewHandler.Delete)
		}

		// ------------------------------
		// PROVIDER
		// ------------------------------
		provider := api.Group("/provider")
		provider.Use(middleware.AuthMiddleware(issuer), middleware.RequireRole(models.RoleProvider, models.RoleAdmin))
		{
			provider.GET("/dashboard/stats", providerHandler.Stats)
			provider.GET("/venues", providerHandler.Venues)
			provider.PATCH("/venues/:id", providerHandler.UpdateVenue)
			provider.GET("/services", providerHandler.Services)
			provider.PATCH("/services/:id", providerHandler.UpdateService)
			provider.GET("/bookings", providerHandler.Bookings)
			provider.GET("/earnings", providerHandler.Earnings)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(issuer), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/venues", adminVenueHandler.Create)
			admin.PATCH("/venues/:id", adminVenueHandler.Update)
			admin.PATCH("/venues/:id/working-hours", workingHoursHandler.Update)
			admin.PUT("/venues/:id/services", adminVenueHandler.ReplaceServices)
			admin.POST("/venues/:id/images", imageHandler.UploadVenueImages)

			admin.GET("/venues/:id/holidays", holidayHandler.ListVenue)
			admin.POST("/venues/:id/holidays", holidayHandler.CreateVenue)
			admin.DELETE("/venues/:id/holidays/:holidayId", holidayHandler.DeleteVenue)

			admin.POST("/services", adminServiceHandler.Create)
			admin.PATCH("/services/:id", adminServiceHandler.Update)
			admin.GET("/services/:id/holidays", holidayHandler.ListService)
			admin.POST("/services/:id/holidays", holidayHandler.CreateService)
			admin.DELETE("/services/:id/holidays/:holidayId", holidayHandler.DeleteService)

			admin.PATCH("/bookings/:id", bookingHandler.Reschedule)

			admin.POST("/categories", categoryHandler.Create)
			admin.PATCH("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
