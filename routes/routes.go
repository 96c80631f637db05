package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lagishetty/theater-booking-backend/config"
	"github.com/lagishetty/theater-booking-backend/database"
	"github.com/lagishetty/theater-booking-backend/internal/auditlog"
	"github.com/lagishetty/theater-booking-backend/internal/auth"
	"github.com/lagishetty/theater-booking-backend/internal/availability"
	"github.com/lagishetty/theater-booking-backend/internal/booking"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
	"github.com/lagishetty/theater-booking-backend/internal/draft"
	"github.com/lagishetty/theater-booking-backend/internal/notification"
	"github.com/lagishetty/theater-booking-backend/middleware"
	"github.com/lagishetty/theater-booking-backend/utils"

	_ "github.com/lagishetty/theater-booking-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Capture client IP for audit trails

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	// ========== Catalog, Availability, Draft, Checkout ==========
	bookingRepo := booking.NewRepository(database.DB)

	catalogRepo := catalog.NewRepository(database.DB)
	catalogSvc := catalog.NewService(catalogRepo, auditSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)

	availSvc := availability.NewService(catalogSvc, bookingRepo)
	availHandler := availability.NewHandler(availSvc)

	draftStore := draft.NewRedisStore(utils.RedisClient)
	draftSvc := draft.NewService(draftStore, availSvc)
	draftHandler := draft.NewHandler(draftSvc)

	notificationRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(cfg, notificationRepo, auditSvc)
	notificationHandler := notification.NewHandler(notifSvc)
	dispatcher := notification.NewDispatcher(cfg, notificationRepo)

	stateStore := booking.NewRedisStateStore(utils.RedisClient)
	gateway := booking.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	bookingSvc := booking.NewService(cfg, bookingRepo, stateStore, gateway, draftSvc, dispatcher, auditSvc)
	bookingHandler := booking.NewHandler(bookingSvc)

	// Confirmed bookings flow to the admin panel via kafka
	notification.StartKafkaConsumer(context.Background(), notifSvc, authRepo)

	// Public booking flow, keyed by the X-Session-ID header
	public := api.Group("/")
	public.Use(middleware.SessionMiddleware())
	{
		public.GET("/packages", catalogHandler.GetPackages)
		public.GET("/packages/:slotType/slots", catalogHandler.GetSlots)
		public.GET("/availability", availHandler.CheckAvailability)

		draftRoutes := public.Group("/draft")
		{
			draftRoutes.GET("", draftHandler.GetDraft)
			draftRoutes.POST("/date", draftHandler.SelectDate)
			draftRoutes.POST("/package", draftHandler.SelectPackage)
			draftRoutes.POST("/slot", draftHandler.SelectSlot)
			draftRoutes.POST("/details", draftHandler.SetDetails)
			draftRoutes.POST("/terms", draftHandler.AcceptTerms)
			draftRoutes.DELETE("", draftHandler.ClearDraft)
		}

		public.GET("/bookings/state", bookingHandler.GetPaymentState)
		public.POST("/bookings/order", bookingHandler.CreateOrder)
		public.POST("/bookings/order/dismiss", bookingHandler.DismissPayment)
		public.POST("/bookings/verify", bookingHandler.VerifyPayment)
	}

	// ========== Admin Panel ==========
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	admin := protected.Group("/admin")
	admin.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleStaff))
	{
		// Read operations - admin and staff
		admin.GET("/bookings/:slotType", bookingHandler.ListBookings)
		admin.GET("/bookings/:slotType/export", bookingHandler.ExportBookings)
		admin.GET("/bookings/:slotType/:id", bookingHandler.GetBooking)
		admin.GET("/bookings/:slotType/:id/receipt", bookingHandler.Receipt)
		admin.GET("/slots/overrides", catalogHandler.ListOverrides)

		// Write operations - admin only
		writeRoutes := admin.Group("")
		writeRoutes.Use(middleware.RequireWriteAccess())
		{
			writeRoutes.POST("/bookings/offline", bookingHandler.OfflineBook)
			writeRoutes.PUT("/slots/status", catalogHandler.SetSlotStatus)
		}
	}

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Notifications ==========
	notificationRoutes := protected.Group("/notifications")
	notificationRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleStaff))
	{
		writeRoutes := notificationRoutes.Group("")
		writeRoutes.Use(middleware.RequireWriteAccess())
		{
			writeRoutes.POST("/send", notificationHandler.SendNotification)
		}

		notificationRoutes.GET("/logs", notificationHandler.GetNotificationLogs)
		notificationRoutes.GET("/in-app", notificationHandler.ListInApp)
		notificationRoutes.PUT("/in-app/:id/read", notificationHandler.MarkInAppAsRead)
	}

	// Device registration is open to any authenticated user
	fcmRoutes := protected.Group("/notifications/device-tokens")
	{
		fcmRoutes.POST("", notificationHandler.RegisterDeviceToken)
		fcmRoutes.DELETE("", notificationHandler.RemoveDeviceToken)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.File("./public/index.html")
	})
}
