package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lagishetty/theater-booking-backend/config"
	"github.com/lagishetty/theater-booking-backend/database"
	"github.com/lagishetty/theater-booking-backend/internal/auditlog"
	"github.com/lagishetty/theater-booking-backend/internal/auth"
	"github.com/lagishetty/theater-booking-backend/internal/booking"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
	"github.com/lagishetty/theater-booking-backend/internal/notification"
	"github.com/lagishetty/theater-booking-backend/routes"
	"github.com/lagishetty/theater-booking-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis - drafts, payment sessions and live notifications live here
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka writer for booking events
	utils.InitializeKafka()

	// Init Firebase - push notifications are optional
	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	} else {
		log.Println("⚠️ Firebase initialized but FCM client unavailable")
	}

	// Seed roles & admin account
	if err := auth.SeedUserRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}
	if err := auth.SeedAdminUser(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin user: %v", err))
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&auth.UserRole{},
		&auth.User{},
		&catalog.SlotOverride{},
		&notification.NotificationLog{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}

	// Bookings are partitioned per package into their own tables
	if err := db.Table("deluxe_bookings").AutoMigrate(&booking.Booking{}); err != nil {
		panic(fmt.Sprintf("❌ deluxe_bookings migrate failed: %v", err))
	}
	if err := db.Table("rolexe_bookings").AutoMigrate(&booking.Booking{}); err != nil {
		panic(fmt.Sprintf("❌ rolexe_bookings migrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	if utils.IsFCMEnabled() {
		fmt.Println("✅ Firebase Cloud Messaging enabled")
	} else {
		fmt.Println("ℹ️ Firebase Cloud Messaging disabled")
		if err := utils.GetInitError(); err != nil {
			fmt.Printf("   Reason: %v\n", err)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
