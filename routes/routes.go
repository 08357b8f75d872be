package routes

import (
	"time"

	"indastreet/config"
	"indastreet/handlers"
	"indastreet/middleware"
	"indastreet/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", middleware.RequireRole(utils.RoleCustomer), hb.CreateBooking)
		api.GET("/:id", hb.GetBooking)
		api.GET("/:id/countdown", hb.StreamCountdown)

		api.POST("/:id/accept", middleware.RequireRole(utils.RoleProvider), hb.AcceptBooking)
		api.POST("/:id/decline", middleware.RequireRole(utils.RoleProvider), hb.DeclineBooking)
		api.POST("/:id/confirm", middleware.RequireRole(utils.RoleCustomer), hb.ConfirmBooking)
		api.POST("/:id/complete", middleware.RequireRole(utils.RoleProvider), hb.CompleteBooking)
	}
}

// RegisterProviderRoutes registers provider availability endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("/:id/availability", hb.GetAvailability)

		me := api.Group("/me")
		me.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(utils.RoleProvider))
		me.GET("/bookings", hb.ListProviderBookings)
		me.PATCH("/availability", hb.SetAvailability)
	}
}

// RegisterChatRoutes registers chat and proximity endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/proximity/check", hb.CheckProximity)
		api.POST("/chat/messages", hb.SendMessage)
		api.GET("/chat/rooms/:roomId/messages", hb.PollMessages)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(utils.RoleAdmin))
		adminGroup.GET("/commission", hb.CommissionSummary)
		adminGroup.GET("/violations", hb.ViolationsForReview)
		adminGroup.PUT("/violations/:id/review", hb.MarkReviewed)
		adminGroup.PUT("/providers/:id/restriction", hb.SetRestriction)
	}
}

// RegisterHealthRoute registers health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", handlers.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.TracingMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
