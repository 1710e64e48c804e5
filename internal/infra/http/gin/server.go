package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tourbook/internal/infra/config"
	"tourbook/internal/infra/obs"
)

type TourHTTP interface {
	Catalog(c *gin.Context)
	Overview(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	CancelPreview(c *gin.Context)
	Refund(c *gin.Context)
	ListByCustomer(c *gin.Context)
	FeePolicy(c *gin.Context)
}

type OperatorTourHTTP interface {
	Create(c *gin.Context)
	ApplyDiscount(c *gin.Context)
	Cancel(c *gin.Context)
	Deactivate(c *gin.Context)
	Activate(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type Handlers struct {
	Tour         TourHTTP
	Booking      BookingHTTP
	OperatorTour OperatorTourHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Tour != nil {
		api.GET("/tours", h.Tour.Catalog)
		api.GET("/tours/:id/overview", h.Tour.Overview)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/bookings/:id/cancel-preview", h.Booking.CancelPreview)
		api.POST("/bookings/:id/refund", h.Booking.Refund)
		api.GET("/customers/:id/bookings", h.Booking.ListByCustomer)
		api.GET("/cancellation-policy", h.Booking.FeePolicy)
	}
	if h.OperatorTour != nil {
		opGroup := api.Group("/operator/tours")
		opGroup.POST("", h.OperatorTour.Create)
		opGroup.POST("/:id/discount", h.OperatorTour.ApplyDiscount)
		opGroup.POST("/:id/cancel", h.OperatorTour.Cancel)
		opGroup.POST("/:id/deactivate", h.OperatorTour.Deactivate)
		opGroup.POST("/:id/activate", h.OperatorTour.Activate)
		opGroup.POST("/:id/photos", h.OperatorTour.UploadPhoto)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
