package api

import (
	"log"
	stdhttp "net/http"

	intconfig "shuttlebook/internal/config"
	h "shuttlebook/internal/http/handlers"
	"shuttlebook/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.POST("", h.CreateTrip)

		departures := api.Group("/departures")
		departures.GET("", h.SearchDepartures)
		departures.GET("/:id", h.GetDepartureByID)
		departures.GET("/:id/bookings", h.GetDepartureBookings)
		departures.POST("", h.CreateDeparture)
		departures.PUT("/:id/status", h.UpdateDepartureStatus)

		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:ref", h.GetBookingByRef)
		bookings.POST("/:ref/cancel", h.CancelBooking)
		bookings.GET("/:ref/e-ticket", h.GetBookingETicketPDF)
	}

	return r
}
