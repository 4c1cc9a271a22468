package handlers

import (
	"net/http"
	"strconv"

	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/http/middleware"
	"shuttlebook/internal/repositories"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"

	"github.com/gin-gonic/gin"
)

func departureJSON(s models.DepartureSnapshot) gin.H {
	return gin.H{
		"id":              s.ID,
		"trip_id":         s.TripID,
		"travel_date":     s.TravelDate,
		"depart_time":     s.DepartTime,
		"route_from":      s.RouteFrom,
		"route_to":        s.RouteTo,
		"capacity":        s.Capacity,
		"available_seats": s.AvailableSeats,
		"status":          s.Status,
		"price_per_seat":  utils.FormatMoney(s.PricePerSeat),
	}
}

// SearchDepartures lists active departures with seats left.
// GET /api/departures?from=&to=&date_from=&date_to=
func SearchDepartures(c *gin.Context) {
	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	found, err := svc.Search(c.Request.Context(), repositories.SearchQuery{
		RouteFrom: c.Query("from"),
		RouteTo:   c.Query("to"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(found))
	for _, s := range found {
		out = append(out, departureJSON(s))
	}
	c.JSON(http.StatusOK, gin.H{"departures": out})
}

// GetDepartureByID returns one departure with trip info.
// GET /api/departures/:id
func GetDepartureByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid departure id", nil)
		return
	}

	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	snap, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, departureJSON(snap))
}

type createDepartureRequest struct {
	TripID     int64  `json:"trip_id"`
	TravelDate string `json:"travel_date"`
	Capacity   int    `json:"capacity"`
}

// CreateDeparture expands a trip into a concrete dated occurrence.
// POST /api/departures
func CreateDeparture(c *gin.Context) {
	var req createDepartureRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	snap, err := svc.CreateDeparture(c.Request.Context(), req.TripID, req.TravelDate, req.Capacity)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, departureJSON(snap))
}

// GetDepartureBookings returns the booking manifest for a departure.
// GET /api/departures/:id/bookings?status=
func GetDepartureBookings(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid departure id", nil)
		return
	}

	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	bookings, err := svc.Manifest(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingJSON(b))
	}
	c.JSON(http.StatusOK, gin.H{"departure_id": id, "bookings": out})
}

type departureStatusRequest struct {
	Status string `json:"status"`
}

// UpdateDepartureStatus transitions the lifecycle state.
// PUT /api/departures/:id/status
func UpdateDepartureStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid departure id", nil)
		return
	}

	var req departureStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	snap, err := svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, departureJSON(snap))
}
