package handlers

import (
	"net/http"

	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/http/middleware"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"

	"github.com/gin-gonic/gin"
)

func tripJSON(t models.Trip) gin.H {
	return gin.H{
		"id":             t.ID,
		"route_from":     t.RouteFrom,
		"route_to":       t.RouteTo,
		"depart_time":    t.DepartTime,
		"price_per_seat": utils.FormatMoney(t.PricePerSeat),
	}
}

// GetTrips lists the trip catalogue.
// GET /api/trips
func GetTrips(c *gin.Context) {
	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	trips, err := svc.ListTrips(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripJSON(t))
	}
	c.JSON(http.StatusOK, gin.H{"trips": out})
}

type createTripRequest struct {
	RouteFrom    string `json:"route_from"`
	RouteTo      string `json:"route_to"`
	DepartTime   string `json:"depart_time"`
	PricePerSeat string `json:"price_per_seat"`
}

// CreateTrip adds a route to the catalogue.
// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	price, err := utils.ParseMoneyToCents(req.PricePerSeat)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "price_per_seat: invalid amount", nil)
		return
	}

	svc := services.DepartureService{RequestID: middleware.GetRequestID(c)}
	trip, err := svc.CreateTrip(c.Request.Context(), models.Trip{
		RouteFrom:    req.RouteFrom,
		RouteTo:      req.RouteTo,
		DepartTime:   req.DepartTime,
		PricePerSeat: price,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tripJSON(trip))
}
