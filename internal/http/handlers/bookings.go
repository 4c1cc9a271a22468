package handlers

import (
	"net/http"

	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/http/middleware"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"

	"github.com/gin-gonic/gin"
)

func bookingJSON(b models.Booking) gin.H {
	out := gin.H{
		"booking_ref":     b.Reference,
		"departure_id":    b.DepartureID,
		"status":          b.Status,
		"passenger_count": b.PassengerCount,
		"total_price":     utils.FormatMoney(b.TotalPrice),
		"contact_email":   b.ContactEmail,
		"contact_phone":   b.ContactPhone,
		"created_at":      b.CreatedAt,
	}
	if b.CancelledAt != "" {
		out["cancelled_at"] = b.CancelledAt
	}
	return out
}

// CreateBooking reserves seats and commits the booking in one unit.
// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.ReserveAndBook(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookingJSON(booking))
}

// GetBookingByRef returns booking detail with its passenger list.
// GET /api/bookings/:ref
func GetBookingByRef(c *gin.Context) {
	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	booking, passengers, err := svc.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	ps := make([]gin.H, 0, len(passengers))
	for _, p := range passengers {
		ps = append(ps, gin.H{
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"email":      p.Email,
			"phone":      p.Phone,
		})
	}

	out := bookingJSON(booking)
	out["passengers"] = ps
	c.JSON(http.StatusOK, out)
}

// CancelBooking restocks the departure's seats together with the status flip.
// POST /api/bookings/:ref/cancel
func CancelBooking(c *gin.Context) {
	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Cancel(c.Request.Context(), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_ref":     booking.Reference,
		"status":          booking.Status,
		"seats_restocked": booking.PassengerCount,
	})
}

// GetBookingETicketPDF streams the e-ticket for a booking.
// GET /api/bookings/:ref/e-ticket
func GetBookingETicketPDF(c *gin.Context) {
	svc := services.TicketService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateETicket(c.Request.Context(), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
