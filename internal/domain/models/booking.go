package models

// Booking states.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is one customer reservation against exactly one departure.
// Reference is the short public code; ID stays internal.
type Booking struct {
	ID             int64
	Reference      string
	DepartureID    int64
	Status         string
	PassengerCount int
	TotalPrice     int64 // minor units (cents)
	ContactEmail   string
	ContactPhone   string
	CreatedAt      string
	CancelledAt    string // empty while confirmed
}

// Passenger is a named traveler owned by a booking (cascade lifecycle).
type Passenger struct {
	ID        int64
	BookingID int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// PassengerInput carries traveler info from the booking request.
type PassengerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingRequest is the inbound reserve-and-book payload.
type BookingRequest struct {
	DepartureID  int64            `json:"departure_id"`
	Passengers   []PassengerInput `json:"passengers"`
	ContactEmail string           `json:"contact_email"`
	ContactPhone string           `json:"contact_phone"`
}
