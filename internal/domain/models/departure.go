package models

// Departure lifecycle states. Rows are never deleted, only transitioned.
const (
	DepartureActive    = "active"
	DepartureCancelled = "cancelled"
	DepartureClosed    = "closed"
)

// ValidDepartureStatus reports whether s is one of the persisted enum values.
func ValidDepartureStatus(s string) bool {
	return s == DepartureActive || s == DepartureCancelled || s == DepartureClosed
}

// Departure is one dated, bookable occurrence of a trip. AvailableSeats and
// Version are only ever mutated through the conditional version write in the
// departure repo; version starts at 0 and strictly increases on every
// successful mutation.
type Departure struct {
	ID             int64
	TripID         int64
	TravelDate     string // YYYY-MM-DD
	Capacity       int
	AvailableSeats int
	Version        int64
	Status         string
}

// DepartureSnapshot is the inventory row joined with its trip, as read at the
// start of a reservation attempt. Display reads may be slightly stale; the
// authoritative check happens again at write time.
type DepartureSnapshot struct {
	Departure
	RouteFrom    string
	RouteTo      string
	DepartTime   string
	PricePerSeat int64
}
