package models

// Trip is a scheduled route with a fixed per-seat price. Concrete bookable
// occurrences live in departures.
type Trip struct {
	ID           int64
	RouteFrom    string
	RouteTo      string
	DepartTime   string // HH:MM
	PricePerSeat int64  // minor units (cents)
}
