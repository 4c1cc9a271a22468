package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "shuttlebook/internal/config"
	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/repositories"
	"shuttlebook/internal/utils"
)

// DepartureService covers the display-side collaborators: trip catalogue,
// departure creation, lifecycle transitions, and search. No correctness
// property lives here; the reservation path re-checks everything.
type DepartureService struct {
	DepartureRepo repositories.DepartureRepo
	TripRepo      repositories.TripRepo
	BookingRepo   repositories.BookingRepo
	DB            *sql.DB
	RequestID     string
}

func (s DepartureService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DepartureService) departures() repositories.DepartureRepo {
	if s.DepartureRepo.DB != nil {
		return s.DepartureRepo
	}
	return repositories.DepartureRepo{DB: s.db()}
}

func (s DepartureService) trips() repositories.TripRepo {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepo{DB: s.db()}
}

func (s DepartureService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

// CreateDeparture expands a trip into one concrete dated occurrence with a
// full seat inventory at version 0.
func (s DepartureService) CreateDeparture(ctx context.Context, tripID int64, travelDate string, capacity int) (models.DepartureSnapshot, error) {
	if tripID <= 0 {
		return models.DepartureSnapshot{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	if capacity <= 0 {
		return models.DepartureSnapshot{}, domain.ValidationError{Field: "capacity", Msg: "must be positive"}
	}
	if _, err := utils.ParseDate(travelDate); err != nil {
		return models.DepartureSnapshot{}, domain.ValidationError{Field: "travel_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if _, err := s.trips().GetByID(ctx, tripID); err != nil {
		return models.DepartureSnapshot{}, err
	}

	id, err := s.departures().Create(ctx, models.Departure{
		TripID:     tripID,
		TravelDate: strings.TrimSpace(travelDate),
		Capacity:   capacity,
	})
	if err != nil {
		return models.DepartureSnapshot{}, err
	}

	utils.LogEvent(s.RequestID, "departure", "create",
		fmt.Sprintf("id=%d trip_id=%d date=%s capacity=%d", id, tripID, travelDate, capacity))
	return s.departures().GetSnapshot(ctx, s.db(), id)
}

// SetStatus transitions a departure's lifecycle state.
func (s DepartureService) SetStatus(ctx context.Context, id int64, status string) (models.DepartureSnapshot, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidDepartureStatus(status) {
		return models.DepartureSnapshot{}, domain.ValidationError{Field: "status", Msg: "expected active, cancelled or closed"}
	}
	if err := s.departures().UpdateStatus(ctx, id, status); err != nil {
		return models.DepartureSnapshot{}, err
	}
	utils.LogEvent(s.RequestID, "departure", "set_status", fmt.Sprintf("id=%d status=%s", id, status))
	return s.departures().GetSnapshot(ctx, s.db(), id)
}

// Get returns one departure with trip info.
func (s DepartureService) Get(ctx context.Context, id int64) (models.DepartureSnapshot, error) {
	if id <= 0 {
		return models.DepartureSnapshot{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	return s.departures().GetSnapshot(ctx, s.db(), id)
}

// Search lists bookable departures. Date bounds are validated when present.
func (s DepartureService) Search(ctx context.Context, q repositories.SearchQuery) ([]models.DepartureSnapshot, error) {
	for field, val := range map[string]string{"date_from": q.DateFrom, "date_to": q.DateTo} {
		if strings.TrimSpace(val) == "" {
			continue
		}
		if _, err := utils.ParseDate(val); err != nil {
			return nil, domain.ValidationError{Field: field, Msg: "expected YYYY-MM-DD", Err: err}
		}
	}
	return s.departures().Search(ctx, q)
}

// CreateTrip adds a route to the catalogue.
func (s DepartureService) CreateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	trip.RouteFrom = utils.NormalizeSpace(trip.RouteFrom)
	trip.RouteTo = utils.NormalizeSpace(trip.RouteTo)
	if trip.RouteFrom == "" || trip.RouteTo == "" {
		return models.Trip{}, domain.ValidationError{Field: "route", Msg: "route_from and route_to required"}
	}
	if len(trip.DepartTime) != 5 || trip.DepartTime[2] != ':' {
		return models.Trip{}, domain.ValidationError{Field: "depart_time", Msg: "expected HH:MM"}
	}
	if trip.PricePerSeat < 0 {
		return models.Trip{}, domain.ValidationError{Field: "price_per_seat", Msg: "must not be negative"}
	}
	id, err := s.trips().Create(ctx, trip)
	if err != nil {
		return models.Trip{}, err
	}
	trip.ID = id
	return trip, nil
}

// Manifest lists the bookings on a departure, for boarding lists and ops
// checks. Status filters to confirmed or cancelled when given.
func (s DepartureService) Manifest(ctx context.Context, departureID int64, status string) ([]models.Booking, error) {
	if departureID <= 0 {
		return nil, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != models.BookingConfirmed && status != models.BookingCancelled {
		return nil, domain.ValidationError{Field: "status", Msg: "expected confirmed or cancelled"}
	}
	if _, err := s.departures().GetSnapshot(ctx, s.db(), departureID); err != nil {
		return nil, err
	}
	return s.bookings().ListByDeparture(ctx, departureID, status)
}

// ListTrips returns the trip catalogue.
func (s DepartureService) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return s.trips().List(ctx)
}
