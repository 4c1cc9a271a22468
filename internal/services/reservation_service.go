package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "shuttlebook/internal/config"
	intdb "shuttlebook/internal/db"
	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/repositories"
	"shuttlebook/internal/utils"
)

// ReservationService drives the reserve-and-book path: optimistic seat
// decrement, reference generation, and booking assembly as one atomic unit,
// wrapped in the bounded retry controller. Zero-value fields fall back to
// shared defaults, and Sleep/NewRef are injectable for tests.
type ReservationService struct {
	DepartureRepo repositories.DepartureRepo
	BookingRepo   repositories.BookingRepo
	PassengerRepo repositories.PassengerRepo
	DB            *sql.DB

	MaxAttempts int
	RetryDelay  time.Duration
	Sleep       func(time.Duration)
	NewRef      func() (string, error)

	RequestID string
}

func (s ReservationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReservationService) departures() repositories.DepartureRepo {
	if s.DepartureRepo.DB != nil {
		return s.DepartureRepo
	}
	return repositories.DepartureRepo{DB: s.db()}
}

func (s ReservationService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s ReservationService) passengers() repositories.PassengerRepo {
	if s.PassengerRepo.DB != nil {
		return s.PassengerRepo
	}
	return repositories.PassengerRepo{DB: s.db()}
}

func (s ReservationService) attempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return defaultMaxAttempts
}

func (s ReservationService) delay() time.Duration {
	if s.RetryDelay > 0 {
		return s.RetryDelay
	}
	return defaultRetryDelay
}

func (s ReservationService) newRef() func() (string, error) {
	if s.NewRef != nil {
		return s.NewRef
	}
	return NewReference
}

// ReserveAndBook reserves seats for every passenger in the request and
// commits the booking with them, or fails without touching the inventory.
func (s ReservationService) ReserveAndBook(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return models.Booking{}, err
	}
	count := len(req.Passengers)

	var booking models.Booking
	err := withRetry(ctx, s.attempts(), s.delay(), s.Sleep, func(ctx context.Context) error {
		return intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
			b, err := s.bookOnce(ctx, tx, req, count)
			if err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "reserve_failed",
			fmt.Sprintf("departure_id=%d seats=%d err=%v", req.DepartureID, count, err))
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "reserve_ok",
		fmt.Sprintf("ref=%s departure_id=%d seats=%d", booking.Reference, booking.DepartureID, count))
	return booking, nil
}

// bookOnce is one attempt of the protocol inside an open transaction. A
// returned ErrVersionConflict rolls the transaction back and hands control to
// the retry controller, which starts over from a fresh snapshot.
func (s ReservationService) bookOnce(ctx context.Context, tx *sql.Tx, req models.BookingRequest, count int) (models.Booking, error) {
	snap, err := s.departures().GetSnapshot(ctx, tx, req.DepartureID)
	if err != nil {
		return models.Booking{}, err
	}
	if snap.Status != models.DepartureActive {
		return models.Booking{}, domain.UnavailableError{Resource: "departure", Status: snap.Status}
	}
	if snap.AvailableSeats < count {
		return models.Booking{}, domain.InsufficientCapacityError{Requested: count, Remaining: snap.AvailableSeats}
	}

	if err := s.departures().ReserveSeats(ctx, tx, snap.ID, count, snap.Version); err != nil {
		return models.Booking{}, err
	}

	// The decrement must have landed exactly one version ahead of the
	// snapshot; anything else means an interleaving bug.
	v, err := s.departures().Version(ctx, tx, snap.ID)
	if err != nil {
		return models.Booking{}, err
	}
	if v != snap.Version+1 {
		return models.Booking{}, domain.InternalError{
			Msg: fmt.Sprintf("inventory version skewed after reserve: read %d want %d", v, snap.Version+1),
		}
	}

	ref, err := uniqueReference(ctx, tx, s.newRef(), s.bookings().ReferenceExists)
	if err != nil {
		return models.Booking{}, err
	}

	b := models.Booking{
		Reference:      ref,
		DepartureID:    snap.ID,
		Status:         models.BookingConfirmed,
		PassengerCount: count,
		TotalPrice:     snap.PricePerSeat * int64(count),
		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		ContactPhone:   utils.NormalizePhone(req.ContactPhone),
	}
	id, err := s.bookings().Create(ctx, tx, b)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.passengers().InsertAll(ctx, tx, id, req.Passengers); err != nil {
		return models.Booking{}, err
	}
	b.ID = id
	return b, nil
}

// Cancel flips a confirmed booking to cancelled and restocks its seats, one
// atomic unit under the same version discipline as reservation.
func (s ReservationService) Cancel(ctx context.Context, ref string) (models.Booking, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	var booking models.Booking
	err := withRetry(ctx, s.attempts(), s.delay(), s.Sleep, func(ctx context.Context) error {
		return intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
			b, err := s.bookings().GetByRef(ctx, tx, ref)
			if err != nil {
				return err
			}
			if b.Status != models.BookingConfirmed {
				return domain.UnavailableError{Resource: "booking", Status: b.Status}
			}

			snap, err := s.departures().GetSnapshot(ctx, tx, b.DepartureID)
			if err != nil {
				return err
			}

			if err := s.bookings().MarkCancelled(ctx, tx, b.ID); err != nil {
				return err
			}
			if err := s.departures().RestockSeats(ctx, tx, b.DepartureID, b.PassengerCount, snap.Version); err != nil {
				return err
			}
			booking = b
			booking.Status = models.BookingCancelled
			return nil
		})
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "cancel_failed", fmt.Sprintf("ref=%s err=%v", ref, err))
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "cancel_ok",
		fmt.Sprintf("ref=%s departure_id=%d seats=%d", ref, booking.DepartureID, booking.PassengerCount))
	return booking, nil
}

// GetBooking loads a booking and its passenger list by public reference.
func (s ReservationService) GetBooking(ctx context.Context, ref string) (models.Booking, []models.Passenger, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return models.Booking{}, nil, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}
	b, err := s.bookings().GetByRef(ctx, nil, ref)
	if err != nil {
		return models.Booking{}, nil, err
	}
	ps, err := s.passengers().ListByBooking(ctx, b.ID)
	if err != nil {
		return models.Booking{}, nil, err
	}
	return b, ps, nil
}

func validateBookingRequest(req models.BookingRequest) error {
	if req.DepartureID <= 0 {
		return domain.ValidationError{Field: "departure_id", Msg: "must be positive"}
	}
	if len(req.Passengers) == 0 {
		return domain.ValidationError{Field: "passengers", Msg: "at least one passenger required"}
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return domain.ValidationError{
				Field: fmt.Sprintf("passengers[%d]", i),
				Msg:   "first and last name required",
			}
		}
	}
	email := strings.TrimSpace(req.ContactEmail)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ValidationError{Field: "contact_email", Msg: "valid email required"}
	}
	if utils.NormalizePhone(req.ContactPhone) == "" {
		return domain.ValidationError{Field: "contact_phone", Msg: "must not be empty"}
	}
	return nil
}
