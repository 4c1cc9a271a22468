package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "shuttlebook/internal/config"
	intdb "shuttlebook/internal/db"
	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/utils"
)

type PassengerRepo struct {
	DB *sql.DB
}

func (r PassengerRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// InsertAll stores the passenger list for a booking in one statement, inside
// the caller's transaction.
func (r PassengerRepo) InsertAll(ctx context.Context, q intdb.DBTX, bookingID int64, passengers []models.PassengerInput) error {
	if len(passengers) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(passengers))
	args := make([]any, 0, len(passengers)*5)
	for _, p := range passengers {
		placeholders = append(placeholders, "(?,?,?,?,?)")
		args = append(args,
			bookingID,
			strings.TrimSpace(p.FirstName),
			strings.TrimSpace(p.LastName),
			intdb.NullIfEmpty(strings.TrimSpace(p.Email)),
			intdb.NullIfEmpty(utils.NormalizePhone(p.Phone)),
		)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO passengers (booking_id, first_name, last_name, email, phone)
		VALUES `+strings.Join(placeholders, ","), args...)
	return err
}

// ListByBooking returns the passengers attached to a booking.
func (r PassengerRepo) ListByBooking(ctx context.Context, bookingID int64) ([]models.Passenger, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, '')
		FROM passengers WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.Email, &p.Phone); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
