package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "shuttlebook/internal/config"
	intdb "shuttlebook/internal/db"
	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts the booking row. Callers run this inside the same
// transaction as the seat decrement.
func (r BookingRepo) Create(ctx context.Context, q intdb.DBTX, b models.Booking) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings (reference, departure_id, status, passenger_count, total_price, contact_email, contact_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.DepartureID, b.Status, b.PassengerCount, b.TotalPrice, b.ContactEmail, b.ContactPhone,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ReferenceExists checks a candidate code against existing bookings. Runs
// through q so the check shares the transaction with booking creation and no
// duplicate can slip in between check and insert.
func (r BookingRepo) ReferenceExists(ctx context.Context, q intdb.DBTX, ref string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE reference = ?`, ref).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

const bookingSelect = `
	SELECT id, reference, departure_id, status, passenger_count, total_price,
	       contact_email, contact_phone,
	       DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	       COALESCE(DATE_FORMAT(cancelled_at, '%Y-%m-%d %H:%i:%s'), '')
	FROM bookings`

// GetByRef loads a booking by its public reference code.
func (r BookingRepo) GetByRef(ctx context.Context, q intdb.DBTX, ref string) (models.Booking, error) {
	if q == nil {
		q = r.db()
	}
	var b models.Booking
	err := q.QueryRowContext(ctx, bookingSelect+` WHERE reference = ?`, ref).Scan(
		&b.ID, &b.Reference, &b.DepartureID, &b.Status, &b.PassengerCount, &b.TotalPrice,
		&b.ContactEmail, &b.ContactPhone, &b.CreatedAt, &b.CancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// MarkCancelled flips a confirmed booking to cancelled and stamps the time.
// The status condition makes a repeated cancel a no-op at the SQL level.
func (r BookingRepo) MarkCancelled(ctx context.Context, q intdb.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE bookings SET status = ?, cancelled_at = NOW()
		WHERE id = ? AND status = ?`,
		models.BookingCancelled, id, models.BookingConfirmed,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.UnavailableError{Resource: "booking", Status: models.BookingCancelled}
	}
	return nil
}

// ListByDeparture returns bookings for a departure, optionally filtered by status.
func (r BookingRepo) ListByDeparture(ctx context.Context, departureID int64, status string) ([]models.Booking, error) {
	query := bookingSelect + ` WHERE departure_id = ?`
	args := []any{departureID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.DepartureID, &b.Status, &b.PassengerCount, &b.TotalPrice,
			&b.ContactEmail, &b.ContactPhone, &b.CreatedAt, &b.CancelledAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
