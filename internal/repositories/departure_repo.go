package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "shuttlebook/internal/config"
	intdb "shuttlebook/internal/db"
	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"
)

// DepartureRepo owns the seat-inventory rows. available_seats and version are
// mutated only through ReserveSeats / RestockSeats / UpdateStatus here; no
// other code path may write those columns.
type DepartureRepo struct {
	DB *sql.DB
}

func (r DepartureRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts a concrete departure for a trip with a full seat inventory.
func (r DepartureRepo) Create(ctx context.Context, dep models.Departure) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO departures (trip_id, travel_date, capacity, available_seats, version, status)
		VALUES (?, ?, ?, ?, 0, ?)`,
		dep.TripID, dep.TravelDate, dep.Capacity, dep.Capacity, models.DepartureActive,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const snapshotQuery = `
	SELECT d.id, d.trip_id, DATE_FORMAT(d.travel_date, '%Y-%m-%d'), d.capacity,
	       d.available_seats, d.version, d.status,
	       t.route_from, t.route_to, t.depart_time, t.price_per_seat
	FROM departures d
	JOIN trips t ON t.id = d.trip_id
	WHERE d.id = ?`

// GetSnapshot reads the inventory row plus trip info through q, which may be
// a transaction. A plain read: the authoritative seat check happens again at
// write time via the version condition.
func (r DepartureRepo) GetSnapshot(ctx context.Context, q intdb.DBTX, id int64) (models.DepartureSnapshot, error) {
	var s models.DepartureSnapshot
	err := q.QueryRowContext(ctx, snapshotQuery, id).Scan(
		&s.ID, &s.TripID, &s.TravelDate, &s.Capacity,
		&s.AvailableSeats, &s.Version, &s.Status,
		&s.RouteFrom, &s.RouteTo, &s.DepartTime, &s.PricePerSeat,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DepartureSnapshot{}, domain.NotFoundError{Resource: "departure", Err: err}
	}
	if err != nil {
		return models.DepartureSnapshot{}, err
	}
	return s, nil
}

// ReserveSeats is the conditional write at the heart of the protocol: the
// decrement applies only while the stored version still equals the one read
// at snapshot time. Zero affected rows means another writer won the race.
func (r DepartureRepo) ReserveSeats(ctx context.Context, q intdb.DBTX, id int64, count int, version int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE departures
		SET available_seats = available_seats - ?, version = version + 1
		WHERE id = ? AND version = ? AND available_seats >= ?`,
		count, id, version, count,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// RestockSeats reverses a booking's decrement under the same version
// discipline. LEAST caps the restock at capacity; it cannot trigger while the
// seat invariant holds.
func (r DepartureRepo) RestockSeats(ctx context.Context, q intdb.DBTX, id int64, count int, version int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE departures
		SET available_seats = LEAST(capacity, available_seats + ?), version = version + 1
		WHERE id = ? AND version = ?`,
		count, id, version,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// Version re-reads the current version inside a transaction.
func (r DepartureRepo) Version(ctx context.Context, q intdb.DBTX, id int64) (int64, error) {
	var v int64
	err := q.QueryRowContext(ctx, `SELECT version FROM departures WHERE id = ?`, id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "departure", Err: err}
	}
	return v, err
}

// UpdateStatus transitions the lifecycle state. The version bump makes any
// in-flight reservation conditioned on the old version fail its write.
func (r DepartureRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE departures SET status = ?, version = version + 1 WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "departure"}
	}
	return nil
}

// SearchQuery filters the departure listing. Zero values mean "any".
type SearchQuery struct {
	RouteFrom string
	RouteTo   string
	DateFrom  string
	DateTo    string
}

// Search lists active departures with seats left. Unsynchronized against
// writers; slightly stale availability is fine for display.
func (r DepartureRepo) Search(ctx context.Context, q SearchQuery) ([]models.DepartureSnapshot, error) {
	where := []string{"d.status = ?", "d.available_seats > 0"}
	args := []any{models.DepartureActive}

	if s := strings.TrimSpace(q.RouteFrom); s != "" {
		where = append(where, "LOWER(t.route_from) = LOWER(?)")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.RouteTo); s != "" {
		where = append(where, "LOWER(t.route_to) = LOWER(?)")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.DateFrom); s != "" {
		where = append(where, "d.travel_date >= ?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.DateTo); s != "" {
		where = append(where, "d.travel_date <= ?")
		args = append(args, s)
	}

	query := `
		SELECT d.id, d.trip_id, DATE_FORMAT(d.travel_date, '%Y-%m-%d'), d.capacity,
		       d.available_seats, d.version, d.status,
		       t.route_from, t.route_to, t.depart_time, t.price_per_seat
		FROM departures d
		JOIN trips t ON t.id = d.trip_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY d.travel_date, t.depart_time`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DepartureSnapshot{}
	for rows.Next() {
		var s models.DepartureSnapshot
		if err := rows.Scan(
			&s.ID, &s.TripID, &s.TravelDate, &s.Capacity,
			&s.AvailableSeats, &s.Version, &s.Status,
			&s.RouteFrom, &s.RouteTo, &s.DepartTime, &s.PricePerSeat,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
