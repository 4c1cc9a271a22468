package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "shuttlebook/internal/config"
	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"
)

type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r TripRepo) Create(ctx context.Context, trip models.Trip) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO trips (route_from, route_to, depart_time, price_per_seat)
		VALUES (?, ?, ?, ?)`,
		trip.RouteFrom, trip.RouteTo, trip.DepartTime, trip.PricePerSeat,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepo) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	var t models.Trip
	err := r.db().QueryRowContext(ctx, `
		SELECT id, route_from, route_to, depart_time, price_per_seat
		FROM trips WHERE id = ?`, id,
	).Scan(&t.ID, &t.RouteFrom, &t.RouteTo, &t.DepartTime, &t.PricePerSeat)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

func (r TripRepo) List(ctx context.Context) ([]models.Trip, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, route_from, route_to, depart_time, price_per_seat
		FROM trips ORDER BY route_from, route_to, depart_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.RouteFrom, &t.RouteTo, &t.DepartTime, &t.PricePerSeat); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
