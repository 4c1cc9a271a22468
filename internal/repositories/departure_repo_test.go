package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"shuttlebook/internal/domain"
	"shuttlebook/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (DepartureRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return DepartureRepo{DB: db}, mock
}

func TestReserveSeatsAppliesConditionalDecrement(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures").
		WithArgs(2, int64(5), int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReserveSeats(context.Background(), repo.DB, 5, 2, 7); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsZeroRowsIsVersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReserveSeats(context.Background(), repo.DB, 5, 2, 6)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestReserveSeatsStorageErrorIsNotConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures").
		WillReturnError(errors.New("connection reset"))

	err := repo.ReserveSeats(context.Background(), repo.DB, 5, 2, 6)
	if err == nil || errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("storage errors must propagate as-is, got %v", err)
	}
}

func TestRestockSeatsZeroRowsIsVersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures").
		WithArgs(2, int64(5), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RestockSeats(context.Background(), repo.DB, 5, 2, 9)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM departures d").WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSnapshot(context.Background(), repo.DB, 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateStatusBumpsVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures SET status = \\?, version = version \\+ 1").
		WithArgs(models.DepartureClosed, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), 5, models.DepartureClosed); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusUnknownDeparture(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE departures").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, models.DepartureCancelled)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSearchFiltersToBookableDepartures(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{
		"id", "trip_id", "travel_date", "capacity",
		"available_seats", "version", "status",
		"route_from", "route_to", "depart_time", "price_per_seat",
	}
	mock.ExpectQuery("FROM departures d").
		WithArgs(models.DepartureActive, "Riverton", "2026-09-01").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, 1, "2026-09-10", 12, 3, 7, "active", "Riverton", "Lakeside", "08:30", int64(15000)))

	out, err := repo.Search(context.Background(), SearchQuery{RouteFrom: "Riverton", DateFrom: "2026-09-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].AvailableSeats != 3 || out[0].RouteTo != "Lakeside" {
		t.Fatalf("unexpected result: %+v", out)
	}
}
