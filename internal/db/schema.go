package db

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables on first boot. Statements are idempotent so
// restarts against an existing database are safe.
func EnsureSchema(database *sql.DB) error {
	if database == nil {
		return fmt.Errorf("db not available")
	}

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_from VARCHAR(100) NOT NULL,
	route_to VARCHAR(100) NOT NULL,
	depart_time VARCHAR(5) NOT NULL,
	price_per_seat BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_route (route_from, route_to)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS departures (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	travel_date DATE NOT NULL,
	capacity INT NOT NULL,
	available_seats INT NOT NULL,
	version BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_trip_date (trip_id, travel_date),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reference VARCHAR(10) NOT NULL,
	departure_id BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	passenger_count INT NOT NULL,
	total_price BIGINT NOT NULL DEFAULT 0,
	contact_email VARCHAR(255) NOT NULL,
	contact_phone VARCHAR(100) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	cancelled_at TIMESTAMP NULL DEFAULT NULL,
	UNIQUE KEY uniq_reference (reference),
	KEY idx_departure (departure_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NULL,
	phone VARCHAR(100) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range ddls {
		if _, err := database.Exec(ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
