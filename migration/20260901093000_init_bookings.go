package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitBookings, downInitBookings)
}

func upInitBookings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE bookings (
			id UUID PRIMARY KEY,
			kind VARCHAR(32) NOT NULL,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(64) NOT NULL DEFAULT '',
			country VARCHAR(128) NOT NULL DEFAULT '',
			passengers INTEGER NOT NULL DEFAULT 1,
			trip_date DATE,
			vehicle VARCHAR(32) NOT NULL DEFAULT '',
			package_id VARCHAR(64) NOT NULL DEFAULT '',
			package_title VARCHAR(255) NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT chk_bookings_status
				CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled'))
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_bookings_status ON bookings(status);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_bookings_created_at ON bookings(created_at DESC);`)
	if err != nil {
		return err
	}

	// Destinations keep the order the visitor picked them in.
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE booking_destinations (
			booking_id UUID NOT NULL,
			position INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(32) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (booking_id, position),
			CONSTRAINT fk_booking_destinations_booking
				FOREIGN KEY(booking_id)
				REFERENCES bookings(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	return nil
}

func downInitBookings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS booking_destinations;`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookings;`)
	return err
}
