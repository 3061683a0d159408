package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddStatusEvents, downAddStatusEvents)
}

func upAddStatusEvents(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE booking_status_events (
			id BIGSERIAL PRIMARY KEY,
			booking_id UUID NOT NULL,
			from_status VARCHAR(20) NOT NULL,
			to_status VARCHAR(20) NOT NULL,
			actor VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_booking_status_events_booking
				FOREIGN KEY(booking_id)
				REFERENCES bookings(id)
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_booking_status_events_booking_id ON booking_status_events(booking_id);`)
	return err
}

func downAddStatusEvents(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS booking_status_events;`)
	return err
}
