package repositories

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the estimate cache table and its expiry index.
// Idempotent; safe to run at every startup.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS delivery_estimates (
		origin_hub             TEXT NOT NULL,
		destination_district   TEXT NOT NULL,
		covered_postal_codes   JSONB NOT NULL DEFAULT '[]',
		min_days               INT NOT NULL DEFAULT 1,
		max_days               INT NOT NULL DEFAULT 1,
		average_days           INT NOT NULL DEFAULT 1,
		provider               TEXT NOT NULL DEFAULT '',
		distance_km            DOUBLE PRECISION,
		zone                   TEXT NOT NULL DEFAULT '',
		service_tier           TEXT NOT NULL DEFAULT 'Standard',
		cod_available          BOOLEAN NOT NULL DEFAULT FALSE,
		weight_range           TEXT NOT NULL DEFAULT '',
		last_updated_at        TIMESTAMPTZ NOT NULL,
		expires_at             TIMESTAMPTZ NOT NULL,
		refresh_frequency_hint TEXT NOT NULL DEFAULT '',
		api_call_count         BIGINT NOT NULL DEFAULT 0,
		confidence_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
		delivery_count         BIGINT,
		average_delay_days     DOUBLE PRECISION,
		on_time_percent        DOUBLE PRECISION,
		PRIMARY KEY (origin_hub, destination_district)
	);

	CREATE INDEX IF NOT EXISTS idx_delivery_estimates_expires_at
		ON delivery_estimates (expires_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: create delivery_estimates: %w", err)
	}

	return nil
}
