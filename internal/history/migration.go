package history

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateHistorySchema разворачивает схему архива прогонов.
type CreateHistorySchema struct{}

func (m *CreateHistorySchema) UpMigration(db *sql.DB) error {
	query :=
		`
		CREATE SCHEMA IF NOT EXISTS marketsync;

		CREATE TABLE IF NOT EXISTS marketsync.runs (
		run_id UUID PRIMARY KEY,
		platform VARCHAR(32) NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		applied INT NOT NULL,
		failed INT NOT NULL,
		skipped INT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS marketsync.run_items (
		run_id UUID NOT NULL REFERENCES marketsync.runs(run_id),
		sku VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL,
		reason VARCHAR(64) NOT NULL,
		detail TEXT
		);

		CREATE INDEX IF NOT EXISTS run_items_run_id_idx ON marketsync.run_items(run_id);
		`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create marketsync history schema: %w", err)
	}

	log.Println("Migration 'marketsync.history' completed successfully.")
	return nil
}
