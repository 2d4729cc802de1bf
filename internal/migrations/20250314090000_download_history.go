package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upDownloadHistory, downDownloadHistory)
}

func upDownloadHistory(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE download_history (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		total_items INTEGER NOT NULL DEFAULT 0,
		new_items INTEGER NOT NULL DEFAULT 0,
		failed_items INTEGER NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL DEFAULT FALSE,
		error_message TEXT,
		download_path TEXT,
		started_at TIMESTAMP WITH TIME ZONE,
		completed_at TIMESTAMP WITH TIME ZONE
	);
	CREATE INDEX idx_download_history_completed_at ON download_history (completed_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downDownloadHistory(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE download_history;
	`)
	if err != nil {
		return err
	}
	return nil
}
