package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"availability-scraper/models"
)

// PostgresWriter persists canonical availability records to PostgreSQL.
// Each cycle rewrites the table: the data is a snapshot of the calendar,
// not an append-only history.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS availability (
			id          SERIAL PRIMARY KEY,
			date        DATE          NOT NULL,
			adult_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			child_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			available   BOOLEAN       NOT NULL,
			month_label TEXT          NOT NULL DEFAULT '',
			captured_at TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			UNIQUE (date, available)
		);

		CREATE INDEX IF NOT EXISTS idx_availability_date      ON availability(date);
		CREATE INDEX IF NOT EXISTS idx_availability_available ON availability(available);
	`)
	return err
}

// Clear deletes all existing records from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM availability")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all records, clearing the previous snapshot first.
func (pw *PostgresWriter) Write(records []*models.AvailabilityRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.AvailabilityRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*5)

	for idx, r := range batch {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs,
			r.Date, r.AdultPrice, r.ChildPrice, r.Available, r.MonthLabel)
	}

	query := fmt.Sprintf(`
		INSERT INTO availability (date, adult_price, child_price, available, month_label)
		VALUES %s
		ON CONFLICT (date, available) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
