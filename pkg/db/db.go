// Package db pkg/db/db.go provides SQLite storage for decoded sensor readings.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	-- Decoded sensor readings, one row per successful poll
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sensor_path TEXT NOT NULL,
		collected_at TIMESTAMP NOT NULL,
		decoded_data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sensor_readings_path_time
		ON sensor_readings(sensor_path, collected_at);

	-- Enable WAL mode for better concurrent access
	PRAGMA journal_mode=WAL;
	`
)

// DB represents the reading store and its operations.
type DB struct {
	*sql.DB
}

// Reading represents a stored sensor reading row.
type Reading struct {
	SensorPath  string         `json:"sensor_path"`
	CollectedAt time.Time      `json:"collected_at"`
	Fields      map[string]any `json:"fields"`
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if _, err := sqlDB.Exec(createTablesSQL); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return &DB{DB: sqlDB}, nil
}

// Append stores one decoded reading. Each sensor's persistence is an
// independent single-row insert, so a failure never leaves partial
// multi-endpoint state.
func (db *DB) Append(sensorPath string, collectedAt time.Time, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	_, err = db.Exec(
		"INSERT INTO sensor_readings (sensor_path, collected_at, decoded_data) VALUES (?, ?, ?)",
		sensorPath, collectedAt, string(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetLatestReading returns the most recent reading for a sensor.
func (db *DB) GetLatestReading(sensorPath string) (*Reading, error) {
	row := db.QueryRow(`
		SELECT sensor_path, collected_at, decoded_data
		FROM sensor_readings
		WHERE sensor_path = ?
		ORDER BY collected_at DESC
		LIMIT 1`,
		sensorPath)

	reading, err := scanReading(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoReadings, sensorPath)
	}

	if err != nil {
		return nil, err
	}

	return reading, nil
}

// GetReadings returns readings for a sensor within [start, end], newest
// first, capped at limit.
func (db *DB) GetReadings(sensorPath string, start, end time.Time, limit int) ([]Reading, error) {
	rows, err := db.Query(`
		SELECT sensor_path, collected_at, decoded_data
		FROM sensor_readings
		WHERE sensor_path = ? AND collected_at >= ? AND collected_at <= ?
		ORDER BY collected_at DESC
		LIMIT ?`,
		sensorPath, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer CloseRows(rows)

	var readings []Reading

	for rows.Next() {
		reading, err := scanReading(rows.Scan)
		if err != nil {
			return nil, err
		}

		readings = append(readings, *reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return readings, nil
}

// ListSensors returns the distinct sensor paths with stored readings.
func (db *DB) ListSensors() ([]string, error) {
	rows, err := db.Query("SELECT DISTINCT sensor_path FROM sensor_readings ORDER BY sensor_path")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer CloseRows(rows)

	var sensors []string

	for rows.Next() {
		var sensorPath string
		if err := rows.Scan(&sensorPath); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
		}

		sensors = append(sensors, sensorPath)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return sensors, nil
}

// CleanOldData removes readings older than the retention period.
func (db *DB) CleanOldData(retentionPeriod time.Duration) error {
	cutoff := time.Now().Add(-retentionPeriod)

	if _, err := db.Exec("DELETE FROM sensor_readings WHERE collected_at < ?", cutoff); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToClean, err)
	}

	return nil
}

// CloseRows closes rows, logging a failure instead of masking the
// caller's error.
func CloseRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}

func scanReading(scan func(dest ...any) error) (*Reading, error) {
	var (
		reading Reading
		data    string
	)

	if err := scan(&reading.SensorPath, &reading.CollectedAt, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	if err := json.Unmarshal([]byte(data), &reading.Fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	return &reading, nil
}
