// Package db pkg/db/interfaces.go
package db

import (
	"time"
)

//go:generate mockgen -destination=mock_db.go -package=db airqmon/pkg/db Service

// Service represents all reading-store operations.
type Service interface {
	// Append stores one decoded reading for a sensor.
	Append(sensorPath string, collectedAt time.Time, fields map[string]any) error

	// GetLatestReading returns the most recent reading for a sensor.
	GetLatestReading(sensorPath string) (*Reading, error)

	// GetReadings returns readings for a sensor within [start, end],
	// newest first, capped at limit.
	GetReadings(sensorPath string, start, end time.Time, limit int) ([]Reading, error)

	// ListSensors returns the distinct sensor paths with stored readings.
	ListSensors() ([]string, error)

	// CleanOldData removes readings older than the retention period.
	CleanOldData(retentionPeriod time.Duration) error

	Close() error
}
