// Package poller pkg/poller/interfaces.go

//go:generate mockgen -destination=mock_poller.go -package=poller airqmon/pkg/poller Fetcher,Decoder,PersistenceSink,MetricsSink,AlertSink

package poller

import (
	"context"
	"time"

	"airqmon/pkg/airq"
)

// Fetcher retrieves one encrypted envelope from a sensor endpoint.
// Implementations must tolerate concurrent use across endpoints.
type Fetcher interface {
	Fetch(ctx context.Context, sensorPath string) (string, error)
}

// Decoder decrypts one base64 envelope into decoded metric fields.
type Decoder interface {
	Decode(msgb64 string) (map[string]any, error)
}

// PersistenceSink stores decoded readings. A failure is logged and the
// reading dropped for the cycle; the poller never retries persistence.
type PersistenceSink interface {
	Append(sensorPath string, collectedAt time.Time, fields map[string]any) error
}

// MetricsSink observes readings and poll outcomes. Implementations are
// best-effort: they must not block or fail the cycle.
type MetricsSink interface {
	Observe(sensorPath string, fields map[string]any)
	IncPoll(sensorPath string)
	IncPollFailure(sensorPath string)
	ObserveCycleDuration(d time.Duration)
}

// AlertSink consumes decoded readings for alert evaluation and is
// periodically asked to prune state for unconfigured sensors.
type AlertSink interface {
	HandleReading(ctx context.Context, reading *airq.Reading)
	Cleanup(configured []string)
}
