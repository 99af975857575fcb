// Package metrics exposes decoded sensor readings and poll outcomes as
// Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"airqmon/pkg/airq"
)

// Metrics holds all airqmon Prometheus collectors.
type Metrics struct {
	// SensorValue is the latest decoded value per sensor metric.
	SensorValue *prometheus.GaugeVec

	// SensorUncertainty is the vendor-reported uncertainty, where present.
	SensorUncertainty *prometheus.GaugeVec

	// PollsTotal counts successful polls per sensor.
	PollsTotal *prometheus.CounterVec

	// PollFailuresTotal counts polls that exhausted their retries.
	PollFailuresTotal *prometheus.CounterVec

	// CycleDuration observes full poll cycle durations.
	CycleDuration prometheus.Histogram
}

// New creates the airqmon metrics collectors.
func New() *Metrics {
	return &Metrics{
		SensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airqmon_sensor_value",
			Help: "Latest decoded value per sensor metric",
		}, []string{"sensor", "metric"}),
		SensorUncertainty: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airqmon_sensor_uncertainty",
			Help: "Vendor-reported measurement uncertainty per sensor metric",
		}, []string{"sensor", "metric"}),
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airqmon_polls_total",
			Help: "Total number of successful sensor polls",
		}, []string{"sensor"}),
		PollFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airqmon_poll_failures_total",
			Help: "Total number of sensor polls that exhausted their retries",
		}, []string{"sensor"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "airqmon_cycle_duration_seconds",
			Help:    "Duration of one full poll cycle",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Register registers all collectors with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.SensorValue,
		m.SensorUncertainty,
		m.PollsTotal,
		m.PollFailuresTotal,
		m.CycleDuration,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// Observe records the decoded fields for one sensor. Best effort:
// fields with unknown shapes are skipped, and nothing ever fails the
// cycle.
func (m *Metrics) Observe(sensorPath string, fields map[string]any) {
	for name, value := range fields {
		measurement, ok := airq.AsMeasurement(value)
		if !ok {
			continue
		}

		m.SensorValue.WithLabelValues(sensorPath, name).Set(measurement.Value)

		if measurement.Uncertainty != nil {
			m.SensorUncertainty.WithLabelValues(sensorPath, name).Set(*measurement.Uncertainty)
		}
	}
}

// IncPoll counts one successful poll for a sensor.
func (m *Metrics) IncPoll(sensorPath string) {
	m.PollsTotal.WithLabelValues(sensorPath).Inc()
}

// IncPollFailure counts one exhausted poll for a sensor.
func (m *Metrics) IncPollFailure(sensorPath string) {
	m.PollFailuresTotal.WithLabelValues(sensorPath).Inc()
}

// ObserveCycleDuration records the duration of one poll cycle.
func (m *Metrics) ObserveCycleDuration(d time.Duration) {
	m.CycleDuration.Observe(d.Seconds())
}
