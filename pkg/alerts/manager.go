// Package alerts implements threshold alerting with hysteresis and
// cooldown over decoded sensor readings.
package alerts

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"airqmon/pkg/airq"
)

const (
	defaultMetric              = "health"
	defaultMinConsecutivePolls = 3
)

// Config holds the alerting parameters for one watched metric.
type Config struct {
	Metric              string        // decoded field to evaluate
	Threshold           float64       // alert when the value stays below this
	MinConsecutivePolls uint          // readings required before notify/clear
	Cooldown            time.Duration // minimum gap between repeated alerts
}

// Manager is the alert state machine. It keeps one hysteresis instance
// per (sensor, alert type) key: M consecutive below-threshold readings
// raise an alert, M consecutive at-or-above readings clear it, and the
// cooldown rate-limits repeated alerts while a condition persists. The
// counters keep advancing during cooldown.
type Manager struct {
	config   Config
	notifier Notifier

	mu     sync.Mutex
	states map[Key]*state

	now func() time.Time
}

func NewManager(config Config, notifier Notifier) *Manager {
	if config.Metric == "" {
		config.Metric = defaultMetric
	}

	if config.MinConsecutivePolls == 0 {
		config.MinConsecutivePolls = defaultMinConsecutivePolls
	}

	return &Manager{
		config:   config,
		notifier: notifier,
		states:   make(map[Key]*state),
		now:      time.Now,
	}
}

// HandleReading feeds one decoded reading into the state machine.
// Readings without the watched metric are ignored.
func (m *Manager) HandleReading(ctx context.Context, reading *airq.Reading) {
	measurement, ok := reading.Measurement(m.config.Metric)
	if !ok {
		return
	}

	m.evaluate(ctx, reading.SensorPath, measurement.Value)
}

func (m *Manager) evaluate(ctx context.Context, sensorPath string, value float64) {
	key := Key{SensorPath: sensorPath, Type: TypeHealthLow}

	m.mu.Lock()

	st, ok := m.states[key]
	if !ok {
		st = &state{}
		m.states[key] = st
	}

	if value < m.config.Threshold {
		st.consecutiveHigh = 0
		st.consecutiveLow++

		fire := st.consecutiveLow >= m.config.MinConsecutivePolls && !m.inCooldownLocked(st)
		m.mu.Unlock()

		if !fire {
			return
		}

		m.sendAlert(ctx, st, sensorPath, value)

		return
	}

	st.consecutiveLow = 0
	st.consecutiveHigh++

	recovered := st.consecutiveHigh >= m.config.MinConsecutivePolls && st.active
	m.mu.Unlock()

	if !recovered {
		return
	}

	m.sendRecovery(ctx, st, sensorPath, value)
}

// sendAlert dispatches a health alert. On failure the hysteresis state
// is left unchanged so the next qualifying reading retries the send.
func (m *Manager) sendAlert(ctx context.Context, st *state, sensorPath string, value float64) {
	if err := m.notifier.Send(ctx, formatHealthAlert(sensorPath, value, m.config.Threshold)); err != nil {
		log.Printf("Failed to send health alert for %s: %v", sensorPath, err)
		return
	}

	m.mu.Lock()
	st.active = true
	st.lastNotified = m.now()
	m.mu.Unlock()

	log.Printf("Health alert sent for %s: %.0f below threshold %.0f",
		sensorPath, value, m.config.Threshold)
}

// sendRecovery dispatches a recovery notice. Recovery is not gated by
// the cooldown; on failure the alert stays active for a later retry.
func (m *Manager) sendRecovery(ctx context.Context, st *state, sensorPath string, value float64) {
	if err := m.notifier.Send(ctx, formatHealthRecovery(sensorPath, value, m.config.Threshold)); err != nil {
		log.Printf("Failed to send recovery for %s: %v", sensorPath, err)
		return
	}

	m.mu.Lock()
	st.active = false
	m.mu.Unlock()

	log.Printf("Health recovery sent for %s: %.0f", sensorPath, value)
}

func (m *Manager) inCooldownLocked(st *state) bool {
	if m.config.Cooldown <= 0 || st.lastNotified.IsZero() {
		return false
	}

	return m.now().Sub(st.lastNotified) < m.config.Cooldown
}

// Cleanup prunes alert state: entries for sensors no longer configured
// are dropped, and notification timestamps older than twice the
// cooldown are cleared. The coordinator invokes this every N cycles.
func (m *Manager) Cleanup(configured []string) {
	keep := make(map[string]struct{}, len(configured))
	for _, sensorPath := range configured {
		keep[sensorPath] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, st := range m.states {
		if _, ok := keep[key.SensorPath]; !ok {
			delete(m.states, key)
			continue
		}

		if !st.lastNotified.IsZero() && m.now().Sub(st.lastNotified) > 2*m.config.Cooldown {
			st.lastNotified = time.Time{}
		}
	}
}

// ActiveAlerts returns the keys whose alert is currently active.
func (m *Manager) ActiveAlerts() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []Key

	for key, st := range m.states {
		if st.active {
			active = append(active, key)
		}
	}

	return active
}

func formatHealthAlert(sensorPath string, healthIndex, threshold float64) string {
	return fmt.Sprintf("🚨 *Air Quality Alert*\n\n"+
		"*Sensor:* `%s`\n"+
		"*Health index:* %.0f/1000\n"+
		"*Threshold:* %.0f\n\n"+
		"Air quality has dropped below the critical level!",
		sensorPath, healthIndex, threshold)
}

func formatHealthRecovery(sensorPath string, healthIndex, threshold float64) string {
	return fmt.Sprintf("✅ *Air Quality Recovered*\n\n"+
		"*Sensor:* `%s`\n"+
		"*Health index:* %.0f/1000\n"+
		"*Threshold:* %.0f\n\n"+
		"Air quality is back to normal.",
		sensorPath, healthIndex, threshold)
}
