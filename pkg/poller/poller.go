// Package poller drives the collection engine: one sequential cycle
// loop that fans fetch-decode-handle operations out across all
// configured sensor endpoints.
package poller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"airqmon/pkg/airq"
)

// Fixed engine constants. Retry policy lives here, not in the codec or
// the client.
const (
	maxRetries          = 3
	defaultRetryDelay   = 5 * time.Second
	cleanupEveryNCycles = 10
)

// Sinks groups the downstream collaborators a cycle feeds. Persistence
// and alerting failures never abort a cycle.
type Sinks struct {
	Store   PersistenceSink
	Metrics MetricsSink
	Alerts  AlertSink
}

// Poller polls all configured sensors each interval. Within a cycle the
// endpoints run concurrently; retries for one endpoint are sequential,
// so readings per endpoint are processed in fetch order. Cycles never
// overlap.
type Poller struct {
	config  Config
	fetcher Fetcher
	decoder Decoder
	sinks   Sinks

	retryDelay time.Duration
	cycleCount uint64
}

func New(config Config, fetcher Fetcher, decoder Decoder, sinks Sinks) *Poller {
	return &Poller{
		config:     config,
		fetcher:    fetcher,
		decoder:    decoder,
		sinks:      sinks,
		retryDelay: defaultRetryDelay,
	}
}

// Start runs the cycle loop until the context is canceled. The first
// cycle starts immediately; each subsequent cycle starts poll_interval
// after the previous cycle began, or immediately on overrun.
func (p *Poller) Start(ctx context.Context) error {
	log.Printf("Poller started: %d sensors, interval %v",
		len(p.config.Sensors), p.config.PollInterval)

	for {
		result := p.runCycle(ctx)

		if ctx.Err() != nil {
			log.Printf("Poller stopped")
			return ctx.Err()
		}

		sleep := p.config.PollInterval - result.Duration
		if sleep <= 0 {
			log.Printf("Poll cycle took %v, longer than interval %v",
				result.Duration, p.config.PollInterval)

			continue
		}

		timer := time.NewTimer(sleep)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("Poller stopped")

			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runCycle polls every configured sensor concurrently and waits for all
// of them, including their retries, before reporting.
func (p *Poller) runCycle(ctx context.Context) *CycleResult {
	start := time.Now()

	var wg sync.WaitGroup

	resultChan := make(chan EndpointResult, len(p.config.Sensors))

	for _, sensorPath := range p.config.Sensors {
		wg.Add(1)

		go func(sensorPath string) {
			defer wg.Done()

			resultChan <- p.pollSensor(ctx, sensorPath)
		}(sensorPath)
	}

	wg.Wait()
	close(resultChan)

	result := &CycleResult{}

	for endpointResult := range resultChan {
		result.Results = append(result.Results, endpointResult)

		if endpointResult.Success() {
			result.Successful++
		}
	}

	result.Duration = time.Since(start)
	p.sinks.Metrics.ObserveCycleDuration(result.Duration)

	log.Printf("Poll cycle completed: %d/%d sensors successful in %.2fs",
		result.Successful, len(p.config.Sensors), result.Duration.Seconds())

	p.cycleCount++
	if p.cycleCount%cleanupEveryNCycles == 0 {
		p.sinks.Alerts.Cleanup(p.config.Sensors)
	}

	return result
}

// pollSensor runs one endpoint's fetch-decode-handle operation,
// retrying transport and decode failures up to the fixed bound. A
// failure here never affects sibling endpoints.
func (p *Poller) pollSensor(ctx context.Context, sensorPath string) (result EndpointResult) {
	start := time.Now()
	result.SensorPath = sensorPath

	defer func() {
		result.Elapsed = time.Since(start)

		if r := recover(); r != nil {
			log.Printf("Panic while handling sensor %s: %v", sensorPath, r)
			result.Err = fmt.Errorf("sensor handling panicked: %v", r)
		}
	}()

	for attempt := 0; ; attempt++ {
		result.Attempts = attempt + 1

		reading, err := p.collect(ctx, sensorPath)
		if err == nil {
			result.Reading = reading
			result.Err = nil
			p.handleReading(ctx, reading)
			log.Printf("Sensor %s polled successfully", sensorPath)

			return result
		}

		result.Err = err

		if attempt >= maxRetries {
			log.Printf("Sensor %s unreachable after %d retries: %v (%s)",
				sensorPath, maxRetries, err, ClassifyFailure(err))
			p.sinks.Metrics.IncPollFailure(sensorPath)

			return result
		}

		log.Printf("Sensor %s failed (attempt %d/%d): %v",
			sensorPath, attempt+1, maxRetries, err)

		select {
		case <-ctx.Done():
			// Cancellation stops further retries for this endpoint.
			result.Err = ctx.Err()

			return result
		case <-time.After(p.retryDelay):
		}
	}
}

// collect performs one fetch+decode attempt.
func (p *Poller) collect(ctx context.Context, sensorPath string) (*airq.Reading, error) {
	envelope, err := p.fetcher.Fetch(ctx, sensorPath)
	if err != nil {
		return nil, err
	}

	fields, err := p.decoder.Decode(envelope)
	if err != nil {
		return nil, err
	}

	return &airq.Reading{
		SensorPath:  sensorPath,
		CollectedAt: time.Now(),
		Fields:      fields,
	}, nil
}

// handleReading fans one decoded reading out to the sinks. Each
// endpoint's persistence and alert update is independent, so there is
// no partial multi-endpoint state to unwind on failure.
func (p *Poller) handleReading(ctx context.Context, reading *airq.Reading) {
	p.sinks.Metrics.IncPoll(reading.SensorPath)

	if err := p.sinks.Store.Append(reading.SensorPath, reading.CollectedAt, reading.Fields); err != nil {
		log.Printf("Failed to store reading for %s: %v", reading.SensorPath, err)
	}

	p.sinks.Metrics.Observe(reading.SensorPath, reading.Fields)
	p.sinks.Alerts.HandleReading(ctx, reading)
}
