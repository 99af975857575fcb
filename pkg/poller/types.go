package poller

import (
	"errors"
	"time"

	"airqmon/pkg/airq"
)

// FailureKind classifies an endpoint failure for reporting.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureTransport FailureKind = "transport"
	FailureTimeout   FailureKind = "timeout"
	FailureDecode    FailureKind = "decode"
	FailureInternal  FailureKind = "internal"
)

// ClassifyFailure maps an endpoint error to its failure kind.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var transportErr *airq.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout {
			return FailureTimeout
		}

		return FailureTransport
	}

	var decodeErr *airq.DecodeError
	if errors.As(err, &decodeErr) {
		return FailureDecode
	}

	return FailureInternal
}

// EndpointResult is the outcome of one endpoint's fetch-decode-handle
// operation for a cycle, including all of its retries.
type EndpointResult struct {
	SensorPath string
	Reading    *airq.Reading // nil on failure
	Err        error         // last error when the endpoint failed
	Attempts   int
	Elapsed    time.Duration
}

// Success reports whether the endpoint produced a reading this cycle.
func (r *EndpointResult) Success() bool {
	return r.Err == nil
}

// CycleResult aggregates one full poll cycle.
type CycleResult struct {
	Results    []EndpointResult
	Successful int
	Duration   time.Duration
}

// Config holds the poller configuration.
type Config struct {
	Sensors      []string
	PollInterval time.Duration
}
