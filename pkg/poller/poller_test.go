package poller

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"airqmon/pkg/airq"
	"airqmon/pkg/alerts"
	"airqmon/pkg/db"
	"airqmon/pkg/metrics"
)

type testHarness struct {
	fetcher *MockFetcher
	decoder *MockDecoder
	store   *MockPersistenceSink
	metrics *MockMetricsSink
	alerts  *MockAlertSink
	poller  *Poller
}

func newTestHarness(t *testing.T, sensors ...string) *testHarness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &testHarness{
		fetcher: NewMockFetcher(ctrl),
		decoder: NewMockDecoder(ctrl),
		store:   NewMockPersistenceSink(ctrl),
		metrics: NewMockMetricsSink(ctrl),
		alerts:  NewMockAlertSink(ctrl),
	}

	h.poller = New(
		Config{Sensors: sensors, PollInterval: time.Minute},
		h.fetcher, h.decoder,
		Sinks{Store: h.store, Metrics: h.metrics, Alerts: h.alerts},
	)
	h.poller.retryDelay = time.Millisecond

	return h
}

func TestRunCycleAllSuccess(t *testing.T) {
	sensors := []string{"/sensors/a", "/sensors/b", "/sensors/c"}
	h := newTestHarness(t, sensors...)

	for _, s := range sensors {
		fields := map[string]any{"health": 800.0}

		h.fetcher.EXPECT().Fetch(gomock.Any(), s).Return("payload-"+s, nil)
		h.decoder.EXPECT().Decode("payload-" + s).Return(fields, nil)
		h.store.EXPECT().Append(s, gomock.Any(), fields).Return(nil)
		h.metrics.EXPECT().IncPoll(s)
		h.metrics.EXPECT().Observe(s, fields)
		h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any())
	}

	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	result := h.poller.runCycle(context.Background())

	assert.Equal(t, 3, result.Successful)
	assert.Len(t, result.Results, 3)

	for _, r := range result.Results {
		assert.True(t, r.Success())
		assert.Equal(t, 1, r.Attempts)
		require.NotNil(t, r.Reading)
		assert.Equal(t, r.SensorPath, r.Reading.SensorPath)
	}
}

func TestRunCycleFailureIsolation(t *testing.T) {
	h := newTestHarness(t, "/sensors/good", "/sensors/bad")

	fields := map[string]any{"health": 500.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/good").Return("ok", nil)
	h.decoder.EXPECT().Decode("ok").Return(fields, nil)
	h.store.EXPECT().Append("/sensors/good", gomock.Any(), fields).Return(nil)
	h.metrics.EXPECT().IncPoll("/sensors/good")
	h.metrics.EXPECT().Observe("/sensors/good", fields)
	h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any())

	transportErr := &airq.TransportError{Err: errors.New("connection refused")}

	// Initial attempt plus the full retry budget.
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/bad").
		Return("", transportErr).Times(maxRetries + 1)
	h.metrics.EXPECT().IncPollFailure("/sensors/bad")
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	result := h.poller.runCycle(context.Background())

	assert.Equal(t, 1, result.Successful)

	for _, r := range result.Results {
		switch r.SensorPath {
		case "/sensors/good":
			assert.True(t, r.Success())
		case "/sensors/bad":
			assert.False(t, r.Success())
			assert.Equal(t, maxRetries+1, r.Attempts)
			assert.Equal(t, FailureTransport, ClassifyFailure(r.Err))
		default:
			t.Fatalf("unexpected sensor %q", r.SensorPath)
		}
	}
}

func TestRunCycleDecodeFailureRetried(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")

	decodeErr := &airq.DecodeError{Err: airq.ErrInvalidPadding}

	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").
		Return("garbled", nil).Times(maxRetries + 1)
	h.decoder.EXPECT().Decode("garbled").
		Return(nil, decodeErr).Times(maxRetries + 1)
	h.metrics.EXPECT().IncPollFailure("/sensors/a")
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	result := h.poller.runCycle(context.Background())

	assert.Zero(t, result.Successful)
	assert.Equal(t, FailureDecode, ClassifyFailure(result.Results[0].Err))
}

func TestRetryDelayBetweenAttempts(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")
	h.poller.retryDelay = 20 * time.Millisecond

	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").
		Return("", &airq.TransportError{Err: errors.New("down")}).
		Times(maxRetries + 1)
	h.metrics.EXPECT().IncPollFailure("/sensors/a")
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	start := time.Now()
	result := h.poller.runCycle(context.Background())

	assert.GreaterOrEqual(t, time.Since(start), time.Duration(maxRetries)*h.poller.retryDelay)
	assert.Equal(t, maxRetries+1, result.Results[0].Attempts)
}

func TestPersistenceFailureDoesNotFailCycle(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")

	fields := map[string]any{"health": 900.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").Return("ok", nil)
	h.decoder.EXPECT().Decode("ok").Return(fields, nil)
	h.store.EXPECT().Append("/sensors/a", gomock.Any(), fields).
		Return(errors.New("disk full"))

	// Metrics and alerting still receive the reading.
	h.metrics.EXPECT().IncPoll("/sensors/a")
	h.metrics.EXPECT().Observe("/sensors/a", fields)
	h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any())
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	result := h.poller.runCycle(context.Background())

	assert.Equal(t, 1, result.Successful)
	assert.True(t, result.Results[0].Success())
}

func TestSinkPanicIsContained(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")

	fields := map[string]any{"health": 900.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").Return("ok", nil)
	h.decoder.EXPECT().Decode("ok").Return(fields, nil)
	h.metrics.EXPECT().IncPoll("/sensors/a")
	h.store.EXPECT().Append("/sensors/a", gomock.Any(), fields).
		DoAndReturn(func(string, time.Time, map[string]any) error {
			panic("sink exploded")
		})
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any())

	result := h.poller.runCycle(context.Background())

	assert.Zero(t, result.Successful)
	require.Error(t, result.Results[0].Err)
	assert.Equal(t, FailureInternal, ClassifyFailure(result.Results[0].Err))
}

func TestCleanupCadence(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")

	fields := map[string]any{"health": 700.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").
		Return("ok", nil).Times(cleanupEveryNCycles)
	h.decoder.EXPECT().Decode("ok").
		Return(fields, nil).Times(cleanupEveryNCycles)
	h.store.EXPECT().Append("/sensors/a", gomock.Any(), fields).
		Return(nil).Times(cleanupEveryNCycles)
	h.metrics.EXPECT().IncPoll("/sensors/a").Times(cleanupEveryNCycles)
	h.metrics.EXPECT().Observe("/sensors/a", fields).Times(cleanupEveryNCycles)
	h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any()).Times(cleanupEveryNCycles)
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any()).Times(cleanupEveryNCycles)

	h.alerts.EXPECT().Cleanup([]string{"/sensors/a"}).Times(1)

	for i := 0; i < cleanupEveryNCycles; i++ {
		h.poller.runCycle(context.Background())
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")

	fields := map[string]any{"health": 700.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return("ok", nil).AnyTimes()
	h.decoder.EXPECT().Decode(gomock.Any()).Return(fields, nil).AnyTimes()
	h.store.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.metrics.EXPECT().IncPoll(gomock.Any()).AnyTimes()
	h.metrics.EXPECT().Observe(gomock.Any(), gomock.Any()).AnyTimes()
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any()).AnyTimes()
	h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any()).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- h.poller.Start(ctx)
	}()

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestStartOverrunBeginsNextCycleImmediately(t *testing.T) {
	h := newTestHarness(t, "/sensors/a")
	h.poller.config.PollInterval = 50 * time.Millisecond

	const cycleDuration = 60 * time.Millisecond

	var fetches atomic.Int64

	fields := map[string]any{"health": 700.0}
	h.fetcher.EXPECT().Fetch(gomock.Any(), "/sensors/a").
		DoAndReturn(func(context.Context, string) (string, error) {
			fetches.Add(1)
			time.Sleep(cycleDuration)

			return "ok", nil
		}).AnyTimes()
	h.decoder.EXPECT().Decode("ok").Return(fields, nil).AnyTimes()
	h.store.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.metrics.EXPECT().IncPoll(gomock.Any()).AnyTimes()
	h.metrics.EXPECT().Observe(gomock.Any(), gomock.Any()).AnyTimes()
	h.metrics.EXPECT().ObserveCycleDuration(gomock.Any()).AnyTimes()
	h.alerts.EXPECT().HandleReading(gomock.Any(), gomock.Any()).AnyTimes()
	h.alerts.EXPECT().Cleanup(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := h.poller.Start(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Every cycle overruns the interval, so cycles run back to back:
	// roughly one per cycleDuration. Sleeping the full interval between
	// cycles would fit at most three in the budget.
	assert.GreaterOrEqual(t, fetches.Load(), int64(4))
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "nil", err: nil, want: FailureNone},
		{
			name: "transport",
			err:  &airq.TransportError{Err: errors.New("refused")},
			want: FailureTransport,
		},
		{
			name: "timeout",
			err:  &airq.TransportError{Err: errors.New("deadline"), Timeout: true},
			want: FailureTimeout,
		},
		{
			name: "decode",
			err:  &airq.DecodeError{Err: airq.ErrInvalidJSON},
			want: FailureDecode,
		},
		{
			name: "wrapped decode",
			err:  fmt.Errorf("sensor: %w", &airq.DecodeError{Err: airq.ErrInvalidPadding}),
			want: FailureDecode,
		},
		{name: "other", err: errors.New("boom"), want: FailureInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

// encryptFields builds a valid device envelope for the given password,
// mirroring the sensor firmware's AES-256-CBC format.
func encryptFields(t *testing.T, password string, fields map[string]any) string {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = '0'
	}
	copy(key, password)

	plaintext, err := json.Marshal(fields)
	require.NoError(t, err)

	padLen := aes.BlockSize - len(plaintext)%aes.BlockSize
	for i := 0; i < padLen; i++ {
		plaintext = append(plaintext, byte(padLen))
	}

	iv := make([]byte, aes.BlockSize)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return base64.StdEncoding.EncodeToString(append(iv, ciphertext...))
}

func TestPollCycleEndToEnd(t *testing.T) {
	const password = "ab-cd-ef"

	mux := http.NewServeMux()
	mux.HandleFunc("/sensors/a/data/", func(w http.ResponseWriter, _ *http.Request) {
		payload := encryptFields(t, password, map[string]any{
			"health":      []any{850.0, 10.0},
			"temperature": []any{21.4, 0.5},
		})
		_ = json.NewEncoder(w).Encode(map[string]string{"content": payload})
	})
	mux.HandleFunc("/sensors/b/data/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "device busy", http.StatusInternalServerError)
	})
	mux.HandleFunc("/sensors/c/data/", func(w http.ResponseWriter, _ *http.Request) {
		payload := encryptFields(t, password, map[string]any{"health": 120.0})
		_ = json.NewEncoder(w).Encode(map[string]string{"content": payload})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store, err := db.New(filepath.Join(t.TempDir(), "readings.db"))
	require.NoError(t, err)
	defer store.Close()

	m := metrics.New()
	require.NoError(t, m.Register(prometheus.NewRegistry()))

	alertManager := alerts.NewManager(alerts.Config{
		Metric:              "health",
		Threshold:           300,
		MinConsecutivePolls: 3,
		Cooldown:            time.Hour,
	}, silentNotifier{})

	sensors := []string{"/sensors/a", "/sensors/b", "/sensors/c"}
	p := New(
		Config{Sensors: sensors, PollInterval: time.Minute},
		airq.NewClient(server.URL),
		airq.NewCodec(password),
		Sinks{Store: store, Metrics: m, Alerts: alertManager},
	)
	p.retryDelay = time.Millisecond

	result := p.runCycle(context.Background())

	assert.Equal(t, 2, result.Successful)

	latest, err := store.GetLatestReading("/sensors/a")
	require.NoError(t, err)
	assert.Equal(t, []any{850.0, 10.0}, latest.Fields["health"])

	_, err = store.GetLatestReading("/sensors/b")
	assert.ErrorIs(t, err, db.ErrNoReadings)

	latest, err = store.GetLatestReading("/sensors/c")
	require.NoError(t, err)
	assert.Equal(t, 120.0, latest.Fields["health"])
}

type silentNotifier struct{}

func (silentNotifier) Send(context.Context, string) error { return nil }
func (silentNotifier) IsEnabled() bool                    { return true }
