// Package api serves the read-only query surface: collected readings
// over REST plus the Prometheus scrape endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airqmon/pkg/db"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 10000
	defaultReadingsSpan  = 24 * time.Hour

	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

type SensorReading struct {
	SensorPath  string         `json:"sensor_path"`
	CollectedAt time.Time      `json:"collected_at"`
	Fields      map[string]any `json:"fields"`
}

type SystemStatus struct {
	Sensors    []string  `json:"sensors"`
	LastUpdate time.Time `json:"last_update"`
}

type APIServer struct {
	store    db.Service
	gatherer prometheus.Gatherer
	router   *mux.Router

	mu         sync.Mutex
	httpServer *http.Server
}

func NewAPIServer(store db.Service, gatherer prometheus.Gatherer) *APIServer {
	s := &APIServer{
		store:    store,
		gatherer: gatherer,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.HandleFunc("/api/sensors", s.getSensors).Methods("GET")
	s.router.HandleFunc("/api/sensors/{sensor}/latest", s.getLatestReading).Methods("GET")
	s.router.HandleFunc("/api/sensors/{sensor}/readings", s.getReadings).Methods("GET")
	s.router.HandleFunc("/api/status", s.getSystemStatus).Methods("GET")

	s.router.Handle("/metrics",
		promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
}

// sensorPathVar recovers the configured sensor path from the route
// variable. Sensor paths carry a leading slash that the URL does not.
func sensorPathVar(r *http.Request) string {
	return "/" + mux.Vars(r)["sensor"]
}

func (s *APIServer) getSensors(w http.ResponseWriter, _ *http.Request) {
	sensors, err := s.store.ListSensors()
	if err != nil {
		log.Printf("Error listing sensors: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	if sensors == nil {
		sensors = []string{}
	}

	writeJSON(w, sensors)
}

func (s *APIServer) getLatestReading(w http.ResponseWriter, r *http.Request) {
	sensorPath := sensorPathVar(r)

	reading, err := s.store.GetLatestReading(sensorPath)
	if err != nil {
		if errors.Is(err, db.ErrNoReadings) {
			http.Error(w, "Sensor not found", http.StatusNotFound)
			return
		}

		log.Printf("Error fetching latest reading for %s: %v", sensorPath, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, SensorReading{
		SensorPath:  reading.SensorPath,
		CollectedAt: reading.CollectedAt,
		Fields:      reading.Fields,
	})
}

func (s *APIServer) getReadings(w http.ResponseWriter, r *http.Request) {
	sensorPath := sensorPathVar(r)

	end := time.Now()
	if v := r.URL.Query().Get("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid end time", http.StatusBadRequest)
			return
		}

		end = parsed
	}

	start := end.Add(-defaultReadingsSpan)
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid start time", http.StatusBadRequest)
			return
		}

		start = parsed
	}

	limit := defaultReadingsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxReadingsLimit {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	readings, err := s.store.GetReadings(sensorPath, start, end, limit)
	if err != nil {
		log.Printf("Error fetching readings for %s: %v", sensorPath, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	out := make([]SensorReading, 0, len(readings))
	for i := range readings {
		out = append(out, SensorReading{
			SensorPath:  readings[i].SensorPath,
			CollectedAt: readings[i].CollectedAt,
			Fields:      readings[i].Fields,
		})
	}

	writeJSON(w, out)
}

func (s *APIServer) getSystemStatus(w http.ResponseWriter, _ *http.Request) {
	sensors, err := s.store.ListSensors()
	if err != nil {
		log.Printf("Error building system status: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	if sensors == nil {
		sensors = []string{}
	}

	writeJSON(w, SystemStatus{Sensors: sensors, LastUpdate: time.Now()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *APIServer) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	return srv.ListenAndServe()
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
