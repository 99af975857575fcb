// cmd/poller/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"airqmon/pkg/airq"
	"airqmon/pkg/alerts"
	"airqmon/pkg/api"
	"airqmon/pkg/config"
	"airqmon/pkg/db"
	"airqmon/pkg/lifecycle"
	"airqmon/pkg/metrics"
	"airqmon/pkg/poller"
)

func main() {
	configPath := flag.String("config", "/etc/airqmon/poller.json", "Path to config file")
	flag.Parse()

	var cfg config.Config
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()

	m := metrics.New()
	if err := m.Register(registry); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	notifier := alerts.NewTelegramNotifier(alerts.TelegramConfig{
		BotToken: cfg.Alerts.Telegram.BotToken,
		ChatID:   cfg.Alerts.Telegram.ChatID,
	})

	alertManager := alerts.NewManager(alerts.Config{
		Metric:              cfg.Alerts.Metric,
		Threshold:           cfg.Alerts.Threshold,
		MinConsecutivePolls: uint(cfg.Alerts.MinConsecutivePolls),
		Cooldown:            time.Duration(cfg.Alerts.Cooldown),
	}, notifier)

	p := poller.New(
		poller.Config{
			Sensors:      cfg.Sensors,
			PollInterval: time.Duration(cfg.PollInterval),
		},
		airq.NewClient(cfg.Host),
		airq.NewCodec(cfg.Password),
		poller.Sinks{
			Store:   store,
			Metrics: m,
			Alerts:  alertManager,
		},
	)

	if err := lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ServiceName: "airqmon-poller",
		Service:     p,
		HTTPAddr:    cfg.ListenAddr,
		HTTPServer:  api.NewAPIServer(store, registry),
	}); err != nil {
		log.Fatalf("Poller failed: %v", err)
	}
}
