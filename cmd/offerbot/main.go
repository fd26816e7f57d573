package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumenmm/offerbot/internal/config"
	"github.com/lumenmm/offerbot/internal/engine"
	"github.com/lumenmm/offerbot/internal/metrics"
	"github.com/lumenmm/offerbot/internal/notifier"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/strategy"
	"github.com/lumenmm/offerbot/internal/venue"
)

func buildVenue(cfg config.Config) venue.Client {
	switch cfg.Venue {
	case "wallex":
		return venue.NewWallex(cfg.WallexAPIKey, cfg.CounterAsset)
	default:
		return venue.NewPaper()
	}
}

func buildStore(cfg config.Config) (position.Store, error) {
	switch cfg.RecordStore {
	case "postgres":
		return position.NewPostgresStore(cfg.DBConnStr)
	case "memory":
		return position.NewMemoryStore(), nil
	default:
		return position.NewFileStore(cfg.RecordFile), nil
	}
}

func buildNotifier(cfg config.Config) notifier.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return notifier.Noop{}
	}
	return notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Starting offerbot: account=%s strategy=%s venue=%s markets=%d interval=%v",
		cfg.Account, cfg.Strategy, cfg.Venue, len(cfg.BaseAssets), cfg.Interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	params := strategy.Params{
		Window:        cfg.Window,
		DeviationK:    cfg.DeviationK,
		NotionalCap:   cfg.NotionalCap,
		DustThreshold: cfg.DustThreshold,
		ExitReserve:   cfg.ExitReserve,
	}
	policy, err := strategy.New(cfg.Strategy, params)
	if err != nil {
		log.Fatalf("Failed to build strategy: %v", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to build record store: %v", err)
	}

	eng := engine.New(buildVenue(cfg), store, policy, buildNotifier(cfg),
		cfg.Markets(), cfg.CandleBucket, params)

	if cfg.MetricsAddr != "" {
		go metrics.Serve(cfg.MetricsAddr)
	}

	// One pass immediately, then one per interval. RunPass skips itself if
	// the prior pass is still settling.
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if err := eng.RunPass(ctx); err != nil {
			log.Printf("Pass failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("Shutdown complete")
			return
		case <-ticker.C:
		}
	}
}
