package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	configx "github.com/naruebet/voicecart/pkg/config"
	_ "github.com/naruebet/voicecart/pkg/logger/autoload"
	"github.com/naruebet/voicecart/sysmon"
)

type Config struct {
	Addr         string        `envconfig:"ADDR" split_words:"true" default:":8000"`
	DiskPath     string        `envconfig:"DISK_PATH" split_words:"true" default:"/"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" split_words:"true" default:"5s"`
	CPUInterval  time.Duration `envconfig:"CPU_INTERVAL" split_words:"true" default:"1s"`
	Retention    time.Duration `envconfig:"RETENTION" split_words:"true" default:"5m"`
	TopProcesses int           `envconfig:"TOP_PROCESSES" split_words:"true" default:"5"`
}

func main() {
	cfg := configx.MustNew[Config]("SYSMON")
	storeCfg := configx.MustNew[sysmon.StoreConfig]("POSTGRES")

	store, err := sysmon.NewStore(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open metrics store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init metrics table")
	}

	collector := sysmon.NewCollector(cfg.DiskPath, cfg.CPUInterval)
	server := sysmon.NewServer(collector, cfg.TopProcesses)

	go pollLoop(ctx, collector, store, cfg.PollInterval, cfg.Retention)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Dur("poll_interval", cfg.PollInterval).Msg("sysmond started")
	if err := server.Start(cfg.Addr); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("serve http")
	}
}

// pollLoop samples, inserts, and prunes on a fixed cadence until ctx ends.
// Failures are logged and the next tick retries from scratch.
func pollLoop(ctx context.Context, collector *sysmon.Collector, store *sysmon.Store, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := collector.Collect(ctx)
		if err != nil {
			log.Error().Err(err).Msg("collect metrics")
			continue
		}
		if err := store.Insert(ctx, snap); err != nil {
			log.Error().Err(err).Msg("insert metrics")
			continue
		}
		if err := store.PruneOlderThan(ctx, retention); err != nil {
			log.Error().Err(err).Msg("prune metrics")
			continue
		}
		log.Debug().Float64("cpu", snap.CPUPercent).Float64("mem_pct", snap.MemoryPercent).Msg("metrics updated")
	}
}
