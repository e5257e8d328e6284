package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
	"github.com/andrescamacho/voidfleet-go/internal/adapters/httpapi"
	"github.com/andrescamacho/voidfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/voidfleet-go/internal/adapters/persistence"
	"github.com/andrescamacho/voidfleet-go/internal/adapters/realtime"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/setup"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/config"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/database"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/logging"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (searches default paths when empty)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Acquire PID file lock to prevent multiple instances
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.WithError(err).Fatal("Failed to acquire PID file lock")
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.WithError(err).Warn("Failed to release PID file")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("Daemon stopped with error")
		closer.Close()
		pf.Release()
		os.Exit(1)
	}
	log.Info("Daemon stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	log.WithField("type", cfg.Database.Type).Info("Connecting to database")
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if !cfg.Database.SkipMigrations {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	stores := persistence.NewStores(db)

	med := mediator.NewMediator()
	med.RegisterMiddleware(mediator.LoggingMiddleware(logrus.NewEntry(log)))
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))

		turnMetrics := metrics.NewTurnMetricsCollector()
		if err := turnMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register turn metrics: %w", err)
		}
		metrics.SetGlobalTurnCollector(turnMetrics)
		log.WithField("path", cfg.Metrics.Path).Info("Metrics enabled")
	}

	registry := ability.DefaultRegistry()
	resolver := turn.NewResolver(stores, turn.ResolverOptions{
		Registry: registry,
		Rules:    rulesFromConfig(cfg.Engine.Rules),
		Roll:     utils.Blake3Roll{},
		NewID:    utils.NewID,
	})
	bus := turn.NewTurnEventBus()
	scheduler := turn.NewScheduler(stores.Games, resolver, bus, nil, turn.SchedulerConfig{
		TickInterval:       cfg.Engine.TickInterval,
		MaxConcurrentGames: cfg.Engine.MaxConcurrentGames,
	})

	if err := setup.NewHandlerRegistry(stores, registry, nil, scheduler, cfg.Engine.DefaultTurnDuration).RegisterAll(med); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	hub := realtime.NewHub(bus, realtime.HubConfig{
		SendBuffer:     cfg.Server.SendBuffer,
		MaxMessageSize: cfg.Server.MaxMessageSize,
	}, log)
	defer hub.Close()
	httpServer := httpapi.NewServer(med, hub, cfg.Server, log)
	if cfg.Metrics.Enabled {
		httpServer.MountMetrics(cfg.Metrics.Path)
	}

	// Ensure socket directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Daemon.SocketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	adminServer, err := admin.NewAdminServer(med, cfg.Daemon.SocketPath, log)
	if err != nil {
		return fmt.Errorf("failed to create admin server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"tick":          cfg.Engine.TickInterval,
			"maxConcurrent": cfg.Engine.MaxConcurrentGames,
		}).Info("Turn scheduler started")
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		return httpServer.Run(gctx, cfg.Daemon.ShutdownTimeout)
	})
	g.Go(func() error {
		return adminServer.Serve(gctx)
	})

	log.Info("Daemon is ready")
	return g.Wait()
}

func rulesFromConfig(r config.RulesConfig) combat.Rules {
	return combat.Rules{
		RespawnDelayTurns:      r.RespawnDelayTurns,
		WreckDecayTurns:        r.WreckDecayTurns,
		LootMin:                r.LootMin,
		LootMax:                r.LootMax,
		CoreSalvageRate:        r.CoreSalvageRate,
		SpecializedSalvageRate: r.SpecializedSalvageRate,
	}
}
