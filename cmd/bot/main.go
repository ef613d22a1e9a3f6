package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/polyedge/config"
	"github.com/alejandrodnm/polyedge/internal/adapters/httpapi"
	"github.com/alejandrodnm/polyedge/internal/adapters/notify"
	"github.com/alejandrodnm/polyedge/internal/adapters/openai"
	"github.com/alejandrodnm/polyedge/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyedge/internal/adapters/storage"
	"github.com/alejandrodnm/polyedge/internal/application/engine"
	"github.com/alejandrodnm/polyedge/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one decision cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print whale wallet table each cycle (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("polyedge starting",
		"config", *configPath,
		"interval", cfg.PollInterval(),
		"once", *once,
		"live", cfg.LiveExecution(),
		"oracle", cfg.Oracle.APIKey != "",
	)

	client := polymarket.NewClient(cfg.API.GammaBase, cfg.API.DataBase, cfg.API.CLOBBase)

	var executor ports.OrderExecutor
	if cfg.LiveExecution() {
		auth, err := polymarket.NewAuthClient(client, cfg.Execution.PrivateKey)
		if err != nil {
			slog.Error("failed to init trading credentials", "err", err)
			os.Exit(1)
		}
		executor = polymarket.NewExecutor(auth)
		slog.Warn("LIVE EXECUTION ENABLED, real orders will be placed")
	} else if cfg.Execution.Enabled {
		slog.Warn("execution enabled but PRIVATE_KEY missing, continuing in paper mode")
	}

	var store *storage.SQLiteStorage
	if cfg.Storage.DSN != "" {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	scorer := openai.NewScorer(cfg.Oracle.BaseURL, cfg.Oracle.Model, cfg.Oracle.APIKey)
	notifier := notify.NewConsole(*table)

	resolver := engine.NewResolver(engine.ResolverConfig{
		MarketSlug:      cfg.Engine.MarketSlug,
		MarketID:        cfg.Engine.MarketID,
		SlugPrefix:      cfg.Engine.SlugPrefix,
		BucketSeconds:   cfg.Engine.BucketSeconds,
		RefreshInterval: cfg.RefreshInterval(),
		TradeTapeLimit:  cfg.Engine.TradeTapeLimit,
	}, client, client)

	engineCfg := engine.Config{
		PollInterval:   cfg.PollInterval(),
		MaxPositionUSD: cfg.Engine.MaxPositionUSD,
		EdgeThreshold:  cfg.Engine.EdgeThreshold,
		TradeTapeLimit: cfg.Engine.TradeTapeLimit,
		RunOnce:        *once,
	}

	// storage es un puerto opcional: con DSN vacío se pasa nil explícito
	// para no envolver un puntero nulo en la interface.
	var storePort ports.Storage
	if store != nil {
		storePort = store
	}

	e := engine.New(engineCfg, resolver, client, scorer, executor, notifier, storePort)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.UI.Addr != "" && !*once {
		srv := httpapi.NewServer(cfg.UI.Addr, e)
		go func() {
			if err := srv.Run(ctx); err != nil {
				slog.Error("status endpoint failed", "err", err)
			}
		}()
	}

	if err := e.Run(ctx); err != nil {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("polyedge stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
