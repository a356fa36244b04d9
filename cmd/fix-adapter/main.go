package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/fix-adapter/internal/api"
	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/fix"
	"github.com/Checker-Finance/fix-adapter/internal/market"
	"github.com/Checker-Finance/fix-adapter/internal/order"
	"github.com/Checker-Finance/fix-adapter/internal/publisher"
	"github.com/Checker-Finance/fix-adapter/internal/rate"
	internalsecrets "github.com/Checker-Finance/fix-adapter/internal/secrets"
	"github.com/Checker-Finance/fix-adapter/pkg/config"
	"github.com/Checker-Finance/fix-adapter/pkg/logger"
	"github.com/Checker-Finance/fix-adapter/pkg/secrets"
	"github.com/Checker-Finance/fix-adapter/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [fix-adapter]...")
	logg.Info("FIX gateway: ", utils.MaskURL(cfg.FixGatewayURL))

	// --- AWS Secrets Manager provider (optional in dev) ---
	var awsProvider secrets.Provider
	if cfg.FixSecretName != "" {
		provider, err := secrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}
		awsProvider = provider
	} else {
		logg.Warn("FIX_SECRET_NAME not configured; using session credentials from environment")
	}

	// --- Session credentials resolver (secrets cached in-memory) ---
	credsCache := secrets.NewCache[internalsecrets.SessionCredentials](cfg.CacheTTL)
	stopCleaner := make(chan struct{})
	go credsCache.StartCleaner(cfg.CleanupFreq, stopCleaner)

	resolver := internalsecrets.NewResolver(
		logg.Desugar(),
		awsProvider,
		credsCache,
		cfg.FixSecretName,
		internalsecrets.SessionCredentials{
			SenderCompID: cfg.FixSenderCompID,
			TargetCompID: cfg.FixTargetCompID,
			Password:     cfg.FixPassword,
		},
	)

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Fatalw("failed to connect to NATS", "error", err)
	}

	// --- Publisher ---
	pub, err := publisher.New(nc, cfg.ServiceName)
	if err != nil {
		logg.Fatalw("failed to init publisher", "error", err)
	}

	// --- Stores ---
	orderStore := order.NewStore()
	stateStore := execution.NewStateStore()
	quoteStore := market.NewStore()

	// --- Services ---
	marketSvc := market.NewService(quoteStore, logg.Desugar())
	executionSvc := execution.NewService(stateStore, orderStore, pub, logg.Desugar())

	// --- FIX initiator and order sender ---
	initiator := fix.NewInitiator(
		logg.Desugar(),
		func() fix.Transport {
			return fix.NewClient(cfg.FixGatewayURL, cfg.FixDialTimeout, logg.Desugar())
		},
		resolver,
		cfg.FixGatewayURL,
		executionSvc.ApplyExecutionReport,
		func(update fix.MarketDataUpdate) {
			marketSvc.ApplyGatewayUpdate(market.Update{
				Symbol: update.Symbol,
				Bid:    update.Bid,
				Ask:    update.Ask,
				Last:   update.Last,
			})
		},
	)

	limiter := rate.New(rate.Config{
		RequestsPerSecond: cfg.SubmitRatePerSec,
		Burst:             cfg.SubmitBurst,
	})
	sender := fix.NewSender(initiator, limiter, logg.Desugar())

	orderSvc := order.NewService(sender, orderStore, pub, logg.Desugar())

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewHandler(logg.Desugar(), orderSvc, executionSvc, initiator, marketSvc)
	api.RegisterRoutes(app, nc, handler)

	// Start HTTP server
	serverReady := make(chan struct{})
	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		close(serverReady)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	// --- Auto-start the FIX session (if configured) ---
	if cfg.FixAutoStart {
		go func() {
			<-serverReady
			if err := initiator.Start(ctx); err != nil {
				logg.Warnw("failed to auto-start FIX initiator",
					"error", err,
					"gateway", utils.MaskURL(cfg.FixGatewayURL))
			}
		}()
	} else {
		logg.Info("FIX_AUTO_START disabled; start the session via POST /api/v1/fix/start")
	}

	// --- Main process stays alive until interrupted ---
	logg.Infow("[fix-adapter] running",
		"nats", cfg.NATSURL,
		"env", cfg.Env,
		"gateway", utils.MaskURL(cfg.FixGatewayURL),
		"auto_start", cfg.FixAutoStart)

	<-ctx.Done()
	logg.Info("shutting down [fix-adapter]...")

	close(stopCleaner)
	initiator.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if err := nc.Drain(); err != nil {
		logg.Warnw("nats.drain_failed", "error", err)
	}
}
