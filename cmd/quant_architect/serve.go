package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quant_architect/internal/ai"
	"quant_architect/internal/analysis"
	"quant_architect/internal/dashboard"
	"quant_architect/internal/market/alpaca"
	"quant_architect/internal/metrics"
	"quant_architect/internal/models"
	"quant_architect/internal/server"
	"quant_architect/internal/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long:  "Starts the HTTP and WebSocket dashboard, runs the initial market scan and, when configured, the Telegram command listener.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap(true)
	if err != nil {
		return err
	}
	cfg.LogSummary(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.New(prometheus.DefaultRegisterer)

	gen, err := ai.NewGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	engine := analysis.NewEngine(gen,
		analysis.WithTimeout(cfg.GenerationTimeout()),
		analysis.WithRecorder(recorder),
		analysis.WithLogger(logger),
	)

	mode, err := models.ParseTradingMode(cfg.DefaultMode)
	if err != nil {
		return err
	}
	dashOpts := []dashboard.Option{
		dashboard.WithMode(mode),
		dashboard.WithRecorder(recorder),
		dashboard.WithLogger(logger),
	}
	if cfg.AlpacaConfigured() {
		provider := alpaca.NewProvider(cfg.AlpacaKeyID.Value(), cfg.AlpacaSecretKey.Value())
		dashOpts = append(dashOpts, dashboard.WithPriceProvider(provider, cfg.PriceDeviationPct))
	} else {
		logger.Warn().Msg("Alpaca credentials missing. Price cross-check disabled.")
	}

	var bot *telegram.Client
	if cfg.TelegramConfigured() {
		bot = telegram.NewClient(cfg.TelegramBotToken.Value(), cfg.TelegramChatID, telegram.WithLogger(logger))
		dashOpts = append(dashOpts, dashboard.WithNotifier(bot))
	} else {
		logger.Warn().Msg("Telegram credentials missing. Alert forwarding disabled.")
	}

	dash := dashboard.New(engine, dashOpts...)

	if bot != nil {
		go func() {
			if err := telegram.NewListener(bot).Run(ctx, dash.HandleCommand); err != nil {
				logger.Error().Err(err).Msg("Telegram listener stopped")
			}
		}()
	}

	go func() {
		if err := dash.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("Initial scan did not complete")
		}
	}()

	logger.Info().Str("version", cfg.Version).Str("mode", mode.String()).Msg("QuantArchitect initialized")

	srv := server.New(dash,
		server.WithAddr(cfg.HTTPAddr),
		server.WithWSThrottle(time.Duration(cfg.WSThrottleMs)*time.Millisecond),
		server.WithLogger(logger),
	)
	return srv.Run(ctx)
}
