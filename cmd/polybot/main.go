package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/polyfocus/polyfocus-bot/internal/api"
	"github.com/polyfocus/polyfocus-bot/internal/bot"
	"github.com/polyfocus/polyfocus-bot/internal/config"
	"github.com/polyfocus/polyfocus-bot/internal/database"
	"github.com/polyfocus/polyfocus-bot/internal/i18n"
	"github.com/polyfocus/polyfocus-bot/internal/logging"
	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/poller"
	"github.com/polyfocus/polyfocus-bot/internal/referral"
	"github.com/polyfocus/polyfocus-bot/internal/server"
	"github.com/polyfocus/polyfocus-bot/internal/store"
	"github.com/polyfocus/polyfocus-bot/internal/stream"
	"github.com/polyfocus/polyfocus-bot/internal/version"
	"github.com/polyfocus/polyfocus-bot/internal/writer"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "configs/polybot.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(*configPath); err != nil {
		slog.Error("polybot failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting polybot",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
		"storage", cfg.Storage.Backend,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// Storage
	var (
		st     store.Store
		pinger server.Pinger
		pw     *writer.PriceWriter
	)
	switch cfg.Storage.Backend {
	case "postgres":
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			logger.Info("database schema applied")
		}

		pg := store.NewPostgres(pool, logger.With("component", "store"))
		st, pinger = pg, pg

		if cfg.Writer.Enabled {
			pw = writer.NewPriceWriter(writer.WriterConfig{
				BatchSize:     cfg.Writer.BatchSize,
				FlushInterval: cfg.Writer.FlushInterval,
				BufferSize:    cfg.Writer.BufferSize,
			}, pool, m, logger.With("component", "writer"))
		}
	default:
		mem := store.NewMemory()
		st, pinger = mem, mem
		logger.Warn("using in-memory store, referral data is lost on restart")
	}

	// Upstream APIs
	cgOpts := []api.ClientOption{
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		api.WithLogger(logger.With("component", "coingecko")),
	}
	if cfg.API.CoinGeckoAPIKey != "" {
		cgOpts = append(cgOpts, api.WithAPIKeyHeader("x-cg-pro-api-key"))
	}
	coingecko := api.NewClient(cfg.API.CoinGeckoURL, cfg.API.CoinGeckoAPIKey, cgOpts...)

	gamma := api.NewClient(cfg.API.GammaURL, "",
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		api.WithLogger(logger.With("component", "gamma")),
	)

	// Price poller and its subscribers
	prices := poller.New(poller.Config{
		Symbols:     cfg.Poller.Symbols,
		Interval:    cfg.Poller.Interval,
		Timeout:     cfg.Poller.Timeout,
		Concurrency: cfg.Poller.Concurrency,
	}, coingecko, logger.With("component", "poller"), poller.WithMetrics(m))

	priceStream := stream.New(prices, cfg.Stream.ClientBuffer, m, logger.With("component", "stream"))
	prices.Subscribe(priceStream)
	if pw != nil {
		prices.Subscribe(pw)
	}

	// Telegram
	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}
	botAPI.Debug = cfg.Bot.Debug

	username := cfg.Bot.Username
	if username == "" {
		username = botAPI.Self.UserName
	}
	logger.Info("telegram bot authorized", "username", username)

	// Referrals
	rate, err := decimal.NewFromString(cfg.Referral.CommissionRate)
	if err != nil {
		return fmt.Errorf("parse commission rate: %w", err)
	}
	referrals := referral.NewService(st, referral.Config{
		CommissionRate: rate,
		MaxChainDepth:  cfg.Referral.MaxChainDepth,
		TreeDepth:      cfg.Referral.TreeDepth,
		CodeLength:     cfg.Referral.CodeLength,
		LinkBase:       "https://t.me/" + username,
	}, logger.With("component", "referral"), referral.WithMetrics(m))

	translator, err := i18n.New()
	if err != nil {
		return fmt.Errorf("build translations: %w", err)
	}

	chat, err := bot.New(bot.Config{
		UpdateTimeout:   cfg.Bot.UpdateTimeout,
		DefaultLanguage: cfg.Bot.DefaultLanguage,
		TreeDepth:       cfg.Referral.TreeDepth,
	}, botAPI, bot.Deps{
		Users:      st,
		Prices:     prices,
		Markets:    gamma,
		Referrals:  referrals,
		Translator: translator,
		Metrics:    m,
	}, logger.With("component", "bot"))
	if err != nil {
		return err
	}

	ops := server.New(server.Config{
		Port:        cfg.Server.Port,
		MetricsPath: cfg.Server.MetricsPath,
		AuthToken:   cfg.Stream.AuthToken,
		StaleAfter:  3 * cfg.Poller.Interval,
	}, server.Deps{
		Store:    pinger,
		Prices:   prices,
		Stream:   priceStream,
		Trades:   referrals,
		Gatherer: reg,
	}, logger.With("component", "server"))

	// Start components
	if pw != nil {
		if err := pw.Start(ctx); err != nil {
			return fmt.Errorf("start price writer: %w", err)
		}
	}
	// The poller ends through Stop so a tick in flight at shutdown completes.
	if err := prices.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	if err := chat.Start(ctx, botAPI); err != nil {
		return fmt.Errorf("start bot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(ops.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(logger, ops, chat, prices, pw)
	})

	logger.Info("polybot running",
		"symbols", prices.Symbols(),
		"ops_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("polybot stopped")
	return nil
}

// shutdown stops components in reverse dependency order: intake first, then
// the poller, then the writer so its final flush sees the last batch.
func shutdown(logger *slog.Logger, ops *server.Server, chat *bot.Bot, prices *poller.Poller, pw *writer.PriceWriter) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down...")

	var errs []error
	if err := ops.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("ops server: %w", err))
	}
	if err := chat.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("bot: %w", err))
	}
	if err := prices.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("poller: %w", err))
	}
	if pw != nil {
		if err := pw.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("price writer: %w", err))
		}
	}
	return errors.Join(errs...)
}
