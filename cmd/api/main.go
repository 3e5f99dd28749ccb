// Package main is the entrypoint for the BreachWatch API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/breachwatch/breachwatch/internal/ai"
	"github.com/breachwatch/breachwatch/internal/cache"
	"github.com/breachwatch/breachwatch/internal/config"
	"github.com/breachwatch/breachwatch/internal/handler"
	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/middleware"
	"github.com/breachwatch/breachwatch/internal/notify"
	"github.com/breachwatch/breachwatch/internal/repository"
	"github.com/breachwatch/breachwatch/internal/search"
	"github.com/breachwatch/breachwatch/internal/server"
	"github.com/breachwatch/breachwatch/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	notifier := notify.NewNoop()
	if cfg.NATSURL != "" {
		notifier, err = notify.NewNATS(cfg.NATSURL, logger)
		if err != nil {
			logger.Error(
				"failed to connect to NATS",
				slog.String("error", sanitizeError(err, cfg.NATSURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to NATS")
	}
	defer notifier.Close()

	aiClient := ai.New(ai.Config{
		GatewayURL: cfg.AIGatewayURL,
		APIKey:     cfg.AIAPIKey,
		Model:      cfg.AIModel,
	})
	searchClient := search.New(cfg.SearchAPIURL, cfg.SearchAPIKey)

	// The demo fallback fabricates matches for unknown emails. Only
	// enable it when explicitly asked for.
	var sampler service.DemoSampler
	if cfg.DemoMode {
		sampler = service.NewRandomSampler(time.Now().UnixNano())
		logger.Warn("demo mode enabled, unknown emails may report fabricated matches")
	}

	metricsRecorder := metrics.NewNoop()
	lookupService := service.NewLookupService(repo, sampler, metricsRecorder)
	reportService := service.NewReportService(repo, aiClient, cacheClient, metricsRecorder)
	subscriptionService := service.NewSubscriptionService(repo, metricsRecorder)
	crawlService := service.NewCrawlService(repo, searchClient, aiClient, notifier, logger, metricsRecorder)
	blogService := service.NewBlogService(repo, cacheClient, metricsRecorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	lookupHandler := handler.NewLookupHandler(lookupService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, logger)
	crawlHandler := handler.NewCrawlHandler(crawlService, logger)
	blogHandler := handler.NewBlogHandler(blogService, logger)

	r := setupRouter(h, healthHandler, lookupHandler, reportHandler, subscriptionHandler, crawlHandler, blogHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"demo_mode", cfg.DemoMode,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	lookupHandler *handler.LookupHandler,
	reportHandler *handler.ReportHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	crawlHandler *handler.CrawlHandler,
	blogHandler *handler.BlogHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check-email", lookupHandler.CheckEmail)
		r.Post("/generate-blog", reportHandler.Generate)
		r.Post("/subscribe", subscriptionHandler.Subscribe)
		r.Post("/crawl-breaches", crawlHandler.Crawl)

		r.Get("/breaches", blogHandler.ListBreaches)
		r.Get("/posts", blogHandler.ListPosts)
		r.Get("/posts/{slug}", blogHandler.GetPost)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
