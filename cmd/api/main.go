// Package main is the entrypoint for the Linkboard API server.
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

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/cache"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/form"
	"github.com/linkboard/linkboard/internal/handler"
	"github.com/linkboard/linkboard/internal/metrics"
	"github.com/linkboard/linkboard/internal/middleware"
	"github.com/linkboard/linkboard/internal/model"
	"github.com/linkboard/linkboard/internal/repository"
	"github.com/linkboard/linkboard/internal/server"
	"github.com/linkboard/linkboard/internal/store"
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

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}
	gate := auth.NewGate(cfg.AdminEmail, cfg.AllowedEmailDomain)

	// Google sign-in is optional. With no client ID the endpoints
	// answer 503.
	var google *auth.GoogleProvider
	if cfg.GoogleClientID != "" {
		google, err = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL())
		if err != nil {
			logger.Error("failed to initialize Google OAuth", "error", err)
			os.Exit(1)
		}
		logger.Info("Google sign-in enabled")
	} else {
		logger.Info("Google sign-in disabled")
	}

	recorder := metrics.NewNoop()

	shortcutStore := store.NewShortcutStore(repo, recorder)
	folderStore := store.NewFolderStore(repo, recorder)
	fixedLinkStore := store.NewFixedLinkStore(repo, cacheClient, recorder)

	if err := seedFixedLinks(ctx, repo, logger); err != nil {
		logger.Error("failed to seed fixed links", "error", err)
		os.Exit(1)
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		Users:         repo,
		Tokens:        tokens,
		Gate:          gate,
		Google:        google,
		Logger:        logger,
		SecureCookies: cfg.IsProduction(),
	})
	shortcutHandler := handler.NewShortcutHandler(shortcutStore, form.NewShortcutController(shortcutStore), logger)
	folderHandler := handler.NewFolderHandler(folderStore, form.NewFolderController(folderStore), logger)
	fixedLinkHandler := handler.NewFixedLinkHandler(fixedLinkStore, form.NewFixedLinkController(fixedLinkStore), logger)

	r := setupRouter(routerDeps{
		base:       h,
		health:     healthHandler,
		auth:       authHandler,
		shortcuts:  shortcutHandler,
		folders:    folderHandler,
		fixedLinks: fixedLinkHandler,
		tokens:     tokens,
		cache:      cacheClient,
		cfg:        cfg,
		logger:     logger,
	})

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
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
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

type routerDeps struct {
	base       *handler.Handler
	health     *handler.HealthHandler
	auth       *handler.AuthHandler
	shortcuts  *handler.ShortcutHandler
	folders    *handler.FolderHandler
	fixedLinks *handler.FixedLinkHandler
	tokens     *auth.TokenService
	cache      *cache.Cache
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		corsCfg.AllowCredentials = true
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	sessionCfg := middleware.SessionAuthConfig{
		Logger:   deps.logger,
		Verifier: deps.tokens,
	}
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      deps.logger,
		Cache:       deps.cache,
		APIEnabled:  deps.cfg.RateLimitAPIEnabled,
		APIRPM:      deps.cfg.RateLimitAPIRPM,
		APIBurst:    deps.cfg.RateLimitAPIBurst,
		AuthEnabled: deps.cfg.RateLimitAuthEnabled,
		AuthRPS:     deps.cfg.RateLimitAuthRPS,
		AuthBurst:   deps.cfg.RateLimitAuthBurst,
	}

	// Auth endpoints, rate limited per IP. Signout and session lookup
	// need a session; the rest issue one.
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Post("/signup", deps.auth.Signup)
		r.Post("/signin", deps.auth.Signin)
		r.Get("/google", deps.auth.GoogleLogin)
		r.Get("/google/callback", deps.auth.GoogleCallback)
		r.Post("/signout", deps.auth.Signout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessionCfg))
			r.Get("/me", deps.auth.Me)
		})
	})

	// API v1 routes (require a session)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessionCfg))
		r.Use(middleware.RateLimitUser(rateLimitCfg))

		r.Route("/shortcuts", func(r chi.Router) {
			r.Get("/", deps.shortcuts.List)
			r.Post("/", deps.shortcuts.Create)
			r.Post("/refresh", deps.shortcuts.Refresh)
			r.Patch("/{id}", deps.shortcuts.Update)
			r.Delete("/{id}", deps.shortcuts.Delete)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", deps.folders.List)
			r.Post("/", deps.folders.Create)
			r.Post("/refresh", deps.folders.Refresh)
			r.Patch("/{id}", deps.folders.Update)
			r.Delete("/{id}", deps.folders.Delete)
		})

		// Fixed links are readable by everyone with a session;
		// mutations are admin only.
		r.Route("/fixed-links", func(r chi.Router) {
			r.Get("/", deps.fixedLinks.List)
			r.Post("/refresh", deps.fixedLinks.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", deps.fixedLinks.Create)
				r.Patch("/{id}", deps.fixedLinks.Update)
				r.Delete("/{id}", deps.fixedLinks.Delete)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

// seedFixedLinks inserts the default company links on first boot so a
// fresh deployment does not present an empty dashboard.
func seedFixedLinks(ctx context.Context, repo *repository.Repository, logger *slog.Logger) error {
	count, err := repo.CountFixedLinks(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.FixedLink{
		{Title: "Homepage", URL: "https://clint.digital", Category: "Company", Icon: "🏠"},
		{Title: "Handbook", URL: "https://handbook.clint.digital", Category: "Company", Icon: "📖"},
		{Title: "Status", URL: "https://status.clint.digital", Category: "Operations", Icon: "📈"},
	}

	now := time.Now().UTC()
	for i := range defaults {
		link := defaults[i]
		link.ID = store.NewEntityID()
		link.CreatedAt = now
		link.UpdatedAt = now
		if _, err := repo.CreateFixedLink(ctx, &link); err != nil {
			return err
		}
	}

	logger.Info("seeded default fixed links", "count", len(defaults))
	return nil
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
