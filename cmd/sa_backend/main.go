package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/taxfolio/self_assessment_app/cmd/docs"
	"github.com/taxfolio/self_assessment_app/internal/adapters/authority"
	"github.com/taxfolio/self_assessment_app/internal/core/services"
	"github.com/taxfolio/self_assessment_app/internal/core/tax"
	"github.com/taxfolio/self_assessment_app/internal/dto"
	"github.com/taxfolio/self_assessment_app/internal/handlers"
	"github.com/taxfolio/self_assessment_app/internal/middleware"
	"github.com/taxfolio/self_assessment_app/internal/platform/config"
	"github.com/taxfolio/self_assessment_app/internal/repositories/database/pgsql"
	"github.com/taxfolio/self_assessment_app/internal/utils"
	"github.com/taxfolio/self_assessment_app/pkg/database"
)

// @title Self Assessment Backend API
// @version 1.0
// @description Tax liability calculation and annual submission filing service.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build the rate tables: defaults plus optional file overrides
	rates, err := loadRateProvider(cfg, logger)
	if err != nil {
		logger.Error("Failed to load tax year rates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Tax authority client
	authorityClient := authority.NewHMRCClient(authority.Config{
		BaseURL:      cfg.HMRCBaseURL,
		TokenURL:     cfg.HMRCTokenURL,
		ClientID:     cfg.HMRCClientID,
		ClientSecret: cfg.HMRCClientSecret,
	})

	// Analytics (no-op when unconfigured)
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	repoProvider := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(rates, repoProvider, authorityClient, posthogClient)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		logger.Error("Failed to register request validations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()

	// Global middleware (logging, recovery, rate limiting, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if rateLimiter, err := newRateLimiter(cfg.RateLimit); err != nil {
		logger.Warn("Invalid RATE_LIMIT value, rate limiting disabled", slog.String("error", err.Error()))
	} else {
		r.Use(middleware.RateLimit(rateLimiter))
	}

	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// loadRateProvider builds the rate provider from the built-in tables, merged
// with the optional RATES_FILE overrides.
func loadRateProvider(cfg *config.Config, logger *slog.Logger) (*tax.RateProvider, error) {
	base := tax.DefaultRates()
	if cfg.RatesFile == "" {
		return tax.NewRateProvider(base)
	}

	overrides, err := tax.LoadRatesFile(cfg.RatesFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded tax year rate overrides", slog.String("file", cfg.RatesFile), slog.Int("years", len(overrides)))
	return tax.NewRateProvider(tax.MergeRates(base, overrides))
}

// newRateLimiter builds an in-memory rate limiter from the formatted
// configuration value, e.g. "100-M".
func newRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}
