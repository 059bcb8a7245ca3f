package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/adapters/database"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/adapters/loginrepository"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/adapters/userrepository"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/app"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/config"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/ports"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/telemetry"
	"github.com/google/uuid"

	_ "golang.org/x/crypto/x509roots/fallback"
)

const serviceName = "gsc-backend"

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	ctx := context.Background()

	conf, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", conf.NonSensitiveString())

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, serviceName)
	if err != nil {
		fail("Failed to initialize OTel SDK", "error", err.Error())
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down OTel SDK", "error", err.Error())
		}
	}()

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(conf)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewSupabasePostgresDatabase(conf)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!conf.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	userRepo := userrepository.NewPostgres(db, schemaName, time.Now)
	loginRepo := loginrepository.NewPostgres(db, schemaName, time.Now)
	logger.Info("Initialized repositories")

	recordLogin := app.BuildRecordLogin(loginRepo)
	storeUser := app.BuildStoreUser(userRepo, recordLogin, func() string {
		return uuid.New().String()
	})

	http.HandleFunc(
		"POST /store-user",
		ports.MakeStoreUserHandler(
			storeUser,
			conf.APIKey(),
			logger.With("port", "storeuser"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", conf.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
