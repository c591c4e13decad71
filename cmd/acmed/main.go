package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/KevinOrellana26/acme-dashboard/internal/config"
	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/cache"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/database"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/repository"
	"github.com/KevinOrellana26/acme-dashboard/internal/present/rest"
	restmiddleware "github.com/KevinOrellana26/acme-dashboard/internal/present/rest/middleware"
	"github.com/KevinOrellana26/acme-dashboard/internal/service"
	"github.com/KevinOrellana26/acme-dashboard/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	if conf.Server.EnableTrace {
		shutdown, err := setupTracer(conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown()
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)

	views := cache.NewViewCache(mc)
	signal := service.NewSignalService(rdb)
	auth := service.NewAuthService(domain.Config{
		SessionSecret:   conf.Auth.SessionSecret,
		SessionTTLHours: conf.Auth.SessionTTLHours,
	}, userRepo)

	invoiceUC := usecase.NewInvoiceUsecase(invoiceRepo, views, signal)
	customerUC := usecase.NewCustomerUsecase(customerRepo)

	e := echo.New()
	e.HTTPErrorHandler = rest.NewHTTPErrorHandler(e)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("acmed"))
	}

	authMiddleware := restmiddleware.NewAuthMiddleware(auth)
	e.Use(authMiddleware.RequireSession)

	handler := rest.NewHandler(invoiceUC, customerUC, auth, signal)
	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTracer(endpoint string) (func(), error) {
	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("failed to shut down tracer provider", slog.String("error", err.Error()))
		}
	}, nil
}
