package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/fanlane/backstage/internal/config"
	"github.com/fanlane/backstage/internal/infra/database"
	"github.com/fanlane/backstage/internal/infra/gateway"
	"github.com/fanlane/backstage/internal/infra/repository"
	"github.com/fanlane/backstage/internal/present/rest"
	restmiddleware "github.com/fanlane/backstage/internal/present/rest/middleware"
	"github.com/fanlane/backstage/internal/service"
	"github.com/fanlane/backstage/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := setupTrace(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	contentRepo := repository.NewContentRepository(db, database.NewMemcached(conf.Server.MemcachedAddr))
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	tipRepo := repository.NewTipRepository(db)
	contextStore := repository.NewContextStore(rdb)

	identity := gateway.NewIdentityGateway(rdb)
	payment := gateway.NewPaymentGateway(conf.Server.PaymentEndpoint)
	signal := service.NewSignalService(rdb)

	resolver := usecase.NewContextResolver(contextStore, identity, signal, conf.App)
	entitlement := usecase.NewEntitlementEvaluator(contentRepo, subscriptionRepo, grantRepo, payment)
	engagement := usecase.NewEngagementScorer(tipRepo, subscriptionRepo, grantRepo)
	ledger := usecase.NewLedgerUsecase(grantRepo)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("backstage"))
	}
	e.Use(restmiddleware.NewIdentityMiddleware(identity).IdentifyActor)

	handler := rest.NewHandler(conf.App, resolver, entitlement, engagement, ledger, signal)
	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTrace(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("backstage"),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
