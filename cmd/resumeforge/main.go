package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"resumeforge/internal/llm"
	"resumeforge/pkg/config"
	"resumeforge/pkg/db"
	"resumeforge/pkg/health"
	"resumeforge/pkg/logger"
	"resumeforge/pkg/redis"
	"resumeforge/pkg/server"
	"resumeforge/pkg/task"
	"resumeforge/services/export"
	"resumeforge/services/ledger"
	"resumeforge/services/optimize"
	"resumeforge/services/transaction"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		task.Server,
		fx.Provide(
			provideTracerProvider,
			provideSnowflakeNode,
		),
		llm.Module,
		server.ProvideHTTPServer,
		health.Module,
		ledger.Module,
		transaction.Module,
		optimize.Module,
		export.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideTracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
