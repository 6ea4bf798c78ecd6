// Package providers holds the Wire provider functions that assemble the
// application graph.
package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/metric"

	"github.com/detmach/snapsmith/cmd/snapsmith/config"
	"github.com/detmach/snapsmith/lib/builds"
	"github.com/detmach/snapsmith/lib/images"
	"github.com/detmach/snapsmith/lib/logger"
	"github.com/detmach/snapsmith/lib/otel"
	"github.com/detmach/snapsmith/lib/paths"
	"github.com/detmach/snapsmith/lib/sandbox"
)

// ProvideContext provides a base context
func ProvideContext() context.Context {
	return context.Background()
}

// ProvideConfig provides the application configuration
func ProvideConfig() *config.Config {
	return config.Load()
}

// ProvideOtel initializes telemetry; the cleanup flushes the exporters.
func ProvideOtel(ctx context.Context, cfg *config.Config) (*otel.Providers, func(), error) {
	providers, err := otel.Setup(ctx, cfg.ServiceName)
	if err != nil {
		return nil, nil, fmt.Errorf("setup telemetry: %w", err)
	}

	cleanup := func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}
	return providers, cleanup, nil
}

// ProvideLogger provides a structured logger, bridged into the telemetry
// pipeline when one is configured.
func ProvideLogger(cfg *config.Config, providers *otel.Providers) *slog.Logger {
	if providers.Enabled() {
		return logger.NewWithBridge(cfg.LogLevel, cfg.ServiceName, providers.LoggerProvider())
	}
	return logger.New(cfg.LogLevel)
}

// ProvideMeter provides the service meter; nil when telemetry is disabled.
func ProvideMeter(providers *otel.Providers) metric.Meter {
	return providers.Meter()
}

// ProvidePaths provides the working-area layout
func ProvidePaths(cfg *config.Config) *paths.Paths {
	return paths.New(cfg.WorkDir)
}

// ProvideStore provides the image store backed by the local daemon
func ProvideStore(log *slog.Logger) images.Store {
	return images.NewDaemonStore(log)
}

// ProvideValidator provides the image validator
func ProvideValidator(log *slog.Logger) *images.Validator {
	return images.NewValidator(log)
}

// ProvideRunner provides the container stage runner
func ProvideRunner(cfg *config.Config, log *slog.Logger) sandbox.Runner {
	return sandbox.NewEngine(cfg.ContainerCLI, log)
}

// ProvideBuildManager provides the build manager
func ProvideBuildManager(
	cfg *config.Config,
	p *paths.Paths,
	store images.Store,
	validator *images.Validator,
	runner sandbox.Runner,
	log *slog.Logger,
	meter metric.Meter,
) (builds.Manager, error) {
	return builds.NewManager(p, builds.Config{StageTimeout: cfg.StageTimeout}, store, validator, runner, log, meter)
}
