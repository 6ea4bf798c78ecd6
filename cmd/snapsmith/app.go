package main

import (
	"context"
	"log/slog"

	"github.com/detmach/snapsmith/cmd/snapsmith/config"
	"github.com/detmach/snapsmith/lib/builds"
	"github.com/detmach/snapsmith/lib/otel"
)

// application struct to hold initialized components
type application struct {
	Ctx          context.Context
	Logger       *slog.Logger
	Config       *config.Config
	Otel         *otel.Providers
	BuildManager builds.Manager
}
