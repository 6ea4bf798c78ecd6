//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/detmach/snapsmith/lib/providers"
)

// initializeApp is the injector function
func initializeApp() (*application, func(), error) {
	panic(wire.Build(
		providers.ProvideContext,
		providers.ProvideConfig,
		providers.ProvideOtel,
		providers.ProvideLogger,
		providers.ProvideMeter,
		providers.ProvidePaths,
		providers.ProvideStore,
		providers.ProvideValidator,
		providers.ProvideRunner,
		providers.ProvideBuildManager,
		wire.Struct(new(application), "*"),
	))
}
