//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideDatabaseConnection,
		ProvideMongoConnection,
		ProvideMediaStorage,
		ProvideTokenIssuer,
		feedSet,
		ProvideFeedHandlers,
		ProvideMediaServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

func InitializeMediaApplication() (*MediaApplication, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideMongoConnection,
		ProvideMediaStorage,
		ProvideMediaServer,
		wire.Struct(new(MediaApplication), "*"),
	)
	return nil, nil, nil
}
