package wire

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"mouselab/internal/common"
	"mouselab/internal/config"
	"mouselab/internal/dbmongo"
	"mouselab/internal/dbmysql"
	"mouselab/internal/feed"
	"mouselab/internal/media"
)

// Application is everything the lab service needs to serve HTTP and gRPC.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Mongo    *dbmongo.MongoClient
	Handlers *feed.FeedHandlers
	Media    *media.HTTPServer
}

// MediaApplication backs the standalone media server.
type MediaApplication struct {
	Config *config.Config
	Logger *slog.Logger
	Mongo  *dbmongo.MongoClient
	Media  *media.HTTPServer
}

var feedSet = wire.NewSet(
	feed.NewFeedRepository,
	wire.Bind(new(feed.Records), new(*feed.FeedRepository)),
	wire.Bind(new(feed.ObjectStore), new(*dbmongo.MediaStorage)),
	feed.NewWorkflow,
	feed.NewFeedService,
	wire.Bind(new(feed.FeedUsecase), new(*feed.FeedService)),
)

func ProvideConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, closer, err := common.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { closer.Close() }, nil
}

func ProvideDatabaseConnection(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := dbmysql.Close(db); err != nil {
			log.Printf("Error closing MySQL: %v", err)
		}
	}
	return db, cleanup, nil
}

func ProvideMongoConnection(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	client, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Printf("Error closing MongoDB: %v", err)
		}
	}
	return client, cleanup, nil
}

func ProvideMediaStorage(client *dbmongo.MongoClient, cfg *config.Config) *dbmongo.MediaStorage {
	return dbmongo.NewMediaStorage(client, cfg.Server.MediaBaseURL)
}

func ProvideTokenIssuer(cfg *config.Config) *common.TokenIssuer {
	return common.NewTokenIssuer(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
}

func ProvideFeedHandlers(svc feed.FeedUsecase, issuer *common.TokenIssuer, cfg *config.Config) *feed.FeedHandlers {
	return feed.NewFeedHandlers(svc, issuer, cfg.Session.CookieName, cfg.Upload.MaxUploadBytes)
}

func ProvideMediaServer(storage *dbmongo.MediaStorage) *media.HTTPServer {
	return media.NewHTTPServer(storage)
}
