package config

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// OpenMongo подключается к MongoDB по db.dsn, пингует primary и
// возвращает клиента вместе с базой db.database.
func OpenMongo(ctx context.Context, cfg DBConfig, log *logger.HTTPLogger) (*mongo.Client, *mongo.Database, error) {
	customLog := log.Sugar()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		customLog.Errorf("error to connect mongo: %v", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		customLog.Errorf("error check mongo connection: %v", err)
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	return client, client.Database(cfg.Database), nil
}
