package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/davicafu/vetquery/internal/config"
	sharedCache "github.com/davicafu/vetquery/internal/shared/infra/platform/cache"
)

const (
	redisKeyPrefix  = "vetquery:"
	mongoCollection = "snapshots"
)

// OpenCache abre el backend configurado en SNAPSHOT_BACKEND. El closer libera la conexión.
func OpenCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedCache.Cache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		return sharedCache.NewInMemoryCache(), noop, nil

	case config.BackendFile, "":
		return sharedCache.NewFileCache(cfg.SnapshotDir), noop, nil

	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn, dialect := "sqlite", cfg.SQLitePath, sharedCache.DialectSQLite
		if cfg.SnapshotBackend == config.BackendPostgres {
			driver, dsn, dialect = "pgx", cfg.PostgresDSN, sharedCache.DialectPostgres
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", driver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping %s: %w", driver, err)
		}
		c := sharedCache.NewSQLCache(db, dialect)
		if err := c.InitSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("✅ Snapshot backend SQL listo", zap.String("driver", driver))
		return c, db.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis not available: %w", err)
		}
		log.Info("✅ Redis conectado, snapshots en Redis")
		return sharedCache.NewRedisCache(rdb, redisKeyPrefix), rdb.Close, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongoDB: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("could not ping mongoDB: %w", err)
		}
		closer := func() error { return client.Disconnect(context.Background()) }
		return sharedCache.NewMongoCache(client.Database(cfg.MongoDB), mongoCollection), closer, nil

	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}
