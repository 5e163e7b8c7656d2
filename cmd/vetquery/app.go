package main

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/vetquery/internal/config"
	"github.com/davicafu/vetquery/internal/query/application"
	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	"github.com/davicafu/vetquery/internal/query/infra/outbound/snapshot"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/events"
	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
	"github.com/davicafu/vetquery/internal/shared/infra/remote"
	"github.com/davicafu/vetquery/internal/shared/infra/session"
	"github.com/davicafu/vetquery/pkg/logger"
)

type flagOverrides struct {
	host    string
	token   string
	backend string
}

func (o flagOverrides) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.APIHost = o.host
	}
	if o.token != "" {
		cfg.Token = o.token
	}
	if o.backend != "" {
		cfg.SnapshotBackend = o.backend
	}
}

// app reúne las dependencias de un comando.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	holder    *session.Holder
	guard     *session.Guard
	remote    *remote.FilterClient
	store     *snapshot.CacheStore
	publisher sharedBus.EventBus
	closers   []func() error
}

func newApp(ctx context.Context, overrides flagOverrides) (*app, error) {
	cfg := config.LoadConfig()
	overrides.apply(cfg)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	cache, closeCache, err := snapshot.OpenCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		holder:  session.NewHolder(session.Context{APIHost: cfg.APIHost, Token: cfg.Token}),
		guard:   session.NewGuard(cfg.RequestTimeout, log),
		remote:  remote.NewFilterClient(cfg.RequestTimeout, cfg.RetryCount, log),
		store:   snapshot.NewCacheStore(cache, log),
		closers: []func() error{closeCache},
	}

	if cfg.UseKafka() {
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		a.publisher = events.NewKafkaPublisher(writer, log)
		a.closers = append(a.closers, writer.Close)
		log.Info("Publicando transiciones en Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	return a, nil
}

func (a *app) queryClient(entity sharedDomain.Entity) *application.QueryClient {
	return application.NewQueryClient(entity, a.remote, a.guard, a.store, a.holder, a.publisher, a.log)
}

func (a *app) snapshotService() *application.SnapshotService {
	return application.NewSnapshotService(a.store, a.remote, a.guard, a.holder, application.DownloadOptions{
		PageSize:    a.cfg.DownloadPageSize,
		Concurrency: a.cfg.DownloadConcurrency,
	}, a.log)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.log.Sync()
	return errors.Join(errs...)
}

var _ queryDomain.Remote = (*remote.FilterClient)(nil)
