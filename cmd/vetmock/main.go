package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/vetquery/internal/catalog"
	"github.com/davicafu/vetquery/internal/config"
	"github.com/davicafu/vetquery/internal/fakeapi"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/pkg/logger"
)

var (
	latency   = flag.Duration("latency", 0, "retraso añadido a cada respuesta")
	noAuth    = flag.Bool("no-auth", false, "no exige token")
	omitPages = flag.Bool("omit-pagination", false, "responde sin la clave pagination")
	tokenTTL  = flag.Duration("token-ttl", 8*time.Hour, "validez del token impreso al arrancar")
)

// ---------------- Main ----------------
func main() {
	flag.Parse()
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Logger()
	defer log.Sync()

	gin.SetMode(gin.ReleaseMode)

	var secret []byte
	if !*noAuth {
		secret = []byte(cfg.JWTSecret)
	}
	api := fakeapi.New(fakeapi.Options{Secret: secret, Log: log})
	api.SetLatency(*latency)
	api.SetOmitPagination(*omitPages)
	seedDemo(api, log)

	if len(secret) > 0 {
		token, err := fakeapi.IssueToken(secret, "demo", *tokenTTL)
		if err != nil {
			log.Fatal("failed to issue demo token", zap.Error(err))
		}
		fmt.Printf("export VETQUERY_TOKEN=%s\n", token)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("🚀 Fake clinic API running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
		zap.Bool("auth", len(secret) > 0),
		zap.Duration("latency", *latency),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// seedDemo sirve cada entidad del catálogo con su esquema de filtros y datos de ejemplo.
func seedDemo(api *fakeapi.Server, log *zap.Logger) {
	demo := fakeapi.DemoRecords()
	for _, name := range catalog.Names() {
		entity, _ := catalog.Lookup(name)
		records := demo[entity.Path]
		api.Seed(entity.Path, fakeapi.Dataset{Schema: schemaFor(entity), Records: records})
		log.Info("Seeded entity", zap.String("entity", entity.Name), zap.Int("records", len(records)))
	}
}

func schemaFor(entity sharedDomain.Entity) fakeapi.Schema {
	schema := make(fakeapi.Schema, len(entity.Fields))
	for field, kind := range entity.Fields {
		schema[field] = string(kind)
	}
	return schema
}
