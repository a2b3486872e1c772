// Command ingestd runs the court-decisions ingestion pipeline:
// discovery, reconciliation, and the per-document coordinator loop,
// plus an internal ops HTTP surface (/healthz, /metrics).
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courtregistry-ingest/internal/blobstore"
	"courtregistry-ingest/internal/config"
	"courtregistry-ingest/internal/coordinator"
	"courtregistry-ingest/internal/discovery"
	"courtregistry-ingest/internal/embedding"
	"courtregistry-ingest/internal/eventbus"
	"courtregistry-ingest/internal/fetcher"
	"courtregistry-ingest/internal/metrics"
	"courtregistry-ingest/internal/observability/loki"
	"courtregistry-ingest/internal/observability/tracing"
	"courtregistry-ingest/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := buildLogger(cfg)
	defer logger.Sync()

	rootCtx := context.Background()
	shutdownTracer, err := tracing.Init(rootCtx, "courtregistry-ingest")
	if err != nil {
		logger.Warn("tracing init failed, continuing without spans", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(rootCtx)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		logger.Info("shutdown requested")
		cancel()
	}()

	blobs, err := buildBlobStore(cfg)
	if err != nil {
		logger.Fatal("blobstore init failed", zap.Error(err))
	}

	bus := buildEventBus(cfg, logger)
	defer bus.Close()

	st, err := store.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("store connect failed", zap.Error(err))
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		logger.Fatal("store schema init failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	tokenizer, err := embedding.NewTokenizer()
	if err != nil {
		logger.Fatal("tokenizer init failed", zap.Error(err))
	}
	provider := embedding.NewHTTPProvider(cfg.EmbeddingEndpoint, cfg.EmbeddingModel, 30*time.Second)
	chunker := embedding.NewChunker(tokenizer, provider, cfg.EmbeddingChunkSize)

	fetchers := fetcher.NewPool(cfg.FetcherWorkers, cfg.FetcherMaxRetries, cfg.FetcherTimeout)

	coord := coordinator.New(blobs, fetchers, bus, st, chunker, m, logger, cfg.ParserConfidenceThreshold)

	httpClient := &http.Client{Timeout: cfg.FetcherTimeout}
	monitor := discovery.NewMonitor(cfg.RegistryBaseURL, httpClient)

	go runDiscoveryLoop(ctx, cfg, monitor, coord, logger)
	go runReconciliationLoop(ctx, cfg, st, monitor, coord, logger)

	router := buildRouter(reg)
	srv := &http.Server{Addr: cfg.MetricsHTTPAddr, Handler: router}
	go func() {
		logger.Info("ops http surface listening", zap.String("addr", cfg.MetricsHTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ops http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops http server shutdown error", zap.Error(err))
	}
	if shutdownTracer != nil {
		_ = shutdownTracer(shutdownCtx)
	}
	logger.Info("shutdown complete")
}

func buildLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	base, err := zcfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	if cfg.LokiEndpoint == "" {
		return base
	}

	lokiClient := loki.New(cfg.LokiEndpoint, map[string]string{"service": "courtregistry-ingest"})
	lokiCore := loki.NewCore(lokiClient, zapcore.InfoLevel)
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, lokiCore)
	}))
}

func buildBlobStore(cfg *config.Config) (blobstore.Store, error) {
	if cfg.BlobStoreKind == "s3" {
		objStore, err := blobstore.NewObjectStore(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			return nil, err
		}
		if err := objStore.EnsureBucket(context.Background()); err != nil {
			return nil, err
		}
		return objStore, nil
	}
	return blobstore.NewFileSystemStore(cfg.BlobStoreRoot), nil
}

func buildEventBus(cfg *config.Config, logger *zap.Logger) eventbus.Bus {
	if !cfg.EventBusEnabled {
		return eventbus.NoopBus{}
	}
	return eventbus.NewRedisBus(cfg.EventBusAddrs, logger)
}

func buildRouter(reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

func runDiscoveryLoop(ctx context.Context, cfg *config.Config, monitor *discovery.Monitor, coord *coordinator.Coordinator, logger *zap.Logger) {
	interval := time.Duration(cfg.DiscoveryIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runDiscoveryCycle(ctx, monitor, coord, logger)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runDiscoveryCycle(ctx context.Context, monitor *discovery.Monitor, coord *coordinator.Coordinator, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("discovery cycle panicked", zap.Any("recovered", r))
		}
	}()

	tuples, err := monitor.DiscoverFeed(ctx)
	if err != nil {
		logger.Warn("discovery feed cycle failed", zap.Error(err))
	}

	from, to := discovery.LastNDays(time.Now().UTC(), 1)
	searchTuples, err := monitor.DiscoverSearchPage(ctx, from, to)
	if err != nil {
		logger.Warn("discovery search cycle failed", zap.Error(err))
	}
	tuples = append(tuples, searchTuples...)

	for _, t := range tuples {
		if err := coord.ProcessTuple(ctx, t); err != nil {
			logger.Warn("process tuple failed", zap.String("doc_id", t.DocID), zap.Error(err))
		}
	}
}

func runReconciliationLoop(ctx context.Context, cfg *config.Config, st *store.Store, monitor *discovery.Monitor, coord *coordinator.Coordinator, logger *zap.Logger) {
	interval := time.Duration(cfg.ReconciliationIntervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	const batchSize = 100
	for {
		runReconciliationCycle(ctx, st, monitor, coord, logger, batchSize)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runReconciliationCycle(ctx context.Context, st *store.Store, monitor *discovery.Monitor, coord *coordinator.Coordinator, logger *zap.Logger, batchSize int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("reconciliation cycle panicked", zap.Any("recovered", r))
		}
	}()

	for offset := 0; ; offset += batchSize {
		changed, scanned, err := discovery.Reconcile(ctx, st, monitor, batchSize, offset)
		if err != nil {
			logger.Warn("reconciliation batch failed", zap.Int("offset", offset), zap.Error(err))
			return
		}
		for _, c := range changed {
			documentRef := c.DocumentRef
			tuple := discovery.Tuple{
				DocID:               c.DocumentRef.String(),
				URL:                 c.URL,
				ExistingDocumentRef: &documentRef,
			}
			if err := coord.ProcessTuple(ctx, tuple); err != nil {
				logger.Warn("reconciliation reprocess failed", zap.String("document_ref", c.DocumentRef.String()), zap.Error(err))
			}
		}
		if scanned < batchSize {
			// Fewer candidates than requested means
			// ListVersionsForReconciliation ran out of rows.
			return
		}
	}
}
