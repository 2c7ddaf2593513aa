package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/enrichment/internal/classify"
	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/config"
	"github.com/jonesrussell/north-cloud/enrichment/internal/enricher"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/processor"
	"github.com/jonesrussell/north-cloud/enrichment/internal/storage"
	"github.com/jonesrussell/north-cloud/enrichment/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting enrichment processor",
		logger.Int("batch_size", cfg.Service.BatchSize),
		logger.Duration("poll_interval", cfg.Service.PollInterval),
		logger.Int("concurrency", cfg.Service.Concurrency),
	)

	client, err := es.NewClient(es.Config{
		Addresses:  []string{cfg.Elasticsearch.URL},
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("create Elasticsearch client: %w", err)
	}

	store := storage.NewElasticsearchStorage(
		client,
		cfg.Elasticsearch.RawSuffix,
		cfg.Elasticsearch.EnrichedSuffix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Elasticsearch.Timeout)
	defer cancel()
	if err := store.TestConnection(connectCtx); err != nil {
		return err
	}
	log.Info("Connected to Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))

	tp := telemetry.NewProvider()
	gazetteer := geo.NewGazetteer(log)

	var classifier classify.Classifier
	if cfg.Enrichment.ClassifierMode == config.ClassifierModeRemote {
		log.Info("Using remote classifier", logger.String("url", cfg.Enrichment.RemoteClassifierURL))
		classifier = classify.NewRemoteClassifier(cfg.Enrichment.RemoteClassifierURL)
	} else {
		log.Info("Using rule classifier")
		classifier = classify.NewRuleClassifier(classify.DefaultRules(), log)
	}

	enr := enricher.New(
		classifier,
		gazetteer,
		enricher.Config{GeoMaxResults: cfg.Enrichment.GeoMaxResults},
		log,
		tp,
	)

	decoder := codec.NewDecoder(enr, log)
	encoder := codec.NewEncoder(gazetteer)
	encodeOpts := codec.EncodeOptions{
		LinkLengthThreshold: cfg.Shortlink.Length,
		ShortlinkStub:       cfg.Shortlink.Stub,
	}

	batchProcessor := processor.NewBatchProcessor(
		decoder,
		encoder,
		encodeOpts,
		cfg.Service.Concurrency,
		log,
	)

	limiter := processor.NewRateLimiter(cfg.Service.RatePerSec, cfg.Service.RatePerSec, log)

	poller := processor.NewPoller(store, batchProcessor, limiter, log, tp, processor.PollerConfig{
		BatchSize:    cfg.Service.BatchSize,
		PollInterval: cfg.Service.PollInterval,
	})

	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	log.Info("Processor started, polling for raw messages")

	<-ctx.Done()
	log.Info("Shutdown signal received")
	poller.Stop()

	log.Info("Processor stopped")
	return nil
}
