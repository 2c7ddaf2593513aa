package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/enrichment/internal/api"
	"github.com/jonesrussell/north-cloud/enrichment/internal/classify"
	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/config"
	"github.com/jonesrussell/north-cloud/enrichment/internal/enricher"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/storage"
	"github.com/jonesrussell/north-cloud/enrichment/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting enrichment HTTP server",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	store, err := setupStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to set up Elasticsearch storage", logger.Error(err))
	}

	tp := telemetry.NewProvider()
	gazetteer := geo.NewGazetteer(log)

	enr := enricher.New(
		buildClassifier(cfg, log),
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

	handler := api.NewHandler(decoder, encoder, encodeOpts, store, tp, log)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", logger.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Graceful shutdown failed", logger.Error(err))
		}

		log.Info("Server stopped gracefully")
	}
}

// setupStorage creates the Elasticsearch client and verifies the connection
func setupStorage(cfg *config.Config, log logger.Logger) (*storage.ElasticsearchStorage, error) {
	client, err := es.NewClient(es.Config{
		Addresses:  []string{cfg.Elasticsearch.URL},
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create Elasticsearch client: %w", err)
	}

	store := storage.NewElasticsearchStorage(
		client,
		cfg.Elasticsearch.RawSuffix,
		cfg.Elasticsearch.EnrichedSuffix,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Elasticsearch.Timeout)
	defer cancel()
	if err := store.TestConnection(ctx); err != nil {
		return nil, err
	}

	log.Info("Connected to Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))
	return store, nil
}

// buildClassifier selects the classifier implementation from configuration
func buildClassifier(cfg *config.Config, log logger.Logger) classify.Classifier {
	if cfg.Enrichment.ClassifierMode == config.ClassifierModeRemote {
		log.Info("Using remote classifier", logger.String("url", cfg.Enrichment.RemoteClassifierURL))
		return classify.NewRemoteClassifier(cfg.Enrichment.RemoteClassifierURL)
	}

	log.Info("Using rule classifier")
	return classify.NewRuleClassifier(classify.DefaultRules(), log)
}
