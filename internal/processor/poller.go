package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/storage"
	"github.com/jonesrussell/north-cloud/enrichment/internal/telemetry"
)

const defaultPollIntervalSeconds = 30

// StorageClient defines the storage operations the poller needs
type StorageClient interface {
	// QueryPendingRaw queries raw messages awaiting enrichment
	QueryPendingRaw(ctx context.Context, batchSize int) ([]storage.RawDocument, error)

	// IndexMessage indexes an enriched message document
	IndexMessage(ctx context.Context, sourceType, id string, doc *codec.Document) error

	// UpdateRawStatus updates the enrichment status of a raw message
	UpdateRawStatus(ctx context.Context, index, id, status string, enrichedAt time.Time) error

	// EnsureEnrichedIndex creates the enriched index for a source type
	EnsureEnrichedIndex(ctx context.Context, sourceType string) error
}

// Poller polls Elasticsearch for pending raw messages and processes them
type Poller struct {
	store          StorageClient
	batchProcessor *BatchProcessor
	limiter        *RateLimiter
	log            logger.Logger
	telemetry      *telemetry.Provider

	batchSize    int
	pollInterval time.Duration
	running      bool
	stopChan     chan struct{}

	ensuredIndices map[string]bool
}

// PollerConfig holds poller configuration
type PollerConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// NewPoller creates a new poller
func NewPoller(
	store StorageClient,
	batchProcessor *BatchProcessor,
	limiter *RateLimiter,
	log logger.Logger,
	tp *telemetry.Provider,
	config PollerConfig,
) *Poller {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollIntervalSeconds * time.Second
	}

	return &Poller{
		store:          store,
		batchProcessor: batchProcessor,
		limiter:        limiter,
		log:            log,
		telemetry:      tp,
		batchSize:      config.BatchSize,
		pollInterval:   config.PollInterval,
		stopChan:       make(chan struct{}),
		ensuredIndices: make(map[string]bool),
	}
}

// Start starts the poller
func (p *Poller) Start(ctx context.Context) error {
	if p.running {
		return errors.New("poller is already running")
	}

	p.running = true
	p.log.Info("Poller starting",
		logger.Int("batch_size", p.batchSize),
		logger.Duration("poll_interval", p.pollInterval),
	)

	go p.run(ctx)

	return nil
}

// Stop stops the poller
func (p *Poller) Stop() {
	if !p.running {
		return
	}

	p.log.Info("Poller stopping")
	close(p.stopChan)
	p.running = false
}

// run is the main polling loop
func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Process immediately on start
	if err := p.processPending(ctx); err != nil {
		p.log.Error("Failed to process pending messages on startup", logger.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Poller stopped due to context cancellation")
			return
		case <-p.stopChan:
			p.log.Info("Poller stopped")
			return
		case <-ticker.C:
			if err := p.processPending(ctx); err != nil {
				p.log.Error("Failed to process pending messages", logger.Error(err))
			}
		}
	}
}

// processPending enriches one batch of pending raw messages
func (p *Poller) processPending(ctx context.Context) error {
	if p.telemetry != nil {
		var span trace.Span
		ctx, span = p.telemetry.Tracer.Start(ctx, "process_pending")
		defer span.End()
	}

	p.log.Debug("Polling for pending messages", logger.Int("batch_size", p.batchSize))

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	pendingItems, err := p.store.QueryPendingRaw(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("query pending messages: %w", err)
	}

	if len(pendingItems) == 0 {
		p.log.Debug("No pending messages found")
		return nil
	}

	p.log.Info("Found pending messages", logger.Int("count", len(pendingItems)))
	p.observeBatch(len(pendingItems))

	results := p.batchProcessor.Process(ctx, pendingItems)

	return p.indexResults(ctx, results)
}

// indexResults indexes enriched documents and records each raw message's
// outcome
func (p *Poller) indexResults(ctx context.Context, results []*ProcessResult) error {
	indexed := 0
	failed := 0

	for _, result := range results {
		if result.Error != nil {
			failed++
			p.countFailure("decode")
			p.markRaw(ctx, result.Raw, storage.StatusFailed)
			continue
		}

		sourceType := string(result.Message.SourceType)
		if err := p.ensureIndex(ctx, sourceType); err != nil {
			p.log.Error("Failed to ensure enriched index",
				logger.String("source_type", sourceType),
				logger.Error(err),
			)
			failed++
			p.countFailure("index")
			p.markRaw(ctx, result.Raw, storage.StatusFailed)
			continue
		}

		id := result.Message.IDStr
		if id == "" {
			id = result.Raw.ID
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := p.store.IndexMessage(ctx, sourceType, id, result.Doc); err != nil {
			p.log.Error("Failed to index enriched message",
				logger.String("message_id", id),
				logger.Error(err),
			)
			failed++
			p.countFailure("index")
			p.markRaw(ctx, result.Raw, storage.StatusFailed)
			continue
		}

		indexed++
		if v, ok := result.Doc.Get("unshorten"); ok {
			if shortToLong, ok := v.(*codec.Document); ok {
				p.countShortlinks(shortToLong.Len())
			}
		}
		p.markRaw(ctx, result.Raw, storage.StatusEnriched)
	}

	if failed > 0 {
		p.log.Warn("Some messages failed enrichment", logger.Int("failed_count", failed))
	}

	p.log.Info("Indexed enriched messages", logger.Int("count", indexed))

	return nil
}

// observeBatch records the batch size metric
func (p *Poller) observeBatch(n int) {
	if p.telemetry != nil {
		p.telemetry.Metrics.BatchSize.Observe(float64(n))
	}
}

// countShortlinks records links substituted by shortlinks in emitted text
func (p *Poller) countShortlinks(n int) {
	if p.telemetry != nil && n > 0 {
		p.telemetry.Metrics.ShortlinksRewritten.Add(float64(n))
	}
}

// countFailure records a failed message by pipeline stage
func (p *Poller) countFailure(stage string) {
	if p.telemetry != nil {
		p.telemetry.Metrics.MessagesFailed.WithLabelValues(stage).Inc()
	}
}

// markRaw records an enrichment outcome on the raw message document
func (p *Poller) markRaw(ctx context.Context, raw storage.RawDocument, status string) {
	if err := p.store.UpdateRawStatus(ctx, raw.Index, raw.ID, status, time.Now()); err != nil {
		p.log.Error("Failed to update raw message status",
			logger.String("message_id", raw.ID),
			logger.String("status", status),
			logger.Error(err),
		)
	}
}

// ensureIndex creates the enriched index for a source type once per process
func (p *Poller) ensureIndex(ctx context.Context, sourceType string) error {
	if p.ensuredIndices[sourceType] {
		return nil
	}
	if err := p.store.EnsureEnrichedIndex(ctx, sourceType); err != nil {
		return err
	}
	p.ensuredIndices[sourceType] = true
	return nil
}

// IsRunning returns whether the poller is currently running
func (p *Poller) IsRunning() bool {
	return p.running
}

// GetStats returns poller statistics
func (p *Poller) GetStats() map[string]any {
	return map[string]any{
		"running":       p.running,
		"batch_size":    p.batchSize,
		"poll_interval": p.pollInterval.String(),
	}
}
