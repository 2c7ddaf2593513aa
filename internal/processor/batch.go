// Package processor runs the background enrichment pipeline: it polls raw
// message indices, enriches each message, and indexes the encoded result.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/extract"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/storage"
)

// BatchProcessor enriches raw messages in parallel using a worker pool
type BatchProcessor struct {
	decoder     *codec.Decoder
	encoder     *codec.Encoder
	encodeOpts  codec.EncodeOptions
	concurrency int
	log         logger.Logger
}

// ProcessResult holds the result of enriching a single raw message
type ProcessResult struct {
	Raw     storage.RawDocument
	Message *domain.Message
	Doc     *codec.Document
	Error   error
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(
	decoder *codec.Decoder,
	encoder *codec.Encoder,
	encodeOpts codec.EncodeOptions,
	concurrency int,
	log logger.Logger,
) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 10
	}
	encodeOpts.IncludeDerived = true

	return &BatchProcessor{
		decoder:     decoder,
		encoder:     encoder,
		encodeOpts:  encodeOpts,
		concurrency: concurrency,
		log:         log,
	}
}

// Process enriches a batch of raw messages using the worker pool
func (b *BatchProcessor) Process(ctx context.Context, rawItems []storage.RawDocument) []*ProcessResult {
	if len(rawItems) == 0 {
		return []*ProcessResult{}
	}

	b.log.Info("Starting batch processing",
		logger.Int("batch_size", len(rawItems)),
		logger.Int("concurrency", b.concurrency),
	)

	startTime := time.Now()

	jobs := make(chan storage.RawDocument, len(rawItems))
	results := make(chan *ProcessResult, len(rawItems))

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go b.worker(ctx, i, jobs, results, &wg)
	}

	for _, raw := range rawItems {
		jobs <- raw
	}
	close(jobs)

	wg.Wait()
	close(results)

	processResults := make([]*ProcessResult, 0, len(rawItems))
	for result := range results {
		processResults = append(processResults, result)
	}

	duration := time.Since(startTime)
	successCount := 0
	errorCount := 0
	for _, result := range processResults {
		if result.Error == nil {
			successCount++
		} else {
			errorCount++
		}
	}

	b.log.Info("Batch processing complete",
		logger.Int("total", len(rawItems)),
		logger.Int("success", successCount),
		logger.Int("errors", errorCount),
		logger.Int64("duration_ms", duration.Milliseconds()),
	)

	return processResults
}

// worker drains the jobs channel
func (b *BatchProcessor) worker(
	ctx context.Context,
	id int,
	jobs <-chan storage.RawDocument,
	results chan<- *ProcessResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	b.log.Debug("Worker started", logger.Int("worker_id", id))

	for raw := range jobs {
		select {
		case <-ctx.Done():
			b.log.Warn("Worker stopping due to context cancellation", logger.Int("worker_id", id))
			return
		default:
		}

		results <- b.processItem(ctx, raw)
	}

	b.log.Debug("Worker finished", logger.Int("worker_id", id))
}

// processItem decodes, enriches and encodes a single raw message
func (b *BatchProcessor) processItem(ctx context.Context, raw storage.RawDocument) *ProcessResult {
	result := &ProcessResult{Raw: raw}

	source := make(map[string]any, len(raw.Source))
	for k, v := range raw.Source {
		source[k] = v
	}
	if text, ok := source["text"].(string); ok {
		source["text"] = extract.DecodeHTMLText(text)
	}

	msg, err := b.decoder.DecodeObject(ctx, source)
	if err != nil {
		result.Error = fmt.Errorf("decode message %s: %w", raw.ID, err)
		b.log.Error("Failed to decode raw message",
			logger.String("message_id", raw.ID),
			logger.Error(err),
		)
		return result
	}

	result.Message = msg
	result.Doc = b.encoder.Encode(msg, b.encodeOpts)

	b.log.Debug("Message enriched",
		logger.String("message_id", raw.ID),
		logger.Int("links", len(msg.Links)),
		logger.Int("hashtags", len(msg.Hashtags)),
	)

	return result
}

// GetStats returns statistics about the batch processor
func (b *BatchProcessor) GetStats() map[string]any {
	return map[string]any{
		"concurrency": b.concurrency,
	}
}
