package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/extract"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
	"github.com/jonesrussell/north-cloud/enrichment/internal/telemetry"
)

// Storage defines the storage operations the API needs
type Storage interface {
	// GetMessage fetches one enriched message by id, nil when absent
	GetMessage(ctx context.Context, id string) (map[string]any, error)

	// TestConnection verifies the storage backend responds
	TestConnection(ctx context.Context) error
}

// Handler handles HTTP requests for the enrichment API
type Handler struct {
	decoder    *codec.Decoder
	encoder    *codec.Encoder
	encodeOpts codec.EncodeOptions
	store      Storage
	telemetry  *telemetry.Provider
	log        logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	decoder *codec.Decoder,
	encoder *codec.Encoder,
	encodeOpts codec.EncodeOptions,
	store Storage,
	tp *telemetry.Provider,
	log logger.Logger,
) *Handler {
	return &Handler{
		decoder:    decoder,
		encoder:    encoder,
		encodeOpts: encodeOpts,
		store:      store,
		telemetry:  tp,
		log:        log,
	}
}

// Enrich handles POST /api/v1/enrich
//
// The body is a raw message object. The response is the enriched document,
// with derived fields unless ?derived=false is given.
func (h *Handler) Enrich(c *gin.Context) {
	var obj map[string]any
	if err := c.ShouldBindJSON(&obj); err != nil {
		h.log.Warn("Invalid enrichment request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.enrichObject(c.Request.Context(), obj, h.wantDerived(c))
	if err != nil {
		h.log.Error("Enrichment failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// EnrichBatch handles POST /api/v1/enrich/batch
func (h *Handler) EnrichBatch(c *gin.Context) {
	var req EnrichBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid batch enrichment request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("Batch enriching messages", logger.Int("batch_size", len(req.Messages)))

	derived := h.wantDerived(c)
	results := make([]EnrichResult, 0, len(req.Messages))
	success := 0
	failed := 0

	for _, obj := range req.Messages {
		doc, err := h.enrichObject(c.Request.Context(), obj, derived)
		if err != nil {
			failed++
			results = append(results, EnrichResult{Error: err.Error()})
			continue
		}
		success++
		results = append(results, EnrichResult{Message: doc})
	}

	h.log.Info("Batch enrichment completed",
		logger.Int("total", len(results)),
		logger.Int("success", success),
		logger.Int("failed", failed),
	)

	c.JSON(http.StatusOK, EnrichBatchResponse{
		Results: results,
		Total:   len(results),
		Success: success,
		Failed:  failed,
	})
}

// GetMessage handles GET /api/v1/messages/:id
func (h *Handler) GetMessage(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	msg, err := h.store.GetMessage(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load message", logger.String("message_id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load message"})
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	c.JSON(http.StatusOK, msg)
}

// DecodeText handles POST /api/v1/text/decode
func (h *Handler) DecodeText(c *gin.Context) {
	var req DecodeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DecodeTextResponse{
		Text: extract.DecodeHTMLText(req.Text),
	})
}

// Metrics handles GET /metrics
func (h *Handler) Metrics(c *gin.Context) {
	h.telemetry.Handler().ServeHTTP(c.Writer, c.Request)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "enrichment",
		"version": "1.0.0",
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.store != nil {
		if err := h.store.TestConnection(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"checks": gin.H{"elasticsearch": err.Error()},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{"elasticsearch": "ok"},
	})
}

// enrichObject runs one raw object through the decode and encode pipeline
func (h *Handler) enrichObject(ctx context.Context, obj map[string]any, derived bool) (*codec.Document, error) {
	if h.telemetry != nil {
		var span trace.Span
		ctx, span = h.telemetry.Tracer.Start(ctx, "enrich")
		defer span.End()
	}

	if text, ok := obj["text"].(string); ok {
		obj["text"] = extract.DecodeHTMLText(text)
	}

	msg, err := h.decoder.DecodeObject(ctx, obj)
	if err != nil {
		return nil, err
	}

	opts := h.encodeOpts
	opts.IncludeDerived = derived
	return h.encoder.Encode(msg, opts), nil
}

// wantDerived reads the ?derived= query flag, defaulting to true
func (h *Handler) wantDerived(c *gin.Context) bool {
	derived, err := strconv.ParseBool(c.DefaultQuery("derived", "true"))
	if err != nil {
		return true
	}
	return derived
}
