package api

import (
	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
)

// EnrichBatchRequest represents a batch enrichment request.
type EnrichBatchRequest struct {
	Messages []map[string]any `json:"messages" binding:"required,min=1,max=100"`
}

// EnrichResult represents a single message within a batch response.
type EnrichResult struct {
	Message *codec.Document `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// EnrichBatchResponse represents a batch enrichment response.
type EnrichBatchResponse struct {
	Results []EnrichResult `json:"results"`
	Total   int            `json:"total"`
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
}

// DecodeTextRequest represents a text decoding request.
type DecodeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// DecodeTextResponse represents a text decoding response.
type DecodeTextResponse struct {
	Text string `json:"text"`
}
