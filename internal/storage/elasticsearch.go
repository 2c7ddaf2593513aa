// Package storage persists message documents in Elasticsearch: raw message
// polling, enriched document indexing, and status updates.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
)

// Enrichment status values stored on raw message documents.
const (
	StatusPending  = "pending"
	StatusEnriched = "enriched"
	StatusFailed   = "failed"
)

// RawDocument is one raw message hit, with enough envelope to update it
// later.
type RawDocument struct {
	Index  string
	ID     string
	Source map[string]any
}

// ElasticsearchStorage implements the storage operations of the enrichment
// service.
type ElasticsearchStorage struct {
	client         *es.Client
	rawSuffix      string
	enrichedSuffix string
}

// NewElasticsearchStorage creates a storage instance. The suffixes select
// the per-source raw and enriched index families, e.g. "twitter_raw_messages"
// and "twitter_messages".
func NewElasticsearchStorage(client *es.Client, rawSuffix, enrichedSuffix string) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client:         client,
		rawSuffix:      rawSuffix,
		enrichedSuffix: enrichedSuffix,
	}
}

// QueryPendingRaw returns up to batchSize raw messages awaiting enrichment,
// oldest first.
func (s *ElasticsearchStorage) QueryPendingRaw(ctx context.Context, batchSize int) ([]RawDocument, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				"enrichment_status": StatusPending,
			},
		},
		"size": batchSize,
		"sort": []map[string]any{
			{"timestamp": map[string]any{"order": "asc", "unmapped_type": "date"}},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex("*"+s.rawSuffix),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("search raw messages: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search raw messages: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Index  string         `json:"_index"`
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]RawDocument, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		docs = append(docs, RawDocument{Index: hit.Index, ID: hit.ID, Source: hit.Source})
	}
	return docs, nil
}

// IndexMessage indexes an encoded enriched document. The index is derived
// from the message's source type.
func (s *ElasticsearchStorage) IndexMessage(ctx context.Context, sourceType, id string, doc *codec.Document) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.EnrichedIndexName(sourceType),
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document: %s", res.String())
	}
	return nil
}

// GetMessage fetches one enriched document by its id_str across all
// enriched indices. Returns nil when not found.
func (s *ElasticsearchStorage) GetMessage(ctx context.Context, id string) (map[string]any, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"id_str": id},
		},
		"size": 1,
	}
	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex("*"+s.enrichedSuffix),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("search message: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search message: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(searchResult.Hits.Hits) == 0 {
		return nil, nil
	}
	return searchResult.Hits.Hits[0].Source, nil
}

// UpdateRawStatus marks a raw message document with its enrichment outcome.
func (s *ElasticsearchStorage) UpdateRawStatus(ctx context.Context, index, id, status string, enrichedAt time.Time) error {
	update := map[string]any{
		"doc": map[string]any{
			"enrichment_status": status,
			"enriched_at":       enrichedAt.UTC().Format(time.RFC3339),
		},
	}
	updateBytes, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	res, err := s.client.Update(
		index,
		id,
		bytes.NewReader(updateBytes),
		s.client.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("update raw status: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("update raw status: %s", res.String())
	}
	return nil
}

// EnsureEnrichedIndex creates the enriched index for a source type with the
// message mapping, if it does not already exist.
func (s *ElasticsearchStorage) EnsureEnrichedIndex(ctx context.Context, sourceType string) error {
	index := s.EnrichedIndexName(sourceType)

	existsRes, err := s.client.Indices.Exists(
		[]string{index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	existsRes.Body.Close()
	if existsRes.StatusCode == 200 {
		return nil
	}

	mappingBytes, err := json.Marshal(NewMessageMapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	res, err := s.client.Indices.Create(
		index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(mappingBytes)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, res.String())
	}
	return nil
}

// EnrichedIndexName returns the enriched index for a source type.
func (s *ElasticsearchStorage) EnrichedIndexName(sourceType string) string {
	return strings.ToLower(sourceType) + s.enrichedSuffix
}

// TestConnection verifies the cluster responds.
func (s *ElasticsearchStorage) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elasticsearch info: %s", res.String())
	}
	return nil
}
