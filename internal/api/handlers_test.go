//nolint:testpackage // testing internal handler wiring
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/enrichment/internal/classify"
	"github.com/jonesrussell/north-cloud/enrichment/internal/codec"
	"github.com/jonesrussell/north-cloud/enrichment/internal/enricher"
	"github.com/jonesrussell/north-cloud/enrichment/internal/geo"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
)

type mockStorage struct {
	messages map[string]map[string]any
	pingErr  error
}

func (m *mockStorage) GetMessage(_ context.Context, id string) (map[string]any, error) {
	return m.messages[id], nil
}

func (m *mockStorage) TestConnection(context.Context) error {
	return m.pingErr
}

func newTestRouter(t *testing.T, store Storage) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gaz := geo.NewGazetteer(nil)
	enr := enricher.New(
		classify.NewRuleClassifier(classify.DefaultRules(), nil),
		gaz, enricher.Config{}, nil, nil)
	handler := NewHandler(
		codec.NewDecoder(enr, nil),
		codec.NewEncoder(gaz),
		codec.EncodeOptions{},
		store, nil, logger.NewNop())

	router := gin.New()
	SetupRoutes(router, handler)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEnrich_DerivedResponse(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/enrich", map[string]any{
		"text":     "check this https://youtube.com/xyz out @alice #fun",
		"id_str":   "42",
		"provider": "x",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc["links_count"] != float64(1) {
		t.Errorf("links_count: got %v", doc["links_count"])
	}
	if doc["mentions_count"] != float64(1) {
		t.Errorf("mentions_count: got %v", doc["mentions_count"])
	}
	if doc["hashtags_count"] != float64(1) {
		t.Errorf("hashtags_count: got %v", doc["hashtags_count"])
	}
	if doc["without_l_len"] != float64(26) {
		t.Errorf("without_l_len: got %v", doc["without_l_len"])
	}
	if doc["id_str"] != "42" {
		t.Errorf("id_str: got %v", doc["id_str"])
	}
}

func TestEnrich_HTMLEntitiesDecodedFirst(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/enrich", map[string]any{
		"text": "fish &amp; chips",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var doc map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &doc)

	text, _ := doc["text"].(map[string]any)
	if text["text"] != "fish & chips" {
		t.Errorf("text: got %v", text["text"])
	}
}

func TestEnrich_LeanResponse(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/enrich?derived=false", map[string]any{
		"text": "hello @alice",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var doc map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &doc)

	if _, ok := doc["mentions"]; ok {
		t.Error("derived field present in lean response")
	}
	if _, ok := doc["text_length"]; ok {
		t.Error("derived field present in lean response")
	}
}

func TestEnrich_BadBody(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewBufferString("[1,2]"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestEnrichBatch(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/enrich/batch", EnrichBatchRequest{
		Messages: []map[string]any{
			{"text": "first message @alice"},
			{"text": "second message #news"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var resp EnrichBatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 2 || resp.Success != 2 || resp.Failed != 0 {
		t.Errorf("counts: got %d/%d/%d", resp.Total, resp.Success, resp.Failed)
	}
}

func TestEnrichBatch_EmptyRejected(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/enrich/batch", EnrichBatchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestGetMessage(t *testing.T) {
	store := &mockStorage{messages: map[string]map[string]any{
		"42": {"id_str": "42", "screen_name": "alice"},
	}}
	router := newTestRouter(t, store)

	w := doJSON(router, http.MethodGet, "/api/v1/messages/42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var doc map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if doc["screen_name"] != "alice" {
		t.Errorf("body: got %v", doc)
	}

	w = doJSON(router, http.MethodGet, "/api/v1/messages/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id status: got %d", w.Code)
	}
}

func TestDecodeText(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/text/decode", DecodeTextRequest{
		Text: "a &amp; b &#233;",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp DecodeTextResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "a & b é" {
		t.Errorf("text: got %q", resp.Text)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" || resp["service"] != "enrichment" {
		t.Errorf("body: got %v", resp)
	}
}

func TestReadyCheck(t *testing.T) {
	router := newTestRouter(t, &mockStorage{})
	w := doJSON(router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}

	router = newTestRouter(t, &mockStorage{pingErr: errors.New("connection refused")})
	w = doJSON(router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", w.Code)
	}
}
