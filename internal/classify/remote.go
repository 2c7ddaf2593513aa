package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
)

// ErrUnavailable indicates the remote classifier service is unreachable.
var ErrUnavailable = errors.New("remote classifier unavailable")

const remoteTimeout = 10 * time.Second

// RemoteClassifier is an HTTP client for a classifier sidecar implementing
// POST /classify.
type RemoteClassifier struct {
	baseURL string
	client  *http.Client
}

// NewRemoteClassifier creates a client for the sidecar at baseURL.
func NewRemoteClassifier(baseURL string) *RemoteClassifier {
	return &RemoteClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: remoteTimeout},
	}
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteClassification struct {
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
}

type remoteResponse struct {
	Results map[string]remoteClassification `json:"results"`
}

// Classify sends the text to the sidecar. Contexts the sidecar does not
// answer for carry the none sentinel; unknown contexts in the response are
// ignored.
func (rc *RemoteClassifier) Classify(ctx context.Context, text string) (domain.ClassifierResult, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}

	result := emptyResult()
	for _, name := range domain.Contexts {
		rcls, ok := parsed.Results[string(name)]
		if !ok || rcls.Category == "" {
			continue
		}
		result[name] = domain.Classification{
			Category:    domain.ClassifierCategory(rcls.Category),
			Probability: rcls.Probability,
		}
	}
	return result, nil
}
