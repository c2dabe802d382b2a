package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"museum_recommender/config"
	"museum_recommender/logger"
)

// EmbeddingService calls the external sentence-embedding collaborator
// to score the similarity of two free-text group descriptions. Unlike
// the cluster classifier there is no local fallback: errors surface to
// the caller, which treats the signal as absent.
type EmbeddingService struct {
	cfg    *config.Config
	client *http.Client
}

type embeddingResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Similarity float64 `json:"similarity"`
	} `json:"data"`
}

// NewEmbeddingService builds the similarity client with the configured
// timeout.
func NewEmbeddingService(cfg *config.Config) *EmbeddingService {
	timeout := time.Duration(cfg.Embedding.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmbeddingService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Similarity returns the embedding similarity of two texts in [0,1].
func (s *EmbeddingService) Similarity(a, b string) (float64, error) {
	payload := map[string]any{
		"text_a": a,
		"text_b": b,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", s.cfg.Embedding.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.cfg.Embedding.APIKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("embedding service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logger.Warn("embedding service error", "status_code", resp.StatusCode, "response", string(raw))
		return 0, fmt.Errorf("embedding service error (HTTP %d)", resp.StatusCode)
	}

	var er embeddingResp
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return 0, fmt.Errorf("decode embedding response: %w", err)
	}
	if er.Code != 0 {
		return 0, fmt.Errorf("embedding service error: %s (code %d)", er.Message, er.Code)
	}

	sim := er.Data.Similarity
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}
