package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"museum_recommender/config"
	"museum_recommender/logger"
	"museum_recommender/models"
)

// ClusterService calls the external clustering classifier that buckets
// profiles for retrieval. When the collaborator is unreachable or not
// configured it falls back to a deterministic local bucket, so a dead
// classifier degrades retrieval quality instead of failing requests.
type ClusterService struct {
	cfg    *config.Config
	client *http.Client
}

type clusterResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		ClusterID string `json:"cluster_id"`
	} `json:"data"`
}

// NewClusterService builds the classifier client with the configured
// timeout.
func NewClusterService(cfg *config.Config) *ClusterService {
	timeout := time.Duration(cfg.Cluster.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClusterService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Classify posts the profile features to the classifier and returns
// the assigned cluster id.
func (s *ClusterService) Classify(p *models.PreferenceProfile) (string, error) {
	if s.cfg.Cluster.URL == "" {
		return localBucket(p), nil
	}

	payload := map[string]any{
		"group_size_class":   p.GroupSizeClass,
		"group_type":         p.GroupType,
		"knowledge_level":    p.KnowledgeLevel,
		"preferred_eras":     p.PreferredEras,
		"pacing_coefficient": p.PacingCoefficient,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", s.cfg.Cluster.URL, bytes.NewReader(b))
	if err != nil {
		logger.Warn("cluster classifier request failed, using local bucket", "error", err)
		return localBucket(p), nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.cfg.Cluster.APIKey))

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("cluster classifier unreachable, using local bucket", "error", err)
		return localBucket(p), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("cluster classifier error status, using local bucket", "status_code", resp.StatusCode)
		return localBucket(p), nil
	}

	var cr clusterResp
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		logger.Warn("cluster classifier response unreadable, using local bucket", "error", err)
		return localBucket(p), nil
	}
	if cr.Code != 0 || cr.Data.ClusterID == "" {
		logger.Warn("cluster classifier rejected profile, using local bucket", "code", cr.Code, "message", cr.Message)
		return localBucket(p), nil
	}

	return cr.Data.ClusterID, nil
}

// localBucket is the fallback bucketing: coarse but deterministic, so
// retrieval still narrows to plausibly similar groups.
func localBucket(p *models.PreferenceProfile) string {
	return fmt.Sprintf("%s-%d", p.GroupType, p.KnowledgeLevel)
}
