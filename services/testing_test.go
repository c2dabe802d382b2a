package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"museum_recommender/config"
	"museum_recommender/db"
)

// testConfig mirrors the shipped defaults without touching config.yaml
// or the environment.
func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"
	cfg.Matcher.RouteLength = 50
	cfg.CBR.TopK = 3
	cfg.CBR.FreqWeight = 0.6
	cfg.CBR.MatchWeight = 0.3
	cfg.CBR.PositionWeight = 0.1
	cfg.CBR.DescThreshold = 0.75
	cfg.CBR.DescSteepness = 10
	cfg.CBR.ForgetThreshold = 0.2
	cfg.CF.Alpha = 0.5
	cfg.CF.Gamma = 1.0
	cfg.CF.Decay = 0.5
	cfg.CF.Similarity = "cosine"
	cfg.CF.RatingMin = 1
	cfg.CF.RatingMax = 5
	cfg.Maintenance.IntervalHours = 24
	cfg.Maintenance.CheckIntervalSec = 60
	return cfg
}

// setupTestDB swaps the shared handle for a throwaway in-memory store.
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, db.InitSQLite(":memory:"))
	t.Cleanup(func() {
		if db.DB != nil {
			db.DB.Close()
		}
	})
}
