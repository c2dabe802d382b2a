package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum_recommender/models"
	"museum_recommender/repository"
)

// stubClassifier buckets every profile the same way and records calls.
type stubClassifier struct {
	bucket string
	calls  int
}

func (s *stubClassifier) Classify(p *models.PreferenceProfile) (string, error) {
	s.calls++
	return s.bucket, nil
}

func newTestRecommender(t *testing.T, classifier ClusterClassifier) *RecommenderService {
	t.Helper()
	catalog, registry := testReferenceData()
	cfg := testConfig()
	matcher := NewMatcherService(catalog, registry)
	cbr := NewCBRService(cfg, matcher, catalog, registry, nil, classifier)
	cf := NewCFService(cfg, catalog)
	return NewRecommenderService(cbr, cf, classifier)
}

func TestRecommendNewGroupGetsEmptyCFRanking(t *testing.T) {
	setupTestDB(t)
	rec := newTestRecommender(t, &stubClassifier{bucket: "casual-2"})

	p := monetProfile()
	out, err := rec.Recommend(p)
	require.NoError(t, err)

	assert.Equal(t, "casual-2", p.ClusterID)
	assert.NotEmpty(t, out.CBR)
	assert.Empty(t, out.CF)
}

func TestRecommendKeepsSuppliedCluster(t *testing.T) {
	setupTestDB(t)
	classifier := &stubClassifier{bucket: "other"}
	rec := newTestRecommender(t, classifier)

	p := monetProfile()
	p.ClusterID = "pinned"
	_, err := rec.Recommend(p)
	require.NoError(t, err)

	assert.Equal(t, "pinned", p.ClusterID)
	assert.Zero(t, classifier.calls)
}

func TestRetainVisitFeedsBothStores(t *testing.T) {
	setupTestDB(t)
	rec := newTestRecommender(t, &stubClassifier{bucket: "casual-2"})

	p := monetProfile()
	outcome := &models.VisitOutcome{
		VisitID:         "cccccccc-cccc-cccc-cccc-cccccccccccc",
		OrderedArtworks: []int64{10, 20, 30},
		MatchScores:     []float64{10, 7, 5},
		VisitedCount:    2,
		Rating:          4.0,
	}

	caseID, err := rec.RetainVisit(p, outcome)
	require.NoError(t, err)
	require.Positive(t, caseID)

	c, err := repository.GetCaseByVisitID(outcome.VisitID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "casual-2", c.ClusterID)

	row, err := repository.GroupRatings(p.GroupID)
	require.NoError(t, err)
	// Only the visited prefix earns ratings.
	assert.Len(t, row, 2)
	assert.Contains(t, row, int64(10))
	assert.NotContains(t, row, int64(30))

	// The subsequent recommendation now has both rankings.
	out, err := rec.Recommend(monetProfile())
	require.NoError(t, err)
	assert.NotEmpty(t, out.CBR)
	assert.NotEmpty(t, out.CF)
}

func TestRetainVisitRejectsInvalidProfile(t *testing.T) {
	setupTestDB(t)
	rec := newTestRecommender(t, &stubClassifier{bucket: "casual-2"})

	p := monetProfile()
	p.KnowledgeLevel = 9
	_, err := rec.RetainVisit(p, &models.VisitOutcome{Rating: 4})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "knowledge_level", verr.Field)
}
