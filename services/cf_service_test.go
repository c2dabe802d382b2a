package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum_recommender/models"
	"museum_recommender/repository"
)

func TestDeriveItemRatingsSpreadAroundVisitRating(t *testing.T) {
	cf := NewCFService(testConfig(), models.NewCatalog(nil))

	// Three artworks on the route, two visited, overall rating 4.0.
	items, ratings := cf.DeriveItemRatings([]int64{10, 20, 30}, []float64{3, 2, 1}, 2, 4.0)
	require.Equal(t, []int64{10, 20}, items)
	require.Len(t, ratings, 2)

	// Item 10 holds 3/5 of the visited match mass, above the even
	// split, so it lands above the visit rating; item 20 below it but
	// never under the 70% floor.
	assert.InDelta(t, 4.0+(0.6-0.5), ratings[0], 1e-9)
	assert.Less(t, ratings[1], 4.0)
	assert.GreaterOrEqual(t, ratings[1], 0.7*4.0)
}

func TestDeriveItemRatingsEdges(t *testing.T) {
	cf := NewCFService(testConfig(), models.NewCatalog(nil))

	items, ratings := cf.DeriveItemRatings([]int64{10, 20}, []float64{1, 1}, 0, 4.0)
	assert.Nil(t, items)
	assert.Nil(t, ratings)

	// Zero total match mass falls back to an even split: every rating
	// equals the visit rating.
	items, ratings = cf.DeriveItemRatings([]int64{10, 20}, []float64{0, 0}, 2, 3.5)
	require.Equal(t, []int64{10, 20}, items)
	for _, r := range ratings {
		assert.InDelta(t, 3.5, r, 1e-9)
	}

	// A dominant share is capped at the rating ceiling.
	big := testConfig()
	big.CF.Gamma = 10
	cf = NewCFService(big, models.NewCatalog(nil))
	_, ratings = cf.DeriveItemRatings([]int64{10, 20}, []float64{9, 1}, 2, 4.5)
	assert.Equal(t, 5.0, ratings[0])
}

func TestGroupSimilarityCosine(t *testing.T) {
	cf := NewCFService(testConfig(), models.NewCatalog(nil))

	a := map[int64]float64{1: 4, 2: 3, 3: 5}
	assert.Zero(t, cf.GroupSimilarity(a, map[int64]float64{7: 4, 8: 2}))
	assert.InDelta(t, 1.0, cf.GroupSimilarity(a, a), 1e-9)

	// Proportional vectors are still a perfect cosine match.
	b := map[int64]float64{1: 2, 2: 1.5, 3: 2.5}
	assert.InDelta(t, 1.0, cf.GroupSimilarity(a, b), 1e-9)
}

func TestGroupSimilarityPearson(t *testing.T) {
	cfg := testConfig()
	cfg.CF.Similarity = "pearson"
	cf := NewCFService(cfg, models.NewCatalog(nil))

	up := map[int64]float64{1: 1, 2: 2, 3: 3}
	down := map[int64]float64{1: 3, 2: 2, 3: 1}
	assert.InDelta(t, 1.0, cf.GroupSimilarity(up, up), 1e-9)
	assert.InDelta(t, 0.0, cf.GroupSimilarity(up, down), 1e-9)

	// A single common item never yields a correlation.
	assert.Zero(t, cf.GroupSimilarity(map[int64]float64{1: 4}, map[int64]float64{1: 4}))
}

func TestStoreGroupRatingsValidation(t *testing.T) {
	cf := NewCFService(testConfig(), models.NewCatalog(nil))

	var verr *models.ValidationError
	err := cf.StoreGroupRatings("", []int64{1}, []float64{1}, 1, 4)
	require.ErrorAs(t, err, &verr)

	err = cf.StoreGroupRatings("g1", []int64{1, 2}, []float64{1}, 1, 4)
	require.ErrorAs(t, err, &verr)

	err = cf.StoreGroupRatings("g1", []int64{1}, []float64{1}, 1, 5.5)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Field)

	err = cf.StoreGroupRatings("g1", []int64{1}, []float64{1}, 2, 4)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "visited_count", verr.Field)
}

func TestStoreGroupRatingsDecayBlend(t *testing.T) {
	setupTestDB(t)
	cf := NewCFService(testConfig(), models.NewCatalog(nil))

	require.NoError(t, cf.StoreGroupRatings("g1", []int64{10}, []float64{1}, 1, 4.0))
	require.NoError(t, cf.StoreGroupRatings("g1", []int64{10}, []float64{1}, 1, 2.0))

	row, err := repository.GroupRatings("g1")
	require.NoError(t, err)
	// decay 0.5, one prior visit: 0.5*4 + 0.5*2
	assert.InDelta(t, 3.0, row[10], 1e-9)
}

func TestRecommendItemsRanksAndSorts(t *testing.T) {
	setupTestDB(t)
	catalog, _ := testReferenceData()
	cf := NewCFService(testConfig(), catalog)

	seed := map[string]map[int64]float64{
		"g1": {10: 5, 20: 4},
		"g2": {10: 5, 20: 4, 30: 5, 40: 2},
		"g3": {10: 4, 20: 3, 30: 4.5},
	}
	for g, row := range seed {
		for item, r := range row {
			require.NoError(t, repository.UpsertRating(g, item, r, 0))
		}
	}

	ranked, err := cf.RecommendItems("g1")
	require.NoError(t, err)
	require.Len(t, ranked, catalog.Len())
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	// g1's neighbors both love artwork 30, which g1 has not rated yet;
	// it must outrank artwork 40, which only g2 rated and poorly.
	pos := map[int64]int{}
	for i, r := range ranked {
		pos[r.ArtworkID] = i
	}
	assert.Less(t, pos[30], pos[40])
}

func TestRecommendItemsUnknownGroup(t *testing.T) {
	setupTestDB(t)
	catalog, _ := testReferenceData()
	cf := NewCFService(testConfig(), catalog)

	_, err := cf.RecommendItems("nobody")
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.Key)
}
