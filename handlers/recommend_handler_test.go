package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum_recommender/config"
	"museum_recommender/db"
	"museum_recommender/models"
	"museum_recommender/repository"
	"museum_recommender/services"
)

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
	return cfg
}

// setupRouter wires the full stack over an in-memory store.
func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	require.NoError(t, db.InitSQLite(":memory:"))
	t.Cleanup(func() {
		if db.DB != nil {
			db.DB.Close()
		}
	})

	authors := []models.Author{
		{ID: 1, Name: "Claude Monet", EraIDs: []int{1860, 1870}, SimilarIDs: []int64{2}},
		{ID: 2, Name: "Pierre-Auguste Renoir", EraIDs: []int{1860}, SimilarIDs: []int64{1}},
	}
	artworks := []models.Artwork{
		{ID: 10, Title: "Water Lilies", AuthorID: 1, EraIDs: []int{1860}, Theme: "natural", BaseVisitMinutes: 10},
		{ID: 20, Title: "Bal du moulin", AuthorID: 2, EraIDs: []int{1870}, Theme: "social", BaseVisitMinutes: 8},
	}
	require.NoError(t, repository.SeedCatalog(authors, artworks))

	cfg := testConfig()
	catalog := models.NewCatalog(artworks)
	registry := models.NewAuthorRegistry(authors)
	classifier := services.NewClusterService(cfg) // no URL set, local buckets

	matcher := services.NewMatcherService(catalog, registry)
	cbr := services.NewCBRService(cfg, matcher, catalog, registry, nil, classifier)
	cf := services.NewCFService(cfg, catalog)
	rec := services.NewRecommenderService(cbr, cf, classifier)
	maint := services.NewMaintenanceService(cfg, cbr, 42)

	r := chi.NewRouter()
	RegisterRoutes(r, cfg, rec, maint)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestResolveProfileEndpoint(t *testing.T) {
	r := setupRouter(t)

	w, resp := postJSON(t, r, "/api/profile/resolve", models.Questionnaire{
		GroupID:        "g1",
		AdultCount:     2,
		ChildCount:     1,
		KnowledgeLevel: 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "family", data["group_type"])
	assert.Equal(t, 1.2, data["pacing_coefficient"])
}

func TestResolveProfileEndpointRejectsEmptyGroup(t *testing.T) {
	r := setupRouter(t)

	w, resp := postJSON(t, r, "/api/profile/resolve", models.Questionnaire{
		GroupID:        "g1",
		KnowledgeLevel: 2,
	})
	// Errors travel in the envelope code, not the HTTP status.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CodeInvalidParams, resp.Code)
}

func TestRetainThenRecommendFlow(t *testing.T) {
	r := setupRouter(t)

	profile := models.PreferenceProfile{
		GroupID:           "g1",
		GroupSizeClass:    2,
		GroupType:         models.GroupCasual,
		KnowledgeLevel:    2,
		PreferredEras:     []int{1860},
		PreferredAuthor:   "Claude Monet",
		PreferredThemes:   []string{"natural"},
		PacingCoefficient: 1.0,
	}

	w, resp := postJSON(t, r, "/api/cbr/retain", models.RetainRequest{
		Profile: profile,
		Outcome: models.VisitOutcome{
			VisitID:         "11111111-1111-1111-1111-111111111111",
			OrderedArtworks: []int64{10, 20},
			MatchScores:     []float64{10, 6},
			VisitedCount:    2,
			Rating:          4.5,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.CodeSuccess, resp.Code)

	w, resp = postJSON(t, r, "/api/recommend", profile)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["cbr"])
	assert.NotEmpty(t, data["cf"])
}

func TestCFRecommendUnknownGroup(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cf/recommend/ghost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CodeNoRatings, resp.Code)
}

func TestRetrieveEndpointEmptyCluster(t *testing.T) {
	r := setupRouter(t)

	profile := models.PreferenceProfile{
		GroupID:           "g9",
		GroupSizeClass:    1,
		GroupType:         models.GroupScholar,
		KnowledgeLevel:    4,
		PacingCoefficient: 1.5,
	}
	w, resp := postJSON(t, r, "/api/cbr/retrieve?k=2", profile)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CodeNoCases, resp.Code)
}

func TestMaintenanceEndpoint(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["updated"])
	assert.Equal(t, 0.0, data["forgotten"])
}
