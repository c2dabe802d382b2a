package services

import (
	"museum_recommender/models"
)

// ClusterClassifier assigns a profile to an opaque cluster bucket.
// Retrieval filters the case base on equality of this label; the label
// is never re-derived inside the core.
type ClusterClassifier interface {
	Classify(p *models.PreferenceProfile) (string, error)
}

// TextSimilarity scores two free-text descriptions in [0,1]. Optional:
// a nil collaborator means the description signal is simply not used.
type TextSimilarity interface {
	Similarity(a, b string) (float64, error)
}

// CaseReasoner is the four-phase case-based reasoning cycle.
type CaseReasoner interface {
	// Retrieve returns the top-k most similar stored cases from the
	// profile's cluster and bumps their usage counts.
	Retrieve(p *models.PreferenceProfile, k int) ([]models.RetrievedCase, error)

	// Reuse builds a ranked artwork route for the profile from the
	// retrieved cases and the content-matcher scores.
	Reuse(p *models.PreferenceProfile) ([]models.RankedArtwork, error)

	// Revise demotes one artwork to the end of the route.
	Revise(route []models.RankedArtwork, demoteTitle string) []models.RankedArtwork

	// Retain stores a concluded visit as a new case.
	Retain(p *models.PreferenceProfile, outcome *models.VisitOutcome) (int64, error)
}

// ItemRecommender is the collaborative-filtering side of the engine.
type ItemRecommender interface {
	// StoreGroupRatings derives per-artwork ratings from one visit
	// rating and folds them into the rating matrix.
	StoreGroupRatings(groupID string, orderedItems []int64, matches []float64, visitedCount int, globalRating float64) error

	// RecommendItems ranks the catalog for a group from the matrix.
	RecommendItems(groupID string) ([]models.RankedArtwork, error)
}
