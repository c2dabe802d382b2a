package models

// APIResponse is the common response envelope.
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// RecommendationResponse documents the hybrid recommendation payload.
type RecommendationResponse struct {
	Code    int                  `json:"code" example:"0"`
	Message string               `json:"message" example:"success"`
	Data    HybridRecommendation `json:"data"`
}

// RetainRequest is the POST body of the retain endpoint.
type RetainRequest struct {
	Profile PreferenceProfile `json:"profile"`
	Outcome VisitOutcome      `json:"outcome"`
}

// ReviseRequest is the POST body of the revise endpoint.
type ReviseRequest struct {
	Route       []RankedArtwork `json:"route"`
	DemoteTitle string          `json:"demote_title"`
}
