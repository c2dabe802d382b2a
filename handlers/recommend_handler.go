package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"museum_recommender/config"
	_ "museum_recommender/docs" // swagger docs
	"museum_recommender/models"
	"museum_recommender/services"
	"museum_recommender/utils"
)

// ResolveProfileHandler godoc
// @Summary Resolve a questionnaire into a preference profile
// @Description Normalizes raw questionnaire answers into the validated preference profile used by all recommendation endpoints
// @Tags profile
// @Accept json
// @Produce json
// @Param questionnaire body models.Questionnaire true "Raw questionnaire"
// @Success 200 {object} models.APIResponse "success"
// @Failure 400 {object} models.APIResponse "invalid questionnaire"
// @Router /api/profile/resolve [post]
func ResolveProfileHandler(w http.ResponseWriter, r *http.Request) {
	var q models.Questionnaire
	if !utils.DecodeJSONBody(w, r, &q) {
		return
	}
	profile, err := services.ResolveProfile(&q)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, profile)
}

// RecommendHandler godoc
// @Summary Hybrid recommendation for a profile
// @Description Returns the case-based and the collaborative ranking side by side, both keyed by artwork id
// @Tags recommend
// @Accept json
// @Produce json
// @Param profile body models.PreferenceProfile true "Preference profile"
// @Success 200 {object} models.RecommendationResponse "success"
// @Failure 400 {object} models.APIResponse "invalid profile"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/recommend [post]
func RecommendHandler(w http.ResponseWriter, r *http.Request, rec *services.RecommenderService) {
	var profile models.PreferenceProfile
	if !utils.DecodeJSONBody(w, r, &profile) {
		return
	}
	result, err := rec.Recommend(&profile)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// RetrieveHandler godoc
// @Summary Retrieve the most similar stored cases
// @Description Returns the top-k cases of the profile's cluster ranked by similarity times stored rating
// @Tags cbr
// @Accept json
// @Produce json
// @Param profile body models.PreferenceProfile true "Preference profile"
// @Param k query int false "Number of cases (default from config)"
// @Success 200 {object} models.APIResponse "success"
// @Failure 400 {object} models.APIResponse "invalid profile"
// @Router /api/cbr/retrieve [post]
func RetrieveHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config, rec *services.RecommenderService) {
	var profile models.PreferenceProfile
	if !utils.DecodeJSONBody(w, r, &profile) {
		return
	}
	k := cfg.CBR.TopK
	if v := r.URL.Query().Get("k"); v != "" {
		if parsed, ok := parsePositiveInt(v); ok {
			k = parsed
		}
	}
	cases, err := rec.Retrieve(&profile, k)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, cases)
}

// ReuseHandler godoc
// @Summary Build a route for a profile from prior cases
// @Description Fuses case visit frequency, visit position and content match score into one ranked artwork route
// @Tags cbr
// @Accept json
// @Produce json
// @Param profile body models.PreferenceProfile true "Preference profile"
// @Success 200 {object} models.APIResponse "success"
// @Failure 400 {object} models.APIResponse "invalid profile"
// @Router /api/cbr/reuse [post]
func ReuseHandler(w http.ResponseWriter, r *http.Request, rec *services.RecommenderService) {
	var profile models.PreferenceProfile
	if !utils.DecodeJSONBody(w, r, &profile) {
		return
	}
	route, err := rec.Reuse(&profile)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, route)
}

// ReviseHandler godoc
// @Summary Demote one artwork to the end of a route
// @Description Honors explicit negative feedback about an artwork without removing it from the route
// @Tags cbr
// @Accept json
// @Produce json
// @Param request body models.ReviseRequest true "Route and artwork title to demote"
// @Success 200 {object} models.APIResponse "success"
// @Router /api/cbr/revise [post]
func ReviseHandler(w http.ResponseWriter, r *http.Request, rec *services.RecommenderService) {
	var req models.ReviseRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}
	utils.WriteSuccessResponse(w, rec.Revise(req.Route, req.DemoteTitle))
}

// RetainHandler godoc
// @Summary Store a concluded visit
// @Description Writes the visit outcome into the case base and the rating matrix; retries with the same visit UUID are no-ops
// @Tags cbr
// @Accept json
// @Produce json
// @Param request body models.RetainRequest true "Profile and visit outcome"
// @Success 200 {object} models.APIResponse "success"
// @Failure 400 {object} models.APIResponse "invalid profile or outcome"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/cbr/retain [post]
func RetainHandler(w http.ResponseWriter, r *http.Request, rec *services.RecommenderService) {
	var req models.RetainRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}
	caseID, err := rec.RetainVisit(&req.Profile, &req.Outcome)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"case_id": caseID,
	})
}

// CFRecommendHandler godoc
// @Summary Collaborative ranking for a group
// @Description Blends user-based and item-based predictions from the rating matrix into one ranked artwork list
// @Tags recommend
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} models.APIResponse "success"
// @Failure 400 {object} models.APIResponse "missing group id"
// @Failure 404 {object} models.APIResponse "no ratings for this group"
// @Router /api/cf/recommend/{groupID} [get]
func CFRecommendHandler(w http.ResponseWriter, r *http.Request, rec *services.RecommenderService) {
	groupID := chi.URLParam(r, "groupID")
	if !utils.ValidateGroupID(w, groupID) {
		return
	}
	ranked, err := rec.RecommendItems(groupID)
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, ranked)
}

// MaintenanceHandler godoc
// @Summary Run case-base maintenance now
// @Description Recomputes utility and redundancy for every case and forgets the ones at or below the threshold
// @Tags maintenance
// @Produce json
// @Success 200 {object} models.APIResponse "success"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/maintenance/run [post]
func MaintenanceHandler(w http.ResponseWriter, r *http.Request, maint *services.MaintenanceService) {
	updated, forgotten, err := maint.RunOnce()
	if err != nil {
		utils.WriteTaxonomyError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"updated":   updated,
		"forgotten": forgotten,
	})
}

func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// RegisterRoutes mounts every handler on the router.
func RegisterRoutes(r *chi.Mux, cfg *config.Config, rec *services.RecommenderService, maint *services.MaintenanceService) {
	// Swagger docs
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/api/profile/resolve", ResolveProfileHandler)

	r.Post("/api/recommend", func(w http.ResponseWriter, req *http.Request) {
		RecommendHandler(w, req, rec)
	})

	r.Post("/api/cbr/retrieve", func(w http.ResponseWriter, req *http.Request) {
		RetrieveHandler(w, req, cfg, rec)
	})

	r.Post("/api/cbr/reuse", func(w http.ResponseWriter, req *http.Request) {
		ReuseHandler(w, req, rec)
	})

	r.Post("/api/cbr/revise", func(w http.ResponseWriter, req *http.Request) {
		ReviseHandler(w, req, rec)
	})

	r.Post("/api/cbr/retain", func(w http.ResponseWriter, req *http.Request) {
		RetainHandler(w, req, rec)
	})

	r.Get("/api/cf/recommend/{groupID}", func(w http.ResponseWriter, req *http.Request) {
		CFRecommendHandler(w, req, rec)
	})

	r.Post("/api/maintenance/run", func(w http.ResponseWriter, req *http.Request) {
		MaintenanceHandler(w, req, maint)
	})
}
