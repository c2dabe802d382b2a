package utils

import (
	"errors"
	"net/http"

	"museum_recommender/models"
)

// WriteTaxonomyError maps the core error taxonomy onto response codes:
// validation failures are client errors, missing reference data and
// empty case bases are soft no-data conditions, store failures are
// database errors.
func WriteTaxonomyError(w http.ResponseWriter, err error) {
	var (
		validation *models.ValidationError
		notFound   *models.NotFoundError
		emptyBase  *models.EmptyCaseBaseError
		store      *models.StoreError
	)
	switch {
	case errors.As(err, &validation):
		WriteCustomErrorResponse(w, models.CodeInvalidParams, validation.Error(), map[string]interface{}{})
	case errors.As(err, &notFound):
		WriteCustomErrorResponse(w, models.CodeNoRatings, notFound.Error(), map[string]interface{}{})
	case errors.As(err, &emptyBase):
		WriteCustomErrorResponse(w, models.CodeNoCases, emptyBase.Error(), map[string]interface{}{})
	case errors.As(err, &store):
		WriteCustomErrorResponse(w, models.CodeDatabaseError, store.Error(), map[string]interface{}{})
	default:
		WriteCustomErrorResponse(w, models.CodeServerError, err.Error(), map[string]interface{}{})
	}
}
