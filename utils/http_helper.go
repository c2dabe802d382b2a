package utils

import (
	"encoding/json"
	"net/http"

	"museum_recommender/models"
)

// WriteFormattedJSON writes indented JSON for readability.
func WriteFormattedJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.Encode(data)
}

// WriteSuccessResponse writes a success envelope.
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, models.NewSuccessResponse(data))
}

// WriteErrorResponse writes an error envelope with the default message.
func WriteErrorResponse(w http.ResponseWriter, code int, data interface{}) {
	WriteFormattedJSON(w, models.NewErrorResponse(code, data))
}

// WriteCustomErrorResponse writes an error envelope with a custom message.
func WriteCustomErrorResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	WriteFormattedJSON(w, models.NewCustomErrorResponse(code, message, data))
}

// ValidateGroupID checks the groupID path parameter.
func ValidateGroupID(w http.ResponseWriter, groupID string) bool {
	if groupID == "" {
		WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{
			"param": "groupID",
		})
		return false
	}
	return true
}

// DecodeJSONBody parses a request body into dst, answering with an
// invalid-params envelope on failure.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, "invalid JSON body: "+err.Error(), map[string]interface{}{})
		return false
	}
	return true
}
