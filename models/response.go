package models

// Response codes
const (
	CodeSuccess = 0

	// Client errors (1000-1999)
	CodeInvalidParams = 1000
	CodeMissingParams = 1001
	CodeGroupNotFound = 1002
	CodeNoCases       = 1003
	CodeNoRatings     = 1004

	// Server errors (2000-2999)
	CodeServerError   = 2000
	CodeDatabaseError = 2001
	CodeRecommendErr  = 2003
	CodeExternalAPI   = 2005
)

// CodeMessages maps response codes to their default message.
var CodeMessages = map[int]string{
	CodeSuccess:       "success",
	CodeInvalidParams: "invalid parameters",
	CodeMissingParams: "missing required parameters",
	CodeGroupNotFound: "group not found",
	CodeNoCases:       "no stored cases for this cluster",
	CodeNoRatings:     "no ratings for this group",
	CodeServerError:   "internal server error",
	CodeDatabaseError: "database error",
	CodeRecommendErr:  "recommendation error",
	CodeExternalAPI:   "external service error",
}

// NewSuccessResponse builds a success envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope with the default message.
func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "unknown error"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewCustomErrorResponse builds an error envelope with a custom message.
func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
