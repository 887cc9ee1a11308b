package response

import (
	"encoding/json"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJson(w, statusCode, APIResponse{Success: true, Data: data})
}

// Error writes the envelope for err. Anything that is not an AppError is
// reported as an internal error without its message.
func Error(w http.ResponseWriter, err error) {

	statusCode := http.StatusInternalServerError
	errorResponse := &ErrorResponse{
		Code:    errors.ErrCodeInternal,
		Message: "An unexpected error occurred",
	}

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}
	}

	_ = WriteJson(w, statusCode, APIResponse{Success: false, Error: errorResponse})
}
