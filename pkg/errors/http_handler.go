package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError renders err as a JSON error body. Errors outside the AppError
// taxonomy are reported as a generic internal error without leaking the cause.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	return json.NewEncoder(w).Encode(ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
