package response

import (
	"encoding/json"
	"net/http"

	"tradehub-api/pkg/apierror"
)

// JSON writes v as the response body with the given status code.
// Payloads are written unwrapped: the endpoint contracts fix exact
// body shapes like {"offers":[...]}.
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Error writes an error response. Non-API errors are masked as a
// generic internal error so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*apierror.Error)
	if !ok {
		apiErr = apierror.InternalError("an unexpected error occurred")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	w.Write(apiErr.ToJSON())
}
