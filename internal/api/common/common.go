// Package common holds the JSON response helpers shared by the API routers.
package common

import (
	"encoding/json"
	"net/http"

	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
)

// StatusNotReady is the status reported while no decoration database is stored
const StatusNotReady = "not_ready"

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteErrorResponse writes {"error": message}
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, map[string]string{"error": message}, statusCode)
}

// WriteNotReady writes the 503 returned while the database is being built
func WriteNotReady(w http.ResponseWriter) {
	WriteJSONResponse(w, map[string]string{"status": StatusNotReady}, http.StatusServiceUnavailable)
}
