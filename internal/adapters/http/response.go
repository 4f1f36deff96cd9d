package http

import (
	"encoding/json"
	"net/http"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

const fhirJSON = "application/fhir+json"

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

// writeResource emits a FHIR document, either a typed value or a stored raw
// JSON record.
func writeResource(w http.ResponseWriter, statusCode int, resource any) {
	w.Header().Set("Content-Type", fhirJSON)
	w.WriteHeader(statusCode)
	if raw, ok := resource.(json.RawMessage); ok {
		_, _ = w.Write(raw)
		return
	}
	_ = json.NewEncoder(w).Encode(resource)
}

// writeOutcome emits the structured error document every failure surfaces as.
func writeOutcome(w http.ResponseWriter, statusCode int, severity, code, diagnostics string) {
	writeResource(w, statusCode, domain.NewOperationOutcome(severity, code, diagnostics))
}
