package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// mapDomainError converts application failures into the HTTP status and
// OperationOutcome issue every error surfaces as.
func mapDomainError(err error) (statusCode int, severity, issueCode, message string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "error", "invalid", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "error", "not-found", err.Error()
	case errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrCancelledTarget),
		errors.Is(err, domain.ErrProcessingFailed):
		return http.StatusBadRequest, "error", "processing", err.Error()
	default:
		return http.StatusInternalServerError, "error", "exception", "internal server error"
	}
}

func writeDomainError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	statusCode, severity, issueCode, message := mapDomainError(err)
	logHTTPOperationError(ctx, operation, statusCode, severity, message, err)
	writeOutcome(w, statusCode, severity, issueCode, message)
}

// writeParseError surfaces an unparseable request body as a fatal structure
// issue; these are never retried.
func writeParseError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, "fatal", err.Error(), err)
	writeOutcome(w, http.StatusBadRequest, "fatal", "structure", err.Error())
}

// identifierParams extracts the identifier/patient pair every read and delete
// is keyed by.
func identifierParams(r *http.Request) (id, patient string, ok bool) {
	q := r.URL.Query()
	id = q.Get("identifier")
	patient = q.Get("patient.identifier")
	return id, patient, id != "" && patient != ""
}
