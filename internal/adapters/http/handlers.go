package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

// submit handles POST /Claim/$submit: one submission envelope in, one
// response envelope out, with a Location header pointing at the stored
// ClaimResponse when a new record was produced.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var bundle domain.Bundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		writeParseError(r.Context(), w, "claim_submit", err)
		return
	}

	result, err := h.service.Submit(r.Context(), bundle)
	if err != nil {
		writeDomainError(r.Context(), w, "claim_submit", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/ClaimResponse?identifier=%s&patient.identifier=%s",
		h.baseURL, result.ResponseID, result.Patient))
	writeResource(w, http.StatusCreated, result.ResponseBundle)
}

func (h *Handler) readClaim(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	claim, err := h.service.GetClaim(r.Context(), id, patient, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(r.Context(), w, "claim_read", err)
		return
	}
	writeResource(w, http.StatusOK, json.RawMessage(claim.Resource))
}

func (h *Handler) deleteClaim(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	if err := h.service.DeleteClaim(r.Context(), id, patient); err != nil {
		writeDomainError(r.Context(), w, "claim_delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readClaimResponse(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	response, err := h.service.GetClaimResponse(r.Context(), id, patient)
	if err != nil {
		writeDomainError(r.Context(), w, "claim_response_read", err)
		return
	}
	writeResource(w, http.StatusOK, json.RawMessage(response.Resource))
}

func (h *Handler) deleteClaimResponse(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	if err := h.service.DeleteClaimResponse(r.Context(), id, patient); err != nil {
		writeDomainError(r.Context(), w, "claim_response_delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readBundle(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	bundle, err := h.service.GetBundle(r.Context(), id, patient)
	if err != nil {
		writeDomainError(r.Context(), w, "bundle_read", err)
		return
	}
	writeResource(w, http.StatusOK, json.RawMessage(bundle.Resource))
}

func (h *Handler) deleteBundle(w http.ResponseWriter, r *http.Request) {
	id, patient, ok := identifierParams(r)
	if !ok {
		writeOutcome(w, http.StatusBadRequest, "error", "invalid", "identifier and patient.identifier are required")
		return
	}
	if err := h.service.DeleteBundle(r.Context(), id, patient); err != nil {
		writeDomainError(r.Context(), w, "bundle_delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
