package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tubbz-alt/prior-auth/internal/application"
)

// Handler is the HTTP adapter entrypoint for the claim workflow. Keeping only
// the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
	baseURL string
}

// NewHandler constructs an HTTP handler bound to the application service.
// baseURL feeds the Location header on successful submissions.
func NewHandler(service *application.Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: baseURL}
}

// NewRouter registers the FHIR-facing routes and middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/Claim", func(r chi.Router) {
		r.Post("/$submit", handler.submit)
		r.Get("/", handler.readClaim)
		r.Delete("/", handler.deleteClaim)
	})
	r.Route("/ClaimResponse", func(r chi.Router) {
		r.Get("/", handler.readClaimResponse)
		r.Delete("/", handler.deleteClaimResponse)
	})
	r.Route("/Bundle", func(r chi.Router) {
		r.Get("/", handler.readBundle)
		r.Delete("/", handler.deleteBundle)
	})

	return r
}
