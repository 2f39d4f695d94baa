package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dvloznov/finance-analyzer/internal/api/middleware"
	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/schema"
)

// GetSchema handles GET /api/schemas/{kind} and returns the JSON Schema the
// model output for that kind must satisfy.
func GetSchema(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseDocumentKind(chi.URLParam(r, "kind"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := schema.For(kind)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, s)
}

// ListSchemas handles GET /api/schemas.
func ListSchemas(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]*schema.Schema, len(domain.DocumentKinds))
	for _, kind := range domain.DocumentKinds {
		out[string(kind)] = schema.MustFor(kind)
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}
