package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/schemas", ListSchemas)
	r.Get("/api/schemas/{kind}", GetSchema)
	return r
}

func TestGetSchema(t *testing.T) {
	rec := httptest.NewRecorder()
	schemaRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schemas/payslip", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "object", body["type"])
	props := body["properties"].(map[string]any)
	assert.Contains(t, props, "deductions")
	assert.ElementsMatch(t, []any{"summary", "deductions", "insights"}, body["required"])
}

func TestGetSchema_UnknownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	schemaRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schemas/invoice", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSchemas(t *testing.T) {
	rec := httptest.NewRecorder()
	schemaRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schemas", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "statement")
	assert.Contains(t, body, "payslip")
}
