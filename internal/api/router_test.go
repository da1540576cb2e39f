package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreuzberg-io/kreuzberg/internal/api/middleware"
	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"github.com/kreuzberg-io/kreuzberg/internal/extract"
	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

func testRouter(set *store.Set) http.Handler {
	return SetupRouter(set, extract.NewPipeline(), "test", middleware.CORSConfig{AllowAllOrigins: true})
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := make(map[string]json.RawMessage)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestFormatsEndpoint(t *testing.T) {
	h := testRouter(&store.Set{Required: map[domain.TargetName]bool{}})

	rec, body := get(t, h, "/api/v1/formats")
	require.Equal(t, http.StatusOK, rec.Code)

	var types []string
	require.NoError(t, json.Unmarshal(body["mime_types"], &types))
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/html")
}

func TestTargetsEndpointListsAllKnown(t *testing.T) {
	h := testRouter(&store.Set{Required: map[domain.TargetName]bool{}})

	rec, body := get(t, h, "/api/v1/targets")
	require.Equal(t, http.StatusOK, rec.Code)

	var targets []struct {
		Target     domain.TargetName `json:"target"`
		Configured bool              `json:"configured"`
	}
	require.NoError(t, json.Unmarshal(body["targets"], &targets))
	// Every supported target is listed even with nothing configured.
	require.Len(t, targets, len(domain.KnownTargets()))
	for _, target := range targets {
		assert.False(t, target.Configured, "target %s", target.Target)
	}
}

func TestJobsEndpointWithoutRecorder(t *testing.T) {
	h := testRouter(&store.Set{Required: map[domain.TargetName]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
