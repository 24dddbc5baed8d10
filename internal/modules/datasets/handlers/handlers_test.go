package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/subsidywatch/internal/modules/datasets"
)

func setupHandler(t *testing.T, files map[string]string) (*chi.Mux, *datasets.Service, string) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	service := datasets.NewService(datasets.NewLoader(datasets.NewDirSource(dir), logger), logger)
	handler := NewHandler(service, logger)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router, service, dir
}

type infoResponse struct {
	Data struct {
		ID          string `json:"id"`
		Source      string `json:"source"`
		RecordCount int    `json:"record_count"`
		NameGroups  int    `json:"name_groups"`
		Files       []struct {
			Name string `json:"name"`
			Year int    `json:"year"`
		} `json:"files"`
	} `json:"data"`
}

var sampleFiles = map[string]string{
	"subsidies-2023.json": `[
		{"beneficiaryName": "OCMW Gent", "registrationId": "0212000001", "grantedAmount": "300"},
		{"beneficiaryName": "O.C.M.W. Gent", "registrationId": "0212000001", "grantedAmount": "1.200,00"}
	]`,
}

func TestHandleGetCurrent_NoSnapshot(t *testing.T) {
	router, _, _ := setupHandler(t, sampleFiles)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleReload(t *testing.T) {
	router, service, dir := setupHandler(t, sampleFiles)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp infoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "dir:"+dir, resp.Data.Source)
	assert.Equal(t, 2, resp.Data.RecordCount)
	require.Len(t, resp.Data.Files, 1)
	assert.Equal(t, 2023, resp.Data.Files[0].Year)

	snapshot, err := service.Current()
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, resp.Data.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/datasets/current", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var current infoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&current))
	assert.Equal(t, snapshot.ID, current.Data.ID)
}

func TestHandleReload_Failure(t *testing.T) {
	router, _, _ := setupHandler(t, map[string]string{
		"subsidies-2023.json": `{"broken": `,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp["error"], "subsidies-2023.json")
}

func TestReloadRequiresPost(t *testing.T) {
	router, _, _ := setupHandler(t, sampleFiles)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
