package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	InitRuntimeConfig("http://localhost:11434", "nomic-embed-text")

	r := gin.New()
	r.GET("/api/settings/ollama", GetOllamaSettings)
	r.PUT("/api/settings/ollama", UpdateOllamaSettings)
	r.POST("/api/settings/ollama/test", TestOllamaConnection)
	return r
}

func TestUpdateOllamaSettingsTakesEffectImmediately(t *testing.T) {
	router := newSettingsRouter(t)

	body := `{"ollama_base_url":"http://embedder:11434","ollama_model":"mxbai-embed-large"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings/ollama", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://embedder:11434", GetRuntimeOllamaBaseURL())
	assert.Equal(t, "mxbai-embed-large", GetRuntimeOllamaModel())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/ollama", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "http://embedder:11434", resp["ollama_base_url"])
	assert.Equal(t, "mxbai-embed-large", resp["ollama_model"])
}

func TestUpdateOllamaSettingsKeepsModelWhenOmitted(t *testing.T) {
	router := newSettingsRouter(t)

	body := `{"ollama_base_url":"http://embedder:11434"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings/ollama", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nomic-embed-text", GetRuntimeOllamaModel())
}

func TestUpdateOllamaSettingsRequiresBaseURL(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings/ollama", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "http://localhost:11434", GetRuntimeOllamaBaseURL())
}

func TestOllamaConnectionEndpointUsesPostedURL(t *testing.T) {
	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer ollamaServer.Close()

	router := newSettingsRouter(t)

	body := `{"ollama_base_url":"` + ollamaServer.URL + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reachable bool   `json:"reachable"`
		BaseURL   string `json:"ollama_base_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Reachable)
	assert.Equal(t, ollamaServer.URL, resp.BaseURL)

	// The stored settings are untouched by a connection test
	assert.Equal(t, "http://localhost:11434", GetRuntimeOllamaBaseURL())
}

func TestOllamaConnectionEndpointReportsUnreachable(t *testing.T) {
	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ollamaServer.Close()

	router := newSettingsRouter(t)

	body := `{"ollama_base_url":"` + ollamaServer.URL + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reachable bool `json:"reachable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Reachable)
}
