package api

import (
	"net/http"
	"sync"

	"github.com/gagangborneo/chatzwa-sub002/pkg/ollama"

	"github.com/gin-gonic/gin"
)

// ollamaSettings is the embedding configuration that can be changed while the
// service is running. The embedding client reads it on every request through
// the getter functions below, so a PUT takes effect immediately.
type ollamaSettings struct {
	BaseURL string `json:"ollama_base_url"`
	Model   string `json:"ollama_model,omitempty"`
}

var (
	settingsMu      sync.RWMutex
	currentSettings ollamaSettings
)

// InitRuntimeConfig seeds the mutable settings from the environment-derived
// startup values. Called once by NewHandler.
func InitRuntimeConfig(ollamaBaseURL, ollamaModel string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	currentSettings = ollamaSettings{
		BaseURL: ollamaBaseURL,
		Model:   ollamaModel,
	}
}

// GetRuntimeOllamaBaseURL is the base-URL getter handed to the embedding client.
func GetRuntimeOllamaBaseURL() string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return currentSettings.BaseURL
}

// GetRuntimeOllamaModel is the model getter handed to the embedding client.
func GetRuntimeOllamaModel() string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return currentSettings.Model
}

// UpdateOllamaSettingsRequest is the PUT body. A missing model keeps the
// current one.
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings reports the embedding settings currently in effect.
// GET /api/settings/ollama
func GetOllamaSettings(c *gin.Context) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": currentSettings.BaseURL,
		"ollama_model":    currentSettings.Model,
	})
}

// UpdateOllamaSettings swaps the embedding settings without a restart.
// PUT /api/settings/ollama
func UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settingsMu.Lock()
	currentSettings.BaseURL = req.OllamaBaseURL
	if req.OllamaModel != "" {
		currentSettings.Model = req.OllamaModel
	}
	settingsMu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": GetRuntimeOllamaBaseURL(),
		"ollama_model":    GetRuntimeOllamaModel(),
	})
}

// TestOllamaConnection pings an Ollama instance without persisting anything.
// Posted values win over the stored ones, so a candidate URL can be checked
// before committing it.
// POST /api/settings/ollama/test
func TestOllamaConnection(c *gin.Context) {
	var req ollamaSettings
	_ = c.ShouldBindJSON(&req)

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = GetRuntimeOllamaBaseURL()
	}
	model := req.Model
	if model == "" {
		model = GetRuntimeOllamaModel()
	}

	client := ollama.NewClient(baseURL, model)
	if err := client.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"reachable": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reachable":       true,
		"ollama_base_url": baseURL,
		"ollama_model":    model,
	})
}
