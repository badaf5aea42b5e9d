package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reactsense/internal/model"
)

type SettingsResponse struct {
	HumeAPIKeySet    bool `json:"humeApiKeySet"`
	ForceMock        bool `json:"forceMock"`
	StreamingEnabled bool `json:"streamingEnabled"`
}

type UpdateSettingsRequest struct {
	HumeAPIKey       *string `json:"humeApiKey,omitempty"`
	ForceMock        *bool   `json:"forceMock,omitempty"`
	StreamingEnabled *bool   `json:"streamingEnabled,omitempty"`
}

// handleGetSettings reports the effective analysis settings. The API key
// itself is never returned.
func (s *Server) handleGetSettings(c *gin.Context) {
	apiKey, err := model.GetSetting(model.SettingHumeAPIKey)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if apiKey == "" {
		apiKey = s.conf.Hume.APIKey
	}

	c.JSON(http.StatusOK, SettingsResponse{
		HumeAPIKeySet:    apiKey != "",
		ForceMock:        model.GetBoolSetting(model.SettingForceMock, s.conf.Hume.ForceMock),
		StreamingEnabled: model.GetBoolSetting(model.SettingStreamingEnabled, s.conf.Hume.StreamingEnabled),
	})
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	set := func(key, value string) bool {
		if err := model.SetSetting(key, value); err != nil {
			s.writeError(c, http.StatusInternalServerError, err)
			return false
		}
		return true
	}

	if req.HumeAPIKey != nil && !set(model.SettingHumeAPIKey, *req.HumeAPIKey) {
		return
	}
	if req.ForceMock != nil && !set(model.SettingForceMock, boolString(*req.ForceMock)) {
		return
	}
	if req.StreamingEnabled != nil && !set(model.SettingStreamingEnabled, boolString(*req.StreamingEnabled)) {
		return
	}

	s.handleGetSettings(c)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
