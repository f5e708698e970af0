package handlers

import (
	"net/http"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleGetSettings(c *gin.Context) {
	h.respondSettings(c)
}

func (h *Handler) handlePutSettings(c *gin.Context) {
	var req models.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewInvalidRequestError("request body must be a JSON object with an apiToken field"))
		return
	}

	token := h.validator.SanitizeToken(req.APIToken)
	if !h.validator.IsValidRealDebridToken(token) {
		respondError(c, apperrors.NewInvalidRequestError("API token format is invalid"))
		return
	}
	if h.services.DB == nil {
		respondError(c, apperrors.NewConfigurationError("settings store unavailable", nil))
		return
	}

	if err := h.services.DB.SetDebridToken(token); err != nil {
		h.services.Logger.Errorf("[SettingsHandler] failed to store token: %v", err)
		respondError(c, err)
		return
	}
	h.services.Logger.Infof("[SettingsHandler] stored API token %s", h.validator.MaskToken(token))

	h.respondSettings(c)
}

func (h *Handler) handleClearToken(c *gin.Context) {
	if h.services.DB == nil {
		respondError(c, apperrors.NewConfigurationError("settings store unavailable", nil))
		return
	}
	if err := h.services.DB.ClearDebridToken(); err != nil {
		h.services.Logger.Errorf("[SettingsHandler] failed to clear token: %v", err)
		respondError(c, err)
		return
	}
	h.services.Logger.Infof("[SettingsHandler] cleared stored API token")

	h.respondSettings(c)
}

func (h *Handler) respondSettings(c *gin.Context) {
	token, source, err := h.services.ResolveToken()
	if err != nil {
		h.services.Logger.Errorf("[SettingsHandler] failed to resolve token: %v", err)
		respondError(c, err)
		return
	}

	resp := models.SettingsResponse{
		TokenConfigured: token != "",
		TokenSource:     source,
	}
	if token != "" {
		resp.TokenMasked = h.validator.MaskToken(token)
	}
	c.JSON(http.StatusOK, resp)
}
