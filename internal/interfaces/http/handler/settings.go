package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/lababil/pos/internal/application/settings"
)

// SettingsHandler exposes the company and printing settings
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get godoc
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settingsapp.SettingsResponse}
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.settingsService.GetResponse(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Replace godoc
// @Summary      Replace settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsapp.SettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=settingsapp.SettingsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Replace(c *gin.Context) {
	var req settingsapp.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.settingsService.Replace(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reset godoc
// @Summary      Reset settings to defaults
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settingsapp.SettingsResponse}
// @Security     BearerAuth
// @Router       /settings/reset [post]
func (h *SettingsHandler) Reset(c *gin.Context) {
	resp, err := h.settingsService.Reset(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
