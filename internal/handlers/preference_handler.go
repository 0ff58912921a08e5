package handlers

import (
	"net/http"

	"restrolytics-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler exposes the operator preferences, currently just the
// dashboard theme.
type PreferenceHandler struct {
	preferences *services.PreferenceService
}

func NewPreferenceHandler(preferences *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

func (h *PreferenceHandler) RegisterRoutes(api *gin.RouterGroup) {
	prefs := api.Group("/preferences")
	{
		prefs.GET("/theme", h.GetTheme)
		prefs.PUT("/theme", h.SetTheme)
		prefs.POST("/theme/toggle", h.ToggleTheme)
	}
}

func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.preferences.Theme()})
}

type setThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	var req setThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.preferences.SetTheme(c.Request.Context(), req.Theme); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid theme",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": h.preferences.Theme()})
}

func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.preferences.ToggleTheme(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to persist theme",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
