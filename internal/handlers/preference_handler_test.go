package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrolytics-backend/internal/services"
)

func setupPreferenceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPreferenceHandler(services.NewPreferenceService(nil))
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestGetThemeDefault(t *testing.T) {
	router := setupPreferenceRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/preferences/theme", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "dark", body["theme"])
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	router := setupPreferenceRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/preferences/theme", strings.NewReader(`{"theme":"sepia"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleThemeEndpoint(t *testing.T) {
	router := setupPreferenceRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/preferences/theme/toggle", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "light", body["theme"])
}
