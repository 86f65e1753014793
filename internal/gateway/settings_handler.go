package gateway

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maktub/internal/model"
)

// SettingsFetcher loads the dropdown vocabularies from the letter store.
type SettingsFetcher interface {
	FetchSettings(ctx context.Context) (model.Settings, error)
}

type SettingsHandler struct {
	fetcher SettingsFetcher
	logger  *zap.Logger
}

func NewSettingsHandler(fetcher SettingsFetcher, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{fetcher: fetcher, logger: logger}
}

// GetSettings serves GET /api/settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.fetcher.FetchSettings(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load settings", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
