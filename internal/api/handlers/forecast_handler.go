// internal/api/handlers/forecast_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// GetForSKU handles GET /forecasts/:sku_id
func (h *ForecastHandler) GetForSKU(c *gin.Context) {
	skuID := strings.TrimSpace(c.Param("sku_id"))
	fromMonth := strings.TrimSpace(c.Query("from_month"))
	toMonth := strings.TrimSpace(c.Query("to_month"))

	forecasts, err := h.service.GetForSKU(c.Request.Context(), skuID, fromMonth, toMonth)
	if err != nil {
		respondError(c, err)
		return
	}
	if forecasts == nil {
		forecasts = make([]domain.Forecast, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"sku_id":    skuID,
		"forecasts": forecasts,
	})
}

// GetLatestRun handles GET /forecasts/runs/latest
func (h *ForecastHandler) GetLatestRun(c *gin.Context) {
	runID, err := h.service.LatestRunID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run_id": runID})
}
