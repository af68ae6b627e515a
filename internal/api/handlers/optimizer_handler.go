// internal/api/handlers/optimizer_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/service"
)

type OptimizerHandler struct {
	service *service.OptimizerService
}

func NewOptimizerHandler(service *service.OptimizerService) *OptimizerHandler {
	return &OptimizerHandler{service: service}
}

// Run handles POST /optimizer/run
func (h *OptimizerHandler) Run(c *gin.Context) {
	var req service.RunOptimizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ref, recs, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_type":     string(ref.Type),
		"source_id":       ref.ID(),
		"from_month":      req.FromMonth,
		"to_month":        req.ToMonth,
		"total_policies":  len(recs),
		"recommendations": recs,
	})
}

// ListRecommendations handles GET /optimizer/recommendations
func (h *OptimizerHandler) ListRecommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := domain.RecommendationFilter{
		SKUID:      strings.TrimSpace(c.Query("sku_id")),
		SourceType: strings.TrimSpace(c.Query("source_type")),
		SourceID:   strings.TrimSpace(c.Query("source_id")),
		FromMonth:  strings.TrimSpace(c.Query("from_month")),
		ToMonth:    strings.TrimSpace(c.Query("to_month")),
		Limit:      limit,
	}

	recs, err := h.service.ListRecommendations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if recs == nil {
		recs = make([]domain.InventoryRecommendation, 0)
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
