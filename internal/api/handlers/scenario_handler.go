// internal/api/handlers/scenario_handler.go
package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/service"
)

type ScenarioHandler struct {
	service *service.ScenarioService
}

func NewScenarioHandler(service *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

// CreateScenario handles POST /scenarios
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
	var req service.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	header, results, err := h.service.CreateUpliftScenario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	skuSet := make(map[string]struct{}, len(results))
	for _, r := range results {
		skuSet[r.SKUID] = struct{}{}
	}
	skuIDs := make([]string, 0, len(skuSet))
	for sku := range skuSet {
		skuIDs = append(skuIDs, sku)
	}
	sort.Strings(skuIDs)

	c.JSON(http.StatusOK, gin.H{
		"scenario_id":    header.ScenarioID,
		"name":           header.Name,
		"status":         header.Status,
		"base_run_id":    header.BaseRunID,
		"uplift_percent": header.UpliftPercent,
		"from_month":     req.FromMonth,
		"to_month":       req.ToMonth,
		"sku_ids":        skuIDs,
		"total_rows":     len(results),
	})
}

// ListScenarios handles GET /scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	scenarios, err := h.service.List(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if scenarios == nil {
		scenarios = make([]domain.ScenarioHeader, 0)
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// GetScenario handles GET /scenarios/:id
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	scenarioID, ok := h.parseScenarioID(c)
	if !ok {
		return
	}

	header, results, err := h.service.Get(c.Request.Context(), scenarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	if results == nil {
		results = make([]domain.ScenarioResult, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"header":  header,
		"results": results,
	})
}

// GetLedger handles GET /scenarios/:id/ledger
func (h *ScenarioHandler) GetLedger(c *gin.Context) {
	scenarioID, ok := h.parseScenarioID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.service.ListEvents(c.Request.Context(), scenarioID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = make([]domain.LedgerEntry, 0)
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// AppendLedger handles POST /scenarios/:id/ledger
func (h *ScenarioHandler) AppendLedger(c *gin.Context) {
	scenarioID, ok := h.parseScenarioID(c)
	if !ok {
		return
	}

	var req service.AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.service.AppendEvent(c.Request.Context(), scenarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *ScenarioHandler) parseScenarioID(c *gin.Context) (uuid.UUID, bool) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario_id"})
		return uuid.UUID{}, false
	}
	return scenarioID, true
}
