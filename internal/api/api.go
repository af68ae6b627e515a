// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/praveenkumar-ap/PulseCast/internal/api/handlers"
	"github.com/praveenkumar-ap/PulseCast/internal/api/middleware"
	"github.com/praveenkumar-ap/PulseCast/internal/service"
)

type Services struct {
	ScenarioService  *service.ScenarioService
	OptimizerService *service.OptimizerService
	ForecastService  *service.ForecastService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ScenarioService != nil {
			scenarioHandler := handlers.NewScenarioHandler(services.ScenarioService)
			scenarioGroup := apiGroup.Group("/scenarios")
			{
				scenarioGroup.POST("", scenarioHandler.CreateScenario)
				scenarioGroup.GET("", scenarioHandler.ListScenarios)
				scenarioGroup.GET("/:id", scenarioHandler.GetScenario)
				scenarioGroup.GET("/:id/ledger", scenarioHandler.GetLedger)
				scenarioGroup.POST("/:id/ledger", scenarioHandler.AppendLedger)
			}
		}

		if services.OptimizerService != nil {
			optimizerHandler := handlers.NewOptimizerHandler(services.OptimizerService)
			optimizerGroup := apiGroup.Group("/optimizer")
			{
				optimizerGroup.POST("/run", optimizerHandler.Run)
				optimizerGroup.GET("/recommendations", optimizerHandler.ListRecommendations)
			}
		}

		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			forecastGroup := apiGroup.Group("/forecasts")
			{
				forecastGroup.GET("/runs/latest", forecastHandler.GetLatestRun)
				forecastGroup.GET("/:sku_id", forecastHandler.GetForSKU)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
