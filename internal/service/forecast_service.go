// internal/service/forecast_service.go
package service

import (
	"context"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
)

// ForecastService exposes read-only access to the forecast facts.
type ForecastService struct {
	forecasts repository.ForecastRepository
}

func NewForecastService(forecasts repository.ForecastRepository) *ForecastService {
	return &ForecastService{forecasts: forecasts}
}

// GetForSKU returns a SKU's forecasts, optionally bounded by a month range.
// Either bound may be empty; a set bound must be a valid YYYY-MM month.
func (s *ForecastService) GetForSKU(ctx context.Context, skuID, fromMonth, toMonth string) ([]domain.Forecast, error) {
	if err := domain.ValidateOptionalMonthRange(fromMonth, toMonth); err != nil {
		return nil, err
	}
	return s.forecasts.GetForecastsForSKU(ctx, skuID, fromMonth, toMonth)
}

// LatestRunID returns the most recently created forecast run.
func (s *ForecastService) LatestRunID(ctx context.Context) (string, error) {
	return s.forecasts.ResolveRunID(ctx, "")
}
