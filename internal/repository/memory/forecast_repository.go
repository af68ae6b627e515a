// internal/repository/memory/forecast_repository.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
)

// ForecastRepository provides in-memory forecast storage for tests and local
// development.
type ForecastRepository struct {
	mu        sync.RWMutex
	forecasts []domain.Forecast
}

func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{}
}

// Verify interface compliance
var _ repository.ForecastRepository = (*ForecastRepository)(nil)

// Load adds forecast rows to the repository.
func (r *ForecastRepository) Load(rows ...domain.Forecast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forecasts = append(r.forecasts, rows...)
}

func (r *ForecastRepository) ResolveRunID(ctx context.Context, explicitRunID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if explicitRunID != "" {
		for _, f := range r.forecasts {
			if f.RunID == explicitRunID {
				return explicitRunID, nil
			}
		}
		return "", fmt.Errorf("%w: base_run_id %s not found in forecasts", domain.ErrNotFound, explicitRunID)
	}

	if len(r.forecasts) == 0 {
		return "", fmt.Errorf("%w: no forecasts available to derive base_run_id", domain.ErrNotFound)
	}

	latest := r.forecasts[0]
	for _, f := range r.forecasts[1:] {
		if f.CreatedAt.After(latest.CreatedAt) {
			latest = f
		}
	}
	return latest.RunID, nil
}

func (r *ForecastRepository) FetchBase(ctx context.Context, runID string, skuIDs []string, fromMonth, toMonth string) ([]domain.Forecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skuSet := toSet(skuIDs)
	var rows []domain.Forecast
	for _, f := range r.forecasts {
		if f.RunID != runID {
			continue
		}
		if f.YearMonth < fromMonth || f.YearMonth > toMonth {
			continue
		}
		if skuSet != nil {
			if _, ok := skuSet[f.SKUID]; !ok {
				continue
			}
		}
		rows = append(rows, f)
		if len(rows) == repository.MaxBaseRows {
			break
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SKUID != rows[j].SKUID {
			return rows[i].SKUID < rows[j].SKUID
		}
		return rows[i].YearMonth < rows[j].YearMonth
	})
	return rows, nil
}

func (r *ForecastRepository) GetForecastsForSKU(ctx context.Context, skuID, fromMonth, toMonth string) ([]domain.Forecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []domain.Forecast
	for _, f := range r.forecasts {
		if f.SKUID != skuID {
			continue
		}
		if fromMonth != "" && f.YearMonth < fromMonth {
			continue
		}
		if toMonth != "" && f.YearMonth > toMonth {
			continue
		}
		rows = append(rows, f)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].YearMonth < rows[j].YearMonth })
	return rows, nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
