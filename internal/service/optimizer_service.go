// internal/service/optimizer_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/cache"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/planning"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

// OptimizerService computes inventory policy recommendations from a base
// forecast run or an existing scenario's results.
type OptimizerService struct {
	forecasts repository.ForecastRepository
	scenarios repository.ScenarioRepository
	inventory repository.InventoryRepository
	cache     cache.RecommendationCache
}

func NewOptimizerService(
	forecasts repository.ForecastRepository,
	scenarios repository.ScenarioRepository,
	inventory repository.InventoryRepository,
	cacheImpl cache.RecommendationCache,
) *OptimizerService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRecommendationCache()
	}
	return &OptimizerService{
		forecasts: forecasts,
		scenarios: scenarios,
		inventory: inventory,
		cache:     cacheImpl,
	}
}

// RunOptimizerRequest selects the base series and parameter overrides for one
// optimizer invocation.
type RunOptimizerRequest struct {
	SourceType         string   `json:"source_type"`
	SourceID           string   `json:"source_id"`
	SKUIDs             []string `json:"sku_ids"`
	FromMonth          string   `json:"from_month"`
	ToMonth            string   `json:"to_month"`
	ServiceLevelTarget *float64 `json:"service_level_target"`
}

// baseRow is the source-agnostic shape both base variants reduce to.
type baseRow struct {
	skuID     string
	yearMonth string
	p10       float64
	p50       float64
	p90       float64
}

// Run resolves the source, computes one recommendation per (sku, month) row,
// and persists the batch in a single transaction. An empty base match is a
// hard NotFound, never an empty success.
func (s *OptimizerService) Run(ctx context.Context, req RunOptimizerRequest) (domain.SourceRef, []domain.InventoryRecommendation, error) {
	ref, err := domain.ParseSourceRef(req.SourceType, req.SourceID)
	if err != nil {
		return domain.SourceRef{}, nil, err
	}
	if err := domain.ValidateMonthRange(req.FromMonth, req.ToMonth); err != nil {
		return domain.SourceRef{}, nil, err
	}

	rows, err := s.fetchBaseRows(ctx, &ref, req)
	if err != nil {
		return domain.SourceRef{}, nil, err
	}
	if len(rows) == 0 {
		return domain.SourceRef{}, nil, fmt.Errorf("%w: no base data found for given criteria", domain.ErrNotFound)
	}

	now := time.Now().UTC()
	params := make(map[string]planning.PolicyInputs, len(rows))
	recs := make([]domain.InventoryRecommendation, 0, len(rows))
	for _, row := range rows {
		in, ok := params[row.skuID]
		if !ok {
			param, err := s.inventory.GetParameters(ctx, row.skuID)
			if err != nil {
				return domain.SourceRef{}, nil, err
			}
			in = planning.ResolveParameters(param, req.ServiceLevelTarget)
			params[row.skuID] = in
		}

		policy := planning.ComputePolicy(row.p10, row.p50, row.p90, in)
		recs = append(recs, domain.InventoryRecommendation{
			PolicyID:           uuid.New(),
			SKUID:              row.skuID,
			YearMonth:          row.yearMonth,
			SourceType:         string(ref.Type),
			SourceID:           ref.ID(),
			ServiceLevelTarget: in.ServiceLevel,
			SafetyStockUnits:   policy.SafetyStock,
			CycleStockUnits:    policy.CycleStock,
			TargetStockUnits:   policy.TargetStock,
			CreatedAt:          now,
		})
	}

	if err := s.inventory.SaveRecommendations(ctx, recs); err != nil {
		return domain.SourceRef{}, nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("optimizer: cache invalidation failed")
	}

	log.Info().
		Str("source_type", string(ref.Type)).
		Str("source_id", ref.ID()).
		Int("policies", len(recs)).
		Msg("optimizer run complete")
	return ref, recs, nil
}

// fetchBaseRows resolves the source reference and loads its time series. For
// BASE_RUN the ref's RunID is filled in with the resolved run.
func (s *OptimizerService) fetchBaseRows(ctx context.Context, ref *domain.SourceRef, req RunOptimizerRequest) ([]baseRow, error) {
	switch ref.Type {
	case domain.SourceBaseRun:
		runID, err := s.forecasts.ResolveRunID(ctx, ref.RunID)
		if err != nil {
			return nil, err
		}
		ref.RunID = runID

		forecasts, err := s.forecasts.FetchBase(ctx, runID, req.SKUIDs, req.FromMonth, req.ToMonth)
		if err != nil {
			return nil, err
		}
		rows := make([]baseRow, 0, len(forecasts))
		for _, f := range forecasts {
			rows = append(rows, baseRow{skuID: f.SKUID, yearMonth: f.YearMonth, p10: f.P10, p50: f.P50, p90: f.P90})
		}
		return rows, nil

	case domain.SourceScenario:
		if _, err := s.scenarios.GetHeader(ctx, ref.ScenarioID); err != nil {
			return nil, err
		}

		results, err := s.scenarios.FetchSeries(ctx, ref.ScenarioID, req.SKUIDs, req.FromMonth, req.ToMonth)
		if err != nil {
			return nil, err
		}
		rows := make([]baseRow, 0, len(results))
		for _, res := range results {
			rows = append(rows, baseRow{skuID: res.SKUID, yearMonth: res.YearMonth, p10: res.P10, p50: res.P50, p90: res.P90})
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("%w: invalid source_type %q", domain.ErrInvalidParameter, ref.Type)
	}
}

// ListRecommendations returns persisted policy snapshots newest first,
// consulting the cache before the store.
func (s *OptimizerService) ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, error) {
	if filter.SourceType != "" {
		switch domain.SourceType(filter.SourceType) {
		case domain.SourceBaseRun, domain.SourceScenario:
		default:
			return nil, fmt.Errorf("%w: invalid source_type filter %q", domain.ErrInvalidParameter, filter.SourceType)
		}
	}
	if err := domain.ValidateOptionalMonthRange(filter.FromMonth, filter.ToMonth); err != nil {
		return nil, err
	}

	if recs, ok, err := s.cache.Get(ctx, filter); err == nil && ok {
		return recs, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("optimizer: cache get failed")
	}

	recs, err := s.inventory.ListRecommendations(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, filter, recs); err != nil {
		log.Warn().Err(err).Msg("optimizer: cache set failed")
	}

	return recs, nil
}
