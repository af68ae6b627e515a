// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) ResolveRunID(ctx context.Context, explicitRunID string) (string, error) {
	if explicitRunID != "" {
		var runID string
		query := `SELECT run_id FROM sku_forecasts WHERE run_id = $1 LIMIT 1`
		err := r.db.GetContext(ctx, &runID, query, explicitRunID)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: base_run_id %s not found in forecasts", domain.ErrNotFound, explicitRunID)
		}
		if err != nil {
			return "", fmt.Errorf("failed to verify run id: %w", err)
		}
		return runID, nil
	}

	var runID string
	query := `SELECT run_id FROM sku_forecasts ORDER BY created_at DESC LIMIT 1`
	err := r.db.GetContext(ctx, &runID, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no forecasts available to derive base_run_id", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve latest run id: %w", err)
	}

	log.Info().Str("run_id", runID).Msg("resolved base run by latest created_at")
	return runID, nil
}

func (r *forecastRepository) FetchBase(ctx context.Context, runID string, skuIDs []string, fromMonth, toMonth string) ([]domain.Forecast, error) {
	query := `
		SELECT
			sku_id,
			to_char(year_month, 'YYYY-MM') AS year_month,
			COALESCE(p10, 0) AS p10,
			COALESCE(p50, 0) AS p50,
			COALESCE(p90, 0) AS p90,
			run_id,
			created_at
		FROM sku_forecasts
		WHERE run_id = $1
		  AND year_month >= ($2 || '-01')::date
		  AND year_month <= ($3 || '-01')::date
		  AND ($4::text[] IS NULL OR sku_id = ANY($4::text[]))
		ORDER BY sku_id ASC, year_month ASC
		LIMIT $5
	`

	var rows []domain.Forecast
	if err := r.db.SelectContext(ctx, &rows, query, runID, fromMonth, toMonth, skuArray(skuIDs), repository.MaxBaseRows); err != nil {
		return nil, fmt.Errorf("failed to fetch base forecasts: %w", err)
	}

	log.Info().Int("rows", len(rows)).Str("run_id", runID).Msg("fetched base forecasts")
	return rows, nil
}

func (r *forecastRepository) GetForecastsForSKU(ctx context.Context, skuID, fromMonth, toMonth string) ([]domain.Forecast, error) {
	query := `
		SELECT
			sku_id,
			to_char(year_month, 'YYYY-MM') AS year_month,
			COALESCE(p10, 0) AS p10,
			COALESCE(p50, 0) AS p50,
			COALESCE(p90, 0) AS p90,
			run_id,
			created_at
		FROM sku_forecasts
		WHERE sku_id = $1
		  AND ($2 = '' OR year_month >= (NULLIF($2, '') || '-01')::date)
		  AND ($3 = '' OR year_month <= (NULLIF($3, '') || '-01')::date)
		ORDER BY year_month ASC
	`

	var rows []domain.Forecast
	if err := r.db.SelectContext(ctx, &rows, query, skuID, fromMonth, toMonth); err != nil {
		return nil, fmt.Errorf("failed to fetch forecasts for sku %s: %w", skuID, err)
	}

	return rows, nil
}

// skuArray maps an empty SKU subset to NULL so the ANY() filter collapses.
func skuArray(skuIDs []string) interface{} {
	if len(skuIDs) == 0 {
		return nil
	}
	return pq.Array(skuIDs)
}
