// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

const maxRecommendationList = 1000

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetParameters(ctx context.Context, skuID string) (*domain.InventoryParameter, error) {
	query := `
		SELECT sku_id, location_id, service_level_target, lead_time_days, review_period_days
		FROM inventory_parameters
		WHERE sku_id = $1
		LIMIT 1
	`

	var param domain.InventoryParameter
	err := r.db.GetContext(ctx, &param, query, skuID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory parameters for sku %s: %w", skuID, err)
	}

	return &param, nil
}

func (r *inventoryRepository) SaveRecommendations(ctx context.Context, recs []domain.InventoryRecommendation) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO inventory_recommendations (
				policy_id, sku_id, location_id, year_month, source_type, source_id,
				service_level_target, safety_stock_units, cycle_stock_units,
				target_stock_units, created_at
			) VALUES ($1, $2, $3, ($4 || '-01')::date, $5, $6, $7, $8, $9, $10, $11)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare recommendation statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			if _, err := stmt.ExecContext(ctx,
				rec.PolicyID,
				rec.SKUID,
				rec.LocationID,
				rec.YearMonth,
				rec.SourceType,
				rec.SourceID,
				rec.ServiceLevelTarget,
				rec.SafetyStockUnits,
				rec.CycleStockUnits,
				rec.TargetStockUnits,
				rec.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert recommendation: %w", err)
			}
		}

		log.Info().Int("rows", len(recs)).Msg("persisted inventory recommendations")
		return nil
	})
}

func (r *inventoryRepository) ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > maxRecommendationList {
		limit = maxRecommendationList
	}

	query := `
		SELECT policy_id, sku_id, location_id, to_char(year_month, 'YYYY-MM') AS year_month,
		       source_type, COALESCE(source_id, '') AS source_id,
		       COALESCE(service_level_target, 0) AS service_level_target,
		       COALESCE(safety_stock_units, 0) AS safety_stock_units,
		       COALESCE(cycle_stock_units, 0) AS cycle_stock_units,
		       COALESCE(target_stock_units, 0) AS target_stock_units,
		       created_at
		FROM inventory_recommendations
		WHERE ($1 = '' OR sku_id = $1)
		  AND ($2 = '' OR source_type = $2)
		  AND ($3 = '' OR source_id = $3)
		  AND ($4 = '' OR year_month >= (NULLIF($4, '') || '-01')::date)
		  AND ($5 = '' OR year_month <= (NULLIF($5, '') || '-01')::date)
		ORDER BY created_at DESC
		LIMIT $6
	`

	var recs []domain.InventoryRecommendation
	if err := r.db.SelectContext(ctx, &recs, query,
		filter.SKUID, filter.SourceType, filter.SourceID,
		filter.FromMonth, filter.ToMonth, limit,
	); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	return recs, nil
}
