// internal/repository/postgres/scenario_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

type scenarioRepository struct {
	db *DB
}

func NewScenarioRepository(db *DB) repository.ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) CreateScenario(ctx context.Context, header domain.ScenarioHeader, results []domain.ScenarioResult) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		headerQuery := `
			INSERT INTO scenario_headers (
				scenario_id, name, description, status, base_run_id,
				uplift_percent, created_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.ExecContext(ctx, headerQuery,
			header.ScenarioID,
			header.Name,
			header.Description,
			header.Status,
			header.BaseRunID,
			header.UpliftPercent,
			header.CreatedBy,
			header.CreatedAt,
			header.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert scenario header: %w", err)
		}

		resultQuery := `
			INSERT INTO scenario_results (
				scenario_id, sku_id, year_month, base_run_id,
				p10, p50, p90, created_at
			) VALUES ($1, $2, ($3 || '-01')::date, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, resultQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare result statement: %w", err)
		}
		defer stmt.Close()

		for _, res := range results {
			if _, err := stmt.ExecContext(ctx,
				res.ScenarioID,
				res.SKUID,
				res.YearMonth,
				res.BaseRunID,
				res.P10,
				res.P50,
				res.P90,
				res.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert scenario result: %w", err)
			}
		}

		log.Info().
			Str("scenario_id", header.ScenarioID.String()).
			Int("rows", len(results)).
			Msg("created scenario")
		return nil
	})
}

func (r *scenarioRepository) GetHeader(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, error) {
	query := `
		SELECT scenario_id, name, COALESCE(description, '') AS description, status,
		       COALESCE(base_run_id, '') AS base_run_id, uplift_percent,
		       created_by, created_at, updated_at
		FROM scenario_headers
		WHERE scenario_id = $1
	`

	var header domain.ScenarioHeader
	err := r.db.GetContext(ctx, &header, query, scenarioID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: scenario %s", domain.ErrNotFound, scenarioID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario header: %w", err)
	}

	return &header, nil
}

func (r *scenarioRepository) GetWithResults(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, []domain.ScenarioResult, error) {
	header, err := r.GetHeader(ctx, scenarioID)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT scenario_id, sku_id, to_char(year_month, 'YYYY-MM') AS year_month,
		       COALESCE(base_run_id, '') AS base_run_id, p10, p50, p90, created_at
		FROM scenario_results
		WHERE scenario_id = $1
		ORDER BY sku_id ASC, year_month ASC
	`

	var results []domain.ScenarioResult
	if err := r.db.SelectContext(ctx, &results, query, scenarioID); err != nil {
		return nil, nil, fmt.Errorf("failed to get scenario results: %w", err)
	}

	return header, results, nil
}

func (r *scenarioRepository) List(ctx context.Context, status string, limit int) ([]domain.ScenarioHeader, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT scenario_id, name, COALESCE(description, '') AS description, status,
		       COALESCE(base_run_id, '') AS base_run_id, uplift_percent,
		       created_by, created_at, updated_at
		FROM scenario_headers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	var headers []domain.ScenarioHeader
	if err := r.db.SelectContext(ctx, &headers, query, status, limit); err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return headers, nil
}

func (r *scenarioRepository) FetchSeries(ctx context.Context, scenarioID uuid.UUID, skuIDs []string, fromMonth, toMonth string) ([]domain.ScenarioResult, error) {
	query := `
		SELECT scenario_id, sku_id, to_char(year_month, 'YYYY-MM') AS year_month,
		       COALESCE(base_run_id, '') AS base_run_id, p10, p50, p90, created_at
		FROM scenario_results
		WHERE scenario_id = $1
		  AND year_month >= ($2 || '-01')::date
		  AND year_month <= ($3 || '-01')::date
		  AND ($4::text[] IS NULL OR sku_id = ANY($4::text[]))
		ORDER BY sku_id ASC, year_month ASC
		LIMIT $5
	`

	var results []domain.ScenarioResult
	if err := r.db.SelectContext(ctx, &results, query, scenarioID, fromMonth, toMonth, skuArray(skuIDs), repository.MaxBaseRows); err != nil {
		return nil, fmt.Errorf("failed to fetch scenario series: %w", err)
	}

	return results, nil
}

func (r *scenarioRepository) UpdateStatus(ctx context.Context, scenarioID uuid.UUID, status string) error {
	query := `
		UPDATE scenario_headers
		SET status = $2, updated_at = NOW()
		WHERE scenario_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, scenarioID, status)
	if err != nil {
		return fmt.Errorf("failed to update scenario status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: scenario %s", domain.ErrNotFound, scenarioID)
	}

	return nil
}
