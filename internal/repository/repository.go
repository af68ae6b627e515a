// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
)

// MaxBaseRows caps how many base time-series rows a single scenario or
// optimizer run may read.
const MaxBaseRows = 5000

// ForecastRepository reads the immutable forecast facts. Nothing in this
// engine ever writes forecasts; the offline forecasting job owns them.
type ForecastRepository interface {
	// ResolveRunID verifies an explicit run id exists, or resolves the run
	// with the most recent creation timestamp when explicitRunID is empty.
	// Returns domain.ErrNotFound when nothing matches.
	ResolveRunID(ctx context.Context, explicitRunID string) (string, error)

	// FetchBase returns forecasts for a run filtered by optional SKU subset
	// and an inclusive month range, ordered by SKU then month ascending.
	FetchBase(ctx context.Context, runID string, skuIDs []string, fromMonth, toMonth string) ([]domain.Forecast, error)

	// GetForecastsForSKU returns all forecasts for one SKU with an optional
	// month range, ordered by month ascending.
	GetForecastsForSKU(ctx context.Context, skuID, fromMonth, toMonth string) ([]domain.Forecast, error)
}

// ScenarioRepository persists scenario headers and results. CreateScenario
// must write the header and the full result batch in one transaction.
type ScenarioRepository interface {
	CreateScenario(ctx context.Context, header domain.ScenarioHeader, results []domain.ScenarioResult) error
	GetHeader(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, error)
	GetWithResults(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, []domain.ScenarioResult, error)
	List(ctx context.Context, status string, limit int) ([]domain.ScenarioHeader, error)

	// FetchSeries returns a scenario's result rows filtered like FetchBase,
	// for use as an optimizer base.
	FetchSeries(ctx context.Context, scenarioID uuid.UUID, skuIDs []string, fromMonth, toMonth string) ([]domain.ScenarioResult, error)

	// UpdateStatus moves a header to a new lifecycle status and bumps
	// updated_at.
	UpdateStatus(ctx context.Context, scenarioID uuid.UUID, status string) error
}

// LedgerRepository appends and lists audit entries. Append assigns
// VersionSeq = 1 + max(existing) for the entry's scenario atomically: two
// concurrent appenders must never commit the same sequence number.
type LedgerRepository interface {
	Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
	ListEvents(ctx context.Context, scenarioID uuid.UUID, limit int) ([]domain.LedgerEntry, error)
}

// InventoryRepository reads per-SKU parameters and persists recommendation
// batches. SaveRecommendations must write the full batch in one transaction.
type InventoryRepository interface {
	// GetParameters returns nil (not an error) when the SKU has no row.
	GetParameters(ctx context.Context, skuID string) (*domain.InventoryParameter, error)
	SaveRecommendations(ctx context.Context, recs []domain.InventoryRecommendation) error
	ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, error)
}
