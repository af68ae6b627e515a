// internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scenario statuses
const (
	StatusDraft    = "DRAFT"
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
)

// AllowedStatuses is the set of valid scenario lifecycle states.
var AllowedStatuses = map[string]struct{}{
	StatusDraft:    {},
	StatusActive:   {},
	StatusArchived: {},
}

// Ledger action types
const (
	ActionCreate       = "CREATE"
	ActionEdit         = "EDIT"
	ActionApprove      = "APPROVE"
	ActionReject       = "REJECT"
	ActionArchive      = "ARCHIVE"
	ActionComment      = "COMMENT"
	ActionRunOptimizer = "RUN_OPTIMIZER"
)

// AllowedActions is the set of valid ledger action types.
var AllowedActions = map[string]struct{}{
	ActionCreate:       {},
	ActionEdit:         {},
	ActionApprove:      {},
	ActionReject:       {},
	ActionArchive:      {},
	ActionComment:      {},
	ActionRunOptimizer: {},
}

// Forecast is one percentile demand forecast row produced by an offline
// forecasting job. Rows are immutable; (sku_id, year_month, run_id) is the
// natural key.
type Forecast struct {
	SKUID     string    `json:"sku_id" db:"sku_id"`
	YearMonth string    `json:"year_month" db:"year_month"`
	P10       float64   `json:"p10" db:"p10"`
	P50       float64   `json:"p50" db:"p50"`
	P90       float64   `json:"p90" db:"p90"`
	RunID     string    `json:"run_id" db:"run_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScenarioHeader is one record per what-if scenario. Headers are never
// physically deleted; ARCHIVE moves status to ARCHIVED instead.
type ScenarioHeader struct {
	ScenarioID    uuid.UUID `json:"scenario_id" db:"scenario_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Status        string    `json:"status" db:"status"`
	BaseRunID     string    `json:"base_run_id" db:"base_run_id"`
	UpliftPercent float64   `json:"uplift_percent" db:"uplift_percent"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ScenarioResult is one derived row per (scenario_id, sku_id, year_month).
// Results are written once with the header and never mutated; a new scenario
// is created for re-computation.
type ScenarioResult struct {
	ScenarioID uuid.UUID `json:"scenario_id" db:"scenario_id"`
	SKUID      string    `json:"sku_id" db:"sku_id"`
	YearMonth  string    `json:"year_month" db:"year_month"`
	BaseRunID  string    `json:"base_run_id" db:"base_run_id"`
	P10        float64   `json:"p10" db:"p10"`
	P50        float64   `json:"p50" db:"p50"`
	P90        float64   `json:"p90" db:"p90"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// LedgerEntry is one append-only audit record for a scenario. For a fixed
// scenario_id, version_seq starts at 1 and is strictly increasing with no
// gaps, even under concurrent appenders.
type LedgerEntry struct {
	LedgerID    uuid.UUID `json:"ledger_id" db:"ledger_id"`
	ScenarioID  uuid.UUID `json:"scenario_id" db:"scenario_id"`
	VersionSeq  int       `json:"version_seq" db:"version_seq"`
	ActionType  string    `json:"action_type" db:"action_type"`
	Actor       string    `json:"actor" db:"actor"`
	ActorRole   string    `json:"actor_role" db:"actor_role"`
	Assumptions string    `json:"assumptions" db:"assumptions"`
	Comments    string    `json:"comments" db:"comments"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// InventoryParameter holds per-SKU replenishment parameters. Any field may be
// nil, in which case the optimizer falls back to the hardcoded defaults.
type InventoryParameter struct {
	SKUID              string   `json:"sku_id" db:"sku_id"`
	LocationID         *string  `json:"location_id" db:"location_id"`
	ServiceLevelTarget *float64 `json:"service_level_target" db:"service_level_target"`
	LeadTimeDays       *int     `json:"lead_time_days" db:"lead_time_days"`
	ReviewPeriodDays   *int     `json:"review_period_days" db:"review_period_days"`
}

// InventoryRecommendation is one policy snapshot per (sku, month, source).
// Snapshots accumulate; "latest" queries order by created_at.
type InventoryRecommendation struct {
	PolicyID           uuid.UUID `json:"policy_id" db:"policy_id"`
	SKUID              string    `json:"sku_id" db:"sku_id"`
	LocationID         *string   `json:"location_id" db:"location_id"`
	YearMonth          string    `json:"year_month" db:"year_month"`
	SourceType         string    `json:"source_type" db:"source_type"`
	SourceID           string    `json:"source_id" db:"source_id"`
	ServiceLevelTarget float64   `json:"service_level_target" db:"service_level_target"`
	SafetyStockUnits   float64   `json:"safety_stock_units" db:"safety_stock_units"`
	CycleStockUnits    float64   `json:"cycle_stock_units" db:"cycle_stock_units"`
	TargetStockUnits   float64   `json:"target_stock_units" db:"target_stock_units"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// RecommendationFilter narrows recommendation list queries.
type RecommendationFilter struct {
	SKUID      string `json:"sku_id"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	FromMonth  string `json:"from_month"`
	ToMonth    string `json:"to_month"`
	Limit      int    `json:"limit"`
}
