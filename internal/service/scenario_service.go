// internal/service/scenario_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/planning"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

// ScenarioService owns the uplift scenario lifecycle and its audit ledger.
type ScenarioService struct {
	forecasts repository.ForecastRepository
	scenarios repository.ScenarioRepository
	ledger    repository.LedgerRepository
}

func NewScenarioService(forecasts repository.ForecastRepository, scenarios repository.ScenarioRepository, ledger repository.LedgerRepository) *ScenarioService {
	return &ScenarioService{forecasts: forecasts, scenarios: scenarios, ledger: ledger}
}

// CreateScenarioRequest carries everything needed to derive a what-if
// scenario from a base forecast run.
type CreateScenarioRequest struct {
	BaseRunID     string   `json:"base_run_id"`
	SKUIDs        []string `json:"sku_ids"`
	FromMonth     string   `json:"from_month"`
	ToMonth       string   `json:"to_month"`
	UpliftPercent float64  `json:"uplift_percent"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	CreatedBy     string   `json:"created_by"`
}

// AppendEventRequest carries one ledger action.
type AppendEventRequest struct {
	ActionType  string `json:"action_type"`
	Actor       string `json:"actor"`
	ActorRole   string `json:"actor_role"`
	Assumptions string `json:"assumptions"`
	Comments    string `json:"comments"`
}

// createAssumptions is the JSON payload recorded with a CREATE ledger event.
type createAssumptions struct {
	UpliftPercent float64  `json:"uplift_percent"`
	FromMonth     string   `json:"from_month"`
	ToMonth       string   `json:"to_month"`
	SKUIDs        []string `json:"sku_ids,omitempty"`
	BaseRunID     string   `json:"base_run_id"`
}

// CreateUpliftScenario validates the request, applies the uplift transform to
// the matched base forecasts, and persists header plus results atomically.
// All validation happens before any row is read or written.
//
// The CREATE ledger entry is appended after the scenario commit as a separate
// step. A failed append leaves the scenario valid: the ledger is best-effort
// for the CREATE event, and the failure is logged rather than surfaced.
func (s *ScenarioService) CreateUpliftScenario(ctx context.Context, req CreateScenarioRequest) (*domain.ScenarioHeader, []domain.ScenarioResult, error) {
	if err := planning.ValidateUplift(req.UpliftPercent); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", domain.ErrInvalidParameter)
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		return nil, nil, fmt.Errorf("%w: created_by is required", domain.ErrInvalidParameter)
	}
	if err := domain.ValidateMonthRange(req.FromMonth, req.ToMonth); err != nil {
		return nil, nil, err
	}

	baseRunID, err := s.forecasts.ResolveRunID(ctx, req.BaseRunID)
	if err != nil {
		return nil, nil, err
	}

	baseRows, err := s.forecasts.FetchBase(ctx, baseRunID, req.SKUIDs, req.FromMonth, req.ToMonth)
	if err != nil {
		return nil, nil, err
	}
	if len(baseRows) == 0 {
		return nil, nil, fmt.Errorf("%w: no base forecasts found for given criteria", domain.ErrNotFound)
	}

	now := time.Now().UTC()
	header := domain.ScenarioHeader{
		ScenarioID:    uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Status:        domain.StatusActive,
		BaseRunID:     baseRunID,
		UpliftPercent: req.UpliftPercent,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	results := planning.ApplyUplift(baseRows, req.UpliftPercent)
	for i := range results {
		results[i].ScenarioID = header.ScenarioID
		results[i].CreatedAt = now
	}

	if err := s.scenarios.CreateScenario(ctx, header, results); err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("scenario_id", header.ScenarioID.String()).
		Str("base_run_id", baseRunID).
		Int("rows", len(results)).
		Msg("scenario created")

	assumptions, err := json.Marshal(createAssumptions{
		UpliftPercent: req.UpliftPercent,
		FromMonth:     req.FromMonth,
		ToMonth:       req.ToMonth,
		SKUIDs:        req.SKUIDs,
		BaseRunID:     baseRunID,
	})
	if err != nil {
		assumptions = []byte("{}")
	}

	if _, err := s.appendEntry(ctx, header.ScenarioID, AppendEventRequest{
		ActionType:  domain.ActionCreate,
		Actor:       req.CreatedBy,
		Assumptions: string(assumptions),
		Comments:    req.Description,
	}); err != nil {
		log.Warn().Err(err).
			Str("scenario_id", header.ScenarioID.String()).
			Msg("scenario committed but CREATE ledger append failed")
	}

	return &header, results, nil
}

// AppendEvent records one lifecycle action on an existing scenario. An
// ARCHIVE action also moves the header to ARCHIVED, a caller-level policy
// layered on top of the ledger itself.
func (s *ScenarioService) AppendEvent(ctx context.Context, scenarioID uuid.UUID, req AppendEventRequest) (domain.LedgerEntry, error) {
	if _, ok := domain.AllowedActions[req.ActionType]; !ok {
		return domain.LedgerEntry{}, fmt.Errorf("%w: invalid action_type %q", domain.ErrInvalidParameter, req.ActionType)
	}
	if strings.TrimSpace(req.Actor) == "" {
		return domain.LedgerEntry{}, fmt.Errorf("%w: actor is required", domain.ErrInvalidParameter)
	}
	if _, err := s.scenarios.GetHeader(ctx, scenarioID); err != nil {
		return domain.LedgerEntry{}, err
	}

	entry, err := s.appendEntry(ctx, scenarioID, req)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	if req.ActionType == domain.ActionArchive {
		if err := s.scenarios.UpdateStatus(ctx, scenarioID, domain.StatusArchived); err != nil {
			log.Warn().Err(err).
				Str("scenario_id", scenarioID.String()).
				Msg("ARCHIVE recorded but status transition failed")
		}
	}

	return entry, nil
}

// appendEntry writes the ledger row without revalidating; callers validate.
func (s *ScenarioService) appendEntry(ctx context.Context, scenarioID uuid.UUID, req AppendEventRequest) (domain.LedgerEntry, error) {
	return s.ledger.Append(ctx, domain.LedgerEntry{
		LedgerID:    uuid.New(),
		ScenarioID:  scenarioID,
		ActionType:  req.ActionType,
		Actor:       req.Actor,
		ActorRole:   req.ActorRole,
		Assumptions: req.Assumptions,
		Comments:    req.Comments,
		CreatedAt:   time.Now().UTC(),
	})
}

// ListEvents returns a scenario's audit trail ordered by version_seq.
func (s *ScenarioService) ListEvents(ctx context.Context, scenarioID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	if _, err := s.scenarios.GetHeader(ctx, scenarioID); err != nil {
		return nil, err
	}
	return s.ledger.ListEvents(ctx, scenarioID, limit)
}

// List returns scenario headers newest first with an optional status filter.
func (s *ScenarioService) List(ctx context.Context, status string, limit int) ([]domain.ScenarioHeader, error) {
	if status != "" {
		if _, ok := domain.AllowedStatuses[status]; !ok {
			return nil, fmt.Errorf("%w: invalid status filter %q", domain.ErrInvalidParameter, status)
		}
	}
	return s.scenarios.List(ctx, status, limit)
}

// Get returns a scenario header and its result rows.
func (s *ScenarioService) Get(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, []domain.ScenarioResult, error) {
	return s.scenarios.GetWithResults(ctx, scenarioID)
}
