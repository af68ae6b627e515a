package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository/memory"
)

type scenarioFixture struct {
	forecasts *memory.ForecastRepository
	scenarios *memory.ScenarioRepository
	ledger    *memory.LedgerRepository
	svc       *ScenarioService
}

func newScenarioFixture() *scenarioFixture {
	forecasts := memory.NewForecastRepository()
	scenarios := memory.NewScenarioRepository()
	ledger := memory.NewLedgerRepository()
	return &scenarioFixture{
		forecasts: forecasts,
		scenarios: scenarios,
		ledger:    ledger,
		svc:       NewScenarioService(forecasts, scenarios, ledger),
	}
}

func seedForecasts(f *memory.ForecastRepository) {
	now := time.Now().UTC()
	f.Load(
		domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-01", P10: 80, P50: 100, P90: 120, RunID: "run-1", CreatedAt: now},
		domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-02", P10: 70, P50: 90, P90: 110, RunID: "run-1", CreatedAt: now},
		domain.Forecast{SKUID: "SKU-002", YearMonth: "2025-01", P10: 10, P50: 20, P90: 30, RunID: "run-1", CreatedAt: now},
	)
}

func validCreateRequest() CreateScenarioRequest {
	return CreateScenarioRequest{
		BaseRunID:     "run-1",
		FromMonth:     "2025-01",
		ToMonth:       "2025-02",
		UpliftPercent: 15,
		Name:          "peak season uplift",
		Description:   "what if demand runs 15% hot",
		CreatedBy:     "planner@acme.test",
	}
}

func TestCreateUpliftScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		header, results, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)
		require.NotNil(t, header)

		assert.Equal(t, domain.StatusActive, header.Status)
		assert.Equal(t, "run-1", header.BaseRunID)
		assert.Equal(t, 15.0, header.UpliftPercent)
		require.Len(t, results, 3)

		for _, res := range results {
			assert.Equal(t, header.ScenarioID, res.ScenarioID)
			assert.Equal(t, "run-1", res.BaseRunID)
		}
		assert.InDelta(t, 92.0, results[0].P10, 1e-9)
		assert.InDelta(t, 115.0, results[0].P50, 1e-9)
		assert.InDelta(t, 138.0, results[0].P90, 1e-9)
	})

	t.Run("RecordsCreateLedgerEvent", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		header, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)

		events, err := fx.svc.ListEvents(ctx, header.ScenarioID, 50)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 1, events[0].VersionSeq)
		assert.Equal(t, domain.ActionCreate, events[0].ActionType)
		assert.Equal(t, "planner@acme.test", events[0].Actor)

		var assumptions map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(events[0].Assumptions), &assumptions))
		assert.Equal(t, 15.0, assumptions["uplift_percent"])
		assert.Equal(t, "run-1", assumptions["base_run_id"])
	})

	t.Run("SKUFilterNarrowsResults", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		req := validCreateRequest()
		req.SKUIDs = []string{"SKU-002"}
		_, results, err := fx.svc.CreateUpliftScenario(ctx, req)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "SKU-002", results[0].SKUID)
	})

	t.Run("ResolvesLatestRunWhenUnspecified", func(t *testing.T) {
		fx := newScenarioFixture()
		old := time.Now().UTC().Add(-time.Hour)
		fx.forecasts.Load(
			domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-01", P10: 1, P50: 2, P90: 3, RunID: "run-old", CreatedAt: old},
			domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-01", P10: 80, P50: 100, P90: 120, RunID: "run-new", CreatedAt: time.Now().UTC()},
		)

		req := validCreateRequest()
		req.BaseRunID = ""
		req.ToMonth = "2025-01"
		header, results, err := fx.svc.CreateUpliftScenario(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "run-new", header.BaseRunID)
		require.Len(t, results, 1)
		assert.InDelta(t, 115.0, results[0].P50, 1e-9)
	})

	t.Run("ValidationFailsBeforeAnyRead", func(t *testing.T) {
		fx := newScenarioFixture()
		// no forecasts loaded: a validation failure must not reach NotFound

		cases := []struct {
			name    string
			mutate  func(*CreateScenarioRequest)
			wantErr error
		}{
			{"UpliftTooLow", func(r *CreateScenarioRequest) { r.UpliftPercent = -100.5 }, domain.ErrInvalidParameter},
			{"UpliftTooHigh", func(r *CreateScenarioRequest) { r.UpliftPercent = 300.5 }, domain.ErrInvalidParameter},
			{"BlankName", func(r *CreateScenarioRequest) { r.Name = "  " }, domain.ErrInvalidParameter},
			{"BlankCreatedBy", func(r *CreateScenarioRequest) { r.CreatedBy = "" }, domain.ErrInvalidParameter},
			{"BadMonth", func(r *CreateScenarioRequest) { r.FromMonth = "2025-1" }, domain.ErrInvalidParameter},
			{"InvertedRange", func(r *CreateScenarioRequest) { r.FromMonth, r.ToMonth = "2025-06", "2025-01" }, domain.ErrInvalidRange},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateRequest()
				tc.mutate(&req)
				_, _, err := fx.svc.CreateUpliftScenario(ctx, req)
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})

	t.Run("UnknownRunIsNotFound", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		req := validCreateRequest()
		req.BaseRunID = "run-missing"
		_, _, err := fx.svc.CreateUpliftScenario(ctx, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("EmptyMatchIsNotFoundAndWritesNothing", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		req := validCreateRequest()
		req.FromMonth, req.ToMonth = "2030-01", "2030-06"
		_, _, err := fx.svc.CreateUpliftScenario(ctx, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		headers, err := fx.svc.List(ctx, "", 0)
		require.NoError(t, err)
		assert.Empty(t, headers)
	})

	t.Run("PersistenceFailureSurfacesAndSkipsLedger", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)
		fx.scenarios.FailCreate = true

		_, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidParameter)

		events, err := fx.ledger.ListEvents(ctx, uuid.Nil, 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestAppendEvent(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, fx *scenarioFixture) uuid.UUID {
		t.Helper()
		seedForecasts(fx.forecasts)
		header, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)
		return header.ScenarioID
	}

	t.Run("SequencesMonotonically", func(t *testing.T) {
		fx := newScenarioFixture()
		id := create(t, fx)

		entry, err := fx.svc.AppendEvent(ctx, id, AppendEventRequest{
			ActionType: domain.ActionApprove,
			Actor:      "manager@acme.test",
			ActorRole:  "demand-manager",
			Comments:   "approved for S&OP review",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, entry.VersionSeq)

		events, err := fx.svc.ListEvents(ctx, id, 50)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, domain.ActionCreate, events[0].ActionType)
		assert.Equal(t, 1, events[0].VersionSeq)
		assert.Equal(t, domain.ActionApprove, events[1].ActionType)
		assert.Equal(t, 2, events[1].VersionSeq)
	})

	t.Run("RejectsUnknownAction", func(t *testing.T) {
		fx := newScenarioFixture()
		id := create(t, fx)

		_, err := fx.svc.AppendEvent(ctx, id, AppendEventRequest{
			ActionType: "DELETE",
			Actor:      "manager@acme.test",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("RejectsBlankActor", func(t *testing.T) {
		fx := newScenarioFixture()
		id := create(t, fx)

		_, err := fx.svc.AppendEvent(ctx, id, AppendEventRequest{
			ActionType: domain.ActionComment,
			Actor:      "   ",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("UnknownScenarioIsNotFound", func(t *testing.T) {
		fx := newScenarioFixture()

		_, err := fx.svc.AppendEvent(ctx, uuid.New(), AppendEventRequest{
			ActionType: domain.ActionApprove,
			Actor:      "manager@acme.test",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ArchiveTransitionsStatus", func(t *testing.T) {
		fx := newScenarioFixture()
		id := create(t, fx)

		_, err := fx.svc.AppendEvent(ctx, id, AppendEventRequest{
			ActionType: domain.ActionArchive,
			Actor:      "manager@acme.test",
		})
		require.NoError(t, err)

		header, _, err := fx.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusArchived, header.Status)
	})

	t.Run("ConcurrentAppendsStayGapless", func(t *testing.T) {
		fx := newScenarioFixture()
		id := create(t, fx)

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, err := fx.svc.AppendEvent(ctx, id, AppendEventRequest{
					ActionType: domain.ActionComment,
					Actor:      fmt.Sprintf("planner-%d@acme.test", n),
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		events, err := fx.svc.ListEvents(ctx, id, 100)
		require.NoError(t, err)
		require.Len(t, events, workers+1) // CREATE plus one per worker

		seen := make(map[int]bool, len(events))
		for _, e := range events {
			assert.False(t, seen[e.VersionSeq], "duplicate version_seq %d", e.VersionSeq)
			seen[e.VersionSeq] = true
		}
		for seq := 1; seq <= workers+1; seq++ {
			assert.True(t, seen[seq], "missing version_seq %d", seq)
		}
	})

	t.Run("SequencesAreIndependentPerScenario", func(t *testing.T) {
		fx := newScenarioFixture()
		first := create(t, fx)

		header, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)
		second := header.ScenarioID

		entry, err := fx.svc.AppendEvent(ctx, first, AppendEventRequest{
			ActionType: domain.ActionApprove,
			Actor:      "manager@acme.test",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, entry.VersionSeq)

		entry, err = fx.svc.AppendEvent(ctx, second, AppendEventRequest{
			ActionType: domain.ActionReject,
			Actor:      "manager@acme.test",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, entry.VersionSeq)
	})
}

func TestListScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("FiltersByStatus", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)

		header, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)

		_, err = fx.svc.AppendEvent(ctx, header.ScenarioID, AppendEventRequest{
			ActionType: domain.ActionArchive,
			Actor:      "manager@acme.test",
		})
		require.NoError(t, err)

		archived, err := fx.svc.List(ctx, domain.StatusArchived, 0)
		require.NoError(t, err)
		assert.Len(t, archived, 1)

		active, err := fx.svc.List(ctx, domain.StatusActive, 0)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("RejectsUnknownStatusFilter", func(t *testing.T) {
		fx := newScenarioFixture()
		_, err := fx.svc.List(ctx, "PENDING", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownScenarioIsNotFound", func(t *testing.T) {
		fx := newScenarioFixture()
		_, err := fx.svc.ListEvents(ctx, uuid.New(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("LimitClampsToAtLeastOne", func(t *testing.T) {
		fx := newScenarioFixture()
		seedForecasts(fx.forecasts)
		header, _, err := fx.svc.CreateUpliftScenario(ctx, validCreateRequest())
		require.NoError(t, err)

		_, err = fx.svc.AppendEvent(ctx, header.ScenarioID, AppendEventRequest{
			ActionType: domain.ActionApprove,
			Actor:      "manager@acme.test",
		})
		require.NoError(t, err)

		events, err := fx.svc.ListEvents(ctx, header.ScenarioID, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 1, events[0].VersionSeq)
	})
}
