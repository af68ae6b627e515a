// internal/repository/memory/scenario_repository.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
)

// ScenarioRepository provides in-memory scenario storage for tests and local
// development.
type ScenarioRepository struct {
	mu      sync.RWMutex
	headers map[uuid.UUID]domain.ScenarioHeader
	results map[uuid.UUID][]domain.ScenarioResult

	// FailCreate forces CreateScenario to fail, for testing that a failed
	// persistence leaves no partial state.
	FailCreate bool
}

func NewScenarioRepository() *ScenarioRepository {
	return &ScenarioRepository{
		headers: make(map[uuid.UUID]domain.ScenarioHeader),
		results: make(map[uuid.UUID][]domain.ScenarioResult),
	}
}

// Verify interface compliance
var _ repository.ScenarioRepository = (*ScenarioRepository)(nil)

func (r *ScenarioRepository) CreateScenario(ctx context.Context, header domain.ScenarioHeader, results []domain.ScenarioResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate {
		return fmt.Errorf("scenario store unavailable")
	}

	r.headers[header.ScenarioID] = header
	r.results[header.ScenarioID] = append([]domain.ScenarioResult(nil), results...)
	return nil
}

func (r *ScenarioRepository) GetHeader(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	header, ok := r.headers[scenarioID]
	if !ok {
		return nil, fmt.Errorf("%w: scenario %s", domain.ErrNotFound, scenarioID)
	}
	return &header, nil
}

func (r *ScenarioRepository) GetWithResults(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioHeader, []domain.ScenarioResult, error) {
	header, err := r.GetHeader(ctx, scenarioID)
	if err != nil {
		return nil, nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	results := append([]domain.ScenarioResult(nil), r.results[scenarioID]...)
	sort.Slice(results, func(i, j int) bool {
		if results[i].SKUID != results[j].SKUID {
			return results[i].SKUID < results[j].SKUID
		}
		return results[i].YearMonth < results[j].YearMonth
	})
	return header, results, nil
}

func (r *ScenarioRepository) List(ctx context.Context, status string, limit int) ([]domain.ScenarioHeader, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var headers []domain.ScenarioHeader
	for _, h := range r.headers {
		if status != "" && h.Status != status {
			continue
		}
		headers = append(headers, h)
	}

	sort.Slice(headers, func(i, j int) bool { return headers[i].CreatedAt.After(headers[j].CreatedAt) })
	if len(headers) > limit {
		headers = headers[:limit]
	}
	return headers, nil
}

func (r *ScenarioRepository) FetchSeries(ctx context.Context, scenarioID uuid.UUID, skuIDs []string, fromMonth, toMonth string) ([]domain.ScenarioResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skuSet := toSet(skuIDs)
	var rows []domain.ScenarioResult
	for _, res := range r.results[scenarioID] {
		if res.YearMonth < fromMonth || res.YearMonth > toMonth {
			continue
		}
		if skuSet != nil {
			if _, ok := skuSet[res.SKUID]; !ok {
				continue
			}
		}
		rows = append(rows, res)
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

func (r *ScenarioRepository) UpdateStatus(ctx context.Context, scenarioID uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	header, ok := r.headers[scenarioID]
	if !ok {
		return fmt.Errorf("%w: scenario %s", domain.ErrNotFound, scenarioID)
	}
	header.Status = status
	header.UpdatedAt = time.Now().UTC()
	r.headers[scenarioID] = header
	return nil
}
