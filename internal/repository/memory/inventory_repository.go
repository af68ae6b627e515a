// internal/repository/memory/inventory_repository.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
)

const maxRecommendationList = 1000

// InventoryRepository provides in-memory parameter and recommendation
// storage for tests and local development.
type InventoryRepository struct {
	mu              sync.RWMutex
	parameters      map[string]domain.InventoryParameter
	recommendations []domain.InventoryRecommendation

	// FailSave forces SaveRecommendations to fail, for testing rollback
	// behavior.
	FailSave bool
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{parameters: make(map[string]domain.InventoryParameter)}
}

// Verify interface compliance
var _ repository.InventoryRepository = (*InventoryRepository)(nil)

// SetParameters adds a per-SKU parameter row.
func (r *InventoryRepository) SetParameters(param domain.InventoryParameter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parameters[param.SKUID] = param
}

// Recommendations returns a snapshot of everything persisted so far.
func (r *InventoryRepository) Recommendations() []domain.InventoryRecommendation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.InventoryRecommendation(nil), r.recommendations...)
}

func (r *InventoryRepository) GetParameters(ctx context.Context, skuID string) (*domain.InventoryParameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	param, ok := r.parameters[skuID]
	if !ok {
		return nil, nil
	}
	return &param, nil
}

func (r *InventoryRepository) SaveRecommendations(ctx context.Context, recs []domain.InventoryRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSave {
		return fmt.Errorf("recommendation store unavailable")
	}

	r.recommendations = append(r.recommendations, recs...)
	return nil
}

func (r *InventoryRepository) ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > maxRecommendationList {
		limit = maxRecommendationList
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var recs []domain.InventoryRecommendation
	for _, rec := range r.recommendations {
		if filter.SKUID != "" && rec.SKUID != filter.SKUID {
			continue
		}
		if filter.SourceType != "" && rec.SourceType != filter.SourceType {
			continue
		}
		if filter.SourceID != "" && rec.SourceID != filter.SourceID {
			continue
		}
		if filter.FromMonth != "" && rec.YearMonth < filter.FromMonth {
			continue
		}
		if filter.ToMonth != "" && rec.YearMonth > filter.ToMonth {
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}
