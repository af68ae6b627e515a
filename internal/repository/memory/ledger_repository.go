// internal/repository/memory/ledger_repository.go
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
)

const maxLedgerEvents = 500

// LedgerRepository provides in-memory append-only ledger storage. A single
// mutex serializes appends, which keeps version_seq gapless per scenario
// without a database constraint.
type LedgerRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]domain.LedgerEntry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{entries: make(map[uuid.UUID][]domain.LedgerEntry)}
}

// Verify interface compliance
var _ repository.LedgerRepository = (*LedgerRepository)(nil)

func (r *LedgerRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.entries[entry.ScenarioID]
	maxSeq := 0
	for _, e := range existing {
		if e.VersionSeq > maxSeq {
			maxSeq = e.VersionSeq
		}
	}
	entry.VersionSeq = maxSeq + 1
	r.entries[entry.ScenarioID] = append(existing, entry)
	return entry, nil
}

func (r *LedgerRepository) ListEvents(ctx context.Context, scenarioID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxLedgerEvents {
		limit = maxLedgerEvents
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	events := append([]domain.LedgerEntry(nil), r.entries[scenarioID]...)
	sort.Slice(events, func(i, j int) bool { return events[i].VersionSeq < events[j].VersionSeq })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
