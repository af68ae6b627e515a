// internal/repository/postgres/ledger_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	maxLedgerEvents  = 500
	maxAppendRetries = 3

	uniqueViolation = "23505"
)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append computes the next version_seq and inserts the entry in one
// transaction. The unique constraint on (scenario_id, version_seq) catches
// two appenders that read the same max; the loser retries with a fresh read.
func (r *ledgerRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
			var currentMax int
			seqQuery := `SELECT COALESCE(MAX(version_seq), 0) FROM scenario_ledger WHERE scenario_id = $1`
			if err := tx.GetContext(ctx, &currentMax, seqQuery, entry.ScenarioID); err != nil {
				return fmt.Errorf("failed to read current version_seq: %w", err)
			}
			entry.VersionSeq = currentMax + 1

			insertQuery := `
				INSERT INTO scenario_ledger (
					ledger_id, scenario_id, version_seq, action_type,
					actor, actor_role, assumptions, comments, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`
			if _, err := tx.ExecContext(ctx, insertQuery,
				entry.LedgerID,
				entry.ScenarioID,
				entry.VersionSeq,
				entry.ActionType,
				entry.Actor,
				entry.ActorRole,
				entry.Assumptions,
				entry.Comments,
				entry.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert ledger entry: %w", err)
			}
			return nil
		})
		if err == nil {
			log.Info().
				Str("scenario_id", entry.ScenarioID.String()).
				Int("version_seq", entry.VersionSeq).
				Str("action", entry.ActionType).
				Msg("appended ledger event")
			return entry, nil
		}
		if isUniqueViolation(err) {
			log.Warn().
				Str("scenario_id", entry.ScenarioID.String()).
				Int("attempt", attempt+1).
				Msg("ledger sequence collision, retrying")
			continue
		}
		return domain.LedgerEntry{}, err
	}

	return domain.LedgerEntry{}, fmt.Errorf("%w: ledger append for scenario %s exhausted %d retries",
		domain.ErrConflict, entry.ScenarioID, maxAppendRetries)
}

func (r *ledgerRepository) ListEvents(ctx context.Context, scenarioID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxLedgerEvents {
		limit = maxLedgerEvents
	}

	query := `
		SELECT ledger_id, scenario_id, version_seq, action_type, actor,
		       COALESCE(actor_role, '') AS actor_role,
		       COALESCE(assumptions, '') AS assumptions,
		       COALESCE(comments, '') AS comments,
		       created_at
		FROM scenario_ledger
		WHERE scenario_id = $1
		ORDER BY version_seq ASC
		LIMIT $2
	`

	var entries []domain.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, scenarioID, limit); err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}

	return entries, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
