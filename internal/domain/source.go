// internal/domain/source.go
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// SourceType discriminates what an optimizer run reads its base series from.
type SourceType string

const (
	SourceBaseRun  SourceType = "BASE_RUN"
	SourceScenario SourceType = "SCENARIO"
)

// SourceRef is a tagged reference to either a forecast run or a scenario.
// Exactly one of RunID/ScenarioID is meaningful, selected by Type. A BASE_RUN
// ref with an empty RunID means "resolve to the latest run".
type SourceRef struct {
	Type       SourceType
	RunID      string
	ScenarioID uuid.UUID
}

// ParseSourceRef validates the raw (source_type, source_id) pair coming off
// the wire and returns a typed reference. Existence of the referenced entity
// is checked later against the store.
func ParseSourceRef(sourceType, sourceID string) (SourceRef, error) {
	switch SourceType(sourceType) {
	case SourceBaseRun:
		return SourceRef{Type: SourceBaseRun, RunID: sourceID}, nil
	case SourceScenario:
		if sourceID == "" {
			return SourceRef{}, fmt.Errorf("%w: source_id is required for SCENARIO source", ErrInvalidParameter)
		}
		id, err := uuid.Parse(sourceID)
		if err != nil {
			return SourceRef{}, fmt.Errorf("%w: invalid scenario_id %q", ErrInvalidParameter, sourceID)
		}
		return SourceRef{Type: SourceScenario, ScenarioID: id}, nil
	default:
		return SourceRef{}, fmt.Errorf("%w: invalid source_type %q", ErrInvalidParameter, sourceType)
	}
}

// ID returns the wire form of the referenced id.
func (s SourceRef) ID() string {
	if s.Type == SourceScenario {
		return s.ScenarioID.String()
	}
	return s.RunID
}
