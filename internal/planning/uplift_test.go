package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
)

func baseRows() []domain.Forecast {
	return []domain.Forecast{
		{SKUID: "SKU-001", YearMonth: "2025-01", P10: 80, P50: 100, P90: 120, RunID: "run-1"},
		{SKUID: "SKU-001", YearMonth: "2025-02", P10: 70, P50: 90, P90: 110, RunID: "run-1"},
		{SKUID: "SKU-002", YearMonth: "2025-01", P10: 10, P50: 20, P90: 30, RunID: "run-1"},
	}
}

func TestValidateUplift(t *testing.T) {
	t.Run("AcceptsBounds", func(t *testing.T) {
		assert.NoError(t, ValidateUplift(-100))
		assert.NoError(t, ValidateUplift(0))
		assert.NoError(t, ValidateUplift(15))
		assert.NoError(t, ValidateUplift(300))
	})

	t.Run("RejectsOutOfRange", func(t *testing.T) {
		err := ValidateUplift(-100.01)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)

		err = ValidateUplift(300.01)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})
}

func TestApplyUplift(t *testing.T) {
	t.Run("ScalesAllPercentiles", func(t *testing.T) {
		results := ApplyUplift(baseRows(), 15)
		require.Len(t, results, 3)

		assert.InDelta(t, 92.0, results[0].P10, 1e-9)
		assert.InDelta(t, 115.0, results[0].P50, 1e-9)
		assert.InDelta(t, 138.0, results[0].P90, 1e-9)
	})

	t.Run("ZeroUpliftIsIdentity", func(t *testing.T) {
		base := baseRows()
		results := ApplyUplift(base, 0)
		require.Len(t, results, len(base))
		for i, res := range results {
			assert.Equal(t, base[i].P10, res.P10)
			assert.Equal(t, base[i].P50, res.P50)
			assert.Equal(t, base[i].P90, res.P90)
		}
	})

	t.Run("FullNegativeUpliftFloorsAtZero", func(t *testing.T) {
		results := ApplyUplift(baseRows(), -100)
		for _, res := range results {
			assert.Zero(t, res.P10)
			assert.Zero(t, res.P50)
			assert.Zero(t, res.P90)
		}
	})

	t.Run("NeverNegative", func(t *testing.T) {
		base := []domain.Forecast{
			{SKUID: "SKU-003", YearMonth: "2025-03", P10: 0, P50: 0.5, P90: 5, RunID: "run-1"},
		}
		results := ApplyUplift(base, -99.9)
		require.Len(t, results, 1)
		assert.GreaterOrEqual(t, results[0].P10, 0.0)
		assert.GreaterOrEqual(t, results[0].P50, 0.0)
		assert.GreaterOrEqual(t, results[0].P90, 0.0)
	})

	t.Run("PreservesRowOrderAndIdentity", func(t *testing.T) {
		base := baseRows()
		results := ApplyUplift(base, 50)
		require.Len(t, results, len(base))
		for i, res := range results {
			assert.Equal(t, base[i].SKUID, res.SKUID)
			assert.Equal(t, base[i].YearMonth, res.YearMonth)
			assert.Equal(t, base[i].RunID, res.BaseRunID)
		}
	})

	t.Run("EmptyBaseYieldsEmptyResults", func(t *testing.T) {
		results := ApplyUplift(nil, 25)
		assert.Empty(t, results)
	})
}
