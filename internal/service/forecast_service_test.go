package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/praveenkumar-ap/PulseCast/internal/repository/memory"
)

func TestGetForSKU(t *testing.T) {
	ctx := context.Background()

	newSvc := func() (*ForecastService, *memory.ForecastRepository) {
		forecasts := memory.NewForecastRepository()
		return NewForecastService(forecasts), forecasts
	}

	t.Run("OpenEndedBounds", func(t *testing.T) {
		svc, forecasts := newSvc()
		now := time.Now().UTC()
		forecasts.Load(
			domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-01", P10: 80, P50: 100, P90: 120, RunID: "run-1", CreatedAt: now},
			domain.Forecast{SKUID: "SKU-001", YearMonth: "2025-02", P10: 70, P50: 90, P90: 110, RunID: "run-1", CreatedAt: now},
		)

		rows, err := svc.GetForSKU(ctx, "SKU-001", "2025-02", "")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2025-02", rows[0].YearMonth)

		rows, err = svc.GetForSKU(ctx, "SKU-001", "", "2025-01")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2025-01", rows[0].YearMonth)
	})

	t.Run("MalformedBoundIsInvalidParameter", func(t *testing.T) {
		svc, _ := newSvc()

		_, err := svc.GetForSKU(ctx, "SKU-001", "banana", "")
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)

		_, err = svc.GetForSKU(ctx, "SKU-001", "", "2025-1")
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("InvertedRangeIsInvalidRange", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.GetForSKU(ctx, "SKU-001", "2025-06", "2025-01")
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})
}
