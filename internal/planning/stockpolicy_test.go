package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
)

func TestResolveParameters(t *testing.T) {
	t.Run("DefaultsWhenNoRowAndNoOverride", func(t *testing.T) {
		in := ResolveParameters(nil, nil)
		assert.Equal(t, DefaultServiceLevel, in.ServiceLevel)
		assert.Equal(t, DefaultLeadTimeDays, in.LeadTimeDays)
		assert.Equal(t, DefaultReviewPeriodDays, in.ReviewPeriodDays)
	})

	t.Run("RowValuesWinOverDefaults", func(t *testing.T) {
		sl := 0.9
		lead := 21
		review := 45
		in := ResolveParameters(&domain.InventoryParameter{
			SKUID:              "SKU-001",
			ServiceLevelTarget: &sl,
			LeadTimeDays:       &lead,
			ReviewPeriodDays:   &review,
		}, nil)
		assert.Equal(t, 0.9, in.ServiceLevel)
		assert.Equal(t, 21, in.LeadTimeDays)
		assert.Equal(t, 45, in.ReviewPeriodDays)
	})

	t.Run("PartialRowFillsFromDefaults", func(t *testing.T) {
		lead := 7
		in := ResolveParameters(&domain.InventoryParameter{
			SKUID:        "SKU-001",
			LeadTimeDays: &lead,
		}, nil)
		assert.Equal(t, DefaultServiceLevel, in.ServiceLevel)
		assert.Equal(t, 7, in.LeadTimeDays)
		assert.Equal(t, DefaultReviewPeriodDays, in.ReviewPeriodDays)
	})

	t.Run("OverrideWinsOverRow", func(t *testing.T) {
		sl := 0.9
		override := 0.99
		in := ResolveParameters(&domain.InventoryParameter{
			SKUID:              "SKU-001",
			ServiceLevelTarget: &sl,
		}, &override)
		assert.Equal(t, 0.99, in.ServiceLevel)
	})
}

func TestCycleStock(t *testing.T) {
	t.Run("ThirtyDayReviewEqualsMedianDemand", func(t *testing.T) {
		assert.InDelta(t, 100.0, CycleStock(100, 30), 1e-9)
	})

	t.Run("ScalesWithReviewPeriod", func(t *testing.T) {
		assert.InDelta(t, 200.0, CycleStock(100, 60), 1e-9)
		assert.InDelta(t, 50.0, CycleStock(100, 15), 1e-9)
	})

	t.Run("NeverNegative", func(t *testing.T) {
		assert.Zero(t, CycleStock(-50, 30))
		assert.Zero(t, CycleStock(100, 0))
	})
}

func TestSafetyStock(t *testing.T) {
	t.Run("ReferenceCase", func(t *testing.T) {
		// spread 40, service 0.97, lead 14 days: 40*0.97*sqrt(14/30)
		got := SafetyStock(80, 120, 0.97, 14)
		assert.InDelta(t, 26.5607, got, 1e-3)
	})

	t.Run("ZeroSpreadMeansZeroSafety", func(t *testing.T) {
		assert.Zero(t, SafetyStock(100, 100, 0.97, 14))
	})

	t.Run("InvertedSpreadClampsToZero", func(t *testing.T) {
		assert.Zero(t, SafetyStock(120, 80, 0.97, 14))
	})

	t.Run("ZeroLeadTimeMeansZeroSafety", func(t *testing.T) {
		assert.Zero(t, SafetyStock(80, 120, 0.97, 0))
	})
}

func TestComputePolicy(t *testing.T) {
	in := PolicyInputs{ServiceLevel: 0.97, LeadTimeDays: 14, ReviewPeriodDays: 30}

	t.Run("TargetIsCyclePlusSafety", func(t *testing.T) {
		policy := ComputePolicy(80, 100, 120, in)
		assert.InDelta(t, policy.CycleStock+policy.SafetyStock, policy.TargetStock, 1e-9)
	})

	t.Run("ReferenceCase", func(t *testing.T) {
		policy := ComputePolicy(80, 100, 120, in)
		assert.InDelta(t, 100.0, policy.CycleStock, 1e-9)
		assert.InDelta(t, 26.5607, policy.SafetyStock, 1e-3)
		assert.InDelta(t, 126.5607, policy.TargetStock, 1e-3)
	})

	t.Run("AllComponentsNonNegative", func(t *testing.T) {
		cases := []struct {
			name          string
			p10, p50, p90 float64
		}{
			{"ZeroDemand", 0, 0, 0},
			{"InvertedPercentiles", 120, 100, 80},
			{"NegativeMedian", 10, -5, 20},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				policy := ComputePolicy(tc.p10, tc.p50, tc.p90, in)
				assert.GreaterOrEqual(t, policy.CycleStock, 0.0)
				assert.GreaterOrEqual(t, policy.SafetyStock, 0.0)
				assert.GreaterOrEqual(t, policy.TargetStock, 0.0)
			})
		}
	})
}
