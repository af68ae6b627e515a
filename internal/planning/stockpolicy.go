// internal/planning/stockpolicy.go
package planning

import (
	"math"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
)

// Defaults applied when no per-SKU parameter row exists and the request
// carries no override.
const (
	DefaultServiceLevel     = 0.97
	DefaultLeadTimeDays     = 14
	DefaultReviewPeriodDays = 30
)

// daysPerMonth is the 30-day month convention used by both stock formulas.
const daysPerMonth = 30.0

// PolicyInputs are the resolved replenishment parameters for one SKU.
type PolicyInputs struct {
	ServiceLevel     float64
	LeadTimeDays     int
	ReviewPeriodDays int
}

// StockPolicy is the computed policy for one (sku, month) pair.
type StockPolicy struct {
	CycleStock  float64
	SafetyStock float64
	TargetStock float64
}

// ResolveParameters picks parameters for a SKU: an explicit service-level
// override wins, then the per-SKU parameter row, then the defaults. Missing
// parameters never fail; each SKU resolves independently.
func ResolveParameters(param *domain.InventoryParameter, serviceLevelOverride *float64) PolicyInputs {
	in := PolicyInputs{
		ServiceLevel:     DefaultServiceLevel,
		LeadTimeDays:     DefaultLeadTimeDays,
		ReviewPeriodDays: DefaultReviewPeriodDays,
	}
	if param != nil {
		if param.ServiceLevelTarget != nil {
			in.ServiceLevel = *param.ServiceLevelTarget
		}
		if param.LeadTimeDays != nil {
			in.LeadTimeDays = *param.LeadTimeDays
		}
		if param.ReviewPeriodDays != nil {
			in.ReviewPeriodDays = *param.ReviewPeriodDays
		}
	}
	if serviceLevelOverride != nil {
		in.ServiceLevel = *serviceLevelOverride
	}
	return in
}

// CycleStock approximates expected demand consumed during one review cycle.
func CycleStock(p50 float64, reviewPeriodDays int) float64 {
	horizonMonths := math.Max(float64(reviewPeriodDays)/daysPerMonth, 0)
	return math.Max(0, p50*horizonMonths)
}

// SafetyStock covers demand variability: the p90-p10 spread scaled by
// service-level aggressiveness and the square root of lead time in months
// (variance grows with the square root of time).
func SafetyStock(p10, p90, serviceLevel float64, leadTimeDays int) float64 {
	spread := math.Max(0, p90-p10)
	serviceFactor := math.Max(serviceLevel, 0)
	leadFactor := math.Sqrt(math.Max(float64(leadTimeDays)/daysPerMonth, 0))
	return math.Max(0, spread*serviceFactor*leadFactor)
}

// ComputePolicy evaluates the full stock policy for one percentile triple.
func ComputePolicy(p10, p50, p90 float64, in PolicyInputs) StockPolicy {
	cycle := CycleStock(p50, in.ReviewPeriodDays)
	safety := SafetyStock(p10, p90, in.ServiceLevel, in.LeadTimeDays)
	return StockPolicy{
		CycleStock:  cycle,
		SafetyStock: safety,
		TargetStock: cycle + safety,
	}
}
