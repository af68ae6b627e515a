// internal/planning/uplift.go
package planning

import (
	"fmt"

	"github.com/praveenkumar-ap/PulseCast/internal/domain"
)

// Uplift bounds. -100 floors every value at zero; anything past 300 is
// treated as a fat-fingered request rather than a plausible what-if.
const (
	UpliftMin = -100.0
	UpliftMax = 300.0
)

// ValidateUplift rejects uplift percentages outside [UpliftMin, UpliftMax].
func ValidateUplift(upliftPercent float64) error {
	if upliftPercent < UpliftMin || upliftPercent > UpliftMax {
		return fmt.Errorf("%w: uplift_percent must be between %.1f and %.1f", domain.ErrInvalidParameter, UpliftMin, UpliftMax)
	}
	return nil
}

// ApplyUplift scales each percentile of the base rows by 1 + uplift/100,
// flooring at zero since demand cannot go negative. Rows come back in the
// same relative order as the input. ScenarioID and CreatedAt are left for the
// caller to stamp.
func ApplyUplift(base []domain.Forecast, upliftPercent float64) []domain.ScenarioResult {
	factor := 1.0 + upliftPercent/100.0

	results := make([]domain.ScenarioResult, 0, len(base))
	for _, row := range base {
		results = append(results, domain.ScenarioResult{
			SKUID:     row.SKUID,
			YearMonth: row.YearMonth,
			BaseRunID: row.RunID,
			P10:       scale(row.P10, factor),
			P50:       scale(row.P50, factor),
			P90:       scale(row.P90, factor),
		})
	}
	return results
}

func scale(value, factor float64) float64 {
	adjusted := value * factor
	if adjusted < 0 {
		return 0
	}
	return adjusted
}
