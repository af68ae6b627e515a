// internal/domain/month.go
package domain

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// ValidMonth reports whether value is a YYYY-MM month.
func ValidMonth(value string) bool {
	_, err := time.Parse(monthLayout, value)
	return err == nil
}

// ValidateMonthRange checks both months parse and from <= to. The format is
// fixed width, so lexicographic comparison is safe for the ordering check.
func ValidateMonthRange(fromMonth, toMonth string) error {
	if !ValidMonth(fromMonth) {
		return fmt.Errorf("%w: invalid from_month %q, expected YYYY-MM", ErrInvalidParameter, fromMonth)
	}
	if !ValidMonth(toMonth) {
		return fmt.Errorf("%w: invalid to_month %q, expected YYYY-MM", ErrInvalidParameter, toMonth)
	}
	if fromMonth > toMonth {
		return fmt.Errorf("%w: from_month %s cannot be after to_month %s", ErrInvalidRange, fromMonth, toMonth)
	}
	return nil
}

// ValidateOptionalMonthRange checks whichever bounds are set; either may be
// empty. A set bound must parse, and when both are set from must not exceed
// to.
func ValidateOptionalMonthRange(fromMonth, toMonth string) error {
	if fromMonth != "" && !ValidMonth(fromMonth) {
		return fmt.Errorf("%w: invalid from_month %q, expected YYYY-MM", ErrInvalidParameter, fromMonth)
	}
	if toMonth != "" && !ValidMonth(toMonth) {
		return fmt.Errorf("%w: invalid to_month %q, expected YYYY-MM", ErrInvalidParameter, toMonth)
	}
	if fromMonth != "" && toMonth != "" && fromMonth > toMonth {
		return fmt.Errorf("%w: from_month %s cannot be after to_month %s", ErrInvalidRange, fromMonth, toMonth)
	}
	return nil
}
