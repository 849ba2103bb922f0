package senses

import (
	"fmt"
	"math"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

// TwoSampleTest compares the location of two numeric samples
type TwoSampleTest interface {
	Name() string
	Description() string
	// CompareGroups tests the groups' work-day samples against significance threshold alpha.
	CompareGroups(first, second leave.Group, alpha float64) (leave.TestOutcome, error)
}

// ValidateAlpha rejects significance thresholds outside [0, 1]
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return core.NewInvalidBoundsError("alpha", fmt.Sprintf("%v is outside [0, 1]", alpha))
	}
	return nil
}

// isSignificant is strict: a p-value equal to alpha does not reject H0.
func isSignificant(pValue, alpha float64) bool {
	return pValue < alpha
}
