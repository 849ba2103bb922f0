package senses

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

var _ TwoSampleTest = (*WelchTTestSense)(nil)

// WelchTTestSense detects significant differences between group means with unequal variances
type WelchTTestSense struct{}

// NewWelchTTestSense creates a new Welch's t-test sense
func NewWelchTTestSense() *WelchTTestSense {
	return &WelchTTestSense{}
}

// Name returns the sense name
func (s *WelchTTestSense) Name() string {
	return "welch_ttest"
}

// Description returns a human-readable description
func (s *WelchTTestSense) Description() string {
	return "Two-sided Welch's t-test for a difference of means with unequal variances"
}

// Compare runs the test on two raw samples labelled "A" and "B"
func (s *WelchTTestSense) Compare(a, b []float64, alpha float64) (leave.TestOutcome, error) {
	return s.compare("A", a, "B", b, alpha)
}

// CompareGroups runs the test on the groups' work-day samples
func (s *WelchTTestSense) CompareGroups(first, second leave.Group, alpha float64) (leave.TestOutcome, error) {
	return s.compare(first.Name, first.Sample, second.Name, second.Sample, alpha)
}

func (s *WelchTTestSense) compare(nameA string, a []float64, nameB string, b []float64, alpha float64) (leave.TestOutcome, error) {
	if err := ValidateAlpha(alpha); err != nil {
		return leave.TestOutcome{}, err
	}
	if len(a) < 2 {
		return leave.TestOutcome{}, core.NewInsufficientSampleError(nameA, len(a))
	}
	if len(b) < 2 {
		return leave.TestOutcome{}, core.NewInsufficientSampleError(nameB, len(b))
	}

	sumA, err := summarize(a)
	if err != nil {
		return leave.TestOutcome{}, err
	}
	sumB, err := summarize(b)
	if err != nil {
		return leave.TestOutcome{}, err
	}
	if sumA.Variance == 0 && sumB.Variance == 0 {
		return leave.TestOutcome{}, core.NewDegenerateVarianceError(nameA, nameB)
	}

	tStat, df := welchStatistic(sumA, sumB)

	// Two-sided p-value from the upper tail at |t|
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := math.Min(1, 2*tDist.Survival(math.Abs(tStat)))

	if math.IsNaN(tStat) || math.IsNaN(df) || math.IsNaN(pValue) {
		return leave.TestOutcome{}, fmt.Errorf("welch t-test on %q vs %q produced a non-finite result", nameA, nameB)
	}

	return leave.TestOutcome{
		Statistic:        tStat,
		PValue:           pValue,
		Threshold:        alpha,
		Significant:      isSignificant(pValue, alpha),
		DegreesOfFreedom: df,
		First:            sumA,
		Second:           sumB,
	}, nil
}

// welchStatistic returns t = (mean1 - mean2) / sqrt(var1/n1 + var2/n2) and the
// Welch-Satterthwaite degrees of freedom.
func welchStatistic(a, b leave.SampleSummary) (float64, float64) {
	n1 := float64(a.N)
	n2 := float64(b.N)

	se1 := a.Variance / n1
	se2 := b.Variance / n2
	seSum := se1 + se2

	tStat := (a.Mean - b.Mean) / math.Sqrt(seSum)
	df := (seSum * seSum) / (se1*se1/(n1-1) + se2*se2/(n2-1))
	return tStat, df
}

// summarize computes size, mean and unbiased (n-1) variance
func summarize(sample []float64) (leave.SampleSummary, error) {
	data := stats.Float64Data(sample)

	mean, err := stats.Mean(data)
	if err != nil {
		return leave.SampleSummary{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	variance, err := stats.SampleVariance(data)
	if err != nil {
		return leave.SampleSummary{}, fmt.Errorf("failed to compute variance: %w", err)
	}

	return leave.SampleSummary{N: len(sample), Mean: mean, Variance: variance}, nil
}
