package app

import (
	"fmt"
	"time"

	"sickstat/adapters/stats/senses"
	"sickstat/domain/core"
	"sickstat/domain/leave"
	"sickstat/internal"
	"sickstat/internal/analysis"
	"sickstat/internal/config"
	"sickstat/internal/errors"
	"sickstat/ports"
)

// AnalysisParams is what the analyst chose. Nil fields fall back to defaults:
// observed ranges, the configured age threshold and the configured alpha.
type AnalysisParams struct {
	AgeRange      *leave.RangeBounds `json:"age_range,omitempty" yaml:"age_range,omitempty"`
	WorkDaysRange *leave.RangeBounds `json:"work_days_range,omitempty" yaml:"work_days_range,omitempty"`
	AgeThreshold  *int               `json:"age_threshold,omitempty" yaml:"age_threshold,omitempty"`
	Alpha         *float64           `json:"alpha,omitempty" yaml:"alpha,omitempty"`
}

// ResolvedParams are the concrete values an analysis ran with
type ResolvedParams struct {
	AgeRange      leave.RangeBounds `json:"age_range"`
	WorkDaysRange leave.RangeBounds `json:"work_days_range"`
	AgeThreshold  int               `json:"age_threshold"`
	Alpha         float64           `json:"alpha"`
}

// DatasetSummary describes a parsed dataset and the slider domains it implies
type DatasetSummary struct {
	Source        string             `json:"source"`
	Hash          string             `json:"hash"`
	Records       int                `json:"records"`
	Men           int                `json:"men"`
	Women         int                `json:"women"`
	AgeRange      *leave.RangeBounds `json:"age_range,omitempty"`
	WorkDaysRange *leave.RangeBounds `json:"work_days_range,omitempty"`
}

// ComparisonFailure is the serialisable form of a comparison error
type ComparisonFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Comparison is one two-group test: the groups, their histograms, and either an outcome or the reason there is none
type Comparison struct {
	Dimension       leave.Dimension    `json:"dimension"`
	Groups          leave.GroupPair    `json:"groups"`
	FirstHistogram  leave.Histogram    `json:"first_histogram"`
	SecondHistogram leave.Histogram    `json:"second_histogram"`
	Outcome         *leave.TestOutcome `json:"outcome,omitempty"`
	Err             error              `json:"-"`
	Failure         *ComparisonFailure `json:"failure,omitempty"`
	Summary         HypothesisSummary  `json:"summary"`
}

// Report is the full result of one analysis run
type Report struct {
	ID            core.AnalysisID `json:"id"`
	Dataset       DatasetSummary  `json:"dataset"`
	Params        ResolvedParams  `json:"params"`
	FilteredCount int             `json:"filtered_count"`
	BinCount      int             `json:"bin_count"`
	Gender        Comparison      `json:"gender"`
	Age           Comparison      `json:"age"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Comparisons returns both comparisons in display order
func (r *Report) Comparisons() []*Comparison {
	return []*Comparison{&r.Gender, &r.Age}
}

// AnalysisService runs parse -> filter -> partition -> test over an explicitly passed dataset
type AnalysisService struct {
	reader     ports.DatasetReaderPort
	tester     senses.TwoSampleTest
	summarizer *HypothesisSummarizer
	defaults   config.AnalysisConfig
	logger     *internal.Logger
}

// NewAnalysisService wires the pipeline components
func NewAnalysisService(reader ports.DatasetReaderPort, tester senses.TwoSampleTest, defaults config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		reader:     reader,
		tester:     tester,
		summarizer: NewHypothesisSummarizer(),
		defaults:   defaults,
		logger:     internal.DefaultLogger,
	}
}

// WithLogger replaces the service's logger
func (s *AnalysisService) WithLogger(logger *internal.Logger) *AnalysisService {
	s.logger = logger
	return s
}

// Load parses an uploaded file
func (s *AnalysisService) Load(raw []byte, name string) (leave.Dataset, error) {
	return s.reader.ReadBytes(raw, name)
}

// LoadFile parses a file from disk
func (s *AnalysisService) LoadFile(path string) (leave.Dataset, error) {
	return s.reader.ReadFile(path)
}

// Describe summarises a dataset for the parameter controls
func (s *AnalysisService) Describe(d leave.Dataset) DatasetSummary {
	summary := DatasetSummary{
		Source:  d.Source,
		Hash:    d.Hash.String(),
		Records: d.Len(),
	}
	if age, days, ok := analysis.ObservedBounds(d); ok {
		summary.AgeRange = &age
		summary.WorkDaysRange = &days
	}
	genders := analysis.PartitionByGender(d)
	summary.Men = genders.First.Size()
	summary.Women = genders.Second.Size()
	return summary
}

// Resolve fills unset parameters and validates every value against its domain
func (s *AnalysisService) Resolve(d leave.Dataset, params AnalysisParams) (ResolvedParams, error) {
	observedAge, observedDays, hasData := analysis.ObservedBounds(d)

	resolved := ResolvedParams{
		AgeRange:      observedAge,
		WorkDaysRange: observedDays,
		Alpha:         s.defaults.DefaultAlpha,
	}
	if params.AgeRange != nil {
		resolved.AgeRange = *params.AgeRange
	}
	if params.WorkDaysRange != nil {
		resolved.WorkDaysRange = *params.WorkDaysRange
	}
	if params.Alpha != nil {
		resolved.Alpha = *params.Alpha
	}

	if err := resolved.AgeRange.Validate("age_range"); err != nil {
		return ResolvedParams{}, err
	}
	if err := resolved.WorkDaysRange.Validate("work_days_range"); err != nil {
		return ResolvedParams{}, err
	}
	if err := senses.ValidateAlpha(resolved.Alpha); err != nil {
		return ResolvedParams{}, err
	}

	// The threshold's domain is the observed age range; the configured default
	// is clamped into it, an explicit value outside it is rejected.
	switch {
	case params.AgeThreshold != nil:
		resolved.AgeThreshold = *params.AgeThreshold
		if hasData && !observedAge.Contains(resolved.AgeThreshold) {
			return ResolvedParams{}, core.NewInvalidBoundsError("age_threshold",
				fmt.Sprintf("%d is outside the observed age range [%d, %d]", resolved.AgeThreshold, observedAge.Min, observedAge.Max))
		}
	case hasData:
		resolved.AgeThreshold = min(max(s.defaults.DefaultAgeThreshold, observedAge.Min), observedAge.Max)
	default:
		resolved.AgeThreshold = s.defaults.DefaultAgeThreshold
	}

	return resolved, nil
}

// Analyze runs both comparisons. Parameter errors fail the whole analysis;
// a comparison that cannot be computed records its error and leaves the other intact.
func (s *AnalysisService) Analyze(d leave.Dataset, params AnalysisParams) (*Report, error) {
	start := time.Now()

	resolved, err := s.Resolve(d, params)
	if err != nil {
		return nil, err
	}

	filtered, err := analysis.FilterByRange(d, resolved.AgeRange, resolved.WorkDaysRange)
	if err != nil {
		return nil, err
	}
	partition := analysis.PartitionDataset(filtered, resolved.WorkDaysRange, resolved.AgeThreshold)

	report := &Report{
		ID:            core.NewAnalysisID(),
		Dataset:       s.Describe(d),
		Params:        resolved,
		FilteredCount: filtered.Len(),
		BinCount:      partition.BinCount,
		CreatedAt:     time.Now().UTC(),
	}
	report.Gender = s.compare(partition.Gender, resolved, partition.BinCount)
	report.Age = s.compare(partition.Age, resolved, partition.BinCount)

	s.logger.Info("Analysis %s on %s: %d/%d records kept, gender=%s, age=%s (%.2fms)",
		report.ID, d.Source, filtered.Len(), d.Len(),
		describeOutcome(report.Gender), describeOutcome(report.Age),
		float64(time.Since(start).Nanoseconds())/1e6)

	return report, nil
}

func (s *AnalysisService) compare(pair leave.GroupPair, params ResolvedParams, bins int) Comparison {
	cmp := Comparison{
		Dimension:       pair.Dimension,
		Groups:          pair,
		FirstHistogram:  analysis.BuildHistogram(pair.First.Sample, params.WorkDaysRange, bins),
		SecondHistogram: analysis.BuildHistogram(pair.Second.Sample, params.WorkDaysRange, bins),
	}

	outcome, err := s.tester.CompareGroups(pair.First, pair.Second, params.Alpha)
	if err != nil {
		s.logger.Debug("Comparison %s skipped: %v", pair.Dimension, err)
		cmp.Err = err
		cmp.Failure = &ComparisonFailure{Code: errors.FromDomain(err).Code, Message: err.Error()}
	} else {
		cmp.Outcome = &outcome
	}

	cmp.Summary = s.summarizer.Summarize(pair.Dimension, params.AgeThreshold, params.Alpha, cmp.Outcome, cmp.Err)
	return cmp
}

func describeOutcome(c Comparison) string {
	if c.Err != nil {
		return "error"
	}
	return fmt.Sprintf("t=%.3f p=%.4g significant=%t", c.Outcome.Statistic, c.Outcome.PValue, c.Outcome.Significant)
}
