package leave

import (
	"fmt"

	"sickstat/domain/core"
)

// Gender is the categorical gender of an employee record
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Record is one employee's sick-leave row. Records are immutable once parsed.
type Record struct {
	WorkDays int    `json:"work_days"`
	Age      int    `json:"age"`
	Gender   Gender `json:"gender"`
}

// Dataset is an ordered sequence of records sharing one schema
type Dataset struct {
	Records []Record         `json:"records"`
	Source  string           `json:"source,omitempty"`
	Hash    core.DatasetHash `json:"hash,omitempty"`
}

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d.Records)
}

// IsEmpty reports whether the dataset has no rows
func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}

// RangeBounds is an inclusive [Min, Max] interval over an integer field
type RangeBounds struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// NewRangeBounds builds bounds and enforces Min <= Max.
func NewRangeBounds(field string, min, max int) (RangeBounds, error) {
	b := RangeBounds{Min: min, Max: max}
	if err := b.Validate(field); err != nil {
		return RangeBounds{}, err
	}
	return b, nil
}

// Validate returns an invalid-bounds error when Min > Max
func (b RangeBounds) Validate(field string) error {
	if b.Min > b.Max {
		return core.NewInvalidBoundsError(field, fmt.Sprintf("min %d is greater than max %d", b.Min, b.Max))
	}
	return nil
}

// Contains reports whether v lies inside the bounds, both ends inclusive
func (b RangeBounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Span returns Max - Min, which may be zero
func (b RangeBounds) Span() int {
	return b.Max - b.Min
}

// Dimension names the axis along which a comparison splits the population
type Dimension string

const (
	DimensionGender Dimension = "gender"
	DimensionAge    Dimension = "age"
)

// Group is a named subset of the filtered dataset with its work-day sample
type Group struct {
	Name    string    `json:"name"`
	Records []Record  `json:"-"`
	Sample  []float64 `json:"sample"`
}

// NewGroup derives the work-day sample from records
func NewGroup(name string, records []Record) Group {
	sample := make([]float64, len(records))
	for i, r := range records {
		sample[i] = float64(r.WorkDays)
	}
	return Group{Name: name, Records: records, Sample: sample}
}

// Size returns the number of observations
func (g Group) Size() int {
	return len(g.Sample)
}

// GroupPair is one two-way split of the filtered dataset
type GroupPair struct {
	Dimension Dimension `json:"dimension"`
	First     Group     `json:"first"`
	Second    Group     `json:"second"`
}

// Partition is everything the partitioner hands to the tester and the chart renderer
type Partition struct {
	Gender   GroupPair `json:"gender"`
	Age      GroupPair `json:"age"`
	BinCount int       `json:"bin_count"`
}

// SampleSummary holds the moments the tester derived for one sample
type SampleSummary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// TestOutcome is the verdict of one two-sample comparison
type TestOutcome struct {
	Statistic        float64       `json:"statistic"`
	PValue           float64       `json:"p_value"`
	Threshold        float64       `json:"threshold"`
	Significant      bool          `json:"significant"`
	DegreesOfFreedom float64       `json:"degrees_of_freedom"`
	First            SampleSummary `json:"first"`
	Second           SampleSummary `json:"second"`
}

// Histogram bins a group's sample over the work-day bounds
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}
