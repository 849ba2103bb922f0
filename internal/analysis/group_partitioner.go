package analysis

import (
	"fmt"

	"sickstat/domain/leave"
)

// Group names used by the gender split
const (
	GroupMen   = "men"
	GroupWomen = "women"
)

// OlderGroupName labels records with age >= threshold
func OlderGroupName(threshold int) string { return fmt.Sprintf("age %d+", threshold) }

// YoungerGroupName labels records with age < threshold
func YoungerGroupName(threshold int) string { return fmt.Sprintf("age < %d", threshold) }

// PartitionByGender splits the dataset into men and everyone else
func PartitionByGender(d leave.Dataset) leave.GroupPair {
	var men, women []leave.Record
	for _, r := range d.Records {
		if r.Gender == leave.GenderMale {
			men = append(men, r)
		} else {
			women = append(women, r)
		}
	}
	return leave.GroupPair{
		Dimension: leave.DimensionGender,
		First:     leave.NewGroup(GroupMen, men),
		Second:    leave.NewGroup(GroupWomen, women),
	}
}

// PartitionByAge splits the dataset at threshold; the threshold itself belongs to the older group
func PartitionByAge(d leave.Dataset, threshold int) leave.GroupPair {
	var older, younger []leave.Record
	for _, r := range d.Records {
		if r.Age >= threshold {
			older = append(older, r)
		} else {
			younger = append(younger, r)
		}
	}
	return leave.GroupPair{
		Dimension: leave.DimensionAge,
		First:     leave.NewGroup(OlderGroupName(threshold), older),
		Second:    leave.NewGroup(YoungerGroupName(threshold), younger),
	}
}

// BinCount is the work-day span of the filter bounds, floored at one bin
func BinCount(workDays leave.RangeBounds) int {
	return max(1, workDays.Span())
}

// PartitionDataset produces both comparison splits of an already filtered dataset
func PartitionDataset(filtered leave.Dataset, workDays leave.RangeBounds, ageThreshold int) leave.Partition {
	return leave.Partition{
		Gender:   PartitionByGender(filtered),
		Age:      PartitionByAge(filtered, ageThreshold),
		BinCount: BinCount(workDays),
	}
}

// MaxHistogramBins caps the bins a histogram is drawn with. BinCount itself is
// not capped; a wide work-day range only coarsens the drawn bins.
const MaxHistogramBins = 200

// BuildHistogram counts sample values into bins equal-width bins spanning workDays,
// with bins clamped to [1, MaxHistogramBins].
// The last bin is closed on the right so the maximum lands in it.
func BuildHistogram(sample []float64, workDays leave.RangeBounds, bins int) leave.Histogram {
	bins = min(max(1, bins), MaxHistogramBins)
	lo := float64(workDays.Min)
	width := float64(workDays.Span()) / float64(bins)
	if width == 0 {
		width = 1
	}

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}

	counts := make([]int, bins)
	for _, v := range sample {
		idx := int((v - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return leave.Histogram{Edges: edges, Counts: counts}
}
