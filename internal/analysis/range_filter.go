package analysis

import (
	"sickstat/domain/leave"
)

// ObservedBounds returns the full min/max of age and work days in the dataset.
// ok is false for an empty dataset, which has no observed range.
func ObservedBounds(d leave.Dataset) (age, workDays leave.RangeBounds, ok bool) {
	if d.IsEmpty() {
		return leave.RangeBounds{}, leave.RangeBounds{}, false
	}

	first := d.Records[0]
	age = leave.RangeBounds{Min: first.Age, Max: first.Age}
	workDays = leave.RangeBounds{Min: first.WorkDays, Max: first.WorkDays}
	for _, r := range d.Records[1:] {
		age.Min = min(age.Min, r.Age)
		age.Max = max(age.Max, r.Age)
		workDays.Min = min(workDays.Min, r.WorkDays)
		workDays.Max = max(workDays.Max, r.WorkDays)
	}
	return age, workDays, true
}

// FilterByRange keeps the records whose age and work days both fall inside
// the inclusive bounds. Relative order is preserved and d is not modified.
func FilterByRange(d leave.Dataset, age, workDays leave.RangeBounds) (leave.Dataset, error) {
	if err := age.Validate("age_range"); err != nil {
		return leave.Dataset{}, err
	}
	if err := workDays.Validate("work_days_range"); err != nil {
		return leave.Dataset{}, err
	}

	kept := make([]leave.Record, 0, len(d.Records))
	for _, r := range d.Records {
		if age.Contains(r.Age) && workDays.Contains(r.WorkDays) {
			kept = append(kept, r)
		}
	}

	return leave.Dataset{Records: kept, Source: d.Source, Hash: d.Hash}, nil
}
