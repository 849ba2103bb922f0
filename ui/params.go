package ui

import (
	"fmt"
	"strconv"
	"strings"

	"sickstat/app"
	"sickstat/domain/leave"
	"sickstat/internal/errors"
)

// Form field names shared by the JSON API and the report form
const (
	fieldFile         = "file"
	fieldAgeMin       = "age_min"
	fieldAgeMax       = "age_max"
	fieldWorkDaysMin  = "work_days_min"
	fieldWorkDaysMax  = "work_days_max"
	fieldAgeThreshold = "age_threshold"
	fieldAlpha        = "alpha"
)

// parseAnalysisParams reads analysis parameters from form values.
// Blank fields stay unset; a range needs both of its ends or neither.
func parseAnalysisParams(get func(string) string) (app.AnalysisParams, error) {
	var params app.AnalysisParams
	var err error

	if params.AgeRange, err = parseRange(get, fieldAgeMin, fieldAgeMax); err != nil {
		return app.AnalysisParams{}, err
	}
	if params.WorkDaysRange, err = parseRange(get, fieldWorkDaysMin, fieldWorkDaysMax); err != nil {
		return app.AnalysisParams{}, err
	}

	if raw := strings.TrimSpace(get(fieldAgeThreshold)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return app.AnalysisParams{}, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", fieldAgeThreshold, raw))
		}
		params.AgeThreshold = &v
	}

	if raw := strings.TrimSpace(get(fieldAlpha)); raw != "" {
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return app.AnalysisParams{}, errors.InvalidInput(fmt.Sprintf("%s must be a number, got %q", fieldAlpha, raw))
		}
		params.Alpha = &v
	}

	return params, nil
}

func parseRange(get func(string) string, minField, maxField string) (*leave.RangeBounds, error) {
	rawMin, rawMax := strings.TrimSpace(get(minField)), strings.TrimSpace(get(maxField))
	if rawMin == "" && rawMax == "" {
		return nil, nil
	}
	if rawMin == "" || rawMax == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("%s and %s must be given together", minField, maxField))
	}

	lo, err := strconv.Atoi(rawMin)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", minField, rawMin))
	}
	hi, err := strconv.Atoi(rawMax)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", maxField, rawMax))
	}
	bounds, err := leave.NewRangeBounds(minField+".."+maxField, lo, hi)
	if err != nil {
		return nil, err
	}
	return &bounds, nil
}
