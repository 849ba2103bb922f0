package excel

import (
	"fmt"
	"strconv"
	"strings"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

// ParseComposite decodes one composite value such as `5,30,"М"` into a record.
func ParseComposite(value string) (leave.Record, error) {
	return parseCompositeAt(0, value)
}

func parseCompositeAt(line int, value string) (leave.Record, error) {
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return leave.Record{}, core.NewMalformedRecordError(line, value,
			fmt.Sprintf("expected 3 comma-separated fields, got %d", len(tokens)))
	}

	workDays, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
	if err != nil {
		return leave.Record{}, core.NewMalformedRecordError(line, value, "work days is not an integer")
	}
	if workDays < 0 {
		return leave.Record{}, core.NewMalformedRecordError(line, value, "work days is negative")
	}

	age, err := strconv.Atoi(strings.TrimSpace(tokens[1]))
	if err != nil {
		return leave.Record{}, core.NewMalformedRecordError(line, value, "age is not an integer")
	}
	if age <= 0 {
		return leave.Record{}, core.NewMalformedRecordError(line, value, "age must be positive")
	}

	gender, err := parseGender(strings.TrimSpace(tokens[2]))
	if err != nil {
		return leave.Record{}, core.NewMalformedRecordError(line, value, err.Error())
	}

	return leave.Record{WorkDays: workDays, Age: age, Gender: gender}, nil
}

func parseGender(token string) (leave.Gender, error) {
	switch token {
	case genderMaleLiteral:
		return leave.GenderMale, nil
	case genderFemaleLiteral:
		return leave.GenderFemale, nil
	}
	return "", fmt.Errorf("unrecognized gender %s", token)
}

// compositeIndex finds the composite column in the header row
func compositeIndex(header []string) int {
	for i, cell := range header {
		cell = strings.TrimPrefix(cell, "\ufeff")
		if strings.TrimSpace(cell) == CompositeHeader {
			return i
		}
	}
	return -1
}

// decodeRows turns physical rows into records. The first row is the header;
// only the composite column is read and it does not survive into the output.
func decodeRows(rows []rawRow) ([]leave.Record, error) {
	if len(rows) == 0 {
		return nil, core.NewMalformedRecordError(1, "", "missing header row")
	}

	header := rows[0]
	idx := compositeIndex(header.cells)
	if idx < 0 {
		return nil, core.NewMalformedRecordError(header.line, strings.Join(header.cells, ","),
			"composite column "+strconv.Quote(CompositeHeader)+" not found")
	}

	records := make([]leave.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if idx >= len(row.cells) {
			return nil, core.NewMalformedRecordError(row.line, strings.Join(row.cells, ","), "row has no composite column")
		}
		rec, err := parseCompositeAt(row.line, row.cells[idx])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
