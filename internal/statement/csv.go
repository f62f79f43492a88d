package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads the collaborator's row-oriented table into raw rows. The
// first line is a header naming the columns; unknown columns are ignored and
// missing columns yield empty fields. Zero data rows is a valid outcome, not
// an error.
func ParseCSV(content string) ([]RawRow, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []RawRow{}, nil
	}

	r := csv.NewReader(strings.NewReader(trimmed))
	// Exports in the wild pad or drop trailing columns per row.
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["date"]; !ok {
		return nil, fmt.Errorf("ParseCSV: header %q has no Date column", strings.Join(header, ","))
	}
	if _, ok := index["amount"]; !ok {
		return nil, fmt.Errorf("ParseCSV: header %q has no Amount column", strings.Join(header, ","))
	}

	field := func(values []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[i])
	}

	var rows []RawRow
	for {
		values, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ParseCSV: read row: %w", err)
		}
		rows = append(rows, RawRow{
			Date:     field(values, "date"),
			Amount:   field(values, "amount"),
			Category: field(values, "category"),
			Title:    field(values, "title"),
			Note:     field(values, "note"),
			Account:  field(values, "account"),
		})
	}
	if rows == nil {
		rows = []RawRow{}
	}
	return rows, nil
}
