package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

func decodeCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	labelCol, okLabel := col["label"]
	valueCol, okValue := col["value"]
	if !okLabel || !okValue {
		return nil, fmt.Errorf("csv header must contain label and value columns, got %v", rows[0])
	}
	idCol, hasID := col["id"]
	autoCol, hasAuto := col["auto_description"]

	recs := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: value: %w", n+2, err)
		}
		rec := Record{Label: row[labelCol], Value: v}
		if hasID {
			rec.ID = row[idCol]
		}
		if hasAuto {
			rec.AutoDescription, _ = strconv.ParseBool(strings.TrimSpace(row[autoCol]))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
