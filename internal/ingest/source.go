package ingest

import (
	"context"
	"strings"

	"athletepulse/internal/dataprocessing"
)

// Source loads one raw table.
type Source interface {
	// Name is the table name used for collision suffixes and error context.
	Name() string
	Load(ctx context.Context) (dataprocessing.Table, error)
}

// tableFromRows turns raw grid rows into a table. Leading blank rows are
// skipped, the first non-empty row is the header and trailing blank rows are
// dropped.
func tableFromRows(name string, rows [][]string) dataprocessing.Table {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return dataprocessing.NewTable(name, nil, nil)
	}

	header := rows[start]
	body := rows[start+1:]
	end := len(body)
	for end > 0 && blank(body[end-1]) {
		end--
	}
	return dataprocessing.NewTable(name, header, body[:end])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
