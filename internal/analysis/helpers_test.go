package analysis

import (
	"context"

	"msmeinsights/domain/table"
)

// newTable builds a table from a header row and positional records
func newTable(headers []string, records ...[]string) *table.Table {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return table.New("test.csv", headers, rows)
}

// stubTables serves fixed tables by path; unknown paths load as empty
type stubTables map[string]*table.Table

func (s stubTables) Load(_ context.Context, path string) *table.Table {
	if t, ok := s[path]; ok {
		return t
	}
	return table.Empty(path)
}
