package grid

import (
	"encoding/csv"
	"io"
	"strings"

	"ordergrid/internal/model"
)

// ExportFilename is the deterministic name of the CSV download.
const ExportFilename = "order-items.csv"

// ExportCSV renders the grid as flat text: a header of column labels, one
// line per row, every column's value as cell text.
func ExportCSV(g Grid) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		header[i] = c.Label
	}
	_ = w.Write(header)

	record := make([]string, len(model.Columns))
	for _, row := range g {
		for i, c := range model.Columns {
			v, _ := row.Field(c.Key)
			record[i] = c.Format(v)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return sb.String()
}

// ImportCSV parses flat text back into rows. The header maps labels to
// columns; unknown labels are ignored. Each data line becomes a fresh row
// built from defaults overlaid with the parsed cells. Malformed lines are
// skipped individually, as are cells a column rejects. Rows with neither an
// item code nor a description are dropped. A totally empty or garbage input
// yields zero rows without error.
func ImportCSV(text string) []model.Row {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil
	}
	cols := make([]*model.Column, len(header))
	for i, label := range header {
		if c, ok := model.ColumnByLabel(strings.TrimSpace(label)); ok {
			cols[i] = &c
		}
	}

	var rows []model.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row := model.NewRow()
		for i, cell := range record {
			if i >= len(cols) || cols[i] == nil || !cols[i].Writable {
				continue
			}
			v, err := cols[i].Parse(cell)
			if err != nil {
				continue
			}
			if err := row.Apply(cols[i].Key, v); err != nil {
				continue
			}
		}
		if row.ItemCode == "" && row.Description == "" {
			continue
		}
		row.Recompute()
		rows = append(rows, row)
	}
	return rows
}
