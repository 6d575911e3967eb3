package grid

import "ordergrid/internal/model"

// CellRef addresses one cell by row identity and field key. Position is
// never part of the address.
type CellRef struct {
	RowID string `json:"rowId"`
	Field string `json:"field"`
}

// Selection is the ordered set of currently active cells. Order is
// meaningful: it decides how clipboard entries map onto paste targets.
type Selection []CellRef

// RowIDs returns the distinct row ids in selection order.
func (s Selection) RowIDs() []string {
	var ids []string
	seen := make(map[string]bool, len(s))
	for _, c := range s {
		if seen[c.RowID] {
			continue
		}
		seen[c.RowID] = true
		ids = append(ids, c.RowID)
	}
	return ids
}

// ClipEntry is one copied cell: its field key and its value as cell text.
type ClipEntry struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Clipboard is the most recently copied ordered list of cells. It is
// immutable once captured; the next copy replaces it wholesale.
type Clipboard []ClipEntry

// Copy captures the selected cells from the grid in selection order.
// Reports false on an empty selection; references to rows or fields that no
// longer exist are skipped.
func Copy(g Grid, sel Selection) (Clipboard, bool) {
	if len(sel) == 0 {
		return nil, false
	}
	var clip Clipboard
	for _, c := range sel {
		idx, ok := g.Find(c.RowID)
		if !ok {
			continue
		}
		col, ok := model.ColumnByKey(c.Field)
		if !ok {
			continue
		}
		v, _ := g[idx].Field(c.Field)
		clip = append(clip, ClipEntry{Field: c.Field, Value: col.Format(v)})
	}
	if len(clip) == 0 {
		return nil, false
	}
	return clip, true
}

// Paste applies the clipboard onto the selection: target i receives
// clipboard[i mod len] and only when the field keys match, so a copied
// quantity never lands in a description column. A smaller clipboard cycles
// over a larger selection. Cells that reject their value are skipped without
// failing the batch. Returns the resulting grid and how many cells changed.
func Paste(g Grid, sel Selection, clip Clipboard) (Grid, int) {
	if len(sel) == 0 || len(clip) == 0 {
		return g, 0
	}
	out := g
	applied := 0
	for i, target := range sel {
		entry := clip[i%len(clip)]
		if entry.Field != target.Field {
			continue
		}
		next, err := out.SetField(target.RowID, target.Field, entry.Value)
		if err != nil {
			continue
		}
		out = next
		applied++
	}
	return out, applied
}
