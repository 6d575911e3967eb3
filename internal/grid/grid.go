package grid

import (
	"errors"
	"fmt"

	"ordergrid/internal/model"
)

var (
	ErrRowNotFound = errors.New("row not found")
	ErrLastRow     = errors.New("cannot delete the last remaining row")
)

// Grid is the ordered collection of line-item rows. Every mutation returns a
// new value; committed grids are never modified in place, so history
// snapshots stay immutable.
type Grid []model.Row

// New returns a grid holding one default row. The grid never holds fewer
// than one row.
func New() Grid {
	return Grid{model.NewRow()}
}

// Clone deep-copies the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, r := range g {
		out[i] = r.Clone()
	}
	return out
}

// Find returns the index of the row with the given id.
func (g Grid) Find(rowID string) (int, bool) {
	for i, r := range g {
		if r.ID == rowID {
			return i, true
		}
	}
	return 0, false
}

// SetField parses raw cell text through the field's column descriptor and
// writes it to the row, recomputing the derived total in the same step when
// quantity or unit price changed.
func (g Grid) SetField(rowID, field, raw string) (Grid, error) {
	col, ok := model.ColumnByKey(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownField, field)
	}
	if !col.Writable {
		return nil, fmt.Errorf("%w: %s", model.ErrFieldNotWritable, field)
	}
	v, err := col.Parse(raw)
	if err != nil {
		return nil, err
	}
	idx, ok := g.Find(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	out := g.Clone()
	row := &out[idx]
	if err := row.Apply(field, v); err != nil {
		return nil, err
	}
	if field == model.FieldQuantity || field == model.FieldUnitPrice {
		row.Recompute()
	}
	return out, nil
}

// AddRow inserts a default row immediately after afterID, or at the end when
// afterID is empty or unknown.
func (g Grid) AddRow(afterID string) (Grid, model.Row, error) {
	row := model.NewRow()
	pos := len(g)
	if afterID != "" {
		if idx, ok := g.Find(afterID); ok {
			pos = idx + 1
		}
	}
	out := make(Grid, 0, len(g)+1)
	for i, r := range g {
		if i == pos {
			out = append(out, row)
		}
		out = append(out, r.Clone())
	}
	if pos == len(g) {
		out = append(out, row)
	}
	return out, row, nil
}

// DeleteRow removes the row. The last remaining row cannot be deleted.
func (g Grid) DeleteRow(rowID string) (Grid, error) {
	idx, ok := g.Find(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	if len(g) == 1 {
		return nil, ErrLastRow
	}
	out := make(Grid, 0, len(g)-1)
	for i, r := range g {
		if i == idx {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// BulkUpdate writes one value to the same field of every listed row as a
// single combined mutation. A row that rejects the value is left unchanged
// without failing the rest of the batch; a value no row can accept is an
// error.
func (g Grid) BulkUpdate(rowIDs []string, field, raw string) (Grid, error) {
	col, ok := model.ColumnByKey(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownField, field)
	}
	if !col.Writable {
		return nil, fmt.Errorf("%w: %s", model.ErrFieldNotWritable, field)
	}
	v, err := col.Parse(raw)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	seen := make(map[string]bool, len(rowIDs))
	for _, id := range rowIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		idx, ok := out.Find(id)
		if !ok {
			continue
		}
		row := &out[idx]
		if err := row.Apply(field, v); err != nil {
			continue
		}
		if field == model.FieldQuantity || field == model.FieldUnitPrice {
			row.Recompute()
		}
	}
	return out, nil
}

// ItemCandidate is one autocomplete result from the item lookup service.
type ItemCandidate struct {
	ItemCode    string  `json:"itemCode"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	UnitWeight  float64 `json:"unitWeight"`
	UnitCBM     float64 `json:"unitCbm"`
}

// ApplyItem writes a lookup candidate's fields into the row as one mutation.
func (g Grid) ApplyItem(rowID string, item ItemCandidate) (Grid, error) {
	idx, ok := g.Find(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	out := g.Clone()
	row := &out[idx]
	row.ItemCode = item.ItemCode
	row.Description = item.Description
	row.UnitPrice = item.UnitPrice
	row.UnitWeight = item.UnitWeight
	row.UnitCBM = item.UnitCBM
	row.Recompute()
	return out, nil
}

// MergeEstimate folds an estimation result into the row: the unit price is
// updated to the estimate and the estimate fields are recorded alongside it.
func (g Grid) MergeEstimate(rowID string, estimated float64, confidence int) (Grid, error) {
	idx, ok := g.Find(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	out := g.Clone()
	row := &out[idx]
	row.UnitPrice = estimated
	row.EstimatedPrice = &estimated
	row.PriceConfidence = &confidence
	row.Recompute()
	return out, nil
}

// Validate returns save-blocking problems keyed by row id.
func (g Grid) Validate() map[string][]string {
	issues := make(map[string][]string)
	for _, r := range g {
		if problems := r.Validate(); len(problems) > 0 {
			issues[r.ID] = problems
		}
	}
	return issues
}
