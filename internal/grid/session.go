package grid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ordergrid/internal/model"
)

var (
	ErrEmptySelection  = errors.New("selection is empty")
	ErrEmptyClipboard  = errors.New("clipboard is empty")
	ErrNothingToImport = errors.New("import produced no rows")
)

// Session owns one grid with its history, selection and clipboard. Every
// command acquires the session lock and runs mutate → recompute → commit as
// one step, so no caller ever observes a partially updated row. Asynchronous
// estimation results come back through the same lock as ordinary commands.
type Session struct {
	ID    string
	Owner string

	mu   sync.Mutex
	hist *History
	sel  Selection
	clip Clipboard

	// vers tracks an edit version per row id. Estimation requests are
	// stamped with the version at issue time; a completion whose stamp no
	// longer matches is discarded instead of overwriting newer edits.
	vers map[string]int64
}

// NewSession starts a session with a single default row as the initial
// history entry.
func NewSession(owner string, depth int) *Session {
	return &Session{
		ID:    uuid.NewString(),
		Owner: owner,
		hist:  NewHistory(depth, New()),
		vers:  make(map[string]int64),
	}
}

// State is the renderable snapshot handed to the dashboard.
type State struct {
	SessionID     string              `json:"sessionId"`
	Rows          []model.Row         `json:"rows"`
	Selection     Selection           `json:"selection"`
	CanUndo       bool                `json:"canUndo"`
	CanRedo       bool                `json:"canRedo"`
	ClipboardSize int                 `json:"clipboardSize"`
	Issues        map[string][]string `json:"issues,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.hist.Current()
	return State{
		SessionID:     s.ID,
		Rows:          cur.Clone(),
		Selection:     append(Selection(nil), s.sel...),
		CanUndo:       s.hist.CanUndo(),
		CanRedo:       s.hist.CanRedo(),
		ClipboardSize: len(s.clip),
		Issues:        cur.Validate(),
	}
}

// Rows returns a copy of the present grid, for serialization to the save
// endpoint and the CSV exporter.
func (s *Session) Rows() Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Current().Clone()
}

func (s *Session) bump(rowIDs ...string) {
	for _, id := range rowIDs {
		s.vers[id]++
	}
}

func (s *Session) bumpAll(g Grid) {
	for _, r := range g {
		s.vers[r.ID]++
	}
}

// SetField edits one cell and commits the result.
func (s *Session) SetField(rowID, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.hist.Current().SetField(rowID, field, raw)
	if err != nil {
		return err
	}
	s.hist.Commit(next)
	s.bump(rowID)
	return nil
}

// AddRow inserts a default row after afterID (or at the end) and commits.
func (s *Session) AddRow(afterID string) (model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, row, err := s.hist.Current().AddRow(afterID)
	if err != nil {
		return model.Row{}, err
	}
	s.hist.Commit(next)
	s.bump(row.ID)
	return row, nil
}

// DeleteRow removes a row and commits. Deleting the last row fails with
// ErrLastRow.
func (s *Session) DeleteRow(rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.hist.Current().DeleteRow(rowID)
	if err != nil {
		return err
	}
	s.hist.Commit(next)
	s.bump(rowID)
	return nil
}

// BulkUpdate writes one value to the field on every row in the selection,
// as a single commit.
func (s *Session) BulkUpdate(sel Selection, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sel) == 0 {
		return ErrEmptySelection
	}
	ids := sel.RowIDs()
	next, err := s.hist.Current().BulkUpdate(ids, field, raw)
	if err != nil {
		return err
	}
	s.hist.Commit(next)
	s.bump(ids...)
	return nil
}

// Select replaces the current selection.
func (s *Session) Select(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = append(Selection(nil), sel...)
}

// Copy captures the selection into the clipboard. Reports false (and leaves
// the clipboard alone) when the selection is empty. Copy never commits.
func (s *Session) Copy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, ok := Copy(s.hist.Current(), s.sel)
	if !ok {
		return false
	}
	s.clip = clip
	return true
}

// Paste applies the clipboard onto the selection as one commit. With an
// empty clipboard or selection it is a no-op reporting zero cells.
func (s *Session) Paste() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clip) == 0 {
		return 0, ErrEmptyClipboard
	}
	if len(s.sel) == 0 {
		return 0, ErrEmptySelection
	}
	next, applied := Paste(s.hist.Current(), s.sel, s.clip)
	if applied == 0 {
		return 0, nil
	}
	s.hist.Commit(next)
	s.bump(s.sel.RowIDs()...)
	return applied, nil
}

// Undo replaces the grid with the previous snapshot. Reports false at the
// oldest entry. The snapshot is already consistent, so nothing is recomputed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.hist.Undo()
	if ok {
		s.bumpAll(g)
	}
	return ok
}

// Redo replaces the grid with the next snapshot. Reports false at the tip.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.hist.Redo()
	if ok {
		s.bumpAll(g)
	}
	return ok
}

// ApplyItem writes a lookup candidate into the row as one commit.
func (s *Session) ApplyItem(rowID string, item ItemCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.hist.Current().ApplyItem(rowID, item)
	if err != nil {
		return err
	}
	s.hist.Commit(next)
	s.bump(rowID)
	return nil
}

// ExportCSV renders the present grid as CSV text.
func (s *Session) ExportCSV() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportCSV(s.hist.Current())
}

// ImportCSV replaces the grid wholesale with the parsed rows in exactly one
// commit, clearing selection and clipboard. An input yielding zero rows
// changes nothing and returns ErrNothingToImport, keeping the minimum-row
// invariant intact.
func (s *Session) ImportCSV(text string) (int, error) {
	rows := ImportCSV(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rows) == 0 {
		return 0, ErrNothingToImport
	}
	next := Grid(rows)
	s.hist.Commit(next)
	s.sel = nil
	s.clip = nil
	s.bumpAll(next)
	return len(rows), nil
}

// EstimateTicket carries everything the estimation worker needs: the row's
// request fields plus the version stamp used to fence the merge.
type EstimateTicket struct {
	SessionID   string
	RowID       string
	Version     int64
	ItemCode    string
	Description string
	Supplier    string
	Quantity    int
}

// StampEstimate reads the row's request fields and stamps the ticket with
// the row's current edit version.
func (s *Session) StampEstimate(rowID string) (EstimateTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.hist.Current()
	idx, ok := cur.Find(rowID)
	if !ok {
		return EstimateTicket{}, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	row := cur[idx]
	return EstimateTicket{
		SessionID:   s.ID,
		RowID:       rowID,
		Version:     s.vers[rowID],
		ItemCode:    row.ItemCode,
		Description: row.Description,
		Supplier:    row.Supplier,
		Quantity:    row.Quantity,
	}, nil
}

// MergeEstimate folds a completed estimation into the row as one commit.
// Reports false without touching the grid when the row is gone or has been
// edited since the ticket was stamped; a completion for a deleted row is a
// safe no-op.
func (s *Session) MergeEstimate(rowID string, version int64, estimated float64, confidence int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vers[rowID] != version {
		return false
	}
	next, err := s.hist.Current().MergeEstimate(rowID, estimated, confidence)
	if err != nil {
		return false
	}
	s.hist.Commit(next)
	s.bump(rowID)
	return true
}
