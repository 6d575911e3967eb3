package grid

// History is a bounded linear undo/redo log of full grid snapshots. The
// entry at idx is the present state; entries beyond idx form the redo
// branch and are discarded by the next commit.
type History struct {
	entries []Grid
	idx     int
	depth   int
}

// DefaultDepth bounds the number of retained snapshots.
const DefaultDepth = 100

// NewHistory starts a history whose first entry is the initial grid.
func NewHistory(depth int, initial Grid) *History {
	if depth < 2 {
		depth = DefaultDepth
	}
	return &History{entries: []Grid{initial}, idx: 0, depth: depth}
}

// Current returns the present snapshot. Callers must treat it as read-only;
// grid mutations clone before writing.
func (h *History) Current() Grid {
	return h.entries[h.idx]
}

// Commit appends g as the new present state, discarding any redo branch.
// When the log is full the oldest entry is dropped and undo saturates.
func (h *History) Commit(g Grid) {
	h.entries = append(h.entries[:h.idx+1], g)
	if len(h.entries) > h.depth {
		h.entries = h.entries[1:]
	}
	h.idx = len(h.entries) - 1
}

// Undo steps back one snapshot. Reports false at the oldest entry.
func (h *History) Undo() (Grid, bool) {
	if h.idx == 0 {
		return h.Current(), false
	}
	h.idx--
	return h.Current(), true
}

// Redo steps forward one snapshot. Reports false at the tip.
func (h *History) Redo() (Grid, bool) {
	if h.idx >= len(h.entries)-1 {
		return h.Current(), false
	}
	h.idx++
	return h.Current(), true
}

func (h *History) CanUndo() bool { return h.idx > 0 }

func (h *History) CanRedo() bool { return h.idx < len(h.entries)-1 }

// Len reports the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }
