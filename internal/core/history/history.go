// Package history implements snapshot-based undo/redo for the editor.
//
// The manager holds plain value snapshots of (text, selection) and knows
// nothing about debouncing; the editing session decides when a snapshot
// boundary happens and calls Record. Undo and redo on empty stacks are
// no-ops, never errors.
package history

import "time"

// Snapshot is one restorable editor state.
type Snapshot struct {
	Text        string
	CursorStart int
	CursorEnd   int
	Timestamp   time.Time
}

// sameState reports whether two snapshots are indistinguishable to the user.
func sameState(a, b Snapshot) bool {
	return a.Text == b.Text && a.CursorStart == b.CursorStart && a.CursorEnd == b.CursorEnd
}

// Manager keeps a bounded undo stack (oldest first) and a redo stack.
type Manager struct {
	undo  []Snapshot
	redo  []Snapshot
	limit int
}

// DefaultLimit bounds the undo stack when no explicit limit is configured.
const DefaultLimit = 200

// NewManager creates a manager holding at most limit snapshots; limit <= 0
// selects DefaultLimit.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Record pushes a snapshot onto the undo stack and clears the redo stack.
// Consecutive snapshots with identical text collapse into one entry; the
// oldest snapshot is evicted once the stack is full.
func (m *Manager) Record(snap Snapshot) {
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	if n := len(m.undo); n > 0 && m.undo[n-1].Text == snap.Text {
		// Cursor-only movement refreshes the top entry instead of growing
		// the stack.
		m.undo[n-1] = snap
		return
	}
	m.undo = append(m.undo, snap)
	if len(m.undo) > m.limit {
		m.undo = m.undo[len(m.undo)-m.limit:]
	}
	m.redo = m.redo[:0]
}

// Undo returns the most recent past snapshot and moves the current state to
// the redo stack. When the top of the stack is the current state itself it
// is skipped, so one Undo always reverts one discrete action. Returns false
// when there is nothing to revert.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	for len(m.undo) > 0 {
		top := m.undo[len(m.undo)-1]
		m.undo = m.undo[:len(m.undo)-1]
		if sameState(top, current) {
			continue
		}
		m.redo = append(m.redo, current)
		return top, true
	}
	return Snapshot{}, false
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	for len(m.redo) > 0 {
		top := m.redo[len(m.redo)-1]
		m.redo = m.redo[:len(m.redo)-1]
		if sameState(top, current) {
			continue
		}
		m.undo = append(m.undo, current)
		return top, true
	}
	return Snapshot{}, false
}

// CanUndo reports whether an Undo would restore anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether a Redo would restore anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Depth returns the number of stored past snapshots.
func (m *Manager) Depth() int { return len(m.undo) }

// Reset drops all history, for document loads and new documents.
func (m *Manager) Reset() {
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
}
