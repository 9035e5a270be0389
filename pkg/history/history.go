// Package history batches the mutations of one gesture into a single
// undoable transaction. The manager is agnostic to what changed: it
// stores opaque before/after payloads supplied by the caller and
// replays them through an apply function wired to the ordinary
// mutation API, so one batch can cover any number of simultaneously
// changed entities.
package history

import "fmt"

// ActionKind labels what a batch did, for UI display.
type ActionKind int

const (
	ActionTransform ActionKind = iota
	ActionResize
)

func (k ActionKind) String() string {
	switch k {
	case ActionTransform:
		return "transform"
	case ActionResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Entry is one committed batch on the undo or redo stack.
type Entry struct {
	Kind     ActionKind
	TargetID string
	Before   any
	After    any
}

// Manager owns the undo and redo stacks and at most one open batch.
type Manager struct {
	apply func(payload any)

	undoStack []Entry
	redoStack []Entry
	open      *Entry
}

// NewManager creates a manager. apply is called with the stored
// payloads during Undo and Redo; it must route them through the same
// mutation path ordinary edits use.
func NewManager(apply func(payload any)) *Manager {
	return &Manager{apply: apply}
}

// Begin opens a batch and records the pre-gesture snapshot. Exactly
// one batch may be open at a time.
func (m *Manager) Begin(kind ActionKind, targetID string, before any) error {
	if m.open != nil {
		return fmt.Errorf("history: batch already open for %q", m.open.TargetID)
	}
	m.open = &Entry{Kind: kind, TargetID: targetID, Before: before}
	return nil
}

// Commit closes the open batch with the post-gesture snapshot, pushes
// it onto the undo stack and clears the redo stack.
func (m *Manager) Commit(after any) error {
	if m.open == nil {
		return fmt.Errorf("history: commit with no open batch")
	}
	m.open.After = after
	m.undoStack = append(m.undoStack, *m.open)
	m.redoStack = nil
	m.open = nil
	return nil
}

// Abort discards the open batch, if any. Used when a gesture cancels.
func (m *Manager) Abort() {
	m.open = nil
}

// Undo pops the top undo entry, applies its before-snapshot and moves
// the entry to the redo stack. Reports false when there is nothing to
// undo.
func (m *Manager) Undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	e := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.apply(e.Before)
	m.redoStack = append(m.redoStack, e)
	return true
}

// Redo pops the top redo entry, reapplies its after-snapshot and moves
// the entry back to the undo stack.
func (m *Manager) Redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	e := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.apply(e.After)
	m.undoStack = append(m.undoStack, e)
	return true
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }

// Depth returns the undo and redo stack sizes.
func (m *Manager) Depth() (undo, redo int) {
	return len(m.undoStack), len(m.redoStack)
}
