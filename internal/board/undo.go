package board

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/apolo/internal/model"
)

// UndoEntry is the single pending reversal of a done-transition.
type UndoEntry struct {
	Task      model.Task
	Previous  model.Status
	ExpiresAt time.Time
}

func (b *Board) capture(t model.Task, prev model.Status) {
	b.undo = &UndoEntry{
		Task:      t.Clone(),
		Previous:  prev,
		ExpiresAt: b.now().Add(b.undoWindow),
	}
}

// PendingUndo returns the entry while its window is open.
func (b *Board) PendingUndo() (UndoEntry, bool) {
	if b.undo == nil || !b.now().Before(b.undo.ExpiresAt) {
		return UndoEntry{}, false
	}
	entry := *b.undo
	entry.Task = entry.Task.Clone()
	return entry, true
}

// ExpireUndo drops the entry once its window has elapsed at now.
func (b *Board) ExpireUndo(now time.Time) bool {
	if b.undo == nil || now.Before(b.undo.ExpiresAt) {
		return false
	}
	b.undo = nil
	return true
}

// Undo restores the captured previous status. Only the status is restored;
// later edits to the task stay. The entry is consumed either way.
func (b *Board) Undo() (model.Task, bool) {
	entry, ok := b.PendingUndo()
	b.undo = nil
	if !ok {
		return model.Task{}, false
	}
	idx := b.indexOf(entry.Task.ID)
	if idx < 0 {
		return model.Task{}, false
	}
	t := &b.tasks[idx]
	from := t.Status
	t.Status = entry.Previous
	b.journal(t, fmt.Sprintf("undo: %s -> %s", from, entry.Previous))
	b.mirrorTasks()
	return t.Clone(), true
}
