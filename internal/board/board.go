// Package board holds the in-memory working copy of tasks, categories and
// reminders. Every mutation is synchronous and mirrors the owning collection
// to the store afterwards. A Board is not safe for concurrent use.
package board

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/model"
)

var (
	ErrEmptyTitle = errors.New("board: title is required")
	ErrEmptyName  = errors.New("board: name is required")
	ErrNotFound   = errors.New("board: not found")
	ErrAmbiguous  = errors.New("board: ambiguous id prefix")
)

// DefaultUndoWindow is how long a done-transition stays reversible.
const DefaultUndoWindow = 5 * time.Second

// Persister receives full copies of a collection after it changes.
type Persister interface {
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveCategories(ctx context.Context, categories []model.Category) error
	SaveReminders(ctx context.Context, reminders []model.Reminder) error
}

// Snapshot seeds a board.
type Snapshot struct {
	Tasks      []model.Task
	Categories []model.Category
	Reminders  []model.Reminder
}

type Options struct {
	Now        func() time.Time
	NewID      func() string
	UndoWindow time.Duration
	Persister  Persister
	Logger     zerolog.Logger
}

type Board struct {
	tasks      []model.Task
	categories []model.Category
	reminders  []model.Reminder

	undo *UndoEntry

	now        func() time.Time
	newID      func() string
	undoWindow time.Duration
	persister  Persister
	log        zerolog.Logger
}

func New(snap Snapshot, opts Options) *Board {
	b := &Board{
		now:        opts.Now,
		newID:      opts.NewID,
		undoWindow: opts.UndoWindow,
		persister:  opts.Persister,
		log:        opts.Logger,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	if b.undoWindow <= 0 {
		b.undoWindow = DefaultUndoWindow
	}
	for _, t := range snap.Tasks {
		t = t.Clone()
		if t.Subtasks == nil {
			t.Subtasks = make([]model.SubTask, 0)
		}
		b.tasks = append(b.tasks, t)
	}
	b.categories = append(b.categories, snap.Categories...)
	b.reminders = append(b.reminders, snap.Reminders...)
	return b
}

// Tasks returns copies of all tasks in creation order.
func (b *Board) Tasks() []model.Task {
	out := make([]model.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (b *Board) Task(id string) (model.Task, bool) {
	idx := b.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return b.tasks[idx].Clone(), true
}

// ByStatus returns one kanban column.
func (b *Board) ByStatus(status model.Status) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range b.tasks {
		if t.Status == status {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Completed returns done tasks, most recently changed first.
func (b *Board) Completed() []model.Task {
	out := b.ByStatus(model.StatusDone)
	sort.SliceStable(out, func(i, j int) bool {
		return lastTouched(out[i]) > lastTouched(out[j])
	})
	return out
}

// Agenda is what falls on one calendar day.
type Agenda struct {
	Date      string
	Tasks     []model.Task
	Reminders []model.Reminder
}

func (b *Board) OnDate(date string) Agenda {
	agenda := Agenda{Date: date, Tasks: make([]model.Task, 0), Reminders: make([]model.Reminder, 0)}
	day, err := model.ParseDate(date)
	if err != nil {
		return agenda
	}
	for _, t := range b.tasks {
		if t.DueDate == date {
			agenda.Tasks = append(agenda.Tasks, t.Clone())
		}
	}
	for _, r := range b.reminders {
		if r.OccursOn(day) {
			agenda.Reminders = append(agenda.Reminders, r)
		}
	}
	return agenda
}

// ResolveTask maps a full id or a unique id prefix to a task id.
func (b *Board) ResolveTask(prefix string) (string, error) {
	ids := make([]string, 0, len(b.tasks))
	for _, t := range b.tasks {
		ids = append(ids, t.ID)
	}
	return resolve(ids, prefix)
}

func (b *Board) ResolveReminder(prefix string) (string, error) {
	ids := make([]string, 0, len(b.reminders))
	for _, r := range b.reminders {
		ids = append(ids, r.ID)
	}
	return resolve(ids, prefix)
}

func resolve(ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	match := ""
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguous
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

func (b *Board) indexOf(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) journal(t *model.Task, action string) {
	t.History = append(t.History, model.HistoryEntry{Timestamp: model.Millis(b.now()), Action: action})
}

func (b *Board) mirrorTasks() {
	if b.persister == nil {
		return
	}
	if err := b.persister.SaveTasks(context.Background(), b.Tasks()); err != nil {
		b.log.Error().Err(err).Msg("mirror tasks failed")
	}
}

func (b *Board) mirrorCategories() {
	if b.persister == nil {
		return
	}
	out := append([]model.Category(nil), b.categories...)
	if err := b.persister.SaveCategories(context.Background(), out); err != nil {
		b.log.Error().Err(err).Msg("mirror categories failed")
	}
}

func (b *Board) mirrorReminders() {
	if b.persister == nil {
		return
	}
	out := append([]model.Reminder(nil), b.reminders...)
	if err := b.persister.SaveReminders(context.Background(), out); err != nil {
		b.log.Error().Err(err).Msg("mirror reminders failed")
	}
}

func lastTouched(t model.Task) int64 {
	if len(t.History) == 0 {
		return t.CreatedAt
	}
	return t.History[len(t.History)-1].Timestamp
}
