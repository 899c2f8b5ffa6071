package board

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/apolo/internal/model"
)

// NewTask is the input of CreateTask. Zero-valued enums take their defaults.
type NewTask struct {
	Title       string
	Description string
	CategoryID  string
	DueDate     string
	IsAllDay    *bool
	Kind        model.Kind
	Priority    model.Priority
}

func (b *Board) CreateTask(in NewTask) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	kind := in.Kind
	if kind == "" {
		kind = model.KindTask
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	now := b.now()
	t := model.Task{
		ID:          b.newID(),
		Title:       title,
		Description: in.Description,
		Status:      model.StatusTodo,
		Kind:        kind,
		Priority:    priority,
		CategoryID:  in.CategoryID,
		Subtasks:    make([]model.SubTask, 0),
		History:     []model.HistoryEntry{{Timestamp: model.Millis(now), Action: "created"}},
		CreatedAt:   model.Millis(now),
		DueDate:     strings.TrimSpace(in.DueDate),
	}
	if in.IsAllDay != nil {
		v := *in.IsAllDay
		t.IsAllDay = &v
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	b.tasks = append(b.tasks, t)
	b.mirrorTasks()
	return t.Clone(), nil
}

// SetStatus moves a task to any status, journaling the transition. A move into
// done from another status becomes the pending undo entry.
func (b *Board) SetStatus(taskID string, status model.Status) (bool, error) {
	if !status.IsValid() {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	idx := b.indexOf(taskID)
	if idx < 0 {
		return false, nil
	}
	t := &b.tasks[idx]
	prev := t.Status
	if status == model.StatusDone && prev != model.StatusDone {
		b.capture(*t, prev)
	}
	t.Status = status
	b.journal(t, fmt.Sprintf("status: %s -> %s", prev, status))
	b.mirrorTasks()
	return true, nil
}

func (b *Board) DeleteTask(taskID string) bool {
	idx := b.indexOf(taskID)
	if idx < 0 {
		return false
	}
	b.tasks = append(b.tasks[:idx], b.tasks[idx+1:]...)
	b.mirrorTasks()
	return true
}

func (b *Board) AddSubtask(taskID, title string) (model.SubTask, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.SubTask{}, false
	}
	idx := b.indexOf(taskID)
	if idx < 0 {
		return model.SubTask{}, false
	}
	t := &b.tasks[idx]
	st := model.SubTask{ID: b.newID(), Title: title}
	t.Subtasks = append(t.Subtasks, st)
	b.journal(t, "subtask added: "+title)
	b.mirrorTasks()
	return st, true
}

func (b *Board) ToggleSubtask(taskID, subtaskID string) bool {
	idx := b.indexOf(taskID)
	if idx < 0 {
		return false
	}
	t := &b.tasks[idx]
	for i := range t.Subtasks {
		st := &t.Subtasks[i]
		if st.ID != subtaskID {
			continue
		}
		st.Completed = !st.Completed
		if st.Completed {
			b.journal(t, "subtask done: "+st.Title)
		} else {
			b.journal(t, "subtask reopened: "+st.Title)
		}
		b.mirrorTasks()
		return true
	}
	return false
}

// UpdateDescription replaces the free-text description. It is not journaled.
func (b *Board) UpdateDescription(taskID, text string) bool {
	idx := b.indexOf(taskID)
	if idx < 0 {
		return false
	}
	b.tasks[idx].Description = text
	b.mirrorTasks()
	return true
}

func (b *Board) SetDueDate(taskID, date string) (bool, error) {
	date = strings.TrimSpace(date)
	if _, err := model.ParseDate(date); err != nil {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidDueDate, date)
	}
	idx := b.indexOf(taskID)
	if idx < 0 {
		return false, nil
	}
	t := &b.tasks[idx]
	t.DueDate = date
	b.journal(t, "due date set: "+date)
	b.mirrorTasks()
	return true, nil
}

// ApplySuggestion appends AI-suggested subtasks as one journaled batch and
// returns how many were added. A task deleted while the request was in
// flight gets nothing.
func (b *Board) ApplySuggestion(taskID string, titles []string) int {
	idx := b.indexOf(taskID)
	if idx < 0 {
		return 0
	}
	t := &b.tasks[idx]
	added := 0
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		t.Subtasks = append(t.Subtasks, model.SubTask{ID: b.newID(), Title: title})
		added++
	}
	if added == 0 {
		return 0
	}
	b.journal(t, fmt.Sprintf("subtasks generated: %d", added))
	b.mirrorTasks()
	return added
}
