package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidKind     = errors.New("model: invalid task kind")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidDueDate  = errors.New("model: invalid due date")
	ErrInvalidColor    = errors.New("model: invalid category color")
)

// DateLayout is the calendar-day format used for due dates and reminder dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

type Kind string

const (
	KindTask     Kind = "task"
	KindReminder Kind = "reminder"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindReminder:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	default:
		return false
	}
}

type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// HistoryEntry is one journal line. Timestamp is epoch milliseconds.
type HistoryEntry struct {
	Timestamp int64  `json:"timestamp"`
	Action    string `json:"action"`
}

type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      Status         `json:"status"`
	Kind        Kind           `json:"type"`
	Priority    Priority       `json:"priority,omitempty"`
	CategoryID  string         `json:"categoryId"`
	Subtasks    []SubTask      `json:"subtasks"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   int64          `json:"createdAt"`
	DueDate     string         `json:"dueDate,omitempty"`
	IsAllDay    *bool          `json:"isAllDay,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt <= 0 {
		return errors.New("model: task createdAt is required")
	}
	if t.DueDate != "" {
		if _, err := ParseDate(t.DueDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueDate, t.DueDate)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with t. Empty slices stay
// empty rather than becoming nil.
func (t Task) Clone() Task {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = make([]SubTask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	if t.History != nil {
		out.History = make([]HistoryEntry, len(t.History))
		copy(out.History, t.History)
	}
	if t.IsAllDay != nil {
		v := *t.IsAllDay
		out.IsAllDay = &v
	}
	return out
}

// Progress reports completed and total subtasks.
func (t Task) Progress() (done int, total int) {
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #RGB or #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("model: category name is required")
	}
	if !IsHexColor(c.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Color)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
