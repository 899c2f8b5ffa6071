package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandeepkv93/apolo/internal/model"
)

func (b *Board) Categories() []model.Category {
	return append([]model.Category(nil), b.categories...)
}

func (b *Board) AddCategory(name, color string) (model.Category, error) {
	c := model.Category{ID: b.newID(), Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
	if c.Name == "" {
		return model.Category{}, ErrEmptyName
	}
	if err := c.Validate(); err != nil {
		return model.Category{}, err
	}
	b.categories = append(b.categories, c)
	b.mirrorCategories()
	return c, nil
}

func (b *Board) RenameCategory(id, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyName
	}
	for i := range b.categories {
		if b.categories[i].ID == id {
			b.categories[i].Name = name
			b.mirrorCategories()
			return true, nil
		}
	}
	return false, nil
}

// DeleteCategory removes the category only. Tasks keep pointing at the old
// id and display an empty label.
func (b *Board) DeleteCategory(id string) bool {
	for i := range b.categories {
		if b.categories[i].ID == id {
			b.categories = append(b.categories[:i], b.categories[i+1:]...)
			b.mirrorCategories()
			return true
		}
	}
	return false
}

// CategoryName returns "" for unknown or deleted categories.
func (b *Board) CategoryName(id string) string {
	for _, c := range b.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (b *Board) Reminders() []model.Reminder {
	return append([]model.Reminder(nil), b.reminders...)
}

func (b *Board) Reminder(id string) (model.Reminder, bool) {
	for _, r := range b.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reminder{}, false
}

func (b *Board) AddReminder(name, date string, kind model.ReminderType) (model.Reminder, error) {
	r := model.Reminder{ID: b.newID(), Name: strings.TrimSpace(name), Date: strings.TrimSpace(date), Type: kind}
	if r.Name == "" {
		return model.Reminder{}, ErrEmptyName
	}
	if err := r.Validate(); err != nil {
		return model.Reminder{}, fmt.Errorf("board: add reminder: %w", err)
	}
	b.reminders = append(b.reminders, r)
	b.mirrorReminders()
	return r, nil
}

func (b *Board) DeleteReminder(id string) bool {
	for i := range b.reminders {
		if b.reminders[i].ID == id {
			b.reminders = append(b.reminders[:i], b.reminders[i+1:]...)
			b.mirrorReminders()
			return true
		}
	}
	return false
}

func (b *Board) Birthdays() []model.Reminder {
	return b.remindersOf(model.ReminderBirthday)
}

func (b *Board) Events() []model.Reminder {
	return b.remindersOf(model.ReminderEvent)
}

func (b *Board) remindersOf(kind model.ReminderType) []model.Reminder {
	out := make([]model.Reminder, 0)
	for _, r := range b.reminders {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
