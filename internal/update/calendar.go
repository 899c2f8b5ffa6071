package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/views"
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftCalendarFocus(0, 0, -1)
	case "l", "right":
		m.shiftCalendarFocus(0, 0, 1)
	case "k", "up":
		m.shiftCalendarFocus(0, 0, -7)
	case "j", "down":
		m.shiftCalendarFocus(0, 0, 7)
	case "p", "[":
		m.shiftCalendarFocus(0, -1, 0)
	case "n", "]":
		m.shiftCalendarFocus(0, 1, 0)
	case "t":
		m.Calendar.Focus = startOfDay(m.now())
	case "enter":
		// Move the selected board task onto the focused day.
		if t, ok := m.selectedTask(); ok {
			date := m.Calendar.Focus.Format(model.DateLayout)
			if _, err := m.board.SetDueDate(t.ID, date); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("%q due %s", t.Title, date)}
			}
		}
	}
	return m
}

func (m *Model) shiftCalendarFocus(years, months, days int) {
	f := m.Calendar.Focus
	if months != 0 {
		// Clamp to the target month's length instead of overflowing.
		first := time.Date(f.Year(), f.Month()+time.Month(months), 1, 0, 0, 0, 0, f.Location())
		day := f.Day()
		if last := daysIn(first); day > last {
			day = last
		}
		f = time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, f.Location())
	}
	m.Calendar.Focus = f.AddDate(years, 0, days)
}

func (m Model) renderCalendarView(th views.Theme) string {
	focus := m.Calendar.Focus
	first := time.Date(focus.Year(), focus.Month(), 1, 0, 0, 0, 0, focus.Location())
	n := daysIn(first)

	marks := make(map[int]int, n)
	for d := 1; d <= n; d++ {
		day := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location())
		agenda := m.board.OnDate(day.Format(model.DateLayout))
		marks[d] = len(agenda.Tasks) + len(agenda.Reminders)
	}

	// Weeks start on Monday.
	offset := (int(first.Weekday()) + 6) % 7
	var weeks [][]int
	week := make([]int, 7)
	for d := 1; d <= n; d++ {
		pos := (offset + d - 1) % 7
		week[pos] = d
		if pos == 6 || d == n {
			weeks = append(weeks, week)
			week = make([]int, 7)
		}
	}

	today := 0
	now := m.now()
	if now.Year() == focus.Year() && now.Month() == focus.Month() {
		today = now.Day()
	}

	agenda := m.board.OnDate(focus.Format(model.DateLayout))
	data := views.CalendarPanelData{
		Title:    focus.Format("January 2006"),
		Weekdays: weekdayLabels,
		Weeks:    weeks,
		Selected: focus.Day(),
		Today:    today,
		Marks:    marks,
		DayLabel: focus.Format("Monday 2 January"),
	}
	for _, r := range agenda.Reminders {
		data.Reminders = append(data.Reminders, fmt.Sprintf("%s: %s", r.Type, r.Name))
	}
	for _, t := range agenda.Tasks {
		data.Tasks = append(data.Tasks, fmt.Sprintf("[%s] %s", t.Status, t.Title))
	}
	return views.RenderCalendarPanel(data, th)
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location()).Day()
}
