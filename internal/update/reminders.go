package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/scheduler"
	"github.com/sandeepkv93/apolo/internal/views"
)

func waitForAlarmCmd(ch <-chan scheduler.Alarm) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmMsg{Alarm: a}
	}
}

func (m Model) waitForAlarm() tea.Cmd {
	if m.engine == nil {
		return nil
	}
	return waitForAlarmCmd(m.engine.C())
}

// scheduleReminders arms one alarm per reminder's next occurrence.
func (m *Model) scheduleReminders() {
	if m.engine == nil {
		return
	}
	now := m.now()
	for _, r := range m.board.Reminders() {
		m.scheduleReminder(r, now)
	}
}

func (m *Model) scheduleReminder(r model.Reminder, from time.Time) {
	if m.engine == nil {
		return
	}
	a, ok := scheduler.ReminderAlarm(r, from)
	if !ok {
		return
	}
	if err := m.engine.Schedule(a); err != nil {
		m.log.Warn().Err(err).Str("reminder_id", r.ID).Msg("reminder not scheduled")
	}
}

func (m *Model) onAlarm(a scheduler.Alarm) {
	switch a.Kind {
	case scheduler.KindUndoExpiry:
		if m.board.ExpireUndo(a.At) {
			m.log.Debug().Str("task_id", a.Ref).Msg("undo window closed")
		}
	case scheduler.KindReminder:
		r, ok := m.board.Reminder(a.Ref)
		if !ok {
			return
		}
		alarm := a
		m.LastAlarm = &alarm
		m.Status = StatusBar{Text: fmt.Sprintf("%s today: %s", r.Type, r.Name)}
		if next, ok := scheduler.FollowingReminderAlarm(r, a.At); ok && m.engine != nil {
			if err := m.engine.Schedule(next); err != nil {
				m.log.Warn().Err(err).Str("reminder_id", r.ID).Msg("birthday not rescheduled")
			}
		}
	}
}

func (m Model) handleRemindersKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "x", "delete":
		rows := m.reminderRows()
		idx := m.reminderTable.Cursor()
		if idx < 0 || idx >= len(rows) {
			return m
		}
		r := rows[idx]
		if m.board.DeleteReminder(r.ID) {
			if m.engine != nil {
				m.engine.Cancel(scheduler.ReminderAlarmID(r.ID))
			}
			m.Status = StatusBar{Text: fmt.Sprintf("forgot %q", r.Name)}
		}
	default:
		m.reminderTable, _ = m.reminderTable.Update(msg)
	}
	return m
}

// reminderRows is the table order: birthdays, then events, each by date.
func (m Model) reminderRows() []model.Reminder {
	return append(m.board.Birthdays(), m.board.Events()...)
}

func (m *Model) syncReminderTable() {
	now := m.now()
	rows := make([]table.Row, 0)
	for _, r := range m.reminderRows() {
		next := "-"
		if at, ok := r.NextOccurrence(now); ok {
			next = at.Format(model.DateLayout)
		}
		rows = append(rows, table.Row{string(r.Type), r.Date, next, r.Name})
	}
	m.reminderTable.SetRows(rows)
	if c := m.reminderTable.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.reminderTable.SetCursor(len(rows) - 1)
	}
}

func (m Model) renderRemindersView(th views.Theme) string {
	return views.RenderReminderPanel(views.ReminderPanelData{
		TableView: m.reminderTable.View(),
		Count:     len(m.board.Reminders()),
	}, th)
}
