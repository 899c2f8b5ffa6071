package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/scheduler"
	"github.com/sandeepkv93/apolo/internal/views"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.Board.Column > 0 {
			m.Board.Column--
		}
		m.clampBoardRow()
	case "l", "right":
		if m.Board.Column < len(model.Statuses)-1 {
			m.Board.Column++
		}
		m.clampBoardRow()
	case "k", "up":
		if m.Board.Row > 0 {
			m.Board.Row--
		}
	case "j", "down":
		m.Board.Row++
		m.clampBoardRow()
	case ">", "L":
		return m.shiftSelected(1), nil
	case "<", "H":
		return m.shiftSelected(-1), nil
	case "a":
		if t, ok := m.selectedTask(); ok {
			return m.startAnalyze(t.ID)
		}
	case "e":
		if t, ok := m.selectedTask(); ok {
			m.Board.EditingID = t.ID
			m.descArea.SetValue(t.Description)
			m.descArea.Focus()
		}
	case "x", "delete":
		if t, ok := m.selectedTask(); ok && m.board.DeleteTask(t.ID) {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", t.Title)}
			m.clampBoardRow()
		}
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Board.EditingID = ""
		m.descArea.Blur()
		m.Status = StatusBar{Text: "edit cancelled"}
	case "ctrl+s":
		if m.board.UpdateDescription(m.Board.EditingID, m.descArea.Value()) {
			m.Status = StatusBar{Text: "description saved"}
		} else {
			m.Status = StatusBar{Text: "task no longer exists", IsError: true}
		}
		m.Board.EditingID = ""
		m.descArea.Blur()
	default:
		m.descArea, _ = m.descArea.Update(msg)
	}
	return m
}

func (m *Model) selectedTask() (model.Task, bool) {
	col := m.board.ByStatus(model.Statuses[m.Board.Column])
	if len(col) == 0 {
		return model.Task{}, false
	}
	if m.Board.Row >= len(col) {
		m.Board.Row = len(col) - 1
	}
	return col[m.Board.Row], true
}

func (m *Model) clampBoardRow() {
	n := len(m.board.ByStatus(model.Statuses[m.Board.Column]))
	if m.Board.Row >= n {
		m.Board.Row = n - 1
	}
	if m.Board.Row < 0 {
		m.Board.Row = 0
	}
}

func (m Model) shiftSelected(delta int) Model {
	t, ok := m.selectedTask()
	if !ok {
		return m
	}
	next := m.Board.Column + delta
	if next < 0 || next >= len(model.Statuses) {
		return m
	}
	m = m.moveTask(t.ID, model.Statuses[next])
	m.Board.Column = next
	col := m.board.ByStatus(model.Statuses[next])
	for i, c := range col {
		if c.ID == t.ID {
			m.Board.Row = i
		}
	}
	return m
}

func (m Model) moveTask(id string, status model.Status) Model {
	ok, err := m.board.SetStatus(id, status)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if !ok {
		m.Status = StatusBar{Text: "task not found", IsError: true}
		return m
	}
	m.afterStatusChange()
	t, _ := m.board.Task(id)
	m.Status = StatusBar{Text: fmt.Sprintf("%q is now %s", t.Title, status)}
	return m
}

// afterStatusChange arms the undo-expiry alarm for the pending undo entry.
func (m *Model) afterStatusChange() {
	entry, ok := m.board.PendingUndo()
	if !ok || m.engine == nil {
		return
	}
	m.engine.Cancel(scheduler.UndoAlarmID)
	if err := m.engine.Schedule(scheduler.UndoExpiryAlarm(entry.Task.ID, entry.ExpiresAt)); err != nil {
		m.log.Warn().Err(err).Str("task_id", entry.Task.ID).Msg("undo expiry not scheduled")
	}
}

func (m Model) undo() Model {
	t, ok := m.board.Undo()
	if !ok {
		m.Status = StatusBar{Text: "nothing to undo", IsError: true}
		return m
	}
	if m.engine != nil {
		m.engine.Cancel(scheduler.UndoAlarmID)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%q restored to %s", t.Title, t.Status)}
	return m
}

func (m Model) startAnalyze(taskID string) (Model, tea.Cmd) {
	t, ok := m.board.Task(taskID)
	if !ok {
		m.Status = StatusBar{Text: "task not found", IsError: true}
		return m, nil
	}
	ticket := m.enricher.Begin(t.ID)
	m.enriching[t.ID] = ticket
	m.Status = StatusBar{Text: fmt.Sprintf("consulting the oracle about %q", t.Title)}
	return m, tea.Batch(analyzeCmd(m.ctx, m.enricher, ticket, t.Title, t.Description), m.beginRequest())
}

func (m *Model) onEnriched(r oracle.Result) {
	m.endRequest()
	id := r.Ticket.TaskID
	if cur, ok := m.enriching[id]; ok && cur == r.Ticket {
		delete(m.enriching, id)
	}
	if !m.enricher.Accept(r) {
		m.log.Debug().Str("task_id", id).Uint64("seq", r.Ticket.Seq).Msg("stale enrichment dropped")
		return
	}
	if !r.Usable() {
		text := "the oracle could not break this task down"
		if r.Err != nil {
			text += ": " + r.Err.Error()
		}
		m.Status = StatusBar{Text: text, IsError: true}
		return
	}
	n := m.board.ApplySuggestion(id, r.Suggestion.Subtasks)
	if n == 0 {
		m.Status = StatusBar{Text: "task no longer exists", IsError: true}
		return
	}
	m.estimates[id] = r.Suggestion.EstimatedTime
	m.Status = StatusBar{Text: fmt.Sprintf("added %d subtasks (estimate %s)", n, r.Suggestion.EstimatedTime)}
}

func (m Model) renderBoardView(th views.Theme) string {
	selected := ""
	if t, ok := m.selectedTask(); ok {
		selected = t.ID
	}
	cols := make([]views.ColumnData, 0, len(model.Statuses))
	for _, st := range model.Statuses {
		tasks := m.board.ByStatus(st)
		cards := make([]views.CardData, 0, len(tasks))
		for _, t := range tasks {
			done, total := t.Progress()
			cards = append(cards, views.CardData{
				ID:       t.ID,
				Title:    t.Title,
				Category: m.board.CategoryName(t.CategoryID),
				Color:    m.categoryColor(t.CategoryID),
				Priority: string(t.Priority),
				Kind:     string(t.Kind),
				DueDate:  t.DueDate,
				Done:     done,
				Total:    total,
			})
		}
		cols = append(cols, views.ColumnData{Title: string(st), Cards: cards})
	}
	return views.RenderBoardPanel(views.BoardPanelData{Columns: cols, ActiveColumn: m.Board.Column, SelectedID: selected}, th)
}

func (m Model) renderTaskDetail(th views.Theme) string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{}, th)
	}
	data := views.TaskDetailData{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Category:    m.board.CategoryName(t.CategoryID),
		DueDate:     t.DueDate,
		Estimate:    m.estimates[t.ID],
	}
	for _, st := range t.Subtasks {
		data.Subtasks = append(data.Subtasks, views.SubtaskData{Title: st.Title, Completed: st.Completed})
	}
	if done, total := t.Progress(); total > 0 {
		data.ProgressView = m.subtaskBar.ViewAs(float64(done) / float64(total))
	}
	for i := len(t.History) - 1; i >= 0 && len(data.History) < 6; i-- {
		h := t.History[i]
		data.History = append(data.History, fmt.Sprintf("%s %s", formatMillis(h.Timestamp), h.Action))
	}
	if _, busy := m.enriching[t.ID]; busy {
		data.Enriching = true
		data.Spinner = m.requestSpinner.View()
	}
	if m.Board.EditingID == t.ID {
		data.EditorView = m.descArea.View()
	}
	return views.RenderTaskDetail(data, th)
}

func (m Model) categoryColor(id string) string {
	for _, c := range m.board.Categories() {
		if c.ID == id {
			return c.Color
		}
	}
	return ""
}
