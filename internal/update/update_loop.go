package update

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return m.waitForAlarm()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKey(typed)
		next.syncBubbleData()
		return next, cmd
	case tea.WindowSizeMsg:
		if w := typed.Width - 46; w > 40 {
			m.transcript.Width = w
		}
		if h := typed.Height - 16; h > 6 {
			m.transcript.Height = h
		}
		return m, nil
	case spinner.TickMsg:
		if m.inflight > 0 {
			var cmd tea.Cmd
			m.requestSpinner, cmd = m.requestSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AlarmMsg:
		m.onAlarm(typed.Alarm)
		m.syncBubbleData()
		return m, m.waitForAlarm()
	case EnrichedMsg:
		m.onEnriched(typed.Result)
		return m, nil
	case ChatReplyMsg:
		m.onChatReply(typed)
		m.syncBubbleData()
		return m, nil
	case TextMsg:
		m.onText(typed)
		return m, nil
	case ImageMsg:
		m.onImage(typed)
		return m, nil
	case SearchMsg:
		m.onSearch(typed)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Board.EditingID != "" {
		return m.handleEditorKey(msg), nil
	}
	if m.Oracle.Typing {
		return m.handleChatKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Undo:
		return m.undo(), nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	if len(keyStr) == 1 && keyStr[0] >= '1' && int(keyStr[0]-'1') < len(Views) {
		m.CurrentView = Views[keyStr[0]-'1']
		return m, nil
	}

	switch m.CurrentView {
	case ViewBoard:
		return m.handleBoardKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(msg), nil
	case ViewReminders:
		return m.handleRemindersKey(msg), nil
	case ViewOracle:
		return m.handleOracleKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	th := views.ThemeFor(m.Prefs.Theme, m.Prefs.Accent)
	body, side := "", ""
	switch m.CurrentView {
	case ViewBoard:
		body, side = m.renderBoardView(th), m.renderTaskDetail(th)
	case ViewCalendar:
		body = m.renderCalendarView(th)
	case ViewReminders:
		body = m.renderRemindersView(th)
	case ViewOracle:
		body, side = m.renderOracleView(th), m.renderConversationList(th)
	case ViewHistory:
		body = m.renderHistoryView(th)
	case ViewSettings:
		body = m.renderSettingsView(th)
	}
	if m.HelpVisible {
		side = m.renderHelpView()
	}

	toast := ""
	if entry, ok := m.board.PendingUndo(); ok {
		left := int(math.Ceil(entry.ExpiresAt.Sub(m.now()).Seconds()))
		if left < 1 {
			left = 1
		}
		toast = views.RenderUndoToast(entry.Task.Title, left)
	}

	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}
	current := 0
	tabs := make([]string, len(Views))
	for i, v := range Views {
		tabs[i] = string(v)
		if v == m.CurrentView {
			current = i
		}
	}

	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("APOLO | %s | %d tasks | %s", strings.ToLower(string(m.CurrentView)), len(m.board.Tasks()), m.Prefs.Language),
		Tabs:        tabs,
		CurrentTab:  current,
		Body:        body,
		Side:        side,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Toast:       toast,
		Palette:     views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		Footer:      fmt.Sprintf("keys: 1-%d views | / cmd | %s undo | %s help | %s quit", len(Views), m.Keys.Undo, m.Keys.Help, m.Keys.Quit),
	}, th)
}

func isKnownView(v View) bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// beginRequest counts an outstanding AI call and starts the spinner for the
// first one.
func (m *Model) beginRequest() tea.Cmd {
	m.inflight++
	if m.inflight == 1 {
		return m.requestSpinner.Tick
	}
	return nil
}

func (m *Model) endRequest() {
	if m.inflight > 0 {
		m.inflight--
	}
}
