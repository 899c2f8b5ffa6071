package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/apolo/internal/views"
)

// syncBubbleData pushes board and assistant state into the bubble widgets
// that keep their own copy.
func (m *Model) syncBubbleData() {
	m.syncReminderTable()
	m.syncTranscript()
	if m.Palette.Active {
		m.commandInput.Focus()
	}
}

func (m Model) renderHistoryView(th views.Theme) string {
	done := m.board.Completed()
	items := make([]views.HistoryItemData, 0, len(done))
	for _, t := range done {
		at := ""
		if n := len(t.History); n > 0 {
			at = formatMillis(t.History[n-1].Timestamp)
		}
		items = append(items, views.HistoryItemData{
			Title:       t.Title,
			Category:    m.board.CategoryName(t.CategoryID),
			CompletedAt: at,
		})
	}
	return views.RenderHistoryPanel(items, th)
}

// appendRunes types at the end of the input regardless of cursor position.
func appendRunes(in *textinput.Model, runes []rune) {
	in.SetValue(in.Value() + string(runes))
	in.CursorEnd()
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
