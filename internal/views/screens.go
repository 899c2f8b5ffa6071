package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type CardData struct {
	ID       string
	Title    string
	Category string
	Color    string
	Priority string
	Kind     string
	DueDate  string
	Done     int
	Total    int
}

type ColumnData struct {
	Title string
	Cards []CardData
}

type SubtaskData struct {
	Title     string
	Completed bool
}

type TaskDetailData struct {
	ID           string
	Title        string
	Description  string
	Status       string
	Priority     string
	Category     string
	DueDate      string
	Subtasks     []SubtaskData
	History      []string
	ProgressView string
	Enriching    bool
	Spinner      string
	Estimate     string
	EditorView   string
}

type BoardPanelData struct {
	Columns      []ColumnData
	ActiveColumn int
	SelectedID   string
}

type CalendarPanelData struct {
	Title     string
	Weekdays  []string
	Weeks     [][]int
	Selected  int
	Today     int
	Marks     map[int]int
	DayLabel  string
	Tasks     []string
	Reminders []string
}

type ReminderPanelData struct {
	TableView string
	Count     int
}

type ConversationItemData struct {
	Title    string
	Messages int
	Active   bool
}

type OraclePanelData struct {
	Conversations  []ConversationItemData
	TranscriptView string
	InputView      string
	Pending        bool
	Spinner        string
	OutputTitle    string
	OutputView     string
}

type HistoryItemData struct {
	Title       string
	Category    string
	CompletedAt string
}

type SettingRowData struct {
	Label string
	Value string
}

type SettingsPanelData struct {
	Rows   []SettingRowData
	Cursor int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderBoardPanel(data BoardPanelData, th Theme) string {
	cols := make([]string, 0, len(data.Columns))
	for i, col := range data.Columns {
		var b strings.Builder
		b.WriteString(th.header().Render(fmt.Sprintf("%s (%d)", strings.ToUpper(col.Title), len(col.Cards))))
		b.WriteString("\n")
		if len(col.Cards) == 0 {
			b.WriteString(th.muted().Render("(empty)"))
		}
		for _, card := range col.Cards {
			b.WriteString(renderCard(card, card.ID == data.SelectedID, th))
			b.WriteString("\n")
		}
		style := th.panel().Width(22)
		if i == data.ActiveColumn {
			style = th.activePanel().Width(22)
		}
		cols = append(cols, style.Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderCard(card CardData, selected bool, th Theme) string {
	cursor := " "
	if selected {
		cursor = th.accent().Render(">")
	}
	line := fmt.Sprintf("%s %s %s", cursor, priorityBadge(card.Priority), card.Title)
	meta := []string{shortID(card.ID)}
	if card.Category != "" {
		cat := card.Category
		if card.Color != "" {
			cat = lipgloss.NewStyle().Foreground(lipgloss.Color(card.Color)).Render(cat)
		}
		meta = append(meta, cat)
	}
	if card.DueDate != "" {
		meta = append(meta, "@"+card.DueDate)
	}
	if card.Total > 0 {
		meta = append(meta, fmt.Sprintf("%d/%d", card.Done, card.Total))
	}
	if card.Kind == "event" {
		meta = append(meta, "event")
	}
	return line + "\n   " + th.muted().Render(strings.Join(meta, " "))
}

func RenderTaskDetail(data TaskDetailData, th Theme) string {
	if data.ID == "" {
		return th.muted().Render("(no task selected)")
	}
	var b strings.Builder
	b.WriteString(th.header().Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("id: %s\nstatus: %s | priority: %s\n", shortID(data.ID), data.Status, data.Priority))
	if data.Category != "" {
		b.WriteString("category: " + data.Category + "\n")
	}
	if data.DueDate != "" {
		b.WriteString("due: " + data.DueDate + "\n")
	}
	if data.EditorView != "" {
		b.WriteString("\ndescription (ctrl+s save, esc cancel):\n" + data.EditorView + "\n")
	} else if data.Description != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	if len(data.Subtasks) > 0 {
		b.WriteString("\nsubtasks:\n")
		for i, st := range data.Subtasks {
			box := "[ ]"
			if st.Completed {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, box, st.Title))
		}
		if data.ProgressView != "" {
			b.WriteString(data.ProgressView + "\n")
		}
	}
	if data.Estimate != "" {
		b.WriteString("estimate: " + data.Estimate + "\n")
	}
	if data.Enriching {
		b.WriteString(data.Spinner + " consulting the oracle...\n")
	}
	if len(data.History) > 0 {
		b.WriteString("\nhistory:\n")
		for _, h := range data.History {
			b.WriteString(th.muted().Render("- "+h) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render(data.Title) + "\n")
	for _, wd := range data.Weekdays {
		b.WriteString(fmt.Sprintf("%-5s", wd))
	}
	b.WriteString("\n")
	for _, week := range data.Weeks {
		for _, day := range week {
			if day == 0 {
				b.WriteString("     ")
				continue
			}
			cell := fmt.Sprintf("%2d", day)
			if data.Marks[day] > 0 {
				cell += "*"
			} else {
				cell += " "
			}
			switch {
			case day == data.Selected:
				cell = th.header().Reverse(true).Render(cell)
			case day == data.Today:
				cell = th.accent().Render(cell)
			}
			b.WriteString(cell + "  ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + th.header().Render(data.DayLabel) + "\n")
	if len(data.Tasks) == 0 && len(data.Reminders) == 0 {
		b.WriteString(th.muted().Render("(nothing on this day)"))
		return strings.TrimSpace(b.String())
	}
	for _, r := range data.Reminders {
		b.WriteString("* " + r + "\n")
	}
	for _, t := range data.Tasks {
		b.WriteString("- " + t + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderReminderPanel(data ReminderPanelData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render(fmt.Sprintf("reminders (%d)", data.Count)) + "\n")
	if data.Count == 0 {
		b.WriteString(th.muted().Render("(none) use /remind birthday|event YYYY-MM-DD name"))
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderOraclePanel(data OraclePanelData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render("the oracle") + "\n")
	if data.TranscriptView != "" {
		b.WriteString(data.TranscriptView + "\n")
	} else {
		b.WriteString(th.muted().Render("(no messages yet)") + "\n")
	}
	if data.Pending {
		b.WriteString(data.Spinner + " the oracle is thinking...\n")
	}
	b.WriteString(data.InputView)
	if data.OutputView != "" {
		b.WriteString("\n\n" + th.header().Render(data.OutputTitle) + "\n" + data.OutputView)
	}
	return strings.TrimSpace(b.String())
}

func RenderConversationList(items []ConversationItemData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render("conversations") + "\n")
	if len(items) == 0 {
		b.WriteString(th.muted().Render("(none)"))
		return b.String()
	}
	for _, item := range items {
		cursor := " "
		if item.Active {
			cursor = th.accent().Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, item.Title, th.muted().Render(fmt.Sprintf("(%d)", item.Messages))))
	}
	return strings.TrimSpace(b.String())
}

// RenderTranscript lays out messages for the chat viewport.
func RenderTranscript(roles, texts []string, th Theme) string {
	var b strings.Builder
	for i := range roles {
		who := th.muted().Render("you")
		if roles[i] == "assistant" {
			who = th.accent().Render("apolo")
		}
		b.WriteString(who + ": " + texts[i] + "\n\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHistoryPanel(items []HistoryItemData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render(fmt.Sprintf("completed (%d)", len(items))) + "\n")
	if len(items) == 0 {
		b.WriteString(th.muted().Render("(nothing completed yet)"))
		return b.String()
	}
	for _, item := range items {
		line := fmt.Sprintf("%s  %s", th.muted().Render(item.CompletedAt), item.Title)
		if item.Category != "" {
			line += th.muted().Render(" [" + item.Category + "]")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderSettingsPanel(data SettingsPanelData, th Theme) string {
	var b strings.Builder
	b.WriteString(th.header().Render("settings") + "\n")
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = th.accent().Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %-10s %s\n", cursor, row.Label, row.Value))
	}
	b.WriteString(th.muted().Render("[j/k] select [enter/l] next value [h] previous value"))
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderUndoToast(title string, secondsLeft int) string {
	return fmt.Sprintf("completed %q. press u to undo (%ds)", title, secondsLeft)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help: %s\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func priorityBadge(p string) string {
	switch p {
	case "urgent":
		return "!!"
	case "high":
		return "! "
	case "low":
		return ". "
	default:
		return "  "
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
