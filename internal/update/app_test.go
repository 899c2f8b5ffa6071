package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/assistant"
	"github.com/sandeepkv93/apolo/internal/board"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/scheduler"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	oracle.Offline
	suggestion oracle.Suggestion
	reply      string
}

func (f fakeProvider) AnalyzeTask(context.Context, string, string) (oracle.Suggestion, error) {
	if len(f.suggestion.Subtasks) == 0 {
		return oracle.Suggestion{}, errors.New("model unavailable")
	}
	return f.suggestion, nil
}

func (f fakeProvider) Chat(context.Context, string, *oracle.Attachment) (string, error) {
	if f.reply == "" {
		return "", errors.New("model unavailable")
	}
	return f.reply, nil
}

type recordingPrefs struct {
	saved []model.Preferences
	err   error
}

func (r *recordingPrefs) SavePreferences(_ context.Context, p model.Preferences) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, p)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func newTestModel(t *testing.T, p oracle.Provider, snap board.Snapshot) Model {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	b := board.New(snap, board.Options{Now: clock, NewID: sequentialIDs()})
	a := assistant.New(nil, assistant.Options{Chatter: p, Now: clock, NewID: sequentialIDs()})
	return NewModel(context.Background(), Deps{
		Board:     b,
		Assistant: a,
		Provider:  p,
		Enricher:  oracle.NewEnricher(p, oracle.PolicySentinel, zerolog.Nop()),
		ImageDir:  t.TempDir(),
		Now:       clock,
	})
}

// runCmd executes cmd and returns every message it yields, flattening
// batches and skipping spinner ticks.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch typed := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range typed {
			out = append(out, runCmd(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	}
	return []tea.Msg{msg}
}

func feed(m Model, msgs []tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected default view %q, got %q", ViewBoard, m.CurrentView)
	}
	if m.Keys.Quit != "q" || m.Keys.Undo != "u" {
		t.Fatalf("unexpected key map %+v", m.Keys)
	}
	if m.Prefs != model.DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", m.Prefs)
	}
	if !m.Calendar.Focus.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected calendar focus on today, got %s", m.Calendar.Focus)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'6'}})
	next = updated.(Model)
	if next.CurrentView != ViewSettings {
		t.Fatalf("expected settings view, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, _ := m.Update(SwitchViewMsg{View: ViewOracle})
	next := updated.(Model)
	if next.CurrentView != ViewOracle {
		t.Fatalf("expected oracle view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Inbox")})
	next = updated.(Model)
	if next.CurrentView != ViewOracle {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndClear(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, _ := m.Update(SetStatusMsg{Text: "boom", IsError: true})
	next := updated.(Model)
	if next.Status.Text != "boom" || !next.Status.IsError {
		t.Fatalf("unexpected status %+v", next.Status)
	}
	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status != (StatusBar{}) {
		t.Fatalf("expected cleared status, got %+v", next.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestPaletteAddsTask(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m = press(m, "/")
	if !m.Palette.Active {
		t.Fatal("expected palette to open")
	}
	m = typeText(m, "add pay rent @2025-03-12")
	m = press(m, "enter")

	if m.Palette.Active {
		t.Fatal("expected palette to close after enter")
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	tasks := m.BoardRef().Tasks()
	if len(tasks) != 1 || tasks[0].Title != "pay rent" || tasks[0].DueDate != "2025-03-12" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
}

func TestPaletteRejectsUnknownCommand(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("fly away")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("expected unsupported command error, got %+v", m.Status)
	}
}

func TestMoveToDoneThenUndo(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add water plants")
	id := m.BoardRef().Tasks()[0].ID

	m, _ = m.RunCommand("move " + id + " done")
	if task, _ := m.BoardRef().Task(id); task.Status != model.StatusDone {
		t.Fatalf("expected done, got %q", task.Status)
	}
	if !strings.Contains(m.View(), "press u to undo") {
		t.Fatal("expected undo toast while the window is open")
	}

	m = press(m, "u")
	task, _ := m.BoardRef().Task(id)
	if task.Status != model.StatusTodo {
		t.Fatalf("expected todo after undo, got %q", task.Status)
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
}

func TestUndoExpiryAlarmClosesWindow(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add file taxes")
	id := m.BoardRef().Tasks()[0].ID
	m, _ = m.RunCommand("move " + id + " done")

	entry, ok := m.BoardRef().PendingUndo()
	if !ok {
		t.Fatal("expected pending undo")
	}
	updated, _ := m.Update(AlarmMsg{Alarm: scheduler.UndoExpiryAlarm(id, entry.ExpiresAt)})
	m = updated.(Model)

	m = press(m, "u")
	if !m.Status.IsError || m.Status.Text != "nothing to undo" {
		t.Fatalf("expected nothing to undo, got %+v", m.Status)
	}
	if task, _ := m.BoardRef().Task(id); task.Status != model.StatusDone {
		t.Fatalf("expected task to stay done, got %q", task.Status)
	}
}

func TestBoardKeysShiftTask(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add sweep floor")
	id := m.BoardRef().Tasks()[0].ID

	m = press(m, ">")
	if task, _ := m.BoardRef().Task(id); task.Status != model.StatusDoing {
		t.Fatalf("expected doing, got %q", task.Status)
	}
	if m.Board.Column != 1 {
		t.Fatalf("expected cursor to follow the task, got column %d", m.Board.Column)
	}
	m = press(m, "<")
	if task, _ := m.BoardRef().Task(id); task.Status != model.StatusTodo {
		t.Fatalf("expected todo, got %q", task.Status)
	}
}

func TestDescriptionEditor(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add write report")
	id := m.BoardRef().Tasks()[0].ID

	m = press(m, "e")
	if m.Board.EditingID != id {
		t.Fatalf("expected editor on %s, got %q", id, m.Board.EditingID)
	}
	m = typeText(m, "q3 numbers")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)

	if m.Board.EditingID != "" {
		t.Fatal("expected editor to close")
	}
	if task, _ := m.BoardRef().Task(id); task.Description != "q3 numbers" {
		t.Fatalf("unexpected description %q", task.Description)
	}
}

func TestAnalyzeAppliesSubtasks(t *testing.T) {
	p := fakeProvider{suggestion: oracle.Suggestion{Subtasks: []string{"gather receipts", "fill form"}, EstimatedTime: "2h"}}
	m := newTestModel(t, p, board.Snapshot{})
	m, _ = m.RunCommand("add file taxes")
	id := m.BoardRef().Tasks()[0].ID

	m, cmd := m.RunCommand("analyze " + id)
	if cmd == nil {
		t.Fatal("expected analyze command")
	}
	if !strings.Contains(m.View(), "consulting the oracle") {
		t.Fatal("expected pending indicator")
	}
	m = feed(m, runCmd(cmd))

	task, _ := m.BoardRef().Task(id)
	if len(task.Subtasks) != 2 || task.Subtasks[0].Title != "gather receipts" {
		t.Fatalf("unexpected subtasks %+v", task.Subtasks)
	}
	if m.estimates[id] != "2h" {
		t.Fatalf("expected estimate to be kept, got %q", m.estimates[id])
	}
	if m.inflight != 0 {
		t.Fatalf("expected no requests in flight, got %d", m.inflight)
	}
}

func TestAnalyzeFailureLeavesTaskUnchanged(t *testing.T) {
	m := newTestModel(t, fakeProvider{}, board.Snapshot{})
	m, _ = m.RunCommand("add file taxes")
	id := m.BoardRef().Tasks()[0].ID

	m, cmd := m.RunCommand("analyze " + id)
	m = feed(m, runCmd(cmd))

	if task, _ := m.BoardRef().Task(id); len(task.Subtasks) != 0 {
		t.Fatalf("expected no subtasks, got %+v", task.Subtasks)
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestStaleAnalysisIsDropped(t *testing.T) {
	p := fakeProvider{suggestion: oracle.Suggestion{Subtasks: []string{"step"}, EstimatedTime: "1h"}}
	m := newTestModel(t, p, board.Snapshot{})
	m, _ = m.RunCommand("add plan trip")
	id := m.BoardRef().Tasks()[0].ID

	m, first := m.RunCommand("analyze " + id)
	m, second := m.RunCommand("analyze " + id)
	firstMsgs, secondMsgs := runCmd(first), runCmd(second)
	m = feed(m, secondMsgs)
	m = feed(m, firstMsgs)

	if task, _ := m.BoardRef().Task(id); len(task.Subtasks) != 1 {
		t.Fatalf("expected only the newest analysis to apply, got %+v", task.Subtasks)
	}
}

func TestChatReply(t *testing.T) {
	m := newTestModel(t, fakeProvider{reply: "Begin with the smallest step."}, board.Snapshot{})
	m, cmd := m.RunCommand("chat how do I start?")
	if m.CurrentView != ViewOracle {
		t.Fatalf("expected oracle view, got %q", m.CurrentView)
	}
	m = feed(m, runCmd(cmd))

	c, ok := m.assistant.Active()
	if !ok || len(c.Messages) != 2 {
		t.Fatalf("expected user and assistant turns, got %+v", c)
	}
	if c.Messages[1].Role != model.RoleAssistant || c.Messages[1].Text != "Begin with the smallest step." {
		t.Fatalf("unexpected reply %+v", c.Messages[1])
	}
}

func TestChatFailureBecomesApology(t *testing.T) {
	m := newTestModel(t, fakeProvider{}, board.Snapshot{})
	m = press(m, "4", "i")
	if !m.Oracle.Typing {
		t.Fatal("expected chat input to be focused")
	}
	m = typeText(m, "hello there")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	m = feed(m, runCmd(cmd))

	c, _ := m.assistant.Active()
	if len(c.Messages) != 2 || c.Messages[0].Text != "hello there" {
		t.Fatalf("unexpected conversation %+v", c.Messages)
	}
	if c.Messages[1].Text != oracle.Apology {
		t.Fatalf("expected apology, got %q", c.Messages[1].Text)
	}
	if !m.Status.IsError {
		t.Fatal("expected error status")
	}
}

func TestReplyForDeletedConversationIsDropped(t *testing.T) {
	m := newTestModel(t, fakeProvider{reply: "late"}, board.Snapshot{})
	m, cmd := m.RunCommand("chat anyone?")
	msgs := runCmd(cmd)

	m = press(m, "x")
	m = feed(m, msgs)
	if got := len(m.assistant.Conversations()); got != 0 {
		t.Fatalf("expected no conversations, got %d", got)
	}
}

func TestThemeCommandSavesPreferences(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	store := &recordingPrefs{}
	m.prefs = store

	m, _ = m.RunCommand("theme Midnight")
	if m.Prefs.Theme != "midnight" {
		t.Fatalf("expected midnight theme, got %q", m.Prefs.Theme)
	}
	if len(store.saved) != 1 || store.saved[0].Theme != "midnight" {
		t.Fatalf("expected one save, got %+v", store.saved)
	}

	m, _ = m.RunCommand("theme neon")
	if !m.Status.IsError || m.Prefs.Theme != "midnight" {
		t.Fatalf("expected rejected theme, got %+v / %q", m.Status, m.Prefs.Theme)
	}
}

func TestSettingsSaveFailure(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m.prefs = &recordingPrefs{err: errors.New("disk full")}
	m = press(m, "6", "j", "l")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk full") {
		t.Fatalf("expected save error, got %+v", m.Status)
	}
}

func TestImageIsWrittenToDisk(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, _ := m.Update(ImageMsg{Prompt: "owl", Image: oracle.Image{Data: []byte("png-bytes"), MIMEType: "image/png"}})
	m = updated.(Model)

	path := filepath.Join(m.imageDir, fmt.Sprintf("apolo-%d.png", fixedNow.Unix()))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected image file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected image data %q", data)
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
}

func TestOfflineWriteShowsApology(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, cmd := m.RunCommand("write a haiku")
	m = feed(m, runCmd(cmd))
	if m.Oracle.Output != oracle.Apology || !m.Status.IsError {
		t.Fatalf("expected apology output, got %q / %+v", m.Oracle.Output, m.Status)
	}
}

func TestSearchListsSources(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	updated, _ := m.Update(SearchMsg{
		Query:  "go release",
		Result: oracle.Grounded{Text: "Go 1.25 is out.", Sources: []oracle.Source{{Title: "go.dev", URI: "https://go.dev/doc"}}},
	})
	m = updated.(Model)
	if !strings.Contains(m.Oracle.Output, "[go.dev](https://go.dev/doc)") {
		t.Fatalf("expected source link, got %q", m.Oracle.Output)
	}
}

func TestReminderAlarmSetsStatus(t *testing.T) {
	snap := board.Snapshot{Reminders: []model.Reminder{{ID: "r1", Name: "Ana", Date: "1990-03-10", Type: model.ReminderBirthday}}}
	m := newTestModel(t, oracle.Offline{}, snap)
	a, ok := scheduler.ReminderAlarm(snap.Reminders[0], fixedNow.Add(-time.Hour))
	if !ok {
		t.Fatal("expected reminder alarm")
	}
	updated, _ := m.Update(AlarmMsg{Alarm: a})
	m = updated.(Model)

	if m.LastAlarm == nil || m.LastAlarm.Ref != "r1" {
		t.Fatalf("expected last alarm for r1, got %+v", m.LastAlarm)
	}
	if m.Status.Text != "birthday today: Ana" {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
}

func TestRemindersViewForgetsSelected(t *testing.T) {
	snap := board.Snapshot{Reminders: []model.Reminder{{ID: "r1", Name: "Launch", Date: "2025-04-01", Type: model.ReminderEvent}}}
	m := newTestModel(t, oracle.Offline{}, snap)
	m = press(m, "3", "x")
	if len(m.BoardRef().Reminders()) != 0 {
		t.Fatal("expected reminder to be deleted")
	}
}

func TestCalendarEnterSetsDueDate(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add dentist")
	id := m.BoardRef().Tasks()[0].ID

	m = press(m, "2", "l", "l", "enter")
	if task, _ := m.BoardRef().Task(id); task.DueDate != "2025-03-12" {
		t.Fatalf("expected due 2025-03-12, got %q", task.DueDate)
	}
	if !strings.Contains(m.View(), "March 2025") {
		t.Fatal("expected month title in calendar view")
	}
}

func TestCalendarMonthShiftClamps(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m.Calendar.Focus = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	m = press(m, "2", "n")
	want := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	if !m.Calendar.Focus.Equal(want) {
		t.Fatalf("expected %s, got %s", want, m.Calendar.Focus)
	}
}

func TestHelpToggleShowsViewBindings(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m = press(m, "?")
	if !m.HelpVisible {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(m.View(), "move task left/right") {
		t.Fatal("expected board bindings in help")
	}
}

func TestViewRendersBoard(t *testing.T) {
	m := newTestModel(t, oracle.Offline{}, board.Snapshot{})
	m, _ = m.RunCommand("add pay rent")
	out := m.View()
	for _, want := range []string{"APOLO", "pay rent", "TODO", "DOING", "DONE"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}
