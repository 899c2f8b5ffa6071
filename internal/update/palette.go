package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/board"
	"github.com/sandeepkv93/apolo/internal/commands"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/scheduler"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		appendRunes(&m.commandInput, msg.Runes)
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	m.commandInput, _ = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, nil
}

// RunCommand parses and executes one palette line.
func (m Model) RunCommand(line string) (Model, tea.Cmd) {
	m.Palette.Input = line
	return m.executePaletteCommand()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	setting := func(label string, apply func(*model.Preferences, string)) func(commands.SettingArgs) (commands.Result, error) {
		return func(a commands.SettingArgs) (commands.Result, error) {
			apply(&m.Prefs, a.Value)
			m = m.savePrefs(fmt.Sprintf("%s set to %s", label, a.Value))
			if m.Status.IsError {
				return commands.Result{}, errors.New(m.Status.Text)
			}
			return commands.Result{Message: m.Status.Text}, nil
		}
	}
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := m.board.CreateTask(board.NewTask{Title: a.Title, DueDate: a.Due})
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewBoard
			return commands.Result{Message: fmt.Sprintf("added %s: %s", shortID(t.ID), t.Title)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m = m.moveTask(id, a.Status)
			if m.Status.IsError {
				return commands.Result{}, errors.New(m.Status.Text)
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Undo: func() (commands.Result, error) {
			m = m.undo()
			if m.Status.IsError {
				return commands.Result{}, errors.New(m.Status.Text)
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			t, _ := m.board.Task(id)
			m.board.DeleteTask(id)
			m.clampBoardRow()
			return commands.Result{Message: fmt.Sprintf("deleted %q", t.Title)}, nil
		},
		Sub: func(a commands.SubArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			st, ok := m.board.AddSubtask(id, a.Title)
			if !ok {
				return commands.Result{}, board.ErrEmptyTitle
			}
			return commands.Result{Message: fmt.Sprintf("subtask added: %s", st.Title)}, nil
		},
		Tick: func(a commands.TickArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			t, _ := m.board.Task(id)
			if a.Index > len(t.Subtasks) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task has %d subtasks", len(t.Subtasks))}
			}
			st := t.Subtasks[a.Index-1]
			m.board.ToggleSubtask(id, st.ID)
			return commands.Result{Message: fmt.Sprintf("toggled %q", st.Title)}, nil
		},
		Desc: func(a commands.DescArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m.board.UpdateDescription(id, a.Text)
			return commands.Result{Message: "description updated"}, nil
		},
		Analyze: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.board.ResolveTask(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m, follow = m.startAnalyze(id)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			r, err := m.board.AddReminder(a.Name, a.Date, a.Kind)
			if err != nil {
				return commands.Result{}, err
			}
			m.scheduleReminder(r, m.now())
			return commands.Result{Message: fmt.Sprintf("%s reminder added: %s on %s", r.Type, r.Name, r.Date)}, nil
		},
		Forget: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.board.ResolveReminder(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			r, _ := m.board.Reminder(id)
			m.board.DeleteReminder(id)
			if m.engine != nil {
				m.engine.Cancel(scheduler.ReminderAlarmID(id))
			}
			return commands.Result{Message: fmt.Sprintf("forgot %q", r.Name)}, nil
		},
		Category: func(a commands.CategoryArgs) (commands.Result, error) {
			c, err := m.board.AddCategory(a.Name, a.Color)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("category added: %s", c.Name)}, nil
		},
		Chat: func(a commands.TextArgs) (commands.Result, error) {
			m, follow = m.sendChat(a.Text)
			return commands.Result{Message: "message sent"}, nil
		},
		New: func() (commands.Result, error) {
			c := m.assistant.StartConversation()
			m.CurrentView = ViewOracle
			return commands.Result{Message: fmt.Sprintf("started %q", c.Title)}, nil
		},
		Write: func(a commands.TextArgs) (commands.Result, error) {
			m, follow = m.startOracleCall("write: "+a.Text, writeCmd(m.ctx, m.provider, a.Text))
			return commands.Result{Message: "writing"}, nil
		},
		Image: func(a commands.TextArgs) (commands.Result, error) {
			m, follow = m.startOracleCall("image: "+a.Text, imageCmd(m.ctx, m.provider, a.Text))
			return commands.Result{Message: "painting"}, nil
		},
		Search: func(a commands.TextArgs) (commands.Result, error) {
			m, follow = m.startOracleCall("search: "+a.Text, searchCmd(m.ctx, m.provider, a.Text))
			return commands.Result{Message: "searching"}, nil
		},
		Theme:  setting("theme", func(p *model.Preferences, v string) { p.Theme = v }),
		Accent: setting("accent", func(p *model.Preferences, v string) { p.Accent = v }),
		Lang:   setting("language", func(p *model.Preferences, v string) { p.Language = v }),
		Font:   setting("font", func(p *model.Preferences, v string) { p.Font = v }),
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}
