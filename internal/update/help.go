package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/apolo/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := m.toKeyBindings(m.globalBindings())
	local := m.toKeyBindings(m.viewBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.FullHelpView(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global, local},
		}.FullHelp()),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "1-6", Action: "switch view"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Undo, Action: "undo last completion"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewBoard:
		return []KeyBinding{
			{Key: "h/l", Action: "column"},
			{Key: "j/k", Action: "task"},
			{Key: "</>", Action: "move task left/right"},
			{Key: "a", Action: "ask the oracle for subtasks"},
			{Key: "e", Action: "edit description"},
			{Key: "x", Action: "delete task"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "j/k", Action: "next/previous week"},
			{Key: "p/n", Action: "previous/next month"},
			{Key: "t", Action: "today"},
			{Key: "enter", Action: "set selected task due on this day"},
		}
	case ViewReminders:
		return []KeyBinding{
			{Key: "j/k", Action: "move"},
			{Key: "x", Action: "forget reminder"},
		}
	case ViewOracle:
		return []KeyBinding{
			{Key: "i", Action: "type a message"},
			{Key: "n", Action: "new conversation"},
			{Key: "[/]", Action: "previous/next conversation"},
			{Key: "x", Action: "delete conversation"},
			{Key: "c", Action: "clear output"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "j/k", Action: "select setting"},
			{Key: "h/l", Action: "change value"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) toKeyBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
