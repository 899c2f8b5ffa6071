package update

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/views"
)

type settingField int

const (
	fieldLanguage settingField = iota
	fieldTheme
	fieldAccent
	fieldFont
	fieldClientID
)

var settingLabels = []string{"language", "theme", "accent", "font", "client id"}

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "k", "up":
		if m.Settings.Cursor > 0 {
			m.Settings.Cursor--
		}
	case "j", "down":
		if m.Settings.Cursor < len(settingLabels)-1 {
			m.Settings.Cursor++
		}
	case "enter", "l", "right":
		m = m.cycleSetting(settingField(m.Settings.Cursor), 1)
	case "h", "left":
		m = m.cycleSetting(settingField(m.Settings.Cursor), -1)
	}
	return m
}

func (m Model) cycleSetting(field settingField, delta int) Model {
	switch field {
	case fieldLanguage:
		m.Prefs.Language = cycle(model.Languages, m.Prefs.Language, delta)
	case fieldTheme:
		m.Prefs.Theme = cycle(model.Themes, m.Prefs.Theme, delta)
	case fieldAccent:
		name := cycle(accentNames(), accentName(m.Prefs.Accent), delta)
		m.Prefs.Accent = model.Accents[name]
	case fieldFont:
		m.Prefs.Font = cycle(model.Fonts, m.Prefs.Font, delta)
	default:
		m.Status = StatusBar{Text: "client id is set with apolo classroom login", IsError: true}
		return m
	}
	return m.savePrefs(fmt.Sprintf("%s set", settingLabels[field]))
}

func (m Model) savePrefs(okText string) Model {
	if m.prefs != nil {
		if err := m.prefs.SavePreferences(m.ctx, m.Prefs); err != nil {
			m.log.Error().Err(err).Msg("preferences not saved")
			m.Status = StatusBar{Text: fmt.Sprintf("preferences not saved: %v", err), IsError: true}
			return m
		}
	}
	m.transcriptSig = ""
	m.Status = StatusBar{Text: okText}
	return m
}

func (m Model) renderSettingsView(th views.Theme) string {
	accent := m.Prefs.Accent
	if name := accentName(accent); name != "" {
		accent = fmt.Sprintf("%s (%s)", name, accent)
	}
	clientID := m.Prefs.ClassroomClientID
	if clientID == "" {
		clientID = "(not set)"
	}
	values := []string{m.Prefs.Language, m.Prefs.Theme, accent, m.Prefs.Font, clientID}
	rows := make([]views.SettingRowData, len(settingLabels))
	for i, label := range settingLabels {
		rows[i] = views.SettingRowData{Label: label, Value: values[i]}
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{Rows: rows, Cursor: m.Settings.Cursor}, th)
}

func accentNames() []string {
	names := make([]string, 0, len(model.Accents))
	for name := range model.Accents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func accentName(hex string) string {
	for name, v := range model.Accents {
		if equalFold(v, hex) {
			return name
		}
	}
	return ""
}

// cycle steps through options from current. An unknown current starts at
// the first option.
func cycle(options []string, current string, delta int) string {
	idx := -1
	for i, o := range options {
		if equalFold(o, current) {
			idx = i
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}
