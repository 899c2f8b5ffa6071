package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the resolved palette for one theme name and accent.
type Theme struct {
	Name     string
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Error    lipgloss.Color
	Success  lipgloss.Color
	Markdown string
}

var palettes = map[string]Theme{
	"oracle": {
		Name:     "oracle",
		Text:     lipgloss.Color("#E8DCC0"),
		Muted:    lipgloss.Color("#8C7B5A"),
		Error:    lipgloss.Color("#E11D48"),
		Success:  lipgloss.Color("#10B981"),
		Markdown: "dark",
	},
	"midnight": {
		Name:     "midnight",
		Text:     lipgloss.Color("#E2E8F0"),
		Muted:    lipgloss.Color("#64748B"),
		Error:    lipgloss.Color("#F87171"),
		Success:  lipgloss.Color("#34D399"),
		Markdown: "tokyo-night",
	},
	"minimal": {
		Name:     "minimal",
		Text:     lipgloss.Color("7"),
		Muted:    lipgloss.Color("8"),
		Error:    lipgloss.Color("9"),
		Success:  lipgloss.Color("10"),
		Markdown: "notty",
	},
}

// ThemeFor resolves a theme by name, falling back to oracle. An empty
// accent keeps gold.
func ThemeFor(name, accent string) Theme {
	th, ok := palettes[strings.ToLower(name)]
	if !ok {
		th = palettes["oracle"]
	}
	if accent == "" {
		accent = "#C5A059"
	}
	th.Accent = lipgloss.Color(accent)
	return th
}

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}

func (t Theme) panel() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1)
}

func (t Theme) activePanel() lipgloss.Style {
	return t.panel().BorderForeground(t.Accent)
}

func (t Theme) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) text() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

func (t Theme) status(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(t.Error)
	}
	return lipgloss.NewStyle().Foreground(t.Success)
}
