package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header      string
	Tabs        []string
	CurrentTab  int
	Body        string
	Side        string
	StatusLine  string
	StatusError bool
	Toast       string
	Palette     string
	Footer      string
}

func RenderApp(data AppData, th Theme) string {
	lines := []string{th.header().Render(data.Header)}
	if len(data.Tabs) > 0 {
		lines = append(lines, renderTabs(data.Tabs, data.CurrentTab, th))
	}

	body := th.activePanel().Width(78).Render(data.Body)
	if strings.TrimSpace(data.Side) != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, th.panel().Width(40).Render(data.Side))
	}
	lines = append(lines, body)

	if data.Palette != "" {
		lines = append(lines, th.accent().Render(data.Palette))
	}
	if data.Toast != "" {
		lines = append(lines, th.panel().BorderForeground(th.Accent).Render(data.Toast))
	}
	if data.StatusLine != "" {
		lines = append(lines, th.status(data.StatusError).Render(data.StatusLine))
	}
	if data.Footer != "" {
		lines = append(lines, th.muted().Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderTabs(tabs []string, current int, th Theme) string {
	out := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf(" %d %s ", i+1, tab)
		if i == current {
			out = append(out, th.header().Underline(true).Render(label))
			continue
		}
		out = append(out, th.muted().Render(label))
	}
	return strings.Join(out, "")
}

// RenderMarkdown renders generated text with the theme's glamour style and
// falls back to the raw text.
func RenderMarkdown(md string, th Theme) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := th.Markdown
	if style == "" {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
