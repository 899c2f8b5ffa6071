package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/assistant"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/views"
)

// writerSystem frames freeform text generation.
const writerSystem = "You are APOLO, a precise writer. Answer in the user's language."

func analyzeCmd(ctx context.Context, e *oracle.Enricher, ticket oracle.Ticket, title, description string) tea.Cmd {
	return func() tea.Msg {
		return EnrichedMsg{Result: e.Run(ctx, ticket, title, description)}
	}
}

func chatCmd(ctx context.Context, a *assistant.Assistant, p assistant.Pending) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.Ask(ctx, p)
		return ChatReplyMsg{Pending: p, Reply: reply, Err: err}
	}
}

func writeCmd(ctx context.Context, p oracle.Provider, prompt string) tea.Cmd {
	return func() tea.Msg {
		text, err := p.GenerateText(ctx, prompt, writerSystem)
		return TextMsg{Prompt: prompt, Text: text, Err: err}
	}
}

func imageCmd(ctx context.Context, p oracle.Provider, prompt string) tea.Cmd {
	return func() tea.Msg {
		img, err := p.GenerateImage(ctx, prompt)
		return ImageMsg{Prompt: prompt, Image: img, Err: err}
	}
}

func searchCmd(ctx context.Context, p oracle.Provider, query string) tea.Cmd {
	return func() tea.Msg {
		res, err := p.Search(ctx, query)
		return SearchMsg{Query: query, Result: res, Err: err}
	}
}

func (m Model) handleOracleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		m.Oracle.Typing = true
		m.chatInput.Focus()
	case "n":
		c := m.assistant.StartConversation()
		m.Status = StatusBar{Text: fmt.Sprintf("started %q", c.Title)}
	case "[":
		m.cycleConversation(-1)
	case "]":
		m.cycleConversation(1)
	case "x":
		if id := m.assistant.ActiveID(); id != "" && m.assistant.DeleteConversation(id) {
			delete(m.chatting, id)
			m.Status = StatusBar{Text: "conversation deleted"}
		}
	case "c":
		m.Oracle.Output, m.Oracle.OutputTitle = "", ""
	default:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Oracle.Typing = false
		m.chatInput.Blur()
		return m, nil
	case "enter":
		text := m.chatInput.Value()
		m.chatInput.SetValue("")
		return m.sendChat(text)
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		appendRunes(&m.chatInput, msg.Runes)
		return m, nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) cycleConversation(delta int) {
	convs := m.assistant.Conversations()
	if len(convs) == 0 {
		return
	}
	idx := 0
	for i, c := range convs {
		if c.ID == m.assistant.ActiveID() {
			idx = i
		}
	}
	idx = (idx + delta + len(convs)) % len(convs)
	m.assistant.Select(convs[idx].ID)
}

func (m Model) sendChat(text string) (Model, tea.Cmd) {
	p, ok := m.assistant.Begin(text)
	if !ok {
		m.Status = StatusBar{Text: "message is empty", IsError: true}
		return m, nil
	}
	m.chatting[p.ConversationID] = true
	m.CurrentView = ViewOracle
	return m, tea.Batch(chatCmd(m.ctx, m.assistant, p), m.beginRequest())
}

func (m *Model) onChatReply(msg ChatReplyMsg) {
	m.endRequest()
	delete(m.chatting, msg.Pending.ConversationID)
	if _, ok := m.assistant.Complete(msg.Pending, msg.Reply, msg.Err); !ok {
		m.log.Debug().Str("conversation_id", msg.Pending.ConversationID).Msg("reply for deleted conversation dropped")
		return
	}
	if msg.Err != nil {
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
	}
}

func (m Model) startOracleCall(title string, cmd tea.Cmd) (Model, tea.Cmd) {
	m.Oracle.OutputTitle = title
	m.Oracle.Output = ""
	m.CurrentView = ViewOracle
	m.Status = StatusBar{Text: "consulting the oracle"}
	return m, tea.Batch(cmd, m.beginRequest())
}

func (m *Model) onText(msg TextMsg) {
	m.endRequest()
	if msg.Err != nil {
		m.failOracle(msg.Err)
		return
	}
	m.Oracle.OutputTitle = "write: " + msg.Prompt
	m.Oracle.Output = msg.Text
	m.Status = StatusBar{Text: "text ready"}
}

func (m *Model) onImage(msg ImageMsg) {
	m.endRequest()
	if msg.Err != nil {
		m.failOracle(msg.Err)
		return
	}
	name := fmt.Sprintf("apolo-%d%s", m.now().Unix(), imageExt(msg.Image.MIMEType))
	path := filepath.Join(m.imageDir, name)
	if err := os.WriteFile(path, msg.Image.Data, 0o644); err != nil {
		m.log.Error().Err(err).Str("path", path).Msg("image not saved")
		m.Status = StatusBar{Text: fmt.Sprintf("image not saved: %v", err), IsError: true}
		return
	}
	m.Oracle.OutputTitle = "image: " + msg.Prompt
	m.Oracle.Output = fmt.Sprintf("Image saved to `%s` (%s, %d bytes).", path, msg.Image.MIMEType, len(msg.Image.Data))
	m.Status = StatusBar{Text: "image saved to " + path}
}

func (m *Model) onSearch(msg SearchMsg) {
	m.endRequest()
	if msg.Err != nil {
		m.failOracle(msg.Err)
		return
	}
	var b strings.Builder
	b.WriteString(msg.Result.Text)
	if len(msg.Result.Sources) > 0 {
		b.WriteString("\n\n**Sources**\n\n")
		for _, s := range msg.Result.Sources {
			title := s.Title
			if title == "" {
				title = s.URI
			}
			b.WriteString(fmt.Sprintf("- [%s](%s)\n", title, s.URI))
		}
	}
	m.Oracle.OutputTitle = "search: " + msg.Query
	m.Oracle.Output = b.String()
	m.Status = StatusBar{Text: fmt.Sprintf("%d sources", len(msg.Result.Sources))}
}

func (m *Model) failOracle(err error) {
	m.log.Warn().Err(err).Msg("oracle request failed")
	m.Oracle.Output = oracle.Apology
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) renderOracleView(th views.Theme) string {
	data := views.OraclePanelData{
		TranscriptView: m.transcript.View(),
		InputView:      m.chatInput.View(),
		OutputTitle:    m.Oracle.OutputTitle,
		OutputView:     views.RenderMarkdown(m.Oracle.Output, th),
	}
	if strings.TrimSpace(m.transcriptSig) == "" {
		data.TranscriptView = ""
	}
	if m.chatting[m.assistant.ActiveID()] || (m.inflight > 0 && m.Oracle.OutputTitle != "" && m.Oracle.Output == "") {
		data.Pending = true
		data.Spinner = m.requestSpinner.View()
	}
	return views.RenderOraclePanel(data, th)
}

func (m Model) renderConversationList(th views.Theme) string {
	convs := m.assistant.Conversations()
	items := make([]views.ConversationItemData, 0, len(convs))
	for _, c := range convs {
		items = append(items, views.ConversationItemData{
			Title:    c.Title,
			Messages: len(c.Messages),
			Active:   c.ID == m.assistant.ActiveID(),
		})
	}
	return views.RenderConversationList(items, th)
}

// syncTranscript refreshes the viewport only when the active conversation
// changed, so manual scrolling survives unrelated updates.
func (m *Model) syncTranscript() {
	c, ok := m.assistant.Active()
	if !ok {
		m.transcriptSig = ""
		m.transcript.SetContent("")
		return
	}
	sig := fmt.Sprintf("%s/%d", c.ID, len(c.Messages))
	if sig == m.transcriptSig {
		return
	}
	m.transcriptSig = sig
	roles := make([]string, len(c.Messages))
	texts := make([]string, len(c.Messages))
	for i, msg := range c.Messages {
		roles[i], texts[i] = string(msg.Role), msg.Text
	}
	th := views.ThemeFor(m.Prefs.Theme, m.Prefs.Accent)
	m.transcript.SetContent(views.RenderTranscript(roles, texts, th))
	m.transcript.GotoBottom()
}

func imageExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
