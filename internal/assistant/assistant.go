// Package assistant keeps the chat threads with the oracle. A user turn is
// appended before the request goes out, and every user turn gets exactly one
// assistant turn back: the reply, or Apology when the request fails.
package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/oracle"
)

const DefaultTitle = "New conversation"

// Apology is appended in place of a reply that failed or came back empty.
const Apology = oracle.Apology

const (
	newTitleRunes = 20
	retitleRunes  = 25
)

type Chatter interface {
	Chat(ctx context.Context, prompt string, attachment *oracle.Attachment) (string, error)
}

type Persister interface {
	SaveConversations(ctx context.Context, convs []model.Conversation) error
}

type Options struct {
	Chatter   Chatter
	Persister Persister
	Now       func() time.Time
	NewID     func() string
	Logger    zerolog.Logger
}

type Assistant struct {
	convs  []model.Conversation
	active string

	chatter   Chatter
	persister Persister
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger
}

// Pending is a user turn waiting for its assistant turn.
type Pending struct {
	ConversationID string
	MessageID      string
	Prompt         string
}

func New(convs []model.Conversation, opts Options) *Assistant {
	a := &Assistant{
		chatter:   opts.Chatter,
		persister: opts.Persister,
		now:       opts.Now,
		newID:     opts.NewID,
		log:       opts.Logger,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}
	for _, c := range convs {
		a.convs = append(a.convs, cloneConversation(c))
	}
	return a
}

// Conversations returns copies, most recent first.
func (a *Assistant) Conversations() []model.Conversation {
	out := make([]model.Conversation, 0, len(a.convs))
	for _, c := range a.convs {
		out = append(out, cloneConversation(c))
	}
	return out
}

func (a *Assistant) Conversation(id string) (model.Conversation, bool) {
	idx := a.indexOf(id)
	if idx < 0 {
		return model.Conversation{}, false
	}
	return cloneConversation(a.convs[idx]), true
}

func (a *Assistant) Active() (model.Conversation, bool) {
	if a.active == "" {
		return model.Conversation{}, false
	}
	return a.Conversation(a.active)
}

func (a *Assistant) ActiveID() string {
	return a.active
}

func (a *Assistant) Select(id string) bool {
	if a.indexOf(id) < 0 {
		return false
	}
	a.active = id
	return true
}

// StartConversation prepends an empty conversation and makes it active.
func (a *Assistant) StartConversation() model.Conversation {
	c := a.prepend(DefaultTitle)
	a.mirror()
	return cloneConversation(c)
}

func (a *Assistant) DeleteConversation(id string) bool {
	idx := a.indexOf(id)
	if idx < 0 {
		return false
	}
	a.convs = append(a.convs[:idx], a.convs[idx+1:]...)
	if a.active == id {
		a.active = ""
	}
	a.mirror()
	return true
}

// Begin appends the user turn. Blank text is declined.
func (a *Assistant) Begin(text string) (Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, false
	}
	idx := a.indexOf(a.active)
	if idx < 0 {
		a.prepend(truncate(text, newTitleRunes))
		idx = 0
	}
	c := &a.convs[idx]
	if c.Title == DefaultTitle && len(c.Messages) == 0 {
		c.Title = truncate(text, retitleRunes)
	}
	msg := model.Message{ID: a.newID(), Role: model.RoleUser, Text: text}
	c.Messages = append(c.Messages, msg)
	a.mirror()
	return Pending{ConversationID: c.ID, MessageID: msg.ID, Prompt: text}, true
}

// Complete appends the assistant turn answering p. A failed or empty reply
// becomes Apology. If the conversation was deleted meanwhile nothing happens.
func (a *Assistant) Complete(p Pending, reply string, err error) (model.Message, bool) {
	idx := a.indexOf(p.ConversationID)
	if idx < 0 {
		return model.Message{}, false
	}
	text := strings.TrimSpace(reply)
	if err != nil {
		a.log.Warn().Err(err).Str("conversation_id", p.ConversationID).Msg("chat request failed")
		text = ""
	}
	if text == "" {
		text = Apology
	}
	msg := model.Message{ID: a.newID(), Role: model.RoleAssistant, Text: text}
	a.convs[idx].Messages = append(a.convs[idx].Messages, msg)
	a.mirror()
	return msg, true
}

// Ask runs the request for p. It touches no assistant state, so it may run
// off the caller's goroutine.
func (a *Assistant) Ask(ctx context.Context, p Pending) (string, error) {
	if a.chatter == nil {
		return "", oracle.ErrMissingCredential
	}
	return a.chatter.Chat(ctx, p.Prompt, nil)
}

// SendMessage is Begin, Ask and Complete in one blocking call.
func (a *Assistant) SendMessage(ctx context.Context, text string) (model.Message, bool) {
	p, ok := a.Begin(text)
	if !ok {
		return model.Message{}, false
	}
	reply, err := a.Ask(ctx, p)
	return a.Complete(p, reply, err)
}

func (a *Assistant) prepend(title string) model.Conversation {
	c := model.Conversation{
		ID:        a.newID(),
		Title:     title,
		Messages:  make([]model.Message, 0),
		CreatedAt: model.Millis(a.now()),
	}
	a.convs = append([]model.Conversation{c}, a.convs...)
	a.active = c.ID
	return c
}

func (a *Assistant) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range a.convs {
		if a.convs[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *Assistant) mirror() {
	if a.persister == nil {
		return
	}
	if err := a.persister.SaveConversations(context.Background(), a.Conversations()); err != nil {
		a.log.Error().Err(err).Msg("mirror conversations failed")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func cloneConversation(c model.Conversation) model.Conversation {
	msgs := make([]model.Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}
