package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("model: invalid message role")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
}

func (c Conversation) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: conversation id is required")
	}
	for _, msg := range c.Messages {
		if !msg.Role.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
		}
	}
	return nil
}

// Pending reports whether the last turn is a user turn still waiting for its reply.
func (c Conversation) Pending() bool {
	return len(c.Messages) > 0 && c.Messages[len(c.Messages)-1].Role == RoleUser
}
