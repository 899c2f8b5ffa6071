// Package oracle is the boundary to the generative-language provider.
package oracle

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingCredential = errors.New("oracle: missing API key")
	ErrEmptyResponse     = errors.New("oracle: empty response")
	ErrNoImage           = errors.New("oracle: no image in response")
)

// Suggestion is the structured task breakdown returned by AnalyzeTask.
type Suggestion struct {
	Subtasks      []string `json:"subtasks"`
	EstimatedTime string   `json:"estimatedTime"`
}

type Attachment struct {
	Data     []byte
	MIMEType string
}

type Image struct {
	Data     []byte
	MIMEType string
}

type Source struct {
	Title string
	URI   string
}

// Grounded is a search-grounded answer and the web pages it cites.
type Grounded struct {
	Text    string
	Sources []Source
}

type Provider interface {
	AnalyzeTask(ctx context.Context, title, description string) (Suggestion, error)
	Chat(ctx context.Context, prompt string, attachment *Attachment) (string, error)
	GenerateText(ctx context.Context, prompt, system string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (Image, error)
	Search(ctx context.Context, query string) (Grounded, error)
}

// Offline stands in when no credential is configured. Every call fails with
// ErrMissingCredential.
type Offline struct{}

func (Offline) AnalyzeTask(context.Context, string, string) (Suggestion, error) {
	return Suggestion{}, ErrMissingCredential
}

func (Offline) Chat(context.Context, string, *Attachment) (string, error) {
	return "", ErrMissingCredential
}

func (Offline) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrMissingCredential
}

func (Offline) GenerateImage(context.Context, string) (Image, error) {
	return Image{}, ErrMissingCredential
}

func (Offline) Search(context.Context, string) (Grounded, error) {
	return Grounded{}, ErrMissingCredential
}

// WithTimeout bounds every call made through p.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return timed{next: p, timeout: d}
}

type timed struct {
	next    Provider
	timeout time.Duration
}

func (t timed) AnalyzeTask(ctx context.Context, title, description string) (Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.AnalyzeTask(ctx, title, description)
}

func (t timed) Chat(ctx context.Context, prompt string, attachment *Attachment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Chat(ctx, prompt, attachment)
}

func (t timed) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GenerateText(ctx, prompt, system)
}

func (t timed) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GenerateImage(ctx, prompt)
}

func (t timed) Search(ctx context.Context, query string) (Grounded, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Search(ctx, query)
}
