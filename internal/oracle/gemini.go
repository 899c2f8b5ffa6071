package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Models names the provider models per capability.
type Models struct {
	Reasoning string
	Chat      string
	Image     string
}

func DefaultModels() Models {
	return Models{
		Reasoning: "gemini-3-pro-preview",
		Chat:      "gemini-3-flash-preview",
		Image:     "gemini-2.5-flash-image",
	}
}

type GeminiConfig struct {
	APIKey     string
	Models     Models
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini implements Provider on the Gemini API.
type Gemini struct {
	client *genai.Client
	models Models
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	models := cfg.Models
	defaults := DefaultModels()
	if models.Reasoning == "" {
		models.Reasoning = defaults.Reasoning
	}
	if models.Chat == "" {
		models.Chat = defaults.Chat
	}
	if models.Image == "" {
		models.Image = defaults.Image
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("oracle: new gemini client: %w", err)
	}
	return &Gemini{client: client, models: models}, nil
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subtasks": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Refined steps that complete the task.",
		},
		"estimatedTime": {
			Type:        genai.TypeString,
			Description: "Estimated time to complete the task.",
		},
	},
	Required: []string{"subtasks", "estimatedTime"},
}

func (g *Gemini) AnalyzeTask(ctx context.Context, title, description string) (Suggestion, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Reasoning, genai.Text(analyzePrompt(title, description)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionSchema,
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("oracle: analyze task: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Suggestion{}, ErrEmptyResponse
	}
	var out Suggestion
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Suggestion{}, fmt.Errorf("oracle: decode suggestion: %w", err)
	}
	return out, nil
}

func (g *Gemini) Chat(ctx context.Context, prompt string, attachment *Attachment) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if attachment != nil && len(attachment.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(attachment.Data, attachment.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Chat, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(Persona, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("oracle: chat: %w", err)
	}
	return resp.Text(), nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Chat, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system+noMarkdown, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("oracle: generate text: %w", err)
	}
	return resp.Text(), nil
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Image, genai.Text(imagePrompt(prompt)), nil)
	if err != nil {
		return Image{}, fmt.Errorf("oracle: generate image: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Image{}, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return Image{Data: part.InlineData.Data, MIMEType: mime}, nil
	}
	return Image{}, ErrNoImage
}

func (g *Gemini) Search(ctx context.Context, query string) (Grounded, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Chat, genai.Text(query), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return Grounded{}, fmt.Errorf("oracle: search: %w", err)
	}
	out := Grounded{Text: resp.Text(), Sources: make([]Source, 0)}
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return out, nil
	}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out.Sources = append(out.Sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out, nil
}
