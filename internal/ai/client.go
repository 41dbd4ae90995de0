package ai

import (
	"context"
	"fmt"
	"strings"

	"quant_architect/internal/config"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Client talks to the Gemini API through the genai SDK.
type Client struct {
	genai *genai.Client
	model string
}

var _ Generator = (*Client)(nil)

// NewGenerator returns a Gemini-backed Generator, or Unconfigured when the
// API key is absent.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	if !cfg.GeminiAPIKey.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not found. Analysis will serve the default readout.")
		return Unconfigured{}, nil
	}

	model := cfg.GeminiModel
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey.Value(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	log.Info().Str("model", model).Msg("Gemini generator initialized")
	return &Client{genai: client, model: model}, nil
}

func (c *Client) Configured() bool { return true }

// Generate sends one request and concatenates the text parts of the first
// candidate.
func (c *Client) Generate(ctx context.Context, p Prompt) (string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.Temperature),
	}
	if p.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Search {
		gc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.genai.Models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromText(p.Instruction, genai.RoleUser)},
		gc,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
