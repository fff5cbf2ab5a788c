package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// GenAIConfig holds settings for the Gemini client
type GenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, used against local fakes.
	BaseURL string
}

// GenAIClient implements Client using Google's Gemini API
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a Gemini client
func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GENAI_API_KEY is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Model returns the model name requests are sent to
func (c *GenAIClient) Model() string {
	return c.model
}

// Generate sends instruction, image and query as one user turn and returns the text answer
func (c *GenAIClient) Generate(ctx context.Context, instruction string, img Image, query string) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrNoImage
	}

	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromBytes(img.Data, img.MimeType),
	}
	// The API rejects empty text parts.
	if strings.TrimSpace(query) != "" {
		parts = append(parts, genai.NewPartFromText(query))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	log.Debug().Str("model", c.model).Str("mimeType", img.MimeType).Int("imageBytes", len(img.Data)).Msg("Sending vision request")

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		// The upstream message is surfaced verbatim on the inquiry.
		log.Warn().Err(err).Str("model", c.model).Msg("GenAI generate failed")
		return "", err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
