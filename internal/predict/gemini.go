package predict

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

const instruction = "You predict the likely outcome of a social media advertising campaign " +
	"(ROI, conversion, engagement) from its description. Answer in one or two sentences."

// GeminiPredictor is a hosted stand-in for the fine-tuned model.
type GeminiPredictor struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiPredictor(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiPredictor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	return newGeminiPredictor(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, maxTokens)
}

func newGeminiPredictor(ctx context.Context, cc *genai.ClientConfig, model string, maxTokens int) (*GeminiPredictor, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if maxTokens > math.MaxInt32 {
		maxTokens = math.MaxInt32
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiPredictor{client: client, model: model, maxTokens: maxTokens}, nil
}

func (g *GeminiPredictor) Predict(ctx context.Context, description string) (string, error) {
	if err := checkDescription(description); err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(description), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		MaxOutputTokens:   int32(g.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}
