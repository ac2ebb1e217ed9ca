package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"google.golang.org/genai"
)

// GeminiConfig selects the backend: with an APIKey the Gemini API is used
// directly, otherwise Vertex AI with project and location.
type GeminiConfig struct {
	ProjectID string
	Location  string
	APIKey    string
	ModelName string
}

// GeminiClient implements the intent-classification, revision, analysis and
// advice ports on top of Gemini.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.0-flash"
	}

	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.ProjectID != "" && cfg.Location != "":
		cc.Project = cfg.ProjectID
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("either an API key or project and location must be set")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: cfg.ModelName,
	}, nil
}

func (g *GeminiClient) generate(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
		TopP:              &topP,
		MaxOutputTokens:   maxTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// ClassifyIntent implements domain.IntentClassifier.
func (g *GeminiClient) ClassifyIntent(ctx context.Context, text string, sctx domain.SessionContext) (domain.Intent, error) {
	out, err := g.generate(ctx, intentSystemPrompt, BuildIntentPrompt(text, sctx), 0, 16)
	if err != nil {
		return "", err
	}
	return ParseIntent(out), nil
}

// ReviseResponse implements domain.ResponseReviser.
func (g *GeminiClient) ReviseResponse(ctx context.Context, req domain.RevisionRequest) (string, error) {
	return g.generate(ctx, revisionSystemPrompt, BuildRevisionPrompt(req), 0.7, 2048)
}

// SummarizeReview implements part of domain.ReviewAnalyst.
func (g *GeminiClient) SummarizeReview(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, summarySystemPrompt, "Review:\n"+text, 0.3, 256)
}

// DraftResponse implements part of domain.ReviewAnalyst.
func (g *GeminiClient) DraftResponse(ctx context.Context, item *domain.ReviewItem, restaurant string) (string, error) {
	return g.generate(ctx, draftSystemPrompt, BuildDraftPrompt(item, restaurant), 0.8, 2048)
}

// Advise implements domain.Advisor.
func (g *GeminiClient) Advise(ctx context.Context, question string) (string, error) {
	return g.generate(ctx, advisorSystemPrompt, question, 0.7, 2048)
}
