package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates a Gemini client on Vertex AI.
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, errors.New("gcp project and location must be set for vertex")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return newGenaiClient(client, modelName), nil
}

// NewGeminiClient creates a Gemini client on the public Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*VertexClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini client requires an API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return newGenaiClient(client, modelName), nil
}

func newGenaiClient(client *genai.Client, modelName string) *VertexClient {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &VertexClient{client: client, modelName: modelName}
}

// Complete implements domain.CompletionClient.
func (v *VertexClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	p := SplitPrompt(req)

	var contents []*genai.Content
	for _, m := range p.Turns {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := req.Temperature
	topP := req.TopP

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return domain.CompletionResponse{}, errors.New("vertex returned empty text")
	}

	out := domain.CompletionResponse{Content: text}
	if res.UsageMetadata != nil {
		out.TotalTokens = int(res.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}
