package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// ResponsesClient uses the OpenAI Responses API. The persona prompt goes in
// as instructions and the transcript as input items.
type ResponsesClient struct {
	client *openai.Client
	model  string
}

func NewResponsesClient(apiKey, baseURL, model string) (*ResponsesClient, error) {
	if apiKey == "" {
		return nil, errors.New("responses client requires an API key")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &ResponsesClient{client: &client, model: model}, nil
}

// Complete implements domain.CompletionClient.
func (c *ResponsesClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	p := SplitPrompt(req)

	items := make([]responses.ResponseInputItemUnionParam, 0, len(p.Turns))
	for _, t := range p.Turns {
		role := responses.EasyInputMessageRoleUser
		if t.Role == domain.RoleAssistant {
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(t.Content, role))
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(req.MaxTokens)),
		Temperature:     openai.Float(float64(req.Temperature)),
		TopP:            openai.Float(float64(req.TopP)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	if p.System != "" {
		params.Instructions = openai.String(p.System)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai responses: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return domain.CompletionResponse{}, errors.New("openai returned empty text")
	}

	return domain.CompletionResponse{
		Content:     text,
		TotalTokens: int(resp.Usage.TotalTokens),
	}, nil
}
