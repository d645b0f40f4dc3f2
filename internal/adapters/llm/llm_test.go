package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/llm"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

func request() domain.CompletionRequest {
	return domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "be nice"},
			{Role: domain.RoleUser, Content: "hello"},
			{Role: domain.RoleAssistant, Content: "hi there"},
			{Role: domain.RoleUser, Content: "how are you?"},
		},
		Temperature: 1.0,
		TopP:        0.95,
		MaxTokens:   200,
	}
}

func TestSplitPrompt(t *testing.T) {
	p := llm.SplitPrompt(request())

	assert.Equal(t, "be nice", p.System)
	require.Len(t, p.Turns, 3)
	assert.Equal(t, domain.RoleUser, p.Turns[0].Role)
	assert.Equal(t, "how are you?", p.LastUserText())

	assert.Empty(t, llm.SplitPrompt(domain.CompletionRequest{}).LastUserText())
}

func TestMockLLM(t *testing.T) {
	ctx := context.Background()

	m := llm.NewMockLLM()
	res, err := m.Complete(ctx, request())
	require.NoError(t, err)
	assert.Contains(t, res.Content, `"how are you?"`)
	assert.Positive(t, res.TotalTokens)
	assert.Len(t, m.Requests, 1)

	boom := errors.New("rate limited")
	_, err = llm.NewFailingLLM(boom).Complete(ctx, request())
	assert.ErrorIs(t, err, boom)
}

func TestChatClient_Complete(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "doing great"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`)
	}))
	defer srv.Close()

	c, err := llm.NewChatClient("test-key", srv.URL, "")
	require.NoError(t, err)

	res, err := c.Complete(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "doing great", res.Content)
	assert.Equal(t, 13, res.TotalTokens)

	assert.Equal(t, llm.DefaultGroqModel, got["model"])
	assert.EqualValues(t, 200, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestChatClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error": {"message": "upstream exploded", "type": "server_error"}}`)
	}))
	defer srv.Close()

	c, err := llm.NewChatClient("test-key", srv.URL, "m")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func responsesServer(t *testing.T, got *map[string]any, text string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, got)

		content := `[]`
		if text != "" {
			content = `[{"type": "output_text", "text": "` + text + `", "annotations": []}]`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "resp_1",
			"object": "response",
			"created_at": 1767225600,
			"model": "gpt-4o-mini",
			"status": "completed",
			"output": [{"type": "message", "id": "msg_1", "role": "assistant", "status": "completed", "content": `+content+`}],
			"usage": {"input_tokens": 10, "output_tokens": 3, "total_tokens": 13,
				"input_tokens_details": {"cached_tokens": 0}, "output_tokens_details": {"reasoning_tokens": 0}}
		}`)
	}))
}

func TestResponsesClient_Complete(t *testing.T) {
	var got map[string]any
	srv := responsesServer(t, &got, "doing great")
	defer srv.Close()

	c, err := llm.NewResponsesClient("test-key", srv.URL, "")
	require.NoError(t, err)

	res, err := c.Complete(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "doing great", res.Content)
	assert.Equal(t, 13, res.TotalTokens)

	assert.Equal(t, llm.DefaultOpenAIModel, got["model"])
	assert.Equal(t, "be nice", got["instructions"])
	assert.EqualValues(t, 200, got["max_output_tokens"])

	input, ok := got["input"].([]any)
	require.True(t, ok)
	require.Len(t, input, 3, "system prompt travels as instructions")
	first := input[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "hello", first["content"])
	assert.Equal(t, "assistant", input[1].(map[string]any)["role"])
}

func TestResponsesClient_EmptyText(t *testing.T) {
	var got map[string]any
	srv := responsesServer(t, &got, "")
	defer srv.Close()

	c, err := llm.NewResponsesClient("test-key", srv.URL, "m")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}

func TestConstructorsRequireKeys(t *testing.T) {
	_, err := llm.NewChatClient("", "", "")
	assert.Error(t, err)
	_, err = llm.NewResponsesClient("", "", "")
	assert.Error(t, err)
	_, err = llm.NewGeminiClient(context.Background(), "", "")
	assert.Error(t, err)
	_, err = llm.NewVertexClient(context.Background(), "", "", "")
	assert.Error(t, err)
}
