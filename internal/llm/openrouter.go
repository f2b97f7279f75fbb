package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/sakif/gossip/internal/apperror"
	"github.com/sakif/gossip/internal/model"
)

// compile-time check that *OpenRouter implements Gateway
var _ Gateway = (*OpenRouter)(nil)

// OpenRouter calls an OpenAI-compatible completion endpoint.
//
// OpenRouter speaks the OpenAI wire protocol, so we reuse the go-openai
// client and only swap the base URL. Model selection is a fixed
// configuration value, not a runtime parameter.
type OpenRouter struct {
	client *openai.Client
	model  string
}

// NewOpenRouter creates a gateway against the given OpenAI-compatible
// endpoint. baseURL is typically "https://openrouter.ai/api/v1".
func NewOpenRouter(apiKey, baseURL, chatModel string) *OpenRouter {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = baseURL

	return &OpenRouter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  chatModel,
	}
}

// Complete sends the full conversation context and returns the reply text.
//
// Transport and provider errors come back wrapped as apperror.Upstream so
// callers and logs can tell a provider failure apart from our own faults.
// A response with no choices or empty content returns "" without an error —
// the service layer substitutes the fixed placeholder in that case.
func (g *OpenRouter) Complete(ctx context.Context, messages []model.PromptMessage) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", apperror.Upstream("openrouter", err.Error())
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
