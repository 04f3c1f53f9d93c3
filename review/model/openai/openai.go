// Package openai implements model.ChatModel for OpenAI's chat API.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/quizsmith/review-go/review/model"
)

// ChatModel wraps the official openai-go client.
//
// Safe for concurrent use; the underlying SDK client handles concurrent
// requests.
type ChatModel struct {
	client openai.Client
}

// New creates an OpenAI backend with the given API key.
func New(apiKey string) *ChatModel {
	return &ChatModel{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Chat implements model.ChatModel.
//
// A completion with no choices returns "" and a nil error; the caller
// treats empty content as a parse problem, not a transport one.
func (m *ChatModel) Chat(ctx context.Context, modelID string, messages []model.Message, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(modelID),
		Temperature: openai.Float(temperature),
		Messages:    mapMessages(messages),
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapError(err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// mapMessages converts to the SDK's role-discriminated unions. Roles
// other than system and assistant map to user messages.
func mapMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	return params
}

// mapError converts SDK errors to *model.TransportError.
func mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &model.TransportError{
			Provider:   "openai",
			StatusCode: apierr.StatusCode,
			Body:       apierr.Error(),
			Cause:      err,
		}
	}
	return &model.TransportError{
		Provider: "openai",
		Body:     err.Error(),
		Cause:    err,
	}
}
