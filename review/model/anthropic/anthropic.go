// Package anthropic implements model.ChatModel for Anthropic's Claude API.
package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/quizsmith/review-go/review/model"
)

// maxTokens caps response length. Agent responses are small JSON records,
// so this is generous.
const maxTokens = 2048

// ChatModel wraps the official anthropic-sdk-go client.
//
// Safe for concurrent use; the underlying SDK client handles concurrent
// requests.
type ChatModel struct {
	client anthropic.Client
}

// New creates an Anthropic backend with the given API key.
//
// The key is not validated here; catalog resolution rejects empty or
// placeholder keys before a call reaches the backend.
func New(apiKey string) *ChatModel {
	return &ChatModel{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Chat implements model.ChatModel.
//
// System messages are passed through the dedicated system field; user and
// assistant messages become conversation turns. On a non-success response
// the error is a *model.TransportError with the API status code.
func (m *ChatModel) Chat(ctx context.Context, modelID string, messages []model.Message, temperature float64) (string, error) {
	system, turns := splitMessages(messages)

	message, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelID),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		System:      system,
		Messages:    turns,
	})
	if err != nil {
		return "", mapError(err)
	}

	// Concatenate text blocks; tool-use blocks are not requested and are
	// ignored if present.
	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// splitMessages separates system content from conversation turns. Roles
// other than system and assistant map to user turns.
func splitMessages(messages []model.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case model.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return system, turns
}

// mapError converts SDK errors to *model.TransportError.
func mapError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &model.TransportError{
			Provider:   "anthropic",
			StatusCode: apierr.StatusCode,
			Body:       apierr.Error(),
			Cause:      err,
		}
	}
	return &model.TransportError{
		Provider: "anthropic",
		Body:     err.Error(),
		Cause:    err,
	}
}
