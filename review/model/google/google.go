// Package google implements model.ChatModel for Google's Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/quizsmith/review-go/review/model"
)

// ChatModel wraps the official generative-ai-go client.
type ChatModel struct {
	client *genai.Client
}

// New creates a Gemini backend with the given API key.
//
// Unlike the other backends, the genai client performs setup work at
// construction and can fail, so New returns an error.
func New(ctx context.Context, apiKey string) (*ChatModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &ChatModel{client: client}, nil
}

// Close releases the underlying client's resources.
func (m *ChatModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Chat implements model.ChatModel.
//
// Gemini takes a single prompt rather than role-tagged turns, so the
// messages are flattened: system content first, then the conversation.
func (m *ChatModel) Chat(ctx context.Context, modelID string, messages []model.Message, temperature float64) (string, error) {
	gm := m.client.GenerativeModel(modelID)
	gm.SetTemperature(float32(temperature))

	resp, err := gm.GenerateContent(ctx, genai.Text(flattenPrompt(messages)))
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

// flattenPrompt joins all message content in order, blank-line
// separated, regardless of role.
func flattenPrompt(messages []model.Message) string {
	var prompt strings.Builder
	for _, msg := range messages {
		if prompt.Len() > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(msg.Content)
	}
	return prompt.String()
}

// mapError converts SDK errors to *model.TransportError.
func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &model.TransportError{
			Provider:   "google",
			StatusCode: gerr.Code,
			Body:       gerr.Body,
			Cause:      err,
		}
	}
	return &model.TransportError{
		Provider: "google",
		Body:     err.Error(),
		Cause:    err,
	}
}
