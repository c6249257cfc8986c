package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

const maxTokens = 512

// Classifier prompts a chat model to score the emotion taxonomy, as an
// alternative to running the pretrained model locally.
type Classifier struct {
	*openai.Client
	Model string
}

func NewClassifier(apiKey, model string) *Classifier {
	return &Classifier{Client: openai.NewClient(apiKey), Model: model}
}

type scoreResponse struct {
	Scores []domain.EmotionScore `json:"scores"`
}

func (c *Classifier) Classify(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(text)},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	return parsed.Scores, nil
}

func (c *Classifier) Ready() bool { return true }
