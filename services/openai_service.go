package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIService captions images through any OpenAI compatible chat completions API.
type OpenAIService struct {
	Model string

	client *openai.Client
	logger *zap.Logger
}

// NewOpenAIService creates a new instance of OpenAIService
func NewOpenAIService(apiKey, model, baseURL string, httpClient *http.Client, logger *zap.Logger) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &OpenAIService{
		Model:  model,
		client: openai.NewClientWithConfig(config),
		logger: logger,
	}
}

func (s *OpenAIService) Resolve(ctx context.Context, image models.ImageSource, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: image.DataURL()},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrRemoteCall, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no valid response received", utils.ErrRemoteCall)
	}

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		return "", fmt.Errorf("%w: empty caption (finish reason %q)", utils.ErrRemoteCall, resp.Choices[0].FinishReason)
	}

	s.logger.Debug("caption generated", zap.String("model", s.Model), zap.Int("length", len(caption)))
	return caption, nil
}
