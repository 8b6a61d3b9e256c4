package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GeminiService calls the generateContent endpoint of the Gemini API.
type GeminiService struct {
	APIKey  string
	Model   string
	BaseURL string

	client *http.Client
	logger *zap.Logger
}

func NewGeminiService(apiKey, model, baseURL string, client *http.Client, logger *zap.Logger) *GeminiService {
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiService{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

func (s *GeminiService) Resolve(ctx context.Context, image models.ImageSource, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiBlob{MIMEType: image.MIMEType(), Data: image.Encode()}},
			},
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: error encoding request: %v", utils.ErrRemoteCall, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.BaseURL, s.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: error building request: %v", utils.ErrRemoteCall, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: error sending request: %v", utils.ErrRemoteCall, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %v", utils.ErrRemoteCall, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = string(body)
		}
		return "", fmt.Errorf("%w: API request failed with status %d: %s", utils.ErrRemoteCall, resp.StatusCode, msg)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: malformed response body", utils.ErrRemoteCall)
	}

	var texts []string
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts.#.text").Array() {
		texts = append(texts, part.String())
	}
	caption := strings.TrimSpace(strings.Join(texts, ""))
	if caption == "" {
		reason := gjson.GetBytes(body, "promptFeedback.blockReason").String()
		if reason == "" {
			reason = gjson.GetBytes(body, "candidates.0.finishReason").String()
		}
		return "", fmt.Errorf("%w: no text in response (reason %q)", utils.ErrRemoteCall, reason)
	}

	s.logger.Debug("caption generated", zap.String("model", s.Model), zap.Int("length", len(caption)))
	return caption, nil
}
