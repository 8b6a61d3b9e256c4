package services

import (
	"context"
	"fmt"
	"net/http"

	"ImgAltText/config/environment"
	"ImgAltText/models"

	"go.uber.org/zap"
)

// CaptionResolver turns image content into a caption using a remote vision model.
// Every call issues exactly one remote request; nothing is cached or retried.
type CaptionResolver interface {
	Resolve(ctx context.Context, image models.ImageSource, prompt string) (string, error)
}

// CaptionResolverFunc adapts a function to CaptionResolver.
type CaptionResolverFunc func(ctx context.Context, image models.ImageSource, prompt string) (string, error)

func (f CaptionResolverFunc) Resolve(ctx context.Context, image models.ImageSource, prompt string) (string, error) {
	return f(ctx, image, prompt)
}

// NewCaptionResolver picks the backend named by the caption provider setting.
func NewCaptionResolver(cfg environment.Config, logger *zap.Logger) (CaptionResolver, error) {
	httpClient := &http.Client{Timeout: cfg.Caption.Timeout}

	switch cfg.Caption.Provider {
	case environment.ProviderGemini, "":
		return NewGeminiService(cfg.Key, cfg.Caption.Model, cfg.Caption.BaseURL, httpClient, logger), nil
	case environment.ProviderOpenAI:
		return NewOpenAIService(cfg.Key, cfg.Caption.Model, cfg.Caption.BaseURL, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unknown caption provider %q", cfg.Caption.Provider)
	}
}
