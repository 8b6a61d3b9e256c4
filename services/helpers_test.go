package services

import (
	"context"
	"sync"

	"ImgAltText/models"
)

type resolverCall struct {
	Encoded string
	Prompt  string
}

// stubResolver answers captions by base64 payload and records every call.
type stubResolver struct {
	mu       sync.Mutex
	captions map[string]string
	fallback string
	err      error
	calls    []resolverCall
}

func (s *stubResolver) Resolve(_ context.Context, image models.ImageSource, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, resolverCall{Encoded: image.Encode(), Prompt: prompt})
	if s.err != nil {
		return "", s.err
	}
	if caption, ok := s.captions[image.Encode()]; ok {
		return caption, nil
	}
	return s.fallback, nil
}

func (s *stubResolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
