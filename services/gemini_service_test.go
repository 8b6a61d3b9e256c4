package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGeminiServiceResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "describe", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MIMEType)
		assert.Equal(t, "AQID", req.Contents[0].Parts[1].InlineData.Data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A red "},{"text":"circle\n"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	svc := NewGeminiService("secret", "gemini-1.5-flash", server.URL+"/", server.Client(), zap.NewNop())
	caption, err := svc.Resolve(context.Background(), models.NewRawImage([]byte{1, 2, 3}), "describe")
	require.NoError(t, err)
	assert.Equal(t, "A red circle", caption)
}

func TestGeminiServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`, "quota exceeded"},
		{"no candidates", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, "SAFETY"},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]},"finishReason":"MAX_TOKENS"}]}`, "MAX_TOKENS"},
		{"malformed", http.StatusOK, `not json`, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewGeminiService("secret", "gemini-1.5-flash", server.URL, server.Client(), zap.NewNop())
			_, err := svc.Resolve(context.Background(), models.NewRawImage([]byte{1}), "describe")
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrRemoteCall)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestGeminiServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := NewGeminiService("secret", "gemini-1.5-flash", url, nil, zap.NewNop())
	_, err := svc.Resolve(context.Background(), models.NewRawImage([]byte{1}), "describe")
	assert.ErrorIs(t, err, utils.ErrRemoteCall)
}
