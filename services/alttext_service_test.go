package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAltTextService(t *testing.T, resolver CaptionResolver) *AltTextService {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("images", "photo.png"), []byte("mountain"), 0o644))
	require.NoError(t, fs.MkdirAll(filepath.Join("images", "nested"), 0o755))
	require.NoError(t, afero.WriteFile(fs, "secret.png", []byte("secret"), 0o644))
	return NewAltTextService(fs, "images", resolver, "prompt", zap.NewNop())
}

func TestAltTextServiceDescribe(t *testing.T) {
	resolver := &stubResolver{captions: map[string]string{b64("mountain"): "A mountain at sunset"}}
	svc := newTestAltTextService(t, resolver)

	caption, err := svc.Describe(context.Background(), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "A mountain at sunset", caption)
	require.Len(t, resolver.calls, 1)
	assert.Equal(t, "prompt", resolver.calls[0].Prompt)

	_, err = svc.Describe(context.Background(), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.Calls(), "captions are never cached")
}

func TestAltTextServiceNotFound(t *testing.T) {
	resolver := &stubResolver{fallback: "unused"}
	svc := newTestAltTextService(t, resolver)

	for _, file := range []string{"missing.png", "nested"} {
		caption, err := svc.Describe(context.Background(), file)
		require.NoError(t, err)
		assert.Equal(t, models.AltTextNotFound, caption)
	}
	assert.Equal(t, 0, resolver.Calls())
}

// statErrFs fails every Stat with err.
type statErrFs struct {
	afero.Fs
	err error
}

func (f statErrFs) Stat(name string) (os.FileInfo, error) {
	return nil, &os.PathError{Op: "stat", Path: name, Err: f.err}
}

func TestAltTextServiceStatFailure(t *testing.T) {
	resolver := &stubResolver{fallback: "unused"}
	svc := NewAltTextService(statErrFs{Fs: afero.NewMemMapFs(), err: os.ErrPermission}, "images", resolver, "prompt", zap.NewNop())

	caption, err := svc.Describe(context.Background(), "photo.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Empty(t, caption)
	assert.Equal(t, http.StatusInternalServerError, utils.WrapError(err).StatusCode)
	assert.Equal(t, 0, resolver.Calls())

	svc = NewAltTextService(statErrFs{Fs: afero.NewMemMapFs(), err: os.ErrNotExist}, "images", resolver, "prompt", zap.NewNop())
	caption, err = svc.Describe(context.Background(), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, models.AltTextNotFound, caption)
}

func TestAltTextServiceRejectsEscapes(t *testing.T) {
	resolver := &stubResolver{fallback: "unused"}
	svc := newTestAltTextService(t, resolver)

	for _, file := range []string{"../secret.png", "..", ".", "nested/photo.png", `..\secret.png`, "/etc/passwd", "a\x00b"} {
		_, err := svc.Describe(context.Background(), file)
		assert.ErrorIs(t, err, utils.ErrPathEscape, file)
	}

	_, err := svc.Describe(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrInvalidFileName)
	assert.Equal(t, 0, resolver.Calls())
}

func TestAltTextServiceRemoteFailure(t *testing.T) {
	resolver := &stubResolver{err: fmt.Errorf("%w: timeout", utils.ErrRemoteCall)}
	svc := newTestAltTextService(t, resolver)

	_, err := svc.Describe(context.Background(), "photo.png")
	assert.ErrorIs(t, err, utils.ErrRemoteCall)
}
