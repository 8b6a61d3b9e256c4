package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ImgAltText/utils"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBuild(fs afero.Fs, resolver CaptionResolver, observerJS bool) *BuildService {
	logger := zap.NewNop()
	injector := NewInjectorService(resolver, "prompt", observerJS, "imageObserver", logger)
	plugin := NewAltTextPlugin(injector, observerJS, "imageObserver")
	pipeline := NewPipeline(false, logger, plugin)
	return NewBuildService(fs, "dist", "./src/index.js", pipeline, plugin, logger)
}

func TestBuildServiceRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/index.html", []byte(`<body><img src="logo.png"></body>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/pages/about.html", []byte(`<body><img src="../logo.png" alt="Logo"></body>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/logo.png", []byte("logo"), 0o644))

	report, err := newTestBuild(fs, &stubResolver{fallback: "Company logo"}, true).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.HTMLFiles)
	assert.Equal(t, 1, report.Captions)
	assert.Equal(t, []string{"imageObserver.js"}, report.Emitted)
	assert.Equal(t, []string{"imageObserver.js", "index.html", "pages/about.html"}, report.Written)

	index, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), `alt="Company logo"`)
	assert.Contains(t, string(index), `<script src="imageObserver.js" type="text/javascript"></script>`)

	exists, err := afero.Exists(fs, "dist/imageObserver.js")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuildServiceRerunIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/index.html", []byte(`<body><img src="logo.png"></body>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/about/index.html", []byte(`<body><p>about</p></body>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/logo.png", []byte("logo"), 0o644))

	resolver := &stubResolver{fallback: "Company logo"}
	_, err := newTestBuild(fs, resolver, true).Run(context.Background())
	require.NoError(t, err)
	first, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)

	report, err := newTestBuild(fs, resolver, true).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Written)
	assert.Equal(t, 0, report.Captions)
	assert.Equal(t, 1, resolver.Calls())

	second, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(string(second), "<script"))

	about, err := afero.ReadFile(fs, "dist/about/index.html")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(about), `<script src="../imageObserver.js"`))
}

func TestBuildServiceFailureWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := []byte(`<body><img src="logo.png"></body>`)
	require.NoError(t, afero.WriteFile(fs, "dist/index.html", original, 0o644))
	require.NoError(t, afero.WriteFile(fs, "dist/logo.png", []byte("logo"), 0o644))

	resolver := &stubResolver{err: fmt.Errorf("%w: unauthorized", utils.ErrRemoteCall)}
	_, err := newTestBuild(fs, resolver, false).Run(context.Background())
	assert.ErrorIs(t, err, utils.ErrRemoteCall)

	index, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)
	assert.Equal(t, original, index)
}

func TestLoadAssetsMissingDir(t *testing.T) {
	_, err := LoadAssets(afero.NewMemMapFs(), "nowhere")
	assert.Error(t, err)
}
