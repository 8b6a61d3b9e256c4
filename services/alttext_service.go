package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// AltTextService answers runtime alt text lookups for images in one directory.
type AltTextService struct {
	fs       afero.Fs
	imageDir string
	resolver CaptionResolver
	prompt   string
	logger   *zap.Logger
}

func NewAltTextService(fs afero.Fs, imageDir string, resolver CaptionResolver, prompt string, logger *zap.Logger) *AltTextService {
	return &AltTextService{
		fs:       fs,
		imageDir: filepath.Clean(imageDir),
		resolver: resolver,
		prompt:   prompt,
		logger:   logger,
	}
}

// Describe returns the caption for file. A file that does not exist yields
// models.AltTextNotFound and no error.
func (s *AltTextService) Describe(ctx context.Context, file string) (string, error) {
	path, err := s.ResolvePath(file)
	if err != nil {
		return "", err
	}

	info, err := s.fs.Stat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("error reading %s: %w", file, err)
	}
	if err != nil || info.IsDir() {
		s.logger.Debug("image not found", zap.String("file", file))
		return models.AltTextNotFound, nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", file, err)
	}

	caption, err := s.resolver.Resolve(ctx, models.NewRawImage(data), s.prompt)
	if err != nil {
		return "", err
	}
	return caption, nil
}

// ResolvePath joins a bare file name onto the image directory.
func (s *AltTextService) ResolvePath(file string) (string, error) {
	if file == "" {
		return "", utils.ErrInvalidFileName
	}
	if file == "." || file == ".." || strings.ContainsAny(file, "/\\\x00") || filepath.VolumeName(file) != "" {
		return "", fmt.Errorf("%w: %q", utils.ErrPathEscape, file)
	}

	path := filepath.Join(s.imageDir, file)
	rel, err := filepath.Rel(s.imageDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", utils.ErrPathEscape, file)
	}
	return path, nil
}
