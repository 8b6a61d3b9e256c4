package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ImgAltText/models"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BuildService runs one build pass over an emitted output directory.
type BuildService struct {
	fs        afero.Fs
	outputDir string
	entry     any
	pipeline  *Pipeline
	plugin    *AltTextPlugin
	logger    *zap.Logger
}

func NewBuildService(fs afero.Fs, outputDir string, entry any, pipeline *Pipeline, plugin *AltTextPlugin, logger *zap.Logger) *BuildService {
	return &BuildService{
		fs:        fs,
		outputDir: outputDir,
		entry:     entry,
		pipeline:  pipeline,
		plugin:    plugin,
		logger:    logger,
	}
}

// Run loads the outputs, runs the pipeline and writes back new or changed
// files. Nothing is written when the pipeline fails.
func (s *BuildService) Run(ctx context.Context) (*models.BuildReport, error) {
	assets, err := LoadAssets(s.fs, s.outputDir)
	if err != nil {
		return nil, err
	}

	original := make(map[string][]byte, len(assets))
	for name, asset := range assets {
		original[name] = asset.Source
	}

	emitted, err := s.pipeline.Run(ctx, s.entry, assets)
	if err != nil {
		return nil, err
	}

	report := &models.BuildReport{Emitted: emitted}
	for _, asset := range assets {
		if asset.IsHTML() {
			report.HTMLFiles++
		}
	}
	if s.plugin != nil {
		report.Captions = s.plugin.Captions()
	}

	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		asset := assets[name]
		if prev, ok := original[name]; ok && bytes.Equal(prev, asset.Source) {
			continue
		}
		target := filepath.Join(s.outputDir, filepath.FromSlash(name))
		if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("error creating %s: %w", filepath.Dir(target), err)
		}
		if err := afero.WriteFile(s.fs, target, asset.Source, 0o644); err != nil {
			return nil, fmt.Errorf("error writing %s: %w", target, err)
		}
		report.Written = append(report.Written, name)
	}

	s.logger.Info("build pass finished",
		zap.Int("html_files", report.HTMLFiles),
		zap.Int("captions", report.Captions),
		zap.Int("written", len(report.Written)),
		zap.Int("total_size", assets.TotalSize()),
	)
	return report, nil
}

// LoadAssets reads every regular file under dir, keyed by slash separated relative path.
func LoadAssets(fs afero.Fs, dir string) (models.AssetSet, error) {
	assets := models.AssetSet{}
	err := afero.Walk(fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		content, err := afero.ReadFile(fs, p)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", p, err)
		}
		assets.Add(models.NewAsset(filepath.ToSlash(rel), content))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error loading build output %s: %w", dir, err)
	}
	return assets, nil
}
